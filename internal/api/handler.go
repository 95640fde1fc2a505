package api

import (
	"encoding/json"
	"log"
	"net/http"

	"recruiter-assistant/internal/chatbot"
)

// Cache is the part of the snapshot cache the API can drive.
type Cache interface {
	Refresh()
	CleanExpired()
}

type API struct {
	engine   *chatbot.Engine
	sessions *SessionStore
	cache    Cache // nil when the source is not cached
}

func NewAPI(engine *chatbot.Engine, sessions *SessionStore, cache Cache) *API {
	if sessions == nil {
		sessions = NewSessionStore(0)
	}
	return &API{
		engine:   engine,
		sessions: sessions,
		cache:    cache,
	}
}

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// session resolves the caller's session and echoes its id back.
func (a *API) session(w http.ResponseWriter, r *http.Request) *Session {
	sess := a.sessions.Get(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, sess.ID)
	return sess
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
