package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"recruiter-assistant/internal/chatbot"
	"recruiter-assistant/internal/insights"
)

// WaitlistResponse lists the session's waitlisted candidates.
type WaitlistResponse struct {
	Entries []chatbot.WaitlistEntry `json:"entries"`
	Count   int                     `json:"count"`
}

// WaitlistAddResponse confirms a drop onto the waitlist.
type WaitlistAddResponse struct {
	Message string                `json:"message"`
	Added   bool                  `json:"added"`
	Entry   chatbot.WaitlistEntry `json:"entry"`
	Count   int                   `json:"count"`
}

// WaitlistHandler serves GET and POST on the session waitlist
// @Summary List waitlist
// @Tags waitlist
// @Produce json
// @Param X-Session-ID header string false "Session id"
// @Success 200 {object} WaitlistResponse
// @Router /chatbot/waitlist [get]
func (a *API) WaitlistHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sess := a.session(w, r)
		entries := sess.Waitlist.List()
		if entries == nil {
			entries = []chatbot.WaitlistEntry{}
		}
		writeJSON(w, http.StatusOK, WaitlistResponse{Entries: entries, Count: len(entries)})
	case http.MethodPost:
		a.addToWaitlist(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// addToWaitlist stores a dragged email record
// @Summary Add to waitlist
// @Description Adds the sender of an email application to the session waitlist. Entries with an id already on the list are ignored.
// @Tags waitlist
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Session id"
// @Param email body insights.EmailRecord true "Email application record"
// @Success 201 {object} WaitlistAddResponse
// @Success 200 {object} WaitlistAddResponse
// @Failure 400 {object} ErrorResponse
// @Router /chatbot/waitlist [post]
func (a *API) addToWaitlist(w http.ResponseWriter, r *http.Request) {
	var rec insights.EmailRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if rec.SenderName == "" && rec.SenderEmail == "" {
		writeError(w, http.StatusBadRequest, "sender_name or sender_email is required")
		return
	}
	if rec.ID == "" {
		rec.ID = insights.ID(uuid.NewString())
	}

	sess := a.session(w, r)
	entry := chatbot.EntryFromEmail(rec, a.engine.Now())
	msg, added := a.engine.AddToWaitlist(sess.Waitlist, entry)

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, WaitlistAddResponse{
		Message: msg,
		Added:   added,
		Entry:   entry,
		Count:   sess.Waitlist.Len(),
	})
}

// RemoveFromWaitlistHandler drops one entry
// @Summary Remove from waitlist
// @Tags waitlist
// @Param X-Session-ID header string false "Session id"
// @Param id path string true "Entry id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /chatbot/waitlist/{id} [delete]
func (a *API) RemoveFromWaitlistHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := a.session(w, r)
	if !a.engine.RemoveFromWaitlist(sess.Waitlist, r.PathValue("id")) {
		writeError(w, http.StatusNotFound, "candidate not on waitlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AskAboutWaitlistedHandler answers a click on a waitlist entry
// @Summary Ask about a waitlisted candidate
// @Description Same answer as "Tell me about <name> from the waitlist" for the entry with the given id
// @Tags waitlist
// @Produce json
// @Param X-Session-ID header string false "Session id"
// @Param id path string true "Entry id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /chatbot/waitlist/{id}/ask [post]
func (a *API) AskAboutWaitlistedHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := a.session(w, r)
	if !sess.TryBeginTurn() {
		writeError(w, http.StatusTooManyRequests, "a message is already being answered for this session")
		return
	}
	defer sess.EndTurn()

	reply, err := a.engine.AskAboutWaitlisted(r.Context(), sess.Waitlist, r.PathValue("id"))
	if errors.Is(err, chatbot.ErrNotWaitlisted) {
		writeError(w, http.StatusNotFound, "candidate not on waitlist")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Reply:     reply.Text,
		Intent:    reply.Intent,
		Entity:    reply.Entity,
		SessionID: sess.ID,
	})
}
