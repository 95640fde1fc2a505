package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"recruiter-assistant/internal/chatbot"
)

// MessageRequest is one recruiter turn.
type MessageRequest struct {
	Message string `json:"message" example:"Show me the top candidates"`
}

// MessageResponse is the assistant's answer to a turn.
type MessageResponse struct {
	Reply     string         `json:"reply"`
	Intent    chatbot.Intent `json:"intent"`
	Entity    string         `json:"entity,omitempty"`
	SessionID string         `json:"session_id"`
}

// WelcomeResponse carries the greeting shown when the chat opens.
type WelcomeResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// MessageHandler answers one chat turn
// @Summary Send a chat message
// @Description Classifies the message, resolves any named candidate and returns the assistant reply. At most one turn per session runs at a time.
// @Tags chatbot
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Session id returned by a previous call"
// @Param request body MessageRequest true "Recruiter message"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /chatbot/message [post]
func (a *API) MessageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sess := a.session(w, r)
	if !sess.TryBeginTurn() {
		writeError(w, http.StatusTooManyRequests, "a message is already being answered for this session")
		return
	}
	defer sess.EndTurn()

	reply := a.engine.Respond(r.Context(), req.Message, sess.Waitlist)
	writeJSON(w, http.StatusOK, MessageResponse{
		Reply:     reply.Text,
		Intent:    reply.Intent,
		Entity:    reply.Entity,
		SessionID: sess.ID,
	})
}

// WelcomeHandler returns the opening greeting
// @Summary Welcome message
// @Description Greeting with live student and application counts
// @Tags chatbot
// @Produce json
// @Success 200 {object} WelcomeResponse
// @Router /chatbot/welcome [get]
func (a *API) WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := a.session(w, r)
	writeJSON(w, http.StatusOK, WelcomeResponse{
		Reply:     a.engine.Welcome(r.Context()),
		SessionID: sess.ID,
	})
}

// QuickActionsHandler lists the chat shortcuts
// @Summary List quick actions
// @Tags chatbot
// @Produce json
// @Success 200 {array} chatbot.QuickAction
// @Router /chatbot/quick-actions [get]
func (a *API) QuickActionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, chatbot.QuickActions)
}

// RunQuickActionHandler answers a quick action
// @Summary Run a quick action
// @Description Answers the canned message behind the action, or renders the waitlist for show_waitlist
// @Tags chatbot
// @Produce json
// @Param X-Session-ID header string false "Session id"
// @Param action path string true "Quick action" Enums(top_candidates, job_insights, progress_analysis, recent_emails, show_waitlist)
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /chatbot/quick-actions/{action} [post]
func (a *API) RunQuickActionHandler(w http.ResponseWriter, r *http.Request) {
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

	reply, err := a.engine.RunQuickAction(r.Context(), r.PathValue("action"), sess.Waitlist)
	if errors.Is(err, chatbot.ErrUnknownAction) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Reply:     reply.Text,
		Intent:    reply.Intent,
		Entity:    reply.Entity,
		SessionID: sess.ID,
	})
}

// RefreshHandler drops the cached corpus snapshot
// @Summary Refresh student data
// @Description Forces the next turn to reload students and applications from the backend
// @Tags chatbot
// @Success 204
// @Router /chatbot/refresh [post]
func (a *API) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if a.cache != nil {
		a.cache.Refresh()
		log.Println("[API] insights cache refreshed")
	}
	w.WriteHeader(http.StatusNoContent)
}
