package chatbot

import (
	"sync"
	"time"

	"recruiter-assistant/internal/insights"
)

// WaitlistEntry is an email sender flagged by the recruiter for deeper analysis.
type WaitlistEntry struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Email       string                `json:"email"`
	Subject     string                `json:"subject"`
	Content     string                `json:"content"`
	Attachments []insights.Attachment `json:"attachments"`
	AddedAt     time.Time             `json:"added_at"`
}

func (w WaitlistEntry) MatchName() string  { return w.Name }
func (w WaitlistEntry) MatchEmail() string { return w.Email }

// EntryFromEmail builds a waitlist entry from a dragged email record.
func EntryFromEmail(e insights.EmailRecord, addedAt time.Time) WaitlistEntry {
	attachments := e.Attachments
	if attachments == nil {
		attachments = []insights.Attachment{}
	}
	return WaitlistEntry{
		ID:          e.ID.String(),
		Name:        e.SenderName,
		Email:       e.SenderEmail,
		Subject:     e.Subject,
		Content:     e.Content,
		Attachments: attachments,
		AddedAt:     addedAt,
	}
}

// Waitlist is a session-scoped, insertion-ordered set of entries keyed by ID.
// It is safe for concurrent use. A nil *Waitlist is empty and ignores writes.
type Waitlist struct {
	mu      sync.RWMutex
	entries []WaitlistEntry
}

func NewWaitlist() *Waitlist {
	return &Waitlist{}
}

// Add appends entry unless an entry with the same ID exists.
// It reports whether the entry was added.
func (w *Waitlist) Add(entry WaitlistEntry) bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, e := range w.entries {
		if e.ID == entry.ID {
			return false
		}
	}
	w.entries = append(w.entries, entry)
	waitlistSize.Add(1)
	return true
}

// Remove deletes the entry with id and reports whether it existed.
func (w *Waitlist) Remove(id string) bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, e := range w.entries {
		if e.ID == id {
			w.entries = append(w.entries[:i:i], w.entries[i+1:]...)
			waitlistSize.Sub(1)
			return true
		}
	}
	return false
}

// List returns a copy of the entries, oldest first.
func (w *Waitlist) List() []WaitlistEntry {
	if w == nil {
		return nil
	}
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]WaitlistEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *Waitlist) Len() int {
	if w == nil {
		return 0
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}

// Clear empties the waitlist (used when a session is reaped).
func (w *Waitlist) Clear() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	waitlistSize.Sub(float64(len(w.entries)))
	w.entries = nil
}
