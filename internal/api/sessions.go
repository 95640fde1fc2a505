package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"recruiter-assistant/internal/chatbot"
)

// SessionHeader carries the chat session id in both directions.
const SessionHeader = "X-Session-ID"

// DefaultSessionIdleTimeout is used when the store is built with a zero timeout.
const DefaultSessionIdleTimeout = 30 * time.Minute

// Session is one recruiter conversation: its waitlist and a single turn slot.
type Session struct {
	ID       string
	Waitlist *chatbot.Waitlist

	turn     chan struct{}
	mu       sync.Mutex
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		Waitlist: chatbot.NewWaitlist(),
		turn:     make(chan struct{}, 1),
		lastSeen: now,
	}
}

// TryBeginTurn claims the turn slot. It returns false while another turn on
// the same session is still running.
func (s *Session) TryBeginTurn() bool {
	select {
	case s.turn <- struct{}{}:
		return true
	default:
		return false
	}
}

// EndTurn releases the slot claimed by TryBeginTurn.
func (s *Session) EndTurn() {
	select {
	case <-s.turn:
	default:
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// SessionStore keeps sessions in memory until they go idle.
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	now         func() time.Time
}

func NewSessionStore(idleTimeout time.Duration) *SessionStore {
	if idleTimeout <= 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	return &SessionStore{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Get returns the session for id, creating it when unknown. Only well-formed
// UUIDs supplied by the client are reused; anything else gets a fresh id.
func (s *SessionStore) Get(id string) *Session {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	sess, ok := s.sessions[id]
	if !ok {
		sess = newSession(id, now)
		s.sessions[id] = sess
	}
	sess.touch(now)
	return sess
}

// Reap drops sessions idle for longer than the timeout and returns how many
// were removed. Sessions with a turn in flight are kept.
func (s *SessionStore) Reap() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) <= s.idleTimeout {
			continue
		}
		if !sess.TryBeginTurn() {
			continue
		}
		sess.Waitlist.Clear()
		delete(s.sessions, id)
		removed++
	}
	return removed
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
