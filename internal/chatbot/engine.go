package chatbot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"recruiter-assistant/internal/insights"
)

// DefaultTimeout bounds a whole turn, backend calls included.
const DefaultTimeout = 10 * time.Second

var (
	// ErrUnknownAction is returned for a quick action that does not exist.
	ErrUnknownAction = errors.New("unknown quick action")
	// ErrNotWaitlisted is returned when asking about an id not on the waitlist.
	ErrNotWaitlisted = errors.New("candidate not on waitlist")
)

// Reply is the outcome of one turn.
type Reply struct {
	Intent Intent `json:"intent"`
	Entity string `json:"entity,omitempty"`
	Text   string `json:"reply"`
}

// QuickAction is a canned prompt offered by the chat UI.
type QuickAction struct {
	Action  string `json:"action"`
	Label   string `json:"label"`
	Message string `json:"message,omitempty"`
}

// QuickActions lists the shortcuts in display order. show_waitlist has no
// message; it renders the waitlist directly.
var QuickActions = []QuickAction{
	{Action: "top_candidates", Label: "Show top candidates", Message: "Show me the top candidates based on learning progress"},
	{Action: "job_insights", Label: "Job matching insights", Message: "What job matching insights do you have?"},
	{Action: "progress_analysis", Label: "Student progress analysis", Message: "Analyze student learning progress for me"},
	{Action: "recent_emails", Label: "Recent emails", Message: "Show me recent emails and applications"},
	{Action: "show_waitlist", Label: "Waitlisted candidates"},
}

// Engine turns a recruiter message into a reply. It holds no conversation
// state; the caller owns the waitlist.
type Engine struct {
	source     insights.Source
	classifier *Classifier
	extractor  *Extractor
	timeout    time.Duration
	now        func() time.Time
}

type Option func(*Engine)

func WithClassifier(c *Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

func WithExtractor(x *Extractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithTimeout sets the per-turn deadline. Zero or less disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithClock overrides time.Now for waitlist timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(source insights.Source, opts ...Option) *Engine {
	e := &Engine{
		source:     source,
		classifier: NewClassifier(nil),
		extractor:  NewExtractor(nil),
		timeout:    DefaultTimeout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleMessage returns the reply text for message. It never returns an
// empty string.
func (e *Engine) HandleMessage(ctx context.Context, message string, wl *Waitlist) string {
	return e.Respond(ctx, message, wl).Text
}

// Respond classifies message, extracts and resolves its entity, and composes
// the reply. Backend failures degrade the reply instead of failing the turn.
func (e *Engine) Respond(ctx context.Context, message string, wl *Waitlist) Reply {
	start := time.Now()
	if wl == nil {
		wl = NewWaitlist()
	}

	intent := e.classifier.Classify(message)
	reply := Reply{Intent: intent}
	defer func() {
		recordTurn(intent, time.Since(start).Seconds())
	}()

	if strings.TrimSpace(message) == "" {
		reply.Text = e.composeEmpty()
		return reply
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	snap, err := e.source.LoadInsights(ctx)
	if err != nil {
		e.backendFailed(err)
		reply.Text = replyUnavailable
		return reply
	}

	if needsEntity(intent) {
		reply.Entity = e.extractor.Extract(message, intent)
	}

	compose, ok := composers[intent]
	if !ok {
		compose = (*Engine).composeFallback
	}
	reply.Text = compose(e, ctx, turn{message: message, entity: reply.Entity, snap: snap, waitlist: wl})
	if reply.Text == "" {
		reply.Text = replyUnavailable
	}
	return reply
}

// Welcome renders the greeting with live corpus counts, or the bare greeting
// when the corpus cannot be loaded.
func (e *Engine) Welcome(ctx context.Context) string {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	snap, err := e.source.LoadInsights(ctx)
	if err != nil {
		e.backendFailed(err)
		return replyGreeting
	}
	return replyGreeting + "\n\n" + welcomeText(snap.Analytics)
}

// RunQuickAction answers a quick action as if its message had been typed.
func (e *Engine) RunQuickAction(ctx context.Context, action string, wl *Waitlist) (Reply, error) {
	for _, qa := range QuickActions {
		if qa.Action != action {
			continue
		}
		if qa.Message == "" {
			return Reply{Intent: IntentWaitlistQuery, Text: e.waitlistListing(wl)}, nil
		}
		return e.Respond(ctx, qa.Message, wl), nil
	}
	return Reply{}, fmt.Errorf("%w: %s", ErrUnknownAction, action)
}

// AskAboutWaitlisted answers "Tell me about <name> from the waitlist" for the
// entry with id, without re-resolving the name.
func (e *Engine) AskAboutWaitlisted(ctx context.Context, wl *Waitlist, id string) (Reply, error) {
	start := time.Now()
	var entry WaitlistEntry
	found := false
	for _, c := range wl.List() {
		if c.ID == id {
			entry, found = c, true
			break
		}
	}
	if !found {
		return Reply{}, fmt.Errorf("%w: %s", ErrNotWaitlisted, id)
	}
	defer func() {
		recordTurn(IntentWaitlistQuery, time.Since(start).Seconds())
	}()

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	reply := Reply{Intent: IntentWaitlistQuery, Entity: entry.Name}
	text, ok := e.waitlistDetail(ctx, entry)
	if !ok {
		text = e.waitlistListing(wl)
	}
	reply.Text = text
	return reply, nil
}

// AddToWaitlist stores entry and returns the confirmation to show the
// recruiter. A zero AddedAt is stamped with the engine clock.
func (e *Engine) AddToWaitlist(wl *Waitlist, entry WaitlistEntry) (string, bool) {
	if wl == nil {
		return "Sorry, there is no waitlist for this conversation.", false
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = e.now()
	}
	if entry.Attachments == nil {
		entry.Attachments = []insights.Attachment{}
	}
	if !wl.Add(entry) {
		return fmt.Sprintf("ℹ️ %s is already on the waitlist.", entry.Name), false
	}
	log.Printf("[Chatbot] waitlisted %s (%s)", entry.Name, entry.ID)
	return fmt.Sprintf("✅ %s added to waitlist! You can now ask me about this candidate.", entry.Name), true
}

// Now reads the engine clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

// RemoveFromWaitlist drops the entry with id and reports whether it existed.
func (e *Engine) RemoveFromWaitlist(wl *Waitlist, id string) bool {
	return wl.Remove(id)
}

func (e *Engine) composeEmpty() string {
	return "Please type a question, for example \"Show top candidates\" or \"Who is [student name]?\""
}

func (e *Engine) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

func needsEntity(intent Intent) bool {
	switch intent {
	case IntentCandidateLookup, IntentWaitlistQuery, IntentEmailSearch:
		return true
	}
	return false
}

func asUnavailable(err error) (*insights.DataUnavailableError, bool) {
	var due *insights.DataUnavailableError
	ok := errors.As(err, &due)
	return due, ok
}
