package chatbot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"recruiter-assistant/internal/insights"
)

type fakeSource struct {
	mu sync.Mutex

	snap    *insights.Snapshot
	loadErr error

	emails    []insights.EmailRecord
	searchErr error
	queries   []string

	detail       *insights.UserAnalytics
	analyticsErr error
	analyticsIDs []insights.ID

	block bool
}

func (f *fakeSource) LoadInsights(ctx context.Context) (*insights.Snapshot, error) {
	if f.block {
		<-ctx.Done()
		return nil, insights.Unavailable("load insights", ctx.Err())
	}
	if f.loadErr != nil {
		return nil, insights.Unavailable("load insights", f.loadErr)
	}
	if f.snap == nil {
		return &insights.Snapshot{}, nil
	}
	return f.snap, nil
}

func (f *fakeSource) SearchEmails(_ context.Context, query string) ([]insights.EmailRecord, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, insights.Unavailable("search emails", f.searchErr)
	}
	return f.emails, nil
}

func (f *fakeSource) FetchUserAnalytics(_ context.Context, id insights.ID) (*insights.UserAnalytics, error) {
	f.mu.Lock()
	f.analyticsIDs = append(f.analyticsIDs, id)
	f.mu.Unlock()
	if f.analyticsErr != nil {
		return nil, insights.Unavailable("fetch user analytics", f.analyticsErr)
	}
	return f.detail, nil
}

func corpus() *insights.Snapshot {
	students := []insights.CandidateRecord{
		{ID: "1", Name: "Abhishek Shetty", Email: "abhi@example.com", LearningProgress: 85.4,
			SkillsTags: insights.StringList{"Go", "SQL", "Docker"}, CareerGoals: insights.StringList{"Backend engineer"},
			Summary: "Strong backend focus", CreatedAt: insights.Timestamp{Time: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}},
		{ID: "2", Name: "Priya Nair", Email: "priya@example.com", LearningProgress: 40},
	}
	emails := []insights.EmailRecord{
		{ID: "e1", SenderName: "Jordan Lee Smith", SenderEmail: "jls@example.com", Subject: "Application for SRE",
			Content: "I would like to apply", Attachments: []insights.Attachment{{Filename: "cv.pdf", Type: "pdf"}}},
	}
	return &insights.Snapshot{
		Students:  students,
		Emails:    emails,
		Analytics: insights.ComputeAnalytics(students, emails),
	}
}

func newTestEngine(src insights.Source) *Engine {
	return NewEngine(src, WithClock(func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}))
}

func TestTopCandidatesThreshold(t *testing.T) {
	t.Parallel()

	e := newTestEngine(&fakeSource{snap: corpus()})
	reply := e.Respond(context.Background(), "Show top candidates", nil)

	if reply.Intent != IntentTopCandidates {
		t.Fatalf("unexpected intent %s", reply.Intent)
	}
	if !strings.Contains(reply.Text, "Abhishek Shetty: 85% learning progress, Skills: Go, SQL") {
		t.Fatalf("expected the 85%% student with two skills, got:\n%s", reply.Text)
	}
	if strings.Contains(reply.Text, "Priya") {
		t.Fatalf("40%% student must not be listed:\n%s", reply.Text)
	}
}

func TestTopCandidatesNone(t *testing.T) {
	t.Parallel()

	snap := corpus()
	snap.Students = snap.Students[1:]
	e := newTestEngine(&fakeSource{snap: snap})
	if got := e.HandleMessage(context.Background(), "top candidates", nil); !strings.Contains(got, "No high-progress candidates found yet.") {
		t.Fatalf("unexpected reply:\n%s", got)
	}
}

func TestLookupFallsBackToEmails(t *testing.T) {
	t.Parallel()

	snap := corpus()
	snap.Students = nil
	src := &fakeSource{snap: snap}
	e := newTestEngine(src)

	reply := e.Respond(context.Background(), "Who is Jordan Lee", nil)
	if reply.Entity != "Jordan Lee" {
		t.Fatalf("unexpected entity %q", reply.Entity)
	}
	if !strings.Contains(reply.Text, "FOUND IN EMAILS: Jordan Lee Smith") {
		t.Fatalf("expected email branch, got:\n%s", reply.Text)
	}
	if strings.Contains(reply.Text, "No candidate found") {
		t.Fatalf("must not report not found:\n%s", reply.Text)
	}
	if len(src.analyticsIDs) != 0 {
		t.Fatal("email matches are not enriched")
	}
}

func TestLookupNotFound(t *testing.T) {
	t.Parallel()

	e := newTestEngine(&fakeSource{snap: corpus()})
	got := e.HandleMessage(context.Background(), "who is Zed Quix", nil)
	if !strings.Contains(got, `No candidate found matching "Zed Quix"`) || !strings.Contains(got, "2 students in database") {
		t.Fatalf("unexpected reply:\n%s", got)
	}
}

func TestLookupShortEntityAsksForClarification(t *testing.T) {
	t.Parallel()

	src := &fakeSource{snap: corpus()}
	e := newTestEngine(src)
	reply := e.Respond(context.Background(), "who is Ab", nil)

	if reply.Entity != "" {
		t.Fatalf("short entity should be dropped, got %q", reply.Entity)
	}
	if !strings.Contains(reply.Text, "Which candidate") || !strings.Contains(reply.Text, "• Abhishek Shetty") {
		t.Fatalf("expected clarification listing, got:\n%s", reply.Text)
	}
	if len(src.analyticsIDs) != 0 {
		t.Fatal("no record should have been resolved")
	}
}

func TestLookupEnriched(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		snap: corpus(),
		detail: &insights.UserAnalytics{
			LearningMetrics: &insights.LearningMetrics{CurrentStreak: 4, PerformanceTrend: "improving", TotalQuizzes: 7, AvgScore: 0.826},
			Recommendations: []string{"Practice more"},
			CareerReadiness: &insights.CareerReadiness{OverallScore: 0.66, Level: "Medium", Description: "Ready for mid-level positions"},
		},
	}
	e := newTestEngine(src)
	got := e.HandleMessage(context.Background(), "Analyze Shetty Abhishek profile", nil)

	for _, want := range []string{
		"CANDIDATE ANALYSIS: ABHISHEK SHETTY",
		"**Learning Progress:** 85%",
		"**Skills:** Go, SQL, Docker",
		"**Joined:** 1/2/2025",
		"Learning Streak: 4 days",
		"Quiz Performance: 83% average",
		"Performance Trend: improving",
		"• Practice more",
		"CAREER READINESS:** Medium (66%)",
		"Strong backend focus",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
	if len(src.analyticsIDs) != 1 || src.analyticsIDs[0] != "1" {
		t.Fatalf("expected enrichment for id 1, got %v", src.analyticsIDs)
	}
}

func TestLookupEnrichmentDefaults(t *testing.T) {
	t.Parallel()

	snap := corpus()
	snap.Students[0].CareerGoals = nil
	src := &fakeSource{snap: snap, detail: &insights.UserAnalytics{}}
	got := newTestEngine(src).HandleMessage(context.Background(), "tell me about Abhishek", nil)

	for _, want := range []string{
		"Career Goals:** Not specified",
		"Learning Streak: 0 days",
		"Quiz Performance: 0% average",
		"Performance Trend: stable",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "CAREER READINESS") {
		t.Fatal("readiness section must be omitted when absent")
	}
}

func TestLookupEnrichmentFailureUsesBasicProfile(t *testing.T) {
	t.Parallel()

	src := &fakeSource{snap: corpus(), analyticsErr: errors.New("502")}
	got := newTestEngine(src).HandleMessage(context.Background(), "find student priya", nil)

	if !strings.Contains(got, "👤 **Priya Nair**") || !strings.Contains(got, "Skills: No skills listed") {
		t.Fatalf("expected basic profile, got:\n%s", got)
	}
	if !strings.Contains(got, "Joined: Unknown") {
		t.Fatalf("zero join date should render as Unknown:\n%s", got)
	}
}

func TestFallbackUsesLiveCounts(t *testing.T) {
	t.Parallel()

	e := newTestEngine(&fakeSource{snap: corpus()})
	reply := e.Respond(context.Background(), "asdkjasd", nil)

	if reply.Intent != IntentFallback {
		t.Fatalf("unexpected intent %s", reply.Intent)
	}
	if !strings.Contains(reply.Text, "2 students, 2 active learners") || !strings.Contains(reply.Text, "Top skill: Go") {
		t.Fatalf("expected live counts, got:\n%s", reply.Text)
	}
}

func TestLoadFailureApologizes(t *testing.T) {
	t.Parallel()

	e := newTestEngine(&fakeSource{loadErr: errors.New("connection refused")})
	for _, msg := range []string{"Show top candidates", "who is Jordan", "asdkjasd", "show waitlist"} {
		got := e.HandleMessage(context.Background(), msg, NewWaitlist())
		if got == "" || !strings.Contains(strings.ToLower(got), "sorry") {
			t.Fatalf("expected apology for %q, got %q", msg, got)
		}
	}
}

func TestTimeoutApologizes(t *testing.T) {
	t.Parallel()

	e := NewEngine(&fakeSource{block: true}, WithTimeout(20*time.Millisecond))
	done := make(chan string, 1)
	go func() { done <- e.HandleMessage(context.Background(), "top candidates", nil) }()

	select {
	case got := <-done:
		if !strings.Contains(got, "Sorry") {
			t.Fatalf("unexpected reply %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("turn did not honor the timeout")
	}
}

func TestEmailSearch(t *testing.T) {
	t.Parallel()

	hit := insights.EmailRecord{
		SenderName: "Jordan Lee", SenderEmail: "j@example.com", Subject: "SRE role", Content: strings.Repeat("x", 150),
		Attachments: []insights.Attachment{
			{Filename: "cv.pdf", Type: "pdf", Content: "Kubernetes and Go"},
			{Filename: "cover.docx", Type: "docx"},
		},
	}
	src := &fakeSource{snap: corpus(), emails: []insights.EmailRecord{hit}}
	reply := newTestEngine(src).Respond(context.Background(), "find email from Jordan Lee", nil)

	if reply.Intent != IntentEmailSearch || reply.Entity != "Jordan Lee" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if len(src.queries) != 1 || src.queries[0] != "Jordan Lee" {
		t.Fatalf("unexpected search queries %v", src.queries)
	}
	for _, want := range []string{
		"APPLICATION FROM JORDAN LEE",
		"Content: " + strings.Repeat("x", 100) + "...",
		"• 📄 cv.pdf\n• Content Preview: Kubernetes and Go...",
		"• 📎 cover.docx",
	} {
		if !strings.Contains(reply.Text, want) {
			t.Fatalf("missing %q in:\n%s", want, reply.Text)
		}
	}
}

func TestEmailSearchPrefersAnalysis(t *testing.T) {
	t.Parallel()

	src := &fakeSource{snap: corpus(), emails: []insights.EmailRecord{{
		SenderName: "Jordan Lee", PDFAnalysis: "RESUME ASSESSMENT: strong",
		Attachments: []insights.Attachment{{Filename: "cv.pdf", Type: "pdf"}},
	}}}
	got := newTestEngine(src).HandleMessage(context.Background(), "email by jordan", nil)
	if !strings.Contains(got, "RESUME ASSESSMENT: strong") || strings.Contains(got, "ATTACHMENTS") {
		t.Fatalf("expected analysis instead of attachments:\n%s", got)
	}
}

func TestEmailSearchEmptyAndFailure(t *testing.T) {
	t.Parallel()

	empty := newTestEngine(&fakeSource{snap: corpus()})
	if got := empty.HandleMessage(context.Background(), "find email from Nobody", nil); !strings.Contains(got, `No emails found matching "Nobody"`) {
		t.Fatalf("unexpected reply:\n%s", got)
	}

	failing := newTestEngine(&fakeSource{snap: corpus(), searchErr: errors.New("timeout")})
	if got := failing.HandleMessage(context.Background(), "find email from Jordan", nil); got != replySearchUnavailable {
		t.Fatalf("unexpected reply:\n%s", got)
	}
}

func TestEmailSearchWithoutEntityShowsStrategy(t *testing.T) {
	t.Parallel()

	src := &fakeSource{snap: corpus()}
	got := newTestEngine(src).HandleMessage(context.Background(), "email from me", nil)
	if !strings.Contains(got, "Email Overview") || !strings.Contains(got, "Total Emails: 1") {
		t.Fatalf("expected strategy reply, got:\n%s", got)
	}
	if len(src.queries) != 0 {
		t.Fatal("no search expected without an entity")
	}
}

func TestWaitlistQuery(t *testing.T) {
	t.Parallel()

	added := time.Date(2025, 5, 3, 8, 0, 0, 0, time.UTC)
	wl := NewWaitlist()
	wl.Add(WaitlistEntry{ID: "w1", Name: "Jordan Lee", Email: "j@example.com", Subject: "SRE", Content: "hello", AddedAt: added})
	wl.Add(WaitlistEntry{ID: "w2", Name: "Priya Nair", Email: "p@example.com", Subject: "Data", AddedAt: added})

	t.Run("deep search", func(t *testing.T) {
		t.Parallel()
		src := &fakeSource{snap: corpus(), emails: []insights.EmailRecord{{
			SenderName: "Jordan Lee", SenderEmail: "j@example.com", Subject: "SRE", Content: "long body",
		}}}
		got := newTestEngine(src).HandleMessage(context.Background(), "Tell me about Lee Jordan from the waitlist", wl)
		if !strings.Contains(got, "WAITLISTED CANDIDATE: JORDAN LEE") || !strings.Contains(got, "Added to waitlist: 5/3/2025") {
			t.Fatalf("unexpected reply:\n%s", got)
		}
		if len(src.queries) != 1 || src.queries[0] != "Jordan Lee" {
			t.Fatalf("search should use the entry name, got %v", src.queries)
		}
	})

	t.Run("search failure", func(t *testing.T) {
		t.Parallel()
		src := &fakeSource{snap: corpus(), searchErr: errors.New("down")}
		got := newTestEngine(src).HandleMessage(context.Background(), "about Priya from the waitlist", wl)
		if !strings.Contains(got, "📋 **WAITLISTED: Priya Nair**") || !strings.Contains(got, "Subject: Data") {
			t.Fatalf("expected raw entry fields:\n%s", got)
		}
	})

	t.Run("listing", func(t *testing.T) {
		t.Parallel()
		got := newTestEngine(&fakeSource{snap: corpus()}).HandleMessage(context.Background(), "show my waitlist", wl)
		if !strings.Contains(got, "WAITLISTED CANDIDATES (2)") {
			t.Fatalf("unexpected reply:\n%s", got)
		}
		if strings.Index(got, "Jordan Lee") > strings.Index(got, "Priya Nair") {
			t.Fatalf("listing must keep insertion order:\n%s", got)
		}
	})

	t.Run("no search hit lists", func(t *testing.T) {
		t.Parallel()
		got := newTestEngine(&fakeSource{snap: corpus()}).HandleMessage(context.Background(), "Tell me about Jordan from the waitlist", wl)
		if !strings.Contains(got, "WAITLISTED CANDIDATES (2)") {
			t.Fatalf("unexpected reply:\n%s", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		got := newTestEngine(&fakeSource{snap: corpus()}).HandleMessage(context.Background(), "waitlist", NewWaitlist())
		if !strings.Contains(got, "WAITLIST EMPTY") {
			t.Fatalf("unexpected reply:\n%s", got)
		}
	})
}

func TestAggregateReplies(t *testing.T) {
	t.Parallel()

	e := newTestEngine(&fakeSource{snap: corpus()})
	tests := []struct {
		message string
		want    []string
	}{
		{"Show me recent emails", []string{"**Jordan Lee Smith**: Application for SRE", "📄 Resume attached"}},
		{"learning progress please", []string{"Average Progress: 62.7%", "High Progress (70%+): 1 students", "Top Skills: Go, SQL, Docker"}},
		{"job match insights", []string{"Go (1 students)", "Total Skill Categories: 3", "Post jobs requiring Go"}},
		{"skills overview", []string{"• Go: 1 students (50.0%)"}},
		{"draft an email", []string{"Total Emails: 1", "Unread: 0"}},
	}
	for _, tt := range tests {
		got := e.HandleMessage(context.Background(), tt.message, nil)
		for _, want := range tt.want {
			if !strings.Contains(got, want) {
				t.Fatalf("%q: missing %q in:\n%s", tt.message, want, got)
			}
		}
	}
}

func TestAddToWaitlist(t *testing.T) {
	t.Parallel()

	e := newTestEngine(&fakeSource{})
	wl := NewWaitlist()

	msg, ok := e.AddToWaitlist(wl, WaitlistEntry{ID: "1", Name: "Jordan Lee"})
	if !ok || msg != "✅ Jordan Lee added to waitlist! You can now ask me about this candidate." {
		t.Fatalf("unexpected confirmation %q", msg)
	}
	if got := wl.List()[0].AddedAt; !got.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected engine clock timestamp, got %v", got)
	}

	if _, ok := e.AddToWaitlist(wl, WaitlistEntry{ID: "1", Name: "Jordan Lee"}); ok {
		t.Fatal("duplicate should not be added")
	}
	if !e.RemoveFromWaitlist(wl, "1") || wl.Len() != 0 {
		t.Fatal("expected entry to be removed")
	}
}

func TestQuickActions(t *testing.T) {
	t.Parallel()

	e := newTestEngine(&fakeSource{snap: corpus()})
	wl := NewWaitlist()

	want := map[string]Intent{
		"top_candidates":    IntentTopCandidates,
		"job_insights":      IntentJobMatchInsights,
		"progress_analysis": IntentProgressAnalysis,
		"recent_emails":     IntentRecentEmails,
		"show_waitlist":     IntentWaitlistQuery,
	}
	for _, qa := range QuickActions {
		reply, err := e.RunQuickAction(context.Background(), qa.Action, wl)
		if err != nil {
			t.Fatalf("%s: %v", qa.Action, err)
		}
		if reply.Intent != want[qa.Action] {
			t.Fatalf("%s routed to %s, want %s", qa.Action, reply.Intent, want[qa.Action])
		}
	}

	if _, err := e.RunQuickAction(context.Background(), "dance", wl); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestWelcome(t *testing.T) {
	t.Parallel()

	got := newTestEngine(&fakeSource{snap: corpus()}).Welcome(context.Background())
	if !strings.Contains(got, "System Ready!") || !strings.Contains(got, "2 students, 2 active learners") || !strings.Contains(got, "Top skill: Go") {
		t.Fatalf("unexpected welcome:\n%s", got)
	}

	bare := newTestEngine(&fakeSource{loadErr: errors.New("down")}).Welcome(context.Background())
	if bare != replyGreeting {
		t.Fatalf("expected bare greeting, got %q", bare)
	}
}

func TestEmptyMessage(t *testing.T) {
	t.Parallel()

	if got := newTestEngine(&fakeSource{snap: corpus()}).HandleMessage(context.Background(), "   ", nil); got == "" {
		t.Fatal("empty message must still produce a reply")
	}
}

func TestIntentWithoutComposerFallsBack(t *testing.T) {
	t.Parallel()

	e := NewEngine(&fakeSource{snap: corpus()},
		WithClassifier(NewClassifier([]Rule{{Intent("greeting"), anyOf("hello")}})))
	reply := e.Respond(context.Background(), "hello there", nil)

	if reply.Intent != Intent("greeting") {
		t.Fatalf("unexpected intent %s", reply.Intent)
	}
	if !strings.HasPrefix(reply.Text, "I can help you with:") {
		t.Fatalf("expected the fallback reply, got:\n%s", reply.Text)
	}
}

func TestNilWaitlist(t *testing.T) {
	t.Parallel()

	e := newTestEngine(&fakeSource{snap: corpus()})

	msg, ok := e.AddToWaitlist(nil, WaitlistEntry{ID: "1", Name: "Jordan Lee"})
	if ok || !strings.HasPrefix(msg, "Sorry") {
		t.Fatalf("unexpected add result %q %v", msg, ok)
	}
	if e.RemoveFromWaitlist(nil, "1") {
		t.Fatal("remove from a nil waitlist should report false")
	}
	if got := e.HandleMessage(context.Background(), "show my waitlist", nil); !strings.Contains(got, "WAITLIST EMPTY") {
		t.Fatalf("unexpected reply:\n%s", got)
	}
}

func TestAskAboutWaitlisted(t *testing.T) {
	t.Parallel()

	wl := NewWaitlist()
	wl.Add(WaitlistEntry{ID: "w1", Name: "Jordan Lee", Email: "j@example.com", Subject: "SRE",
		AddedAt: time.Date(2025, 5, 3, 8, 0, 0, 0, time.UTC)})

	t.Run("known entry", func(t *testing.T) {
		t.Parallel()
		src := &fakeSource{snap: corpus(), emails: []insights.EmailRecord{{
			SenderName: "Jordan Lee", SenderEmail: "j@example.com", Subject: "SRE", PDFAnalysis: "Strong SRE profile",
		}}}
		reply, err := newTestEngine(src).AskAboutWaitlisted(context.Background(), wl, "w1")
		if err != nil {
			t.Fatalf("AskAboutWaitlisted: %v", err)
		}
		if reply.Intent != IntentWaitlistQuery || reply.Entity != "Jordan Lee" {
			t.Fatalf("unexpected reply %+v", reply)
		}
		if !strings.Contains(reply.Text, "WAITLISTED CANDIDATE: JORDAN LEE") || !strings.Contains(reply.Text, "Strong SRE profile") {
			t.Fatalf("unexpected reply:\n%s", reply.Text)
		}
		if len(src.queries) != 1 || src.queries[0] != "Jordan Lee" {
			t.Fatalf("search should use the entry name, got %v", src.queries)
		}
	})

	t.Run("no search hit lists", func(t *testing.T) {
		t.Parallel()
		reply, err := newTestEngine(&fakeSource{snap: corpus()}).AskAboutWaitlisted(context.Background(), wl, "w1")
		if err != nil || !strings.Contains(reply.Text, "WAITLISTED CANDIDATES (1)") {
			t.Fatalf("unexpected reply %v:\n%s", err, reply.Text)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		_, err := newTestEngine(&fakeSource{snap: corpus()}).AskAboutWaitlisted(context.Background(), wl, "nope")
		if !errors.Is(err, ErrNotWaitlisted) {
			t.Fatalf("expected ErrNotWaitlisted, got %v", err)
		}
		if _, err := newTestEngine(&fakeSource{}).AskAboutWaitlisted(context.Background(), nil, "w1"); !errors.Is(err, ErrNotWaitlisted) {
			t.Fatalf("nil waitlist: expected ErrNotWaitlisted, got %v", err)
		}
	})
}
