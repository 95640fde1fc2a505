package chatbot

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"recruiter-assistant/internal/insights"
)

const (
	topCandidateThreshold = 70.0
	topCandidateLimit     = 3
	topCandidateSkills    = 2
	recentEmailLimit      = 5
	clarifyNameLimit      = 5
	progressSkillLimit    = 3
	jobSkillLimit         = 5
	landscapeSkillLimit   = 8

	longPreview       = 200
	shortPreview      = 100
	attachmentPreview = 150
)

// Canned replies for the recovered failure classes.
const (
	replyUnavailable = "Sorry, I'm currently unable to access the latest student data. " +
		"Please ensure you're connected and try again. You can still ask me general recruitment questions!"
	replySearchUnavailable = "Sorry, I'm unable to search emails right now. Please try again later."
	replyGreeting          = "Hi! I'm your AI recruiting assistant. I can help you with candidate insights, " +
		"student progress analysis, and recruitment strategies. What would you like to know?"
)

// turn carries everything a compose routine may read.
type turn struct {
	message  string
	entity   string
	snap     *insights.Snapshot
	waitlist *Waitlist
}

type composeFunc func(e *Engine, ctx context.Context, t turn) string

var composers = map[Intent]composeFunc{
	IntentTopCandidates:    (*Engine).composeTopCandidates,
	IntentRecentEmails:     (*Engine).composeRecentEmails,
	IntentWaitlistQuery:    (*Engine).composeWaitlist,
	IntentProgressAnalysis: (*Engine).composeProgress,
	IntentJobMatchInsights: (*Engine).composeJobInsights,
	IntentSkillLandscape:   (*Engine).composeSkillLandscape,
	IntentEmailSearch:      (*Engine).composeEmailSearch,
	IntentEmailStrategy:    (*Engine).composeEmailStrategy,
	IntentCandidateLookup:  (*Engine).composeLookup,
	IntentFallback:         (*Engine).composeFallback,
}

func (e *Engine) composeTopCandidates(_ context.Context, t turn) string {
	var lines []string
	for _, s := range t.snap.Students {
		if s.LearningProgress <= topCandidateThreshold {
			continue
		}
		lines = append(lines, fmt.Sprintf("• %s: %s learning progress, Skills: %s",
			s.Name, percent(s.LearningProgress), strings.Join(firstN(s.SkillsTags, topCandidateSkills), ", ")))
		if len(lines) == topCandidateLimit {
			break
		}
	}
	list := strings.Join(lines, "\n")
	if list == "" {
		list = "No high-progress candidates found yet."
	}
	return "Here are your top candidates based on learning progress:\n\n" + list +
		"\n\nWould you like me to analyze specific skills or create a job posting to match these candidates?"
}

func (e *Engine) composeRecentEmails(_ context.Context, t turn) string {
	emails := firstN(t.snap.Emails, recentEmailLimit)
	if len(emails) == 0 {
		return "No recent emails found. Job applications will appear here when candidates reach out."
	}

	items := make([]string, 0, len(emails))
	for _, m := range emails {
		marker := "📎 Has attachments"
		if m.HasResume() {
			marker = "📄 Resume attached"
		}
		items = append(items, fmt.Sprintf("• **%s**: %s\n  📧 %s\n  %s", m.SenderName, m.Subject, m.SenderEmail, marker))
	}
	return "📧 **Recent Applications:**\n\n" + strings.Join(items, "\n\n") +
		"\n\n💡 **Commands:**\n• \"Find email from [name]\" - View full details\n" +
		"• \"Analyze [name] resume\" - Get AI assessment\n• \"Show top candidates\" - See best matches"
}

// composeWaitlist tries a deep search for a named entry, then its raw fields,
// then the plain listing.
func (e *Engine) composeWaitlist(ctx context.Context, t turn) string {
	if t.entity != "" {
		if entry, ok := Resolve(t.entity, t.waitlist.List()); ok {
			if reply, ok := e.waitlistDetail(ctx, entry); ok {
				return reply
			}
		}
	}
	return e.waitlistListing(t.waitlist)
}

func (e *Engine) waitlistDetail(ctx context.Context, entry WaitlistEntry) (string, bool) {
	emails, err := e.source.SearchEmails(ctx, entry.Name)
	if err != nil {
		e.backendFailed(err)
		return fmt.Sprintf("📋 **WAITLISTED: %s**\n\n• Email: %s\n• Subject: %s\n• Added: %s\n\n📄 Content: %s...\n\nDrag more emails to analyze candidates!",
			entry.Name, entry.Email, entry.Subject, shortDate(entry.AddedAt), truncate(entry.Content, longPreview)), true
	}
	if len(emails) == 0 {
		return "", false
	}

	m := emails[0]
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 **WAITLISTED CANDIDATE: %s**\n\n📋 **Email Details:**\n• Subject: %s\n• From: %s\n• Added to waitlist: %s",
		strings.ToUpper(m.SenderName), m.Subject, m.SenderEmail, shortDate(entry.AddedAt))
	if m.PDFAnalysis != "" {
		b.WriteString("\n\n" + m.PDFAnalysis)
	} else {
		fmt.Fprintf(&b, "\n\n📎 **Content:** %s...", truncate(m.Content, longPreview))
	}
	fmt.Fprintf(&b, "\n\n🚀 **ACTIONS:** \"add %s to watchlist\" or \"schedule interview\"", m.SenderName)
	return b.String(), true
}

func (e *Engine) waitlistListing(wl *Waitlist) string {
	entries := wl.List()
	if len(entries) == 0 {
		return "📋 **WAITLIST EMPTY**\n\nDrag emails from your inbox into the waitlist area to analyze candidates. " +
			"Once added, you can ask me detailed questions about them!"
	}

	items := make([]string, 0, len(entries))
	for _, c := range entries {
		items = append(items, fmt.Sprintf("• **%s**: %s\n  📧 %s | Added: %s", c.Name, c.Subject, c.Email, shortDate(c.AddedAt)))
	}
	return fmt.Sprintf("📋 **WAITLISTED CANDIDATES (%d)**\n\n%s\n\n💡 **Ask:** \"Tell me about [name] from the waitlist\" for detailed analysis",
		len(entries), strings.Join(items, "\n\n"))
}

func (e *Engine) composeProgress(_ context.Context, t turn) string {
	a := t.snap.Analytics
	d := a.ProgressDistribution
	return fmt.Sprintf("📊 Student Learning Analytics:\n\n• Total Students: %d\n• Active Learners: %d\n• Average Progress: %s%%\n\n"+
		"📈 Progress Distribution:\n• High Progress (70%%+): %d students\n• Medium Progress (30-70%%): %d students\n• Getting Started: %d students\n\n"+
		"🔥 Top Skills: %s\n\nStudents are actively improving their skills. "+
		"This is a great time to post jobs and engage with high-potential candidates!",
		a.TotalStudents, a.ActiveStudents, decimal(a.AverageProgress),
		d.HighProgress, d.MediumProgress, d.LowProgress,
		orDefault(strings.Join(skillNames(a.TopSkills, progressSkillLimit), ", "), "Various skills"))
}

func (e *Engine) composeJobInsights(_ context.Context, t turn) string {
	a := t.snap.Analytics
	skills := make([]string, 0, jobSkillLimit)
	for _, s := range firstN(a.TopSkills, jobSkillLimit) {
		skills = append(skills, fmt.Sprintf("%s (%d students)", s.Skill, s.Count))
	}
	return fmt.Sprintf("🎯 Job Matching Insights:\n\n• Most In-Demand Skills: %s\n• Total Skill Categories: %d\n• High-Progress Candidates: %d\n\n"+
		"💡 Recommendation: Post jobs requiring %s for best match rates\n\n"+
		"Would you like me to help you create a job posting targeting these skills?",
		orDefault(strings.Join(skills, ", "), "No skills data"), len(a.TopSkills),
		a.ProgressDistribution.HighProgress, a.TopSkill("popular skills"))
}

func (e *Engine) composeSkillLandscape(_ context.Context, t turn) string {
	var lines []string
	for _, s := range firstN(t.snap.Analytics.TopSkills, landscapeSkillLimit) {
		lines = append(lines, fmt.Sprintf("• %s: %d students (%.1f%%)", s.Skill, s.Count, s.Percentage))
	}
	return "🔧 Current Skill Landscape:\n\n" + orDefault(strings.Join(lines, "\n"), "No skills data available") +
		"\n\nThese are the most in-demand skills among our student community. " +
		"Consider posting jobs that match these competencies for higher response rates."
}

func (e *Engine) composeEmailSearch(ctx context.Context, t turn) string {
	if t.entity == "" {
		return e.composeEmailStrategy(ctx, t)
	}

	emails, err := e.source.SearchEmails(ctx, t.entity)
	if err != nil {
		e.backendFailed(err)
		return replySearchUnavailable
	}
	if len(emails) == 0 {
		return fmt.Sprintf("No emails found matching %q. Try searching by name, email address, or subject keywords.", t.entity)
	}

	m := emails[0]
	var b strings.Builder
	fmt.Fprintf(&b, "📧 **APPLICATION FROM %s**\n\n📋 **Email Details:**\n• Subject: %s\n• From: %s\n• Content: %s...",
		strings.ToUpper(m.SenderName), m.Subject, m.SenderEmail, truncate(m.Content, shortPreview))
	switch {
	case m.PDFAnalysis != "":
		b.WriteString("\n\n" + m.PDFAnalysis)
	case len(m.Attachments) > 0:
		b.WriteString("\n\n📎 **ATTACHMENTS:**\n")
		for _, att := range m.Attachments {
			if att.Type == "pdf" {
				fmt.Fprintf(&b, "• 📄 %s\n• Content Preview: %s...\n", att.Filename, truncate(att.Content, attachmentPreview))
			} else {
				fmt.Fprintf(&b, "• 📎 %s\n", att.Filename)
			}
		}
	}
	fmt.Fprintf(&b, "\n\n🚀 **ACTIONS:** Type \"add %s to watchlist\" or \"schedule interview with %s\"", m.SenderName, m.SenderName)
	return b.String()
}

func (e *Engine) composeEmailStrategy(_ context.Context, t turn) string {
	a := t.snap.Analytics
	return fmt.Sprintf("📧 Email Overview:\n\n• Total Emails: %d\n• Unread: %d\n• High-Progress Candidates: %d\n\n"+
		"💡 **Email Strategy Tips:**\n• Personalize with candidate names and skills\n• Mention specific learning achievements\n"+
		"• Include clear next steps\n• Target active learners for better response\n\n"+
		"**Search emails by:** \"find email from [name]\" or \"show email about [topic]\"\n\n"+
		"What would you like to know about your emails?",
		a.TotalEmails, a.UnreadEmails, a.ProgressDistribution.HighProgress)
}

// composeLookup resolves the entity against students, then emails, then
// reports not found.
func (e *Engine) composeLookup(ctx context.Context, t turn) string {
	if t.entity == "" {
		return e.lookupClarification(t.snap)
	}
	if s, ok := Resolve(t.entity, t.snap.Students); ok {
		return e.candidateProfile(ctx, s)
	}
	if m, ok := Resolve(t.entity, t.snap.Emails); ok {
		return fmt.Sprintf("📧 **FOUND IN EMAILS: %s**\n\n• Email: %s\n• Subject: %s\n• Content: %s...\n\n"+
			"💡 This person contacted you via email but isn't registered as a student yet. You can:\n"+
			"• Add them to your watchlist\n• Reply to their email\n• Invite them to join the platform",
			m.SenderName, m.SenderEmail, m.Subject, truncate(m.Content, longPreview))
	}
	return fmt.Sprintf("❌ **No candidate found matching %q**\n\n🔍 **Search suggestions:**\n• Try full name: \"John Smith\"\n"+
		"• Use email address\n• Check spelling\n• Search in emails: \"find email from %s\"\n\n"+
		"📊 **Available candidates:** %d students in database",
		t.entity, t.entity, len(t.snap.Students))
}

func (e *Engine) lookupClarification(snap *insights.Snapshot) string {
	var b strings.Builder
	b.WriteString("🤔 **Which candidate should I look up?**\n\n")
	b.WriteString("Try: \"Who is [student name]?\", \"Tell me about [name]\" or \"Analyze [name] profile\"")
	if len(snap.Students) > 0 {
		b.WriteString("\n\n👥 **Students you can ask about:**\n")
		for _, s := range firstN(snap.Students, clarifyNameLimit) {
			b.WriteString("• " + s.Name + "\n")
		}
		fmt.Fprintf(&b, "\n📊 %d students in database", len(snap.Students))
	}
	return b.String()
}

// candidateProfile renders the enriched analysis, or the basic profile when
// the enrichment call fails.
func (e *Engine) candidateProfile(ctx context.Context, s insights.CandidateRecord) string {
	detail, err := e.source.FetchUserAnalytics(ctx, s.ID)
	if err != nil {
		e.backendFailed(err)
		return basicProfile(s)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 **CANDIDATE ANALYSIS: %s**\n\n", strings.ToUpper(s.Name))
	fmt.Fprintf(&b, "📧 **Contact:** %s\n", s.Email)
	fmt.Fprintf(&b, "📈 **Learning Progress:** %s\n", percent(s.LearningProgress))
	fmt.Fprintf(&b, "🎯 **Career Goals:** %s\n", careerGoals(s))
	fmt.Fprintf(&b, "🔧 **Skills:** %s\n", skillList(s))
	fmt.Fprintf(&b, "📅 **Joined:** %s\n", shortDate(s.CreatedAt.Time))
	if s.AddedByRecruiter {
		b.WriteString("📊 **Source:** ✉️ Email Application\n\n")
	} else {
		b.WriteString("📊 **Source:** 🎓 Platform User\n\n")
	}

	if detail != nil {
		m := insights.LearningMetrics{PerformanceTrend: "stable"}
		if detail.LearningMetrics != nil {
			m = *detail.LearningMetrics
		}
		b.WriteString("📊 **PERFORMANCE METRICS:**\n")
		fmt.Fprintf(&b, "• Learning Streak: %d days\n", m.CurrentStreak)
		fmt.Fprintf(&b, "• Quiz Performance: %s average\n", percent(m.AvgScore*100))
		fmt.Fprintf(&b, "• Total Assessments: %d\n", m.TotalQuizzes)
		fmt.Fprintf(&b, "• Performance Trend: %s\n\n", orDefault(m.PerformanceTrend, "stable"))

		if len(detail.Recommendations) > 0 {
			b.WriteString("💡 **RECOMMENDATIONS:**\n")
			for _, rec := range detail.Recommendations {
				b.WriteString("• " + rec + "\n")
			}
			b.WriteString("\n")
		}
		if r := detail.CareerReadiness; r != nil {
			fmt.Fprintf(&b, "🚀 **CAREER READINESS:** %s (%s)\n%s\n\n", r.Level, percent(r.OverallScore*100), r.Description)
		}
	}

	b.WriteString(orDefault(s.Summary, "No detailed summary available") + "\n\n")
	b.WriteString("🎯 **NEXT STEPS:**\n• Schedule interview\n• Send personalized job offer\n• Add to watchlist for future opportunities")
	return b.String()
}

func basicProfile(s insights.CandidateRecord) string {
	source := "🎓 Platform user"
	if s.AddedByRecruiter {
		source = "✉️ Added from email application"
	}
	return fmt.Sprintf("👤 **%s**\n\n📧 Email: %s\n📈 Learning Progress: %s\n🎯 Career Goals: %s\n🔧 Skills: %s\n📅 Joined: %s\n\n%s\n\n%s\n\n"+
		"Would you like to see their detailed profile or find matching jobs?",
		s.Name, s.Email, percent(s.LearningProgress), careerGoals(s),
		skillList(s), shortDate(s.CreatedAt.Time), source, orDefault(s.Summary, "No summary available"))
}

func (e *Engine) composeFallback(_ context.Context, t turn) string {
	a := t.snap.Analytics
	return fmt.Sprintf("I can help you with:\n\n🎯 **Candidate Analysis** - %d students, %d active learners\n"+
		"📊 **Progress Insights** - Track learning and engagement patterns\n💼 **Job Strategy** - Top skill: %s\n"+
		"📧 **Email Management** - %d emails received\n\n**Try asking:**\n• \"Find email from [name]\"\n"+
		"• \"Who is [student name]?\"\n• \"Show top candidates\"\n• \"Analyze learning progress\"\n\n"+
		"What would you like to explore?",
		a.TotalStudents, a.ActiveStudents, a.TopSkill("various skills"), a.TotalEmails)
}

func welcomeText(a insights.AnalyticsSnapshot) string {
	return fmt.Sprintf("🚀 **System Ready!** I have access to:\n\n📊 %d students, %d active learners\n📧 %d emails processed\n"+
		"🔥 Top skill: %s\n\n💡 **Try asking:** \"Analyze Abhishek Shetty profile\" or \"Show top candidates\"",
		a.TotalStudents, a.ActiveStudents, a.TotalEmails, a.TopSkill("Various skills"))
}

func (e *Engine) backendFailed(err error) {
	op := "unknown"
	if due, ok := asUnavailable(err); ok {
		op = due.Op
	}
	recordBackendFailure(op)
	log.Printf("[Chatbot] degraded reply after backend failure: %v", err)
}

func careerGoals(s insights.CandidateRecord) string {
	return orDefault(strings.Join(s.CareerGoals, ", "), "Not specified")
}

func skillList(s insights.CandidateRecord) string {
	return orDefault(strings.Join(s.SkillsTags, ", "), "No skills listed")
}

func skillNames(skills []insights.SkillCount, n int) []string {
	names := make([]string, 0, n)
	for _, s := range firstN(skills, n) {
		names = append(names, s.Skill)
	}
	return names
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// percent rounds v to the nearest integer and appends a percent sign.
func percent(v float64) string {
	return strconv.Itoa(int(math.Round(v))) + "%"
}

// decimal prints v with at most one fractional digit.
func decimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func shortDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("1/2/2006")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
