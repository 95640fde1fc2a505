package insights

import "time"

// CandidateRecord is a student/candidate as seen by the recruiter assistant.
// Snapshots are immutable; refresh by loading a new Snapshot.
type CandidateRecord struct {
	ID               ID         `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Summary          string     `json:"summary"`
	SkillsTags       StringList `json:"skills_tags"`
	CurrentSkills    StringList `json:"current_skills,omitempty"` // onboarding skills, counted in analytics only
	LearningProgress float64    `json:"learning_progress"`        // 0-100
	CareerGoals      StringList `json:"career_goals"`             // onboarding JSONB list
	CreatedAt        Timestamp  `json:"created_at"`
	AddedByRecruiter bool       `json:"added_by_recruiter"`
}

// MatchName and MatchEmail let the fuzzy matcher resolve candidates.
func (c CandidateRecord) MatchName() string  { return c.Name }
func (c CandidateRecord) MatchEmail() string { return c.Email }

// Attachment is a file attached to an inbound email with its extracted text.
type Attachment struct {
	Filename string `json:"filename"`
	Type     string `json:"type"` // "pdf", "docx", ...
	Content  string `json:"content"`
	FilePath string `json:"file_path,omitempty"`
}

// EmailRecord is an inbound application email.
type EmailRecord struct {
	ID          ID           `json:"id"`
	SenderName  string       `json:"sender_name"`
	SenderEmail string       `json:"sender_email"`
	Subject     string       `json:"subject"`
	Content     string       `json:"content"`
	FullContent string       `json:"full_content,omitempty"`
	Attachments []Attachment `json:"attachments"`
	PDFAnalysis string       `json:"pdf_analysis,omitempty"`
	ReceivedAt  Timestamp    `json:"received_at"`
	Source      string       `json:"source,omitempty"`
	Processed   *bool        `json:"processed,omitempty"`
}

func (e EmailRecord) MatchName() string  { return e.SenderName }
func (e EmailRecord) MatchEmail() string { return e.SenderEmail }

// HasResume reports whether a pdf attachment is present.
func (e EmailRecord) HasResume() bool {
	for _, att := range e.Attachments {
		if att.Type == "pdf" {
			return true
		}
	}
	return false
}

// Body returns the full body when present, the short one otherwise.
func (e EmailRecord) Body() string {
	if e.FullContent != "" {
		return e.FullContent
	}
	return e.Content
}

// SkillCount is one entry of the ranked skill histogram.
type SkillCount struct {
	Skill      string  `json:"skill"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ProgressDistribution buckets students by learning progress.
type ProgressDistribution struct {
	HighProgress   int `json:"high_progress"`   // >= 70
	MediumProgress int `json:"medium_progress"` // 30-70
	LowProgress    int `json:"low_progress"`    // 0-30, exclusive
	NotStarted     int `json:"not_started"`
}

// AnalyticsSnapshot holds aggregate figures computed by the backend.
type AnalyticsSnapshot struct {
	TotalStudents        int                  `json:"total_students"`
	ActiveStudents       int                  `json:"active_students"`
	AverageProgress      float64              `json:"average_progress"`
	TotalEmails          int                  `json:"total_emails"`
	UnreadEmails         int                  `json:"unread_emails"`
	TopSkills            []SkillCount         `json:"top_skills"`
	ProgressDistribution ProgressDistribution `json:"progress_distribution"`
}

// TopSkill returns the highest ranked skill or fallback.
func (a AnalyticsSnapshot) TopSkill(fallback string) string {
	if len(a.TopSkills) == 0 || a.TopSkills[0].Skill == "" {
		return fallback
	}
	return a.TopSkills[0].Skill
}

// Snapshot is the per-session corpus.
type Snapshot struct {
	Students  []CandidateRecord `json:"students"`
	Emails    []EmailRecord     `json:"emails"`
	Analytics AnalyticsSnapshot `json:"analytics"`
	LoadedAt  time.Time         `json:"-"`
}

// LearningMetrics summarizes quiz activity for one user.
type LearningMetrics struct {
	CurrentStreak    int     `json:"current_streak"`
	PerformanceTrend string  `json:"performance_trend"`
	TotalQuizzes     int     `json:"total_quizzes"`
	AvgScore         float64 `json:"avg_score"`
}

// CareerReadiness is the weighted readiness assessment for one user.
type CareerReadiness struct {
	OverallScore float64            `json:"overall_score"`
	Level        string             `json:"level"`
	Description  string             `json:"description"`
	Components   map[string]float64 `json:"components,omitempty"`
}

// UserAnalytics is the optional enrichment for a single candidate.
type UserAnalytics struct {
	UserID          ID               `json:"user_id,omitempty"`
	LearningMetrics *LearningMetrics `json:"learning_metrics,omitempty"`
	Recommendations []string         `json:"recommendations"`
	CareerReadiness *CareerReadiness `json:"career_readiness,omitempty"`
}
