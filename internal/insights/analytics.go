package insights

import (
	"math"
	"sort"
	"strings"
	"time"
)

const (
	maxTopSkills          = 10
	maxRecommendations    = 3
	highProgressThreshold = 70.0
	lowProgressThreshold  = 30.0
)

// ComputeAnalytics derives the aggregate snapshot from students and emails.
// Skills are counted from skills_tags and onboarding current_skills.
func ComputeAnalytics(students []CandidateRecord, emails []EmailRecord) AnalyticsSnapshot {
	a := AnalyticsSnapshot{
		TotalStudents: len(students),
		TotalEmails:   len(emails),
		TopSkills:     []SkillCount{},
	}

	var progressSum float64
	counts := map[string]int{}
	var order []string
	countSkill := func(skill string) {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return
		}
		if _, seen := counts[skill]; !seen {
			order = append(order, skill)
		}
		counts[skill]++
	}

	for _, s := range students {
		p := s.LearningProgress
		progressSum += p
		if p > 0 {
			a.ActiveStudents++
		}
		switch {
		case p >= highProgressThreshold:
			a.ProgressDistribution.HighProgress++
		case p >= lowProgressThreshold:
			a.ProgressDistribution.MediumProgress++
		case p > 0:
			a.ProgressDistribution.LowProgress++
		default:
			a.ProgressDistribution.NotStarted++
		}
		for _, skill := range s.SkillsTags {
			countSkill(skill)
		}
		for _, skill := range s.CurrentSkills {
			countSkill(skill)
		}
	}

	if len(students) > 0 {
		a.AverageProgress = round1(progressSum / float64(len(students)))
	}

	for _, e := range emails {
		if e.Processed != nil && !*e.Processed {
			a.UnreadEmails++
		}
	}

	// Stable sort keeps first-seen order among equal counts.
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	if len(order) > maxTopSkills {
		order = order[:maxTopSkills]
	}
	for _, skill := range order {
		sc := SkillCount{Skill: skill, Count: counts[skill]}
		if len(students) > 0 {
			sc.Percentage = round1(float64(sc.Count) / float64(len(students)) * 100)
		}
		a.TopSkills = append(a.TopSkills, sc)
	}
	return a
}

// PlanMonth is one month of a learning plan.
type PlanMonth struct {
	Status string   `json:"status"`
	Topics []string `json:"topics"`
}

// PlanProgress is the completed share of months, 0-100.
func PlanProgress(months []PlanMonth) float64 {
	if len(months) == 0 {
		return 0
	}
	completed := 0
	for _, m := range months {
		if m.Status == "completed" {
			completed++
		}
	}
	return float64(completed) / float64(len(months)) * 100
}

// QuizResult is a single quiz submission; Score is 0-100 and may be absent.
type QuizResult struct {
	Score   *float64
	TakenAt time.Time
}

// BuildUserAnalytics derives learning metrics, recommendations and career
// readiness for one user. AvgScore is reported as a fraction (0-1).
func BuildUserAnalytics(id ID, quizzes []QuizResult, months []PlanMonth, skills []string, now time.Time) *UserAnalytics {
	scores := scoredQuizzes(quizzes)

	metrics := &LearningMetrics{
		CurrentStreak:    learningStreak(quizzes, now),
		PerformanceTrend: performanceTrend(quizzes),
		TotalQuizzes:     len(quizzes),
	}
	if avg, ok := mean(scores); ok {
		metrics.AvgScore = avg / 100
	}

	return &UserAnalytics{
		UserID:          id,
		LearningMetrics: metrics,
		Recommendations: recommendations(scores, months, skills),
		CareerReadiness: careerReadiness(scores, months, skills),
	}
}

func learningStreak(quizzes []QuizResult, now time.Time) int {
	var dates []time.Time
	for _, q := range quizzes {
		if !q.TakenAt.IsZero() {
			dates = append(dates, q.TakenAt)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	today := truncateDay(now)
	streak := 0
	for i, d := range dates {
		days := int(today.Sub(truncateDay(d)).Hours() / 24)
		if days > i+1 {
			break
		}
		streak++
	}
	return streak
}

func performanceTrend(quizzes []QuizResult) string {
	var dated []QuizResult
	for _, q := range quizzes {
		if q.Score != nil && !q.TakenAt.IsZero() {
			dated = append(dated, q)
		}
	}
	if len(dated) < 3 {
		return "stable"
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].TakenAt.Before(dated[j].TakenAt) })

	early, _ := mean([]float64{*dated[0].Score, *dated[1].Score, *dated[2].Score})
	n := len(dated)
	recent, _ := mean([]float64{*dated[n-3].Score, *dated[n-2].Score, *dated[n-1].Score})

	switch {
	case recent > early+0.1:
		return "improving"
	case recent < early-0.1:
		return "declining"
	default:
		return "stable"
	}
}

func recommendations(scores []float64, months []PlanMonth, skills []string) []string {
	recs := []string{}

	if avg, ok := mean(scores); ok {
		if avg < 70 {
			recs = append(recs, "Focus on reviewing fundamental concepts")
		} else if avg > 90 {
			recs = append(recs, "Ready for advanced topics and challenges")
		}
	}

	if len(months) > 0 {
		progress := PlanProgress(months) / 100
		if progress < 0.3 {
			recs = append(recs, "Increase daily learning time for better progress")
		} else if progress > 0.8 {
			recs = append(recs, "Consider exploring specialized tracks")
		}
	}

	if n := len(skills); n > 0 {
		if n < 5 {
			recs = append(recs, "Expand your skill set with complementary technologies")
		} else if n > 15 {
			recs = append(recs, "Focus on deepening expertise in core skills")
		}
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func careerReadiness(scores []float64, months []PlanMonth, skills []string) *CareerReadiness {
	progressScore := math.Min(PlanProgress(months)/100, 1.0)
	skillScore := math.Min(float64(len(skills))/10, 1.0)
	performanceScore := 0.0
	if avg, ok := mean(scores); ok {
		performanceScore = avg / 100
	}

	overall := progressScore*0.4 + skillScore*0.3 + performanceScore*0.3

	r := &CareerReadiness{
		OverallScore: overall,
		Components: map[string]float64{
			"progress":    progressScore,
			"skills":      skillScore,
			"performance": performanceScore,
		},
	}
	switch {
	case overall >= 0.8:
		r.Level, r.Description = "High", "Ready for senior-level positions"
	case overall >= 0.6:
		r.Level, r.Description = "Medium", "Ready for mid-level positions"
	case overall >= 0.4:
		r.Level, r.Description = "Entry", "Ready for entry-level positions"
	default:
		r.Level, r.Description = "Developing", "Continue learning to improve readiness"
	}
	return r
}

func scoredQuizzes(quizzes []QuizResult) []float64 {
	var scores []float64
	for _, q := range quizzes {
		if q.Score != nil {
			scores = append(scores, *q.Score)
		}
	}
	return scores
}

func mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
