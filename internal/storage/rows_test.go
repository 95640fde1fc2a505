package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"recruiter-assistant/internal/insights"
)

// cannedQuery answers the next query whose SQL contains match.
type cannedQuery struct {
	match string
	cols  []string
	rows  [][]driver.Value
}

// cannedConn serves cannedQuery results in order and records query args.
type cannedConn struct {
	mu      sync.Mutex
	queries []cannedQuery
	args    [][]driver.Value
}

func (c *cannedConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.queries) == 0 {
		return nil, fmt.Errorf("no result queued for %s", query)
	}
	next := c.queries[0]
	if !strings.Contains(query, next.match) {
		return nil, fmt.Errorf("expected query containing %q, got %s", next.match, query)
	}
	c.queries = c.queries[1:]

	values := make([]driver.Value, len(args))
	for i, a := range args {
		values[i] = a.Value
	}
	c.args = append(c.args, values)
	return &cannedRows{cols: next.cols, rows: next.rows}, nil
}

func (c *cannedConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *cannedConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *cannedConn) Close() error { return nil }

func (c *cannedConn) Connect(context.Context) (driver.Conn, error) { return c, nil }

func (c *cannedConn) Driver() driver.Driver { return cannedDriver{} }

type cannedDriver struct{}

func (cannedDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open through the connector")
}

type cannedRows struct {
	cols []string
	rows [][]driver.Value
}

func (r *cannedRows) Columns() []string { return r.cols }

func (r *cannedRows) Close() error { return nil }

func (r *cannedRows) Next(dest []driver.Value) error {
	if len(r.rows) == 0 {
		return io.EOF
	}
	copy(dest, r.rows[0])
	r.rows = r.rows[1:]
	return nil
}

func cannedDB(t *testing.T, opts Options, queries ...cannedQuery) (*DB, *cannedConn) {
	t.Helper()
	conn := &cannedConn{queries: queries}
	sqlDB := sql.OpenDB(conn)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return newDB(sqlDB, opts), conn
}

var studentCols = []string{"id", "google_name", "email", "created_at", "created_by_recruiter_id",
	"career_goals", "current_skills", "plan", "skills_tags", "summary_text"}

func TestLoadInsightsMapsRows(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	db, conn := cannedDB(t, Options{RecruiterID: 7},
		cannedQuery{match: "FROM users u", cols: studentCols, rows: [][]driver.Value{
			{int64(1), "Ada Lovelace", "ada@example.com", created, int64(7),
				`["Backend engineer","SRE"]`, `"Go, SQL"`,
				`{"months":[{"status":"completed"},{"status":"in_progress"}]}`,
				`["Go","Docker"]`, "Systems thinker"},
			{int64(2), nil, "grace@example.com", nil, int64(9),
				"Data science, ML", nil, nil, nil, nil},
			{int64(3), "  ", nil, nil, nil, nil, nil, nil, nil, nil},
		}},
		cannedQuery{match: "FROM email_applications", cols: emailColumns, rows: [][]driver.Value{
			{int64(11), "Jordan Lee", "jordan@example.com", "Application", "Hello",
				`[{"filename":"cv.pdf","type":"pdf"}]`, created, true},
			{int64(12), nil, "sam@example.com", nil, nil, nil, nil, nil},
		}},
	)

	snap, err := db.LoadInsights(context.Background())
	if err != nil {
		t.Fatalf("LoadInsights: %v", err)
	}

	if len(snap.Students) != 3 {
		t.Fatalf("expected 3 students, got %d", len(snap.Students))
	}
	ada, grace, anon := snap.Students[0], snap.Students[1], snap.Students[2]
	if ada.ID != "1" || ada.Name != "Ada Lovelace" || !ada.CreatedAt.Time.Equal(created) {
		t.Fatalf("unexpected first student %+v", ada)
	}
	if !reflect.DeepEqual([]string(ada.CareerGoals), []string{"Backend engineer", "SRE"}) {
		t.Fatalf("career goals: %#v", ada.CareerGoals)
	}
	if !reflect.DeepEqual([]string(ada.CurrentSkills), []string{"Go", "SQL"}) {
		t.Fatalf("current skills: %#v", ada.CurrentSkills)
	}
	if ada.LearningProgress != 50 || ada.Summary != "Systems thinker" || len(ada.SkillsTags) != 2 {
		t.Fatalf("unexpected profile %+v", ada)
	}
	if !ada.AddedByRecruiter || grace.AddedByRecruiter || anon.AddedByRecruiter {
		t.Fatalf("added_by_recruiter: %v %v %v", ada.AddedByRecruiter, grace.AddedByRecruiter, anon.AddedByRecruiter)
	}
	if grace.Name != "grace@example.com" {
		t.Fatalf("expected email as name, got %q", grace.Name)
	}
	if !reflect.DeepEqual([]string(grace.CareerGoals), []string{"Data science", "ML"}) {
		t.Fatalf("plain text goals: %#v", grace.CareerGoals)
	}
	if anon.Name != "Student 3" || anon.CareerGoals != nil {
		t.Fatalf("unexpected empty student %+v", anon)
	}

	if len(snap.Emails) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(snap.Emails))
	}
	stored, bare := snap.Emails[0], snap.Emails[1]
	if stored.Processed == nil || !*stored.Processed || len(stored.Attachments) != 1 {
		t.Fatalf("unexpected first email %+v", stored)
	}
	if bare.Processed == nil || *bare.Processed {
		t.Fatalf("NULL processed should map to false, got %v", bare.Processed)
	}
	if bare.SenderName != "sam@example.com" || bare.Attachments == nil || bare.Source != "stored" {
		t.Fatalf("unexpected bare email %+v", bare)
	}

	if len(conn.args) != 2 || conn.args[0][0] != "student" || conn.args[1][0] != int64(7) {
		t.Fatalf("unexpected query args %v", conn.args)
	}
}

func TestFetchUserAnalyticsUnknownStudent(t *testing.T) {
	t.Parallel()

	db, _ := cannedDB(t, Options{},
		cannedQuery{match: "EXISTS(", cols: []string{"exists"}, rows: [][]driver.Value{{false}}},
	)

	_, err := db.FetchUserAnalytics(context.Background(), "42")
	if !errors.Is(err, ErrStudentNotFound) || !errors.Is(err, insights.ErrDataUnavailable) {
		t.Fatalf("expected unavailable student not found, got %v", err)
	}
}

func TestFetchUserAnalyticsFromRows(t *testing.T) {
	t.Parallel()

	taken := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	db, conn := cannedDB(t, Options{},
		cannedQuery{match: "EXISTS(", cols: []string{"exists"}, rows: [][]driver.Value{{true}}},
		cannedQuery{match: "FROM quiz_submissions", cols: []string{"score", "created_at"}, rows: [][]driver.Value{
			{80.0, taken},
			{int64(90), taken.Add(24 * time.Hour)},
			{nil, nil},
		}},
		cannedQuery{match: "FROM learning_plans", cols: []string{"plan"}},
		cannedQuery{match: "FROM candidate_vectors", cols: []string{"skills_tags"}, rows: [][]driver.Value{{`["Go"]`}}},
	)

	ua, err := db.FetchUserAnalytics(context.Background(), "5")
	if err != nil {
		t.Fatalf("FetchUserAnalytics: %v", err)
	}
	if ua.UserID != "5" || ua.LearningMetrics == nil {
		t.Fatalf("unexpected analytics %+v", ua)
	}
	if ua.LearningMetrics.TotalQuizzes != 3 {
		t.Fatalf("expected 3 quizzes, got %d", ua.LearningMetrics.TotalQuizzes)
	}
	if math.Abs(ua.LearningMetrics.AvgScore-0.85) > 1e-9 {
		t.Fatalf("expected avg score 0.85, got %v", ua.LearningMetrics.AvgScore)
	}
	if ua.CareerReadiness == nil {
		t.Fatal("expected career readiness")
	}
	if len(conn.queries) != 0 {
		t.Fatalf("%d queries not issued", len(conn.queries))
	}
	for i, args := range conn.args {
		if len(args) == 0 || args[0] != int64(5) {
			t.Fatalf("query %d args %v", i, args)
		}
	}
}

func TestSearchEmailsAnalyzesFirstHitOnly(t *testing.T) {
	t.Parallel()

	analyzer := &fakeAnalyzer{}
	db, _ := cannedDB(t, Options{Extractor: fakeExtractor{"b/cv.pdf": "Rust developer"}, Analyzer: analyzer},
		cannedQuery{match: "ILIKE", cols: emailColumns, rows: [][]driver.Value{
			{int64(1), "Jordan Lee", "jordan@example.com", "Developer role", "",
				`[{"filename":"cv.pdf","type":"pdf","content":"Go developer"}]`, nil, false},
			{int64(2), "Sam Park", "sam@example.com", "Developer role", "",
				`[{"filename":"cv.pdf","type":"pdf","file_path":"b/cv.pdf"}]`, nil, false},
		}},
	)

	emails, err := db.SearchEmails(context.Background(), "developer")
	if err != nil {
		t.Fatalf("SearchEmails: %v", err)
	}
	if len(emails) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(emails))
	}
	if analyzer.calls != 1 {
		t.Fatalf("expected one resume analysis, got %d", analyzer.calls)
	}
	if emails[0].PDFAnalysis != "Assessment of Jordan Lee" || emails[1].PDFAnalysis != "" {
		t.Fatalf("unexpected analyses %q, %q", emails[0].PDFAnalysis, emails[1].PDFAnalysis)
	}
	if emails[1].Attachments[0].Content != "Rust developer" {
		t.Fatalf("later hits still get attachment text, got %q", emails[1].Attachments[0].Content)
	}
}
