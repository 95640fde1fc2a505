package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"recruiter-assistant/internal/insights"
)

// ErrStudentNotFound is returned for analytics of an unknown student.
var ErrStudentNotFound = errors.New("student not found")

var _ insights.Source = (*DB)(nil)

// LoadInsights reads every student, the recruiter's recent applications and
// derives the aggregate analytics from them.
func (db *DB) LoadInsights(ctx context.Context) (*insights.Snapshot, error) {
	students, err := db.loadStudents(ctx)
	if err != nil {
		return nil, insights.Unavailable("load insights", err)
	}
	emails, err := db.loadEmails(ctx)
	if err != nil {
		return nil, insights.Unavailable("load insights", err)
	}

	return &insights.Snapshot{
		Students:  students,
		Emails:    emails,
		Analytics: insights.ComputeAnalytics(students, emails),
		LoadedAt:  db.now(),
	}, nil
}

// SearchEmails returns up to ten applications matching query with attachment
// text filled in. Only the first hit, the one the reply shows, gets a resume
// analysis.
func (db *DB) SearchEmails(ctx context.Context, query string) ([]insights.EmailRecord, error) {
	if strings.TrimSpace(query) == "" {
		return []insights.EmailRecord{}, nil
	}
	emails, err := db.queryEmails(ctx, db.searchQuery(strings.TrimSpace(query)))
	if err != nil {
		return nil, insights.Unavailable("search emails", err)
	}
	for i := range emails {
		db.enrich(ctx, &emails[i], i == 0)
	}
	return emails, nil
}

// FetchUserAnalytics derives learning metrics, recommendations and career
// readiness for one student from quizzes, plan and profile skills.
func (db *DB) FetchUserAnalytics(ctx context.Context, id insights.ID) (*insights.UserAnalytics, error) {
	const op = "fetch user analytics"

	userID, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil {
		return nil, insights.Unavailable(op, fmt.Errorf("invalid user id %q", id))
	}

	var exists bool
	if err := db.queryRow(ctx, studentExistsQuery(userID), &exists); err != nil {
		return nil, insights.Unavailable(op, err)
	}
	if !exists {
		return nil, insights.Unavailable(op, fmt.Errorf("%w: %d", ErrStudentNotFound, userID))
	}

	quizzes, err := db.loadQuizzes(ctx, userID)
	if err != nil {
		return nil, insights.Unavailable(op, err)
	}

	var plan []byte
	if err := db.queryRow(ctx, psql.Select("plan").From("learning_plans").
		Where(sq.Eq{"user_id": userID}).OrderBy("id").Limit(1), &plan); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, insights.Unavailable(op, err)
	}

	var skills []byte
	if err := db.queryRow(ctx, psql.Select("skills_tags").From("candidate_vectors").
		Where(sq.Eq{"user_id": userID}).OrderBy("id").Limit(1), &skills); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, insights.Unavailable(op, err)
	}

	return insights.BuildUserAnalytics(id, quizzes, decodePlan(plan), decodeStringList(skills), db.now()), nil
}

func studentExistsQuery(userID int64) sq.SelectBuilder {
	return psql.Select().Column(sq.Expr("EXISTS(SELECT 1 FROM users WHERE id = ? AND user_type = 'student')", userID))
}

func (db *DB) loadQuizzes(ctx context.Context, userID int64) ([]insights.QuizResult, error) {
	query, args, err := psql.Select("score", "created_at").From("quiz_submissions").
		Where(sq.Eq{"user_id": userID}).OrderBy("created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build quiz query: %w", err)
	}

	rows, err := db.connection.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []insights.QuizResult
	for rows.Next() {
		var (
			score     sql.NullFloat64
			createdAt sql.NullTime
		)
		if err := rows.Scan(&score, &createdAt); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		q := insights.QuizResult{}
		if score.Valid {
			v := score.Float64
			q.Score = &v
		}
		if createdAt.Valid {
			q.TakenAt = createdAt.Time
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (db *DB) queryRow(ctx context.Context, q sq.SelectBuilder, dest ...interface{}) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return db.connection.QueryRowContext(ctx, query, args...).Scan(dest...)
}
