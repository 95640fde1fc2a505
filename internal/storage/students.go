package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"recruiter-assistant/internal/insights"
)

// studentsQuery joins each student with onboarding answers, the first
// learning plan and the first candidate vector.
func studentsQuery() sq.SelectBuilder {
	return psql.Select(
		"u.id", "u.google_name", "u.email", "u.created_at", "u.created_by_recruiter_id",
		"o.career_goals", "o.current_skills", "lp.plan", "cv.skills_tags", "cv.summary_text",
	).
		From("users u").
		LeftJoin("onboarding o ON o.user_id = u.id").
		LeftJoin("LATERAL (SELECT plan FROM learning_plans WHERE user_id = u.id ORDER BY id LIMIT 1) lp ON true").
		LeftJoin("LATERAL (SELECT skills_tags, summary_text FROM candidate_vectors WHERE user_id = u.id ORDER BY id LIMIT 1) cv ON true").
		Where(sq.Eq{"u.user_type": "student"}).
		OrderBy("u.id")
}

func (db *DB) loadStudents(ctx context.Context) ([]insights.CandidateRecord, error) {
	query, args, err := studentsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build students query: %w", err)
	}

	rows, err := db.connection.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var students []insights.CandidateRecord
	for rows.Next() {
		var (
			id                               int64
			name, email, summary             sql.NullString
			createdAt                        sql.NullTime
			addedBy                          sql.NullInt64
			goals, current, plan, skillsTags []byte
		)
		if err := rows.Scan(&id, &name, &email, &createdAt, &addedBy, &goals, &current, &plan, &skillsTags, &summary); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}

		rec := insights.CandidateRecord{
			ID:               insights.ID(strconv.FormatInt(id, 10)),
			Name:             displayName(id, name.String, email.String),
			Email:            email.String,
			Summary:          summary.String,
			SkillsTags:       decodeStringList(skillsTags),
			CurrentSkills:    decodeStringList(current),
			LearningProgress: insights.PlanProgress(decodePlan(plan)),
			CareerGoals:      decodeStringList(goals),
			AddedByRecruiter: addedBy.Valid && db.opts.RecruiterID != 0 && addedBy.Int64 == db.opts.RecruiterID,
		}
		if createdAt.Valid {
			rec.CreatedAt = insights.Timestamp{Time: createdAt.Time}
		}
		students = append(students, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return students, nil
}

func displayName(id int64, googleName, email string) string {
	switch {
	case strings.TrimSpace(googleName) != "":
		return googleName
	case email != "":
		return email
	default:
		return fmt.Sprintf("Student %d", id)
	}
}

// decodeStringList accepts a JSON list, a JSON string or NULL.
func decodeStringList(raw []byte) insights.StringList {
	if len(raw) == 0 {
		return nil
	}
	var l insights.StringList
	if err := json.Unmarshal(raw, &l); err != nil {
		// Plain text column content: treat as comma separated.
		return insights.SplitAndTrim(string(raw))
	}
	return l
}

// decodePlan returns the months of a learning plan document.
func decodePlan(raw []byte) []insights.PlanMonth {
	if len(raw) == 0 {
		return nil
	}
	var doc struct {
		Months []insights.PlanMonth `json:"months"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc.Months
}
