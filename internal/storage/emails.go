package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"recruiter-assistant/internal/insights"
)

const (
	recentEmailLimit = 20
	searchLimit      = 10
)

var emailColumns = []string{
	"id", "sender_name", "sender_email", "subject", "content", "attachments", "received_at", "processed",
}

func (db *DB) emailsQuery() sq.SelectBuilder {
	q := psql.Select(emailColumns...).From("email_applications")
	if db.opts.RecruiterID != 0 {
		q = q.Where(sq.Eq{"recruiter_id": db.opts.RecruiterID})
	}
	return q.OrderBy("received_at DESC")
}

// searchQuery matches the phrase case-insensitively against sender, subject
// and body.
func (db *DB) searchQuery(phrase string) sq.SelectBuilder {
	pattern := "%" + escapeLike(strings.ToLower(phrase)) + "%"
	return db.emailsQuery().
		Where(sq.Or{
			sq.ILike{"sender_name": pattern},
			sq.ILike{"sender_email": pattern},
			sq.ILike{"subject": pattern},
			sq.ILike{"content": pattern},
		}).
		Limit(searchLimit)
}

func (db *DB) loadEmails(ctx context.Context) ([]insights.EmailRecord, error) {
	return db.queryEmails(ctx, db.emailsQuery().Limit(recentEmailLimit))
}

func (db *DB) queryEmails(ctx context.Context, q sq.SelectBuilder) ([]insights.EmailRecord, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build emails query: %w", err)
	}

	rows, err := db.connection.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query emails: %w", err)
	}
	defer rows.Close()

	var emails []insights.EmailRecord
	for rows.Next() {
		var (
			id                      int64
			senderName, senderEmail sql.NullString
			subject, content        sql.NullString
			attachments             []byte
			receivedAt              sql.NullTime
			processed               sql.NullBool
		)
		if err := rows.Scan(&id, &senderName, &senderEmail, &subject, &content, &attachments, &receivedAt, &processed); err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}

		rec := insights.EmailRecord{
			ID:          insights.ID(strconv.FormatInt(id, 10)),
			SenderName:  senderName.String,
			SenderEmail: senderEmail.String,
			Subject:     subject.String,
			Content:     content.String,
			Attachments: decodeAttachments(attachments),
			Source:      "stored",
		}
		if rec.SenderName == "" {
			rec.SenderName = rec.SenderEmail
		}
		if receivedAt.Valid {
			rec.ReceivedAt = insights.Timestamp{Time: receivedAt.Time}
		}
		p := processed.Valid && processed.Bool
		rec.Processed = &p
		emails = append(emails, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return emails, nil
}

// enrich fills missing attachment text from disk and, when analyze is set and
// the email carries a resume, asks the analyzer for an assessment. Failures
// leave the email as is.
func (db *DB) enrich(ctx context.Context, email *insights.EmailRecord, analyze bool) {
	var resume strings.Builder
	for i := range email.Attachments {
		att := &email.Attachments[i]
		if att.Content == "" && att.FilePath != "" && db.opts.Extractor != nil {
			text, err := db.opts.Extractor.ExtractText(att.FilePath)
			if err != nil {
				log.Printf("[Storage] extract %s: %v", att.Filename, err)
			} else {
				att.Content = text
			}
		}
		if att.Type == "pdf" && att.Content != "" {
			fmt.Fprintf(&resume, "\n\nPDF: %s\n%s", att.Filename, att.Content)
		}
	}

	if !analyze || resume.Len() == 0 || db.opts.Analyzer == nil {
		return
	}
	analysis, err := db.opts.Analyzer.AnalyzeResume(ctx, email.SenderName, email.SenderEmail, strings.TrimSpace(resume.String()))
	if err != nil {
		log.Printf("[Storage] resume analysis for %s: %v", email.SenderEmail, err)
		return
	}
	email.PDFAnalysis = analysis
}

func decodeAttachments(raw []byte) []insights.Attachment {
	atts := []insights.Attachment{}
	if len(raw) == 0 {
		return atts
	}
	if err := json.Unmarshal(raw, &atts); err != nil || atts == nil {
		return []insights.Attachment{}
	}
	return atts
}

// escapeLike escapes ILIKE wildcards so the phrase matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
