package storage

import (
	"context"
	"database/sql"
	"log"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// psql builds Postgres queries with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// TextExtractor returns the plain text of a stored attachment.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// ResumeAnalyzer writes the recruiter-facing assessment of a resume.
type ResumeAnalyzer interface {
	AnalyzeResume(ctx context.Context, name, email, resumeText string) (string, error)
}

// Options configures the corpus reader. Zero values disable the optional parts.
type Options struct {
	RecruiterID int64
	Extractor   TextExtractor
	Analyzer    ResumeAnalyzer
}

// DB reads the recruiter assistant corpus straight from the platform database.
type DB struct {
	connection *sql.DB
	opts       Options
	now        func() time.Time
}

func NewDB(dataSourceName string, opts Options) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return newDB(db, opts), nil
}

func newDB(conn *sql.DB, opts Options) *DB {
	return &DB{connection: conn, opts: opts, now: time.Now}
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		log.Println("Error closing the database connection:", err)
	}
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.connection.PingContext(ctx)
}
