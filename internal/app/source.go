package app

import (
	"errors"
	"fmt"
	"log"

	"recruiter-assistant/internal/attachment"
	"recruiter-assistant/internal/config"
	"recruiter-assistant/internal/insights"
	"recruiter-assistant/internal/llm"
	"recruiter-assistant/internal/storage"
)

// ErrNoSource is returned when neither a backend URL nor a database is configured.
var ErrNoSource = errors.New("no corpus source configured: set BACKEND_URL or DATABASE_URL")

// BuildSource returns the cached corpus source selected by cfg and a cleanup
// func that releases it. BACKEND_URL wins over DATABASE_URL.
func BuildSource(cfg *config.Config) (*insights.CachedSource, func(), error) {
	switch {
	case cfg.BackendURL != "":
		log.Printf("[App] corpus source: backend %s (timeout %v)", cfg.BackendURL, cfg.BackendTimeout)
		client := insights.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.BackendTimeout)
		return insights.NewCachedSource(client, cfg.InsightsTTL), func() {}, nil

	case cfg.DatabaseURL != "":
		opts := storage.Options{
			RecruiterID: cfg.RecruiterID,
			Extractor:   attachment.NewParser(cfg.UploadsDir),
		}
		if cfg.LLMEnabled() {
			svc := llm.NewService(cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
			if cfg.LLMEndpoint != "" {
				svc = svc.WithEndpoint(cfg.LLMEndpoint)
			}
			opts.Analyzer = svc
			log.Printf("[App] resume analysis via %s/%s", cfg.LLMProvider, cfg.LLMModel)
		}

		db, err := storage.NewDB(cfg.DatabaseURL, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		log.Printf("[App] corpus source: database (recruiter %d)", cfg.RecruiterID)
		return insights.NewCachedSource(db, cfg.InsightsTTL), db.Close, nil
	}
	return nil, nil, ErrNoSource
}
