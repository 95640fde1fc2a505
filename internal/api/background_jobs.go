package api

import (
	"context"
	"log"
	"time"
)

// DefaultSweepInterval is how often idle sessions and stale snapshots are swept.
const DefaultSweepInterval = time.Minute

// StartBackgroundWorkers runs the session reaper until ctx is cancelled.
func (a *API) StartBackgroundWorkers(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go a.sweepWorker(ctx, interval)

	log.Printf("[BackgroundJobs] Workers started (session reaper every %v)", interval)
}

func (a *API) sweepWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Sessions] Reaper stopped")
			return
		case <-ticker.C:
			a.sweep()
		}
	}
}

// sweep drops idle sessions and expired cache entries once.
func (a *API) sweep() {
	if n := a.sessions.Reap(); n > 0 {
		log.Printf("[Sessions] Reaped %d idle sessions (%d active)", n, a.sessions.Len())
	}
	if a.cache != nil {
		a.cache.CleanExpired()
	}
}
