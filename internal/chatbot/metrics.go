package chatbot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// messagesTotal counts handled turns by classified intent.
	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recruiter_assistant",
		Subsystem: "chatbot",
		Name:      "messages_total",
		Help:      "Total chatbot turns by classified intent",
	}, []string{"intent"})

	// backendFailuresTotal counts recovered backend failures by operation.
	// Labels: op (load_insights, search_emails, user_analytics)
	backendFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recruiter_assistant",
		Subsystem: "chatbot",
		Name:      "backend_failures_total",
		Help:      "Backend failures recovered into a degraded reply",
	}, []string{"op"})

	turnLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "recruiter_assistant",
		Subsystem: "chatbot",
		Name:      "turn_latency_seconds",
		Help:      "Time from message receipt to composed reply",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"intent"})

	// waitlistSize is the number of waitlisted entries across all sessions.
	waitlistSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "recruiter_assistant",
		Subsystem: "chatbot",
		Name:      "waitlist_entries",
		Help:      "Waitlisted candidates across live sessions",
	})
)

func recordTurn(intent Intent, seconds float64) {
	messagesTotal.WithLabelValues(string(intent)).Inc()
	turnLatencySeconds.WithLabelValues(string(intent)).Observe(seconds)
}

func recordBackendFailure(op string) {
	backendFailuresTotal.WithLabelValues(op).Inc()
}
