package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation, served relative so it works behind any host
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Health check (for Railway, k8s, etc.)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	// Chatbot endpoints
	mux.HandleFunc("/api/chatbot/message", a.MessageHandler)
	mux.HandleFunc("/api/chatbot/welcome", a.WelcomeHandler)
	mux.HandleFunc("/api/chatbot/quick-actions", a.QuickActionsHandler)
	mux.HandleFunc("/api/chatbot/quick-actions/{action}", a.RunQuickActionHandler)
	mux.HandleFunc("/api/chatbot/refresh", a.RefreshHandler)

	// Waitlist endpoints
	mux.HandleFunc("/api/chatbot/waitlist", a.WaitlistHandler)
	mux.HandleFunc("/api/chatbot/waitlist/{id}", a.RemoveFromWaitlistHandler)
	mux.HandleFunc("/api/chatbot/waitlist/{id}/ask", a.AskAboutWaitlistedHandler)

	return mux
}
