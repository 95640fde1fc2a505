package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "recruiter-assistant/docs" // Swagger docs
	"recruiter-assistant/internal/api"
	"recruiter-assistant/internal/app"
	"recruiter-assistant/internal/chatbot"
	"recruiter-assistant/internal/config"
)

// @title Recruiter Assistant API
// @version 1.0
// @description Conversational assistant that answers recruiter questions about students and email applications

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /api

func main() {
	cfg := config.LoadConfig()

	source, cleanup, err := app.BuildSource(cfg)
	if err != nil {
		log.Fatal("corpus source:", err)
	}
	defer cleanup()

	engine := chatbot.NewEngine(source, chatbot.WithTimeout(cfg.BackendTimeout))
	sessions := api.NewSessionStore(cfg.SessionIdleTimeout)
	apiSrv := api.NewAPI(engine, sessions, source)
	router := api.NewRouter(apiSrv)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	apiSrv.StartBackgroundWorkers(workerCtx, api.DefaultSweepInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		stopWorkers()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println("server shutdown:", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("API server listening on :%s\n", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}

	<-idleConnsClosed
}
