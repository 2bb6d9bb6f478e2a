package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkeep/intelligent-support-form/internal/app"
	"github.com/inkeep/intelligent-support-form/internal/config"
	"github.com/inkeep/intelligent-support-form/internal/transport/rest"
	"github.com/inkeep/intelligent-support-form/internal/transport/ws"
)

// @title Intelligent Support Form API
// @version 1.0
// @description Support intake with AI answers, escalation and helpdesk ticket creation
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	log := app.NewLogger(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("AI config",
		slog.String("base_url", cfg.AI.BaseURL),
		slog.String("qa_model", cfg.AI.Models.QA),
		slog.String("context_model", cfg.AI.Models.Context),
		slog.Bool("api_key", cfg.AI.IsEnabled()))
	if !cfg.Zendesk.Complete() {
		log.Warn("helpdesk credentials incomplete, ticket submission will fail with a configuration error")
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer a.Close(context.Background())

	// Initialize WebSocket hub
	wsHub := ws.NewHub(log)
	a.SessionService.SetBroadcaster(wsHub)

	router := rest.NewRouter(&rest.Container{
		AuthService:    a.AuthService,
		SessionService: a.SessionService,
		TicketService:  a.TicketService,
		WSHub:          wsHub,
		CORS:           cfg.CORS,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("ListenAndServe", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", slog.Any("err", err))
	}

	log.Info("server exited")
}
