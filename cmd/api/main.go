package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobapp-generator/internal/bootstrap"
	"jobapp-generator/internal/shared/config"
	"jobapp-generator/internal/shared/server"
	"jobapp-generator/internal/shared/telemetry"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	telemetry.Configure(os.Stdout, cfg.LogLevel)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("api.bootstrap_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := server.Addr(cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		telemetry.Info("api.start", map[string]any{
			"addr":   addr,
			"env":    cfg.Env,
			"model":  cfg.LLM.Model,
			"resume": cfg.ResumePath,
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			telemetry.Error("api.server_error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	case <-ctx.Done():
		telemetry.Info("api.shutdown", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			telemetry.Error("api.shutdown_error", map[string]any{"error": err.Error()})
		}
	}
}
