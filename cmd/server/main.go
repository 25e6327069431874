package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/BerylCAtieno/gtm-studio/internal/a2a"
	"github.com/BerylCAtieno/gtm-studio/internal/api"
	"github.com/BerylCAtieno/gtm-studio/internal/config"
	"github.com/BerylCAtieno/gtm-studio/internal/logger"
	"github.com/BerylCAtieno/gtm-studio/internal/observability"
	"github.com/BerylCAtieno/gtm-studio/internal/profiler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gtm-studio: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing.Enabled, cfg.App.Name, cfg.App.Environment, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}

	// Initialize Gemini client
	geminiClient, err := profiler.NewGeminiClient(cfg.Gemini.APIKey, profiler.GeminiOptions{
		Model:           cfg.Gemini.Model,
		Temperature:     cfg.Gemini.Temperature,
		TopP:            cfg.Gemini.TopP,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Timeout:         cfg.Gemini.Timeout,
	})
	if err != nil {
		return err
	}
	defer geminiClient.Close()

	gateway := profiler.NewGateway(geminiClient, log)
	store := api.NewSessionStore(gateway, cfg.Session.TTL, log)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterConfig{
		ServiceName:    cfg.App.Name,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Log:            log,
		SessionHandler: api.NewSessionHandler(store, log),
		A2AHandler:     a2a.NewA2AHandler(gateway, log),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	port := cfg.Server.Port
	log.Info("GTM Studio starting", "port", port, "model", geminiClient.Model(), "environment", cfg.App.Environment)
	log.Info("Agent card available", "url", fmt.Sprintf("http://localhost:%s/.well-known/agent.json", port))
	log.Info("A2A endpoint available", "url", fmt.Sprintf("http://localhost:%s/a2a/profiler", port))
	log.Info("Dashboard API available", "url", fmt.Sprintf("http://localhost:%s/api/sessions", port))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return store.RunJanitor(gctx, cfg.Session.SweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return shutdownTracing(shutdownCtx)
	})

	return g.Wait()
}
