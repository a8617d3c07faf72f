/*
Package main is the entry point for the LexDraft server.

It is responsible for loading configuration, initializing the global logging
system, connecting the database and artifact storage, wiring the session
registry, landing tracker, and assistant hub, and gracefully handling operating
system interrupt signals (SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lexdraft/internal/app/chat"
	"lexdraft/internal/app/db"
	"lexdraft/internal/app/docgen"
	"lexdraft/internal/app/inference"
	"lexdraft/internal/app/landing"
	"lexdraft/internal/app/session"
	"lexdraft/internal/app/storage"
	"lexdraft/internal/configs"
	"lexdraft/internal/handler"
	"lexdraft/internal/pkg/logx"
	"lexdraft/internal/pkg/pow"
)

func main() {
	// A missing .env is fine; production configures through the environment.
	_ = godotenv.Load()

	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("signup_pow_difficulty", cfg.SignupDifficulty).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect the database and run migrations.
	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database")
	}
	defer pool.Close()

	// Connect the artifact store for generated documents.
	artifacts, err := storage.NewArtifactStore(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize artifact storage")
	}

	// One provider client per browser session; each holds its own credentials.
	registry := session.NewRegistry(func() session.Store {
		return session.NewProvider(cfg.AuthAPIURL, cfg.AuthAPIKey)
	})

	// Assistant chat: generation endpoint client, responder, per-session hub.
	generator := inference.NewClient(cfg.InferenceAPIURL, cfg.InferenceToken)
	assistant := chat.NewHub(chat.NewResponder(generator))

	tracker := landing.NewTracker()
	documents := docgen.NewService(db.NewDocumentStore(pool), artifacts)

	deps := &handler.AppDeps{
		Config:    cfg,
		Sessions:  registry,
		Assistant: assistant,
		Docs:      documents,
		Tracker:   tracker,
		Pow:       pow.NewManager(cfg.SignupDifficulty),
	}

	// Setup HTTP server and routes
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("LexDraft Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	assistant.Shutdown()
	tracker.Shutdown()
	registry.Shutdown()

	logx.Info("Server gracefully stopped.")
}
