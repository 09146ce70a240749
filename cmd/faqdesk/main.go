// Package main is the entry point for the faqdesk server.
// It loads configuration, connects to services, builds the in-memory
// content tree, sets up routing, and starts the HTTP server with
// graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"faqdesk/internal/cache"
	"faqdesk/internal/config"
	"faqdesk/internal/content"
	"faqdesk/internal/database"
	"faqdesk/internal/handlers"
	"faqdesk/internal/i18n"
	"faqdesk/internal/router"
	"faqdesk/internal/session"
	"faqdesk/internal/storage"
	"faqdesk/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"languages", cfg.Languages,
		"default_language", cfg.DefaultLanguage,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + navigation sessions).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize data stores.
	categoryStore := store.NewCategoryStore(db)
	questionStore := store.NewQuestionStore(db)
	followUpStore := store.NewFollowUpStore(db)
	settingStore := store.NewSettingStore(db)
	importStore := store.NewImportStore(db)

	// Load the full content set and build the in-memory aggregate.
	categories, err := categoryStore.List()
	if err != nil {
		slog.Error("failed to load categories", "error", err)
		os.Exit(1)
	}
	questions, err := questionStore.List(store.ListFilter{})
	if err != nil {
		slog.Error("failed to load questions", "error", err)
		os.Exit(1)
	}
	contentTree := content.New(categories, questions)
	catCount, qCount := contentTree.Len()
	slog.Info("content tree built", "categories", catCount, "questions", qCount)

	resolver := i18n.NewResolver(cfg.DefaultLanguage, cfg.Languages)

	// Connect to S3-compatible object storage (optional — attachments
	// are disabled without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, attachment uploads disabled")
	}

	// Two-level cache for the resolved public tree, plus session storage.
	treeCache := cache.NewTreeCache(valkeyClient, cache.DefaultTreeTTL)
	sessionStore := session.NewStore(valkeyClient, session.DefaultTTL)

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(contentTree, resolver, categoryStore, questionStore, followUpStore, settingStore, importStore, sessionStore, storageClient, treeCache)
	publicHandlers := handlers.NewPublic(contentTree, resolver, settingStore, sessionStore, treeCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(cfg.AdminToken, adminHandlers, publicHandlers)

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// attachment uploads to S3.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
