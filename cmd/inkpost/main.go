// Package main is the entry point for the inkpost API server. It loads
// configuration, connects to PostgreSQL and the content store, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkpost/internal/blob"
	"inkpost/internal/config"
	"inkpost/internal/database"
	"inkpost/internal/handlers"
	"inkpost/internal/repository"
	"inkpost/internal/router"
	"inkpost/internal/store"
	"inkpost/internal/tokenizer"
)

func main() {
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
		"blob_backend", cfg.BlobBackend,
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

	// Select the content store backend.
	var blobs blob.Store
	switch cfg.BlobBackend {
	case "s3":
		blobs, err = blob.NewS3(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			slog.Error("failed to initialize S3 content store", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 content store connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	default:
		blobs, err = blob.NewFS(cfg.ContentDir)
		if err != nil {
			slog.Error("failed to initialize content directory", "error", err)
			os.Exit(1)
		}
		slog.Info("filesystem content store ready", "dir", cfg.ContentDir)
	}

	// Start the title tokenizer worker pool. Dictionary loading is the
	// slow part of startup, so it happens once here.
	seg, err := tokenizer.New(cfg.TokenizerWorkers, cfg.DictPath)
	if err != nil {
		slog.Error("failed to load tokenizer dictionary", "error", err)
		os.Exit(1)
	}
	defer seg.Close()

	// Initialize data stores and the post repository.
	postStore := store.NewPostStore(db)
	commentStore := store.NewCommentStore(db)
	repo := repository.NewPost(postStore, blobs, seg, cfg.DefaultPageSize)

	// Create handler groups with their dependencies.
	postHandlers := handlers.NewPosts(repo)
	commentHandlers := handlers.NewComments(commentStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(postHandlers, commentHandlers)

	// Create the HTTP server with sensible timeouts. ReadTimeout must
	// accommodate multipart uploads up to the content size limit.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
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
