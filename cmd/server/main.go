// Package main is the entry point for the flashcard studio server.
//
// main stays minimal: load config, build a logger, hand both to the server
// package. All wiring lives in internal/server; all logic below that.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/flashcard-studio/internal/config"
	"github.com/sakif/flashcard-studio/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := config.Load()

	// SECRET_KEY signs session cookies — without it nobody can log in,
	// so refuse to start rather than limp along.
	if cfg.SecretKey == "" {
		logger.Error("SECRET_KEY not set — generate one with: openssl rand -hex 32")
		os.Exit(1)
	}

	if cfg.OpenAIKey == "" {
		logger.Warn("OPENAI_API_KEY not set — flashcard generation and answer evaluation will fail")
	}

	// Ensure the database directory exists (like `mkdir -p`).
	if dbDir := filepath.Dir(cfg.DBPath); dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
