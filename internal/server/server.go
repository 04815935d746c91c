// Package server sets up the HTTP server, router, and all route
// definitions.
//
// This is the composition root: every dependency — database, session
// store, model clients, services, handlers — is created and wired here, in
// one place, rather than scattered across the codebase. main.go only reads
// config and calls New + Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/flashcard-studio/internal/ai"
	"github.com/sakif/flashcard-studio/internal/auth"
	"github.com/sakif/flashcard-studio/internal/config"
	"github.com/sakif/flashcard-studio/internal/flashcards"
	"github.com/sakif/flashcard-studio/internal/handler"
	"github.com/sakif/flashcard-studio/internal/middleware"
	sqliteRepo "github.com/sakif/flashcard-studio/internal/repository/sqlite"
	"github.com/sakif/flashcard-studio/internal/service"
	"github.com/sakif/flashcard-studio/internal/session"
)

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with the full dependency graph assembled.
//
// WIRING:
//
//	sqlite.DB ──────────────┐
//	session.MemoryStore ────┼→ AuthService ──→ AuthHandler
//	auth.PasswordService ───┘
//	ai.Client (completion) ─┬→ FlashcardService → FlashcardHandler
//	flashcards.Cache ───────┘
//	ai.Client (completion) ──→ EvaluateService  → EvaluateHandler
//	ai.Client (whisper) ─────→ TranscribeService → TranscribeHandler
//
// Each layer receives interfaces, not concrete types, so tests can swap in
// fakes at any seam.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and all route handlers.
//
// ROUTES:
//
//	POST /register              → create account
//	POST /login                 → password login, sets session cookie
//	GET  /logout                → clear session, redirect home
//	GET  /auth/google/login     → Google OAuth (when configured)
//	GET  /auth/google/callback
//	POST /generate_flashcards   → notes → flashcards (session required)
//	POST /transcribe_audio      → audio → transcript
//	POST /evaluate_answer       → semantic grading
//	GET  /healthz               → liveness probe
func (s *Server) setupRoutes() error {
	// Global middleware, in order: request ID for tracing, real client IP
	// behind proxies, panic recovery, then our request logger.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === Session signing ===
	tokens, err := auth.NewTokenService(s.config.SecretKey)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	sessions := session.NewMemoryStore()

	// === External model clients ===
	// One client for completions, one for transcription — same wire
	// protocol, different endpoints. The whisper endpoint is typically a
	// local faster-whisper server.
	completer := ai.NewClient(s.config.OpenAIKey, s.config.OpenAIEndpoint, s.config.OpenAIModel)
	transcriber := ai.NewClient(s.config.WhisperKey, s.config.WhisperEndpoint, s.config.WhisperModel)

	// === Services ===
	authService := service.NewAuthService(s.db, auth.NewPasswordService(), sessions, s.logger)
	flashcardService := service.NewFlashcardService(completer, flashcards.NewCache(), s.logger)
	evaluateService := service.NewEvaluateService(completer, s.logger)
	transcribeService := service.NewTranscribeService(transcriber, s.logger)

	// === Handlers ===
	var google *auth.GoogleProvider
	if s.config.GoogleClientID != "" && s.config.GoogleClientSecret != "" {
		google = auth.NewGoogleProvider(
			s.config.GoogleClientID,
			s.config.GoogleClientSecret,
			s.config.GoogleCallbackURL,
		)
	}

	authHandler := handler.NewAuthHandler(authService, tokens, google, s.logger)
	flashcardHandler := handler.NewFlashcardHandler(flashcardService, s.logger)
	evaluateHandler := handler.NewEvaluateHandler(evaluateService, s.logger)
	transcribeHandler := handler.NewTranscribeHandler(transcribeService, s.logger)

	// === Routes ===
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Get("/logout", authHandler.HandleLogout)

	if google != nil {
		s.router.Get("/auth/google/login", authHandler.HandleGoogleLogin)
		s.router.Get("/auth/google/callback", authHandler.HandleGoogleCallback)
	} else {
		s.logger.Warn("Google OAuth not configured — /auth/google routes disabled")
	}

	// Only flashcard generation is gated: transcription and evaluation
	// are open, matching the original surface.
	s.router.Group(func(r chi.Router) {
		r.Use(session.Require(tokens, sessions))
		r.Post("/generate_flashcards", flashcardHandler.HandleGenerate)
	})

	s.router.Post("/transcribe_audio", transcribeHandler.HandleTranscribe)
	s.router.Post("/evaluate_answer", evaluateHandler.HandleEvaluate)

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds to finish, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
		// No WriteTimeout: model calls are synchronous and can
		// legitimately take longer than any fixed response budget.
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
