package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/flashcard-studio/internal/apperror"
	"github.com/sakif/flashcard-studio/internal/model"
	"github.com/sakif/flashcard-studio/internal/service"
	"github.com/sakif/flashcard-studio/internal/session"
)

// FlashcardHandler owns the flashcard generation endpoint.
type FlashcardHandler struct {
	svc    *service.FlashcardService
	logger *slog.Logger
}

// NewFlashcardHandler creates a FlashcardHandler.
func NewFlashcardHandler(svc *service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	return &FlashcardHandler{svc: svc, logger: logger}
}

// generateResponse is the success body. Errors use flashcardError below so
// that every response from this endpoint — success or not — carries a
// "flashcards" array, which is what the original frontend expects.
type generateResponse struct {
	Status     string            `json:"status"`
	Flashcards []model.Flashcard `json:"flashcards"`
}

type flashcardError struct {
	ErrorResponse
	Flashcards []model.Flashcard `json:"flashcards"`
}

// HandleGenerate turns submitted study notes into flashcards.
//
// HTTP: POST /generate_flashcards
// Auth: required (session.Require middleware)
// BODY: {"text": "...", "count": 3}   — count optional, 0 means "all"
//
// 400 for empty text or an extraction that found nothing, 500 when the
// completion model fails.
func (h *FlashcardHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		// Unreachable behind the middleware, but don't crash without it.
		h.writeError(w, apperror.Unauthorized("Login required"))
		return
	}

	var req struct {
		Text  string `json:"text"`
		Count int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	cards, err := h.svc.Generate(r.Context(), req.Text, req.Count)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("flashcards served",
		slog.String("userID", sess.UserID),
		slog.Int("count", len(cards)),
	)

	writeJSON(w, http.StatusOK, generateResponse{
		Status:     "success",
		Flashcards: cards,
	})
}

// writeError sends the standard error envelope plus an empty flashcards
// list.
func (h *FlashcardHandler) writeError(w http.ResponseWriter, err error) {
	status, kind, message := errorStatus(err)
	writeJSON(w, status, flashcardError{
		ErrorResponse: ErrorResponse{
			Status:  "error",
			Error:   kind,
			Message: message,
		},
		Flashcards: []model.Flashcard{},
	})
}
