package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/flashcard-studio/internal/apperror"
	"github.com/sakif/flashcard-studio/internal/service"
)

// EvaluateHandler owns the answer-grading endpoint.
type EvaluateHandler struct {
	svc    *service.EvaluateService
	logger *slog.Logger
}

// NewEvaluateHandler creates an EvaluateHandler.
func NewEvaluateHandler(svc *service.EvaluateService, logger *slog.Logger) *EvaluateHandler {
	return &EvaluateHandler{svc: svc, logger: logger}
}

// HandleEvaluate grades a free-form answer against the expected one.
//
// HTTP: POST /evaluate_answer
// BODY: {"user_answer": "...", "correct_answer": "..."}
//
// The response always carries "correct", even on errors — that's the
// contract the original frontend was written against:
//
//	200 {"correct": true}
//	400 {"correct": false, "reason": "Empty input"}
//	500 {"correct": false, "error": "<raw upstream error>"}
func (h *EvaluateHandler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserAnswer    string `json:"user_answer"`
		CorrectAnswer string `json:"correct_answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"correct": false,
			"reason":  "Empty input",
		})
		return
	}

	correct, err := h.svc.Evaluate(r.Context(), req.UserAnswer, req.CorrectAnswer)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"correct": false,
				"reason":  "Empty input",
			})
			return
		}

		var appErr *apperror.AppError
		message := err.Error()
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"correct": false,
			"error":   message,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"correct": correct})
}
