package service

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/sakif/flashcard-studio/internal/ai"
	"github.com/sakif/flashcard-studio/internal/apperror"
)

// TranscribeService turns uploaded audio into text via the speech model.
type TranscribeService struct {
	transcriber ai.Transcriber
	logger      *slog.Logger
}

// NewTranscribeService creates a TranscribeService.
func NewTranscribeService(transcriber ai.Transcriber, logger *slog.Logger) *TranscribeService {
	return &TranscribeService{
		transcriber: transcriber,
		logger:      logger,
	}
}

// Transcribe returns the transcript for the uploaded audio.
//
// A transcript that comes back empty (silence, noise, unsupported speech)
// is a client-facing validation error, not a server fault — the upload was
// fine, there was just nothing to hear.
func (s *TranscribeService) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	transcript, err := s.transcriber.Transcribe(ctx, filename, audio)
	if err != nil {
		s.logger.Error("transcription request failed", slog.String("error", err.Error()))
		return "", apperror.Upstream(err)
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", apperror.ValidationFailed("audio", "Could not transcribe audio")
	}

	s.logger.Info("audio transcribed", slog.Int("transcriptLen", len(transcript)))

	return transcript, nil
}
