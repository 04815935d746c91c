package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/flashcard-studio/internal/apperror"
	"github.com/sakif/flashcard-studio/internal/service"
)

// maxAudioUploadBytes caps how much of a multipart upload is buffered in
// memory before spilling to a temp file.
const maxAudioUploadBytes = 32 << 20 // 32 MiB

// TranscribeHandler owns the audio transcription endpoint.
type TranscribeHandler struct {
	svc    *service.TranscribeService
	logger *slog.Logger
}

// NewTranscribeHandler creates a TranscribeHandler.
func NewTranscribeHandler(svc *service.TranscribeService, logger *slog.Logger) *TranscribeHandler {
	return &TranscribeHandler{svc: svc, logger: logger}
}

// HandleTranscribe accepts a multipart audio upload and returns its
// transcript.
//
// HTTP: POST /transcribe_audio
// BODY: multipart/form-data with an "audio" file field
//
// 400 when the file is missing or nothing could be transcribed, 500 when
// the speech model fails.
func (h *TranscribeHandler) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		writeError(w, apperror.ValidationFailed("audio", "No audio uploaded"))
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, apperror.ValidationFailed("audio", "No audio uploaded"))
		return
	}
	defer file.Close()

	transcript, err := h.svc.Transcribe(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "success",
		"transcript": transcript,
	})
}
