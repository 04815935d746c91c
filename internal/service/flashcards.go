package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/flashcard-studio/internal/ai"
	"github.com/sakif/flashcard-studio/internal/apperror"
	"github.com/sakif/flashcard-studio/internal/flashcards"
	"github.com/sakif/flashcard-studio/internal/model"
)

// generatePrompt instructs the model to emit the exact Question:/Answer:
// format the extractor parses. Changing this wording changes what the
// regex sees — treat prompt and extractor as one unit.
const generatePrompt = "Generate informative flashcards from this content.\n" +
	"Format each flashcard as:\n" +
	"Question: <question>\nAnswer: <answer>\n" +
	"No other output.\n\n" +
	"Content:\n"

// FlashcardService turns study notes into flashcards: cache lookup first,
// then prompt → completion → extraction → cache store on a miss.
type FlashcardService struct {
	completer ai.Completer
	cache     *flashcards.Cache
	logger    *slog.Logger
}

// NewFlashcardService creates a FlashcardService.
func NewFlashcardService(completer ai.Completer, cache *flashcards.Cache, logger *slog.Logger) *FlashcardService {
	return &FlashcardService{
		completer: completer,
		cache:     cache,
		logger:    logger,
	}
}

// Generate returns flashcards for the submitted notes.
//
// The trimmed text is the cache key. On a hit the model is never called.
// On a miss, the completion is extracted into cards and only a non-empty
// result is cached — an empty extraction comes back as a validation error
// ("no flashcards found") and the next identical submission retries the
// model.
//
// count > 0 truncates the response to the first count cards AFTER the
// cache has been consulted and updated. It shapes this one response only;
// the full set stays cached for later requests.
func (s *FlashcardService) Generate(ctx context.Context, text string, count int) ([]model.Flashcard, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "Please enter study notes.")
	}

	cards, err := s.cache.GetOrCreate(text, func() ([]model.Flashcard, error) {
		completion, err := s.completer.Complete(ctx, generatePrompt+text)
		if err != nil {
			s.logger.Error("completion request failed", slog.String("error", err.Error()))
			return nil, apperror.Upstream(err)
		}

		extracted := flashcards.Extract(strings.TrimSpace(completion))

		s.logger.Info("flashcards extracted",
			slog.Int("count", len(extracted)),
			slog.Int("textLen", len(text)),
		)

		return extracted, nil
	})
	if err != nil {
		return nil, err
	}

	if len(cards) == 0 {
		return nil, apperror.ValidationFailed("text", "No flashcards found. Try different input.")
	}

	// Re-slice, never mutate: the backing array is the cache entry.
	if count > 0 && count < len(cards) {
		cards = cards[:count]
	}

	return cards, nil
}
