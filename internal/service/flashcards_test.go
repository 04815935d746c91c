package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/flashcard-studio/internal/apperror"
	"github.com/sakif/flashcard-studio/internal/flashcards"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeCompleter is an in-memory ai.Completer. It records the prompts it
// receives and counts calls, so tests can verify the cache actually
// prevented a model call.
type fakeCompleter struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestFlashcardService(completer *fakeCompleter) *FlashcardService {
	return NewFlashcardService(completer, flashcards.NewCache(), testLogger())
}

// fiveCards is a completion with five well-formed blocks.
const fiveCards = "Question: What is the capital of France?\n" +
	"Answer: Paris is the capital.\n" +
	"Question: What is the capital of Spain?\n" +
	"Answer: Madrid is the capital.\n" +
	"Question: What is the capital of Italy?\n" +
	"Answer: Rome is the capital.\n" +
	"Question: What is the capital of Germany?\n" +
	"Answer: Berlin is the capital.\n" +
	"Question: What is the capital of Poland?\n" +
	"Answer: Warsaw is the capital.\n"

// =========================================================================
// Generate TESTS
// =========================================================================

func TestGenerate_ExtractsAllCards(t *testing.T) {
	completer := &fakeCompleter{reply: fiveCards}
	svc := newTestFlashcardService(completer)

	cards, err := svc.Generate(context.Background(), "european capitals notes", 0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(cards) != 5 {
		t.Fatalf("len(cards) = %d, want 5", len(cards))
	}
	for i, card := range cards {
		if card.ID != i+1 {
			t.Errorf("cards[%d].ID = %d, want %d", i, card.ID, i+1)
		}
	}
	if completer.calls != 1 {
		t.Errorf("completer.calls = %d, want 1", completer.calls)
	}
}

func TestGenerate_PromptEmbedsTheNotes(t *testing.T) {
	completer := &fakeCompleter{reply: fiveCards}
	svc := newTestFlashcardService(completer)

	if _, err := svc.Generate(context.Background(), "  mitochondria are the powerhouse  ", 0); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	prompt := completer.prompts[0]
	want := generatePrompt + "mitochondria are the powerhouse"
	if prompt != want {
		t.Errorf("prompt = %q, want %q", prompt, want)
	}
}

func TestGenerate_SecondCallHitsCache(t *testing.T) {
	completer := &fakeCompleter{reply: fiveCards}
	svc := newTestFlashcardService(completer)

	first, err := svc.Generate(context.Background(), "european capitals notes", 0)
	if err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}

	second, err := svc.Generate(context.Background(), "european capitals notes", 0)
	if err != nil {
		t.Fatalf("second Generate() error = %v", err)
	}

	if completer.calls != 1 {
		t.Fatalf("completer.calls = %d, want 1 (second call must hit the cache)", completer.calls)
	}
	if len(first) != len(second) {
		t.Fatalf("cache returned %d cards, first call returned %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("cards[%d] differ across calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerate_CountTruncatesResponseNotCache(t *testing.T) {
	completer := &fakeCompleter{reply: fiveCards}
	svc := newTestFlashcardService(completer)

	// Populate the cache with all five.
	if _, err := svc.Generate(context.Background(), "european capitals notes", 0); err != nil {
		t.Fatalf("setup Generate() error = %v", err)
	}

	limited, err := svc.Generate(context.Background(), "european capitals notes", 2)
	if err != nil {
		t.Fatalf("limited Generate() error = %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("len(limited) = %d, want 2", len(limited))
	}
	if limited[0].ID != 1 || limited[1].ID != 2 {
		t.Errorf("limited cards should be the first two, got IDs %d and %d", limited[0].ID, limited[1].ID)
	}

	// An uncounted request afterwards still sees the full set.
	full, err := svc.Generate(context.Background(), "european capitals notes", 0)
	if err != nil {
		t.Fatalf("full Generate() error = %v", err)
	}
	if len(full) != 5 {
		t.Errorf("len(full) = %d, want 5 (count must never shrink the cached entry)", len(full))
	}
	if completer.calls != 1 {
		t.Errorf("completer.calls = %d, want 1", completer.calls)
	}
}

func TestGenerate_CountLargerThanResultReturnsAll(t *testing.T) {
	completer := &fakeCompleter{reply: fiveCards}
	svc := newTestFlashcardService(completer)

	cards, err := svc.Generate(context.Background(), "european capitals notes", 50)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(cards) != 5 {
		t.Errorf("len(cards) = %d, want 5", len(cards))
	}
}

func TestGenerate_EmptyTextIsValidationError(t *testing.T) {
	completer := &fakeCompleter{reply: fiveCards}
	svc := newTestFlashcardService(completer)

	_, err := svc.Generate(context.Background(), "   \n\t ", 0)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Generate(blank) error = %v, want ErrValidation", err)
	}
	if completer.calls != 0 {
		t.Errorf("completer.calls = %d, want 0 (validation happens before the model)", completer.calls)
	}
}

func TestGenerate_NoCardsFoundIsNotCached(t *testing.T) {
	completer := &fakeCompleter{reply: "I cannot generate flashcards for that."}
	svc := newTestFlashcardService(completer)

	_, err := svc.Generate(context.Background(), "gibberish input", 0)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Generate() error = %v, want ErrValidation", err)
	}

	// Retrying the same text must call the model again — empty results
	// leave no cache entry behind.
	_, _ = svc.Generate(context.Background(), "gibberish input", 0)
	if completer.calls != 2 {
		t.Errorf("completer.calls = %d, want 2", completer.calls)
	}
}

func TestGenerate_UpstreamFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("connection refused")}
	svc := newTestFlashcardService(completer)

	_, err := svc.Generate(context.Background(), "some decent notes", 0)
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Fatalf("Generate() error = %v, want ErrUpstream", err)
	}
}
