package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sakif/flashcard-studio/internal/apperror"
	"github.com/sakif/flashcard-studio/internal/auth"
	"github.com/sakif/flashcard-studio/internal/model"
)

// Shared fakes for the handler tests. The handlers take concrete services,
// so the fakes sit one layer down — at the AI client and the repository —
// and the real service logic runs in between. That makes these tests cover
// the handler-service contract, not just JSON plumbing.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeTranscriber struct {
	transcript string
	err        error
	filename   string
	audioBytes []byte
}

func (f *fakeTranscriber) Transcribe(_ context.Context, filename string, audio io.Reader) (string, error) {
	f.filename = filename
	f.audioBytes, _ = io.ReadAll(audio)
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

type fakeUserRepo struct {
	byEmail map[string]*model.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return apperror.Conflict("Email already exists")
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	stored := *user
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeUserRepo) UpsertByEmail(ctx context.Context, user *model.User) error {
	if existing, ok := f.byEmail[user.Email]; ok {
		*user = *existing
		return nil
	}
	return f.Create(ctx, user)
}

func decodeBody(rec *httptest.ResponseRecorder, into any) error {
	return json.Unmarshal(rec.Body.Bytes(), into)
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("unit-test-secret-key-0123456789")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return tokens
}
