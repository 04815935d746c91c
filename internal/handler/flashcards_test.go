package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/flashcard-studio/internal/flashcards"
	"github.com/sakif/flashcard-studio/internal/handler"
	"github.com/sakif/flashcard-studio/internal/model"
	"github.com/sakif/flashcard-studio/internal/service"
	"github.com/sakif/flashcard-studio/internal/session"
)

const twoCards = "Question: What is the capital of France?\n" +
	"Answer: Paris is the capital.\n" +
	"Question: What is the capital of Spain?\n" +
	"Answer: Madrid is the capital.\n"

type generateBody struct {
	Status     string            `json:"status"`
	Message    string            `json:"message"`
	Flashcards []model.Flashcard `json:"flashcards"`
}

// newGenerateHandler assembles the real middleware-handler chain for
// POST /generate_flashcards, backed by a fake model.
func newGenerateHandler(t *testing.T, completer *fakeCompleter) (http.Handler, *http.Cookie) {
	t.Helper()

	tokens := newTestTokens(t)
	store := session.NewMemoryStore()
	sess := store.Create("user-1", "alice@example.com", "alice")
	signed, err := tokens.Sign(sess.Token)
	require.NoError(t, err)

	svc := service.NewFlashcardService(completer, flashcards.NewCache(), testLogger())
	h := handler.NewFlashcardHandler(svc, testLogger())

	chain := session.Require(tokens, store)(http.HandlerFunc(h.HandleGenerate))
	cookie := &http.Cookie{Name: session.CookieName, Value: signed}
	return chain, cookie
}

func postGenerate(chain http.Handler, cookie *http.Cookie, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate_flashcards", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	chain.ServeHTTP(rec, req)
	return rec
}

func TestHandleGenerate_Success(t *testing.T) {
	completer := &fakeCompleter{reply: twoCards}
	chain, cookie := newGenerateHandler(t, completer)

	rec := postGenerate(chain, cookie, `{"text":"european capitals"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body generateBody
	require.NoError(t, decodeBody(rec, &body))
	assert.Equal(t, "success", body.Status)
	require.Len(t, body.Flashcards, 2)
	assert.Equal(t, 1, body.Flashcards[0].ID)
	assert.Equal(t, "What is the capital of France?", body.Flashcards[0].Question)
}

func TestHandleGenerate_CountLimitsResponse(t *testing.T) {
	completer := &fakeCompleter{reply: twoCards}
	chain, cookie := newGenerateHandler(t, completer)

	rec := postGenerate(chain, cookie, `{"text":"european capitals","count":1}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var body generateBody
	require.NoError(t, decodeBody(rec, &body))
	assert.Len(t, body.Flashcards, 1)
}

func TestHandleGenerate_RepeatRequestServedFromCache(t *testing.T) {
	completer := &fakeCompleter{reply: twoCards}
	chain, cookie := newGenerateHandler(t, completer)

	first := postGenerate(chain, cookie, `{"text":"european capitals"}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := postGenerate(chain, cookie, `{"text":"european capitals"}`)
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, 1, completer.calls, "identical text must be answered from cache")
}

func TestHandleGenerate_EmptyText(t *testing.T) {
	completer := &fakeCompleter{reply: twoCards}
	chain, cookie := newGenerateHandler(t, completer)

	rec := postGenerate(chain, cookie, `{"text":"   "}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body generateBody
	require.NoError(t, decodeBody(rec, &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Please enter study notes.", body.Message)
	// Even errors carry a flashcards array, and it must be [] not null.
	require.NotNil(t, body.Flashcards)
	assert.Empty(t, body.Flashcards)
	assert.Equal(t, 0, completer.calls)
}

func TestHandleGenerate_NoCardsExtracted(t *testing.T) {
	completer := &fakeCompleter{reply: "I cannot make flashcards from that."}
	chain, cookie := newGenerateHandler(t, completer)

	rec := postGenerate(chain, cookie, `{"text":"gibberish"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body generateBody
	require.NoError(t, decodeBody(rec, &body))
	assert.Equal(t, "No flashcards found. Try different input.", body.Message)
}

func TestHandleGenerate_UpstreamFailureSurfacesRawError(t *testing.T) {
	completer := &fakeCompleter{err: assert.AnError}
	chain, cookie := newGenerateHandler(t, completer)

	rec := postGenerate(chain, cookie, `{"text":"decent notes"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body generateBody
	require.NoError(t, decodeBody(rec, &body))
	assert.Contains(t, body.Message, "Something went wrong:")
	require.NotNil(t, body.Flashcards)
	assert.Empty(t, body.Flashcards)
}

func TestHandleGenerate_RequiresSession(t *testing.T) {
	completer := &fakeCompleter{reply: twoCards}
	chain, _ := newGenerateHandler(t, completer)

	rec := postGenerate(chain, nil, `{"text":"european capitals"}`)

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body generateBody
	require.NoError(t, decodeBody(rec, &body))
	assert.Equal(t, "Login required", body.Message)
	require.NotNil(t, body.Flashcards)
	assert.Empty(t, body.Flashcards)
	assert.Equal(t, 0, completer.calls, "the model must never run for anonymous requests")
}

func TestHandleGenerate_InvalidJSONBody(t *testing.T) {
	completer := &fakeCompleter{reply: twoCards}
	chain, cookie := newGenerateHandler(t, completer)

	rec := postGenerate(chain, cookie, `{"text": not json`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body generateBody
	require.NoError(t, decodeBody(rec, &body))
	assert.Equal(t, "Invalid JSON body", body.Message)
}
