package session

import (
	"context"
	"net/http"

	"github.com/sakif/flashcard-studio/internal/auth"
)

// CookieName is the cookie that carries the signed session token.
const CookieName = "session"

// contextKey is an unexported type for context keys in this package.
// Using a package-private type means no other package can read or shadow
// the session value we store in the request context.
type contextKey string

const sessionKey contextKey = "session"

// Require is middleware that enforces a valid session on protected routes.
//
// It reads the signed cookie, verifies the signature (auth.TokenService),
// looks the token up in the store, and puts the session in the request
// context. Any failure along the way — no cookie, bad signature, token not
// in the store (logged out) — ends the request with 401.
//
// The 401 body keeps the original client contract for the flashcard
// endpoint: status/message plus an empty flashcards list.
func Require(tokens *auth.TokenService, store Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := fromRequest(r, tokens, store)
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"status":"error","error":"unauthorized","message":"Login required","flashcards":[]}`))
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext retrieves the session stored by Require.
// Returns (nil, false) on routes that didn't pass through it.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*Session)
	return sess, ok && sess != nil
}

// fromRequest resolves the request's cookie to a live session, if any.
func fromRequest(r *http.Request, tokens *auth.TokenService, store Store) (*Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	token, err := tokens.Verify(cookie.Value)
	if err != nil {
		return nil, false
	}

	return store.Get(token)
}
