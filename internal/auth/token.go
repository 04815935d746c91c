package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService signs and verifies the session-token cookie.
//
// Sessions themselves live server-side (internal/session); the cookie only
// carries an opaque session token. Wrapping that token in a signed JWT means
// a tampered or forged cookie is rejected by signature check alone, before
// the session store is ever consulted. This is the same job Flask's
// secret-key-signed session cookie does.
//
// The JWT carries no user data — just the session token in the "sub" claim
// and a lifetime. Logging out deletes the server-side session, so a signed
// cookie that outlives its session is still worthless.
type TokenService struct {
	secret []byte
}

// sessionTokenTTL bounds how long a signed cookie verifies. The server-side
// session is the real authority; this is just an upper bound on cookie reuse.
const sessionTokenTTL = 7 * 24 * time.Hour

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: secret key must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Sign wraps a session token in a signed JWT suitable for a cookie value.
func (s *TokenService) Sign(sessionToken string) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionToken,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
			Issuer:    "flashcard-studio",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Verify checks a cookie value and returns the session token inside it.
//
// Rejects bad signatures, expired tokens, wrong issuers, and any algorithm
// other than HS256 (jwt.WithValidMethods closes the algorithm-confusion
// hole where an attacker submits a token signed with "none").
func (s *TokenService) Verify(cookieValue string) (string, error) {
	token, err := jwt.ParseWithClaims(
		cookieValue,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("flashcard-studio"),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: session cookie expired")
		}
		return "", fmt.Errorf("auth: invalid session cookie: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid session cookie claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: session cookie has no subject")
	}

	return c.Subject, nil
}
