package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/flashcard-studio/internal/apperror"
	"github.com/sakif/flashcard-studio/internal/auth"
	"github.com/sakif/flashcard-studio/internal/service"
	"github.com/sakif/flashcard-studio/internal/session"
)

// sessionCookieMaxAge matches the signed token's lifetime. The server-side
// session record is still the authority — logout kills it regardless of
// what the browser holds.
const sessionCookieMaxAge = int(7 * 24 * time.Hour / time.Second)

// AuthHandler owns the account and session endpoints: register, login,
// logout, and the Google OAuth flow.
type AuthHandler struct {
	svc    *service.AuthService
	tokens *auth.TokenService
	google *auth.GoogleProvider // nil when Google login is not configured
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. google may be nil; the server
// only registers the OAuth routes when it isn't.
func NewAuthHandler(
	svc *service.AuthService,
	tokens *auth.TokenService,
	google *auth.GoogleProvider,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		tokens: tokens,
		google: google,
		logger: logger,
	}
}

// HandleRegister creates a new account.
//
// HTTP: POST /register
// BODY: {"username": "...", "email": "...", "password": "..."}
//
// 400 when any field is missing, 409 when the email is taken.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	if err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// HandleLogin verifies credentials and starts a session.
//
// HTTP: POST /login
// BODY: {"email": "...", "password": "..."}
//
// On success the signed session token goes out as an HttpOnly cookie and
// the body is {"status":"success"}. 400 for missing fields, 401 for
// anything wrong with the credentials.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "Invalid JSON body"))
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.setSessionCookie(w, sess); err != nil {
		h.logger.Error("login: signing session cookie failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// HandleLogout clears the session — server side first, then the cookie —
// and redirects to the home page.
//
// HTTP: GET /logout
//
// Logout never fails: an absent, expired, or tampered cookie still ends in
// a cleared cookie and a redirect.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if token, err := h.tokens.Verify(cookie.Value); err == nil {
			h.svc.Logout(token)
		}
	}

	clearCookie(w, session.CookieName)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleGoogleLogin redirects the browser to Google's authorization page.
//
// HTTP: GET /auth/google/login
//
// A random state value goes into a short-lived cookie; the callback
// verifies it to prove the flow started here and not on an attacker's page.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes — plenty to approve, short enough to limit replay
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback completes the OAuth flow: state check, code
// exchange, upsert of a password-less account, session cookie, redirect.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("google callback: state mismatch or missing")
		writeError(w, apperror.ValidationFailed("state", "invalid OAuth state"))
		return
	}

	// The state cookie is single-use.
	clearCookie(w, "oauth_state")

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("google callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, apperror.ValidationFailed("code", "missing OAuth code"))
		return
	}

	gUser, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("google callback: exchange failed", slog.String("error", err.Error()))
		writeError(w, apperror.Upstream(err))
		return
	}

	sess, err := h.svc.LoginOrRegisterGoogle(r.Context(), gUser)
	if err != nil {
		h.logger.Error("google callback: login failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	if err := h.setSessionCookie(w, sess); err != nil {
		h.logger.Error("google callback: signing session cookie failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// setSessionCookie signs the session token and sets it as an HttpOnly
// cookie. HttpOnly keeps it away from JavaScript; SameSite=Lax keeps it
// off cross-site POSTs. Secure is left off for local development — front
// it with HTTPS in production.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sess *session.Session) error {
	signed, err := h.tokens.Sign(sess.Token)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
