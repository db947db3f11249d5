package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dtroode/beatgate/internal/api/http/middleware"
	"github.com/dtroode/beatgate/internal/logger"
	"github.com/dtroode/beatgate/internal/model"
	"github.com/dtroode/beatgate/internal/pattern"
	"github.com/dtroode/beatgate/internal/service"
)

// AuthService defines signup, login and account operations.
type AuthService interface {
	SignUp(ctx context.Context, params service.SignUpParams) (service.Session, error)
	Login(ctx context.Context, username string, p pattern.Pattern) (service.Session, error)
	ChangePattern(ctx context.Context, userID int64, oldPattern, newPattern pattern.Pattern) error
	UpdateProfile(ctx context.Context, userID int64, username, email string) (service.Session, error)
	GetUser(ctx context.Context, userID int64) (model.User, error)
}

// Auth handles the credential-issuing HTTP endpoints.
type Auth struct {
	service      AuthService
	secureCookie bool
	logger       *logger.Logger
}

// NewAuth creates a new Auth handler. secureCookie marks the credential
// cookie Secure and should follow the TLS setting of the listener.
func NewAuth(service AuthService, secureCookie bool, logger *logger.Logger) *Auth {
	return &Auth{
		service:      service,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func viewOf(user model.User) userView {
	return userView{ID: user.ID, Username: user.Username, Email: user.Email}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *Auth) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Auth) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// SignUp registers a new user from form fields and sets the session cookie.
func (h *Auth) SignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form")
		return
	}

	username := r.PostFormValue("username")
	h.logger.Debug("Auth handler: processing signup request", "username", username)

	p, err := pattern.Parse([]byte(r.PostFormValue("rhythmPattern")))
	if err != nil {
		handleError(w, err)
		return
	}

	session, err := h.service.SignUp(r.Context(), service.SignUpParams{
		Username: username,
		Email:    r.PostFormValue("email"),
		Pattern:  p,
	})
	if err != nil {
		h.logger.Error("Auth handler: signup failed",
			"username", username,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Auth handler: signup completed", "user_id", session.User.ID)

	h.setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusCreated, viewOf(session.User))
}

// Login authenticates form credentials and sets the session cookie.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form")
		return
	}

	username := r.PostFormValue("username")
	h.logger.Debug("Auth handler: processing login request", "username", username)

	p, err := pattern.Parse([]byte(r.PostFormValue("rhythmPattern")))
	if err != nil {
		// A bad pattern must be indistinguishable from a wrong one.
		handleError(w, model.ErrInvalidCredentials)
		return
	}

	session, err := h.service.Login(r.Context(), username, p)
	if err != nil {
		h.logger.Info("Auth handler: login failed",
			"username", username,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Auth handler: login completed", "user_id", session.User.ID)

	h.setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusOK, viewOf(session.User))
}

// Logout clears the session cookie and sends the browser home.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginPage is the unauthenticated entry point the gate redirects to.
func (h *Auth) LoginPage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"page": "login"})
}

// Health reports liveness.
func (h *Auth) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
