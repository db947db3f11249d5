package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dtroode/beatgate/internal/api/http/httpctx"
	"github.com/dtroode/beatgate/internal/logger"
	"github.com/dtroode/beatgate/internal/model"
)

// CookieName is the transport channel for the credential.
const CookieName = "token"

// TokenService resolves claims from presented credentials.
type TokenService interface {
	Authenticate(ctx context.Context, raw string) (model.Claims, error)
}

// RoutePolicy is the protected route set: which paths require a credential
// and how a failure is answered. Browser page routes are redirected to the
// login entry point; API routes get a 401.
type RoutePolicy struct {
	RedirectPaths []string
	APIPrefixes   []string
	LoginPath     string
}

type routeCategory int

const (
	routePublic routeCategory = iota
	routeBrowser
	routeAPI
)

func (p RoutePolicy) categorize(path string) routeCategory {
	for _, prefix := range p.APIPrefixes {
		if strings.HasPrefix(path, prefix) {
			return routeAPI
		}
	}
	for _, protected := range p.RedirectPaths {
		if path == protected {
			return routeBrowser
		}
	}
	return routePublic
}

// Authenticate is the access gate. It runs before protected handlers,
// evaluates the credential fresh on every request, and short-circuits on any
// token failure. It keeps no state between requests.
type Authenticate struct {
	tokenService TokenService
	policy       RoutePolicy
	logger       *logger.Logger
}

// NewAuthenticate creates the gate for the given route policy.
func NewAuthenticate(tokenService TokenService, policy RoutePolicy, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, policy: policy, logger: logger}
}

// Handler wraps next with the gate.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		category := m.policy.categorize(r.URL.Path)
		if category == routePublic {
			next.ServeHTTP(w, r)
			return
		}

		var raw string
		if cookie, err := r.Cookie(CookieName); err == nil {
			raw = cookie.Value
		}

		claims, err := m.tokenService.Authenticate(r.Context(), raw)
		if err != nil {
			// The failure kind only matters for logging; the answer is
			// always "unauthenticated". Claims are never propagated here.
			m.logger.Info("access gate: rejected request",
				"path", r.URL.Path,
				"reason", err.Error())
			m.reject(w, r, category)
			return
		}

		next.ServeHTTP(w, r.WithContext(httpctx.WithClaims(r.Context(), claims)))
	})
}

func (m *Authenticate) reject(w http.ResponseWriter, r *http.Request, category routeCategory) {
	if category == routeBrowser {
		http.Redirect(w, r, m.policy.LoginPath, http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthenticated"})
}
