package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/beatgate/internal/api/http/httpctx"
	"github.com/dtroode/beatgate/internal/model"
	"github.com/dtroode/beatgate/internal/testutil"
)

type fakeTokenService struct {
	claims   model.Claims
	err      error
	lastRaw  string
	askCount int
}

func (f *fakeTokenService) Authenticate(_ context.Context, raw string) (model.Claims, error) {
	f.lastRaw = raw
	f.askCount++
	if f.err != nil {
		return model.Claims{}, f.err
	}
	return f.claims, nil
}

func testPolicy() RoutePolicy {
	return RoutePolicy{
		RedirectPaths: []string{"/account", "/edit-profile", "/change-password"},
		APIPrefixes:   []string{"/api/"},
		LoginPath:     "/login",
	}
}

func TestAuthenticate_Handler(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path           string
		cookie         *http.Cookie
		serviceErr     error
		wantStatus     int
		wantLocation   string
		wantNextCalled bool
		wantAsked      bool
	}{
		"public path passes without credential": {
			path:           "/login",
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
		},
		"protected page without cookie redirects": {
			path:         "/account",
			serviceErr:   model.ErrTokenMissing,
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login",
			wantAsked:    true,
		},
		"protected page with bad token redirects": {
			path:         "/change-password",
			cookie:       &http.Cookie{Name: CookieName, Value: "garbage"},
			serviceErr:   model.ErrTokenMalformed,
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login",
			wantAsked:    true,
		},
		"protected page with expired token redirects": {
			path:         "/edit-profile",
			cookie:       &http.Cookie{Name: CookieName, Value: "stale"},
			serviceErr:   model.ErrTokenExpired,
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login",
			wantAsked:    true,
		},
		"api path without credential gets 401": {
			path:       "/api/account",
			serviceErr: model.ErrTokenMissing,
			wantStatus: http.StatusUnauthorized,
			wantAsked:  true,
		},
		"valid token passes": {
			path:           "/account",
			cookie:         &http.Cookie{Name: CookieName, Value: "good"},
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
			wantAsked:      true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			service := &fakeTokenService{
				claims: model.Claims{UserID: 7, Username: "ada"},
				err:    tt.serviceErr,
			}
			gate := NewAuthenticate(service, testPolicy(), testutil.MakeNoopLogger())

			nextCalled := false
			var gotClaims model.Claims
			var gotOK bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotClaims, gotOK = httpctx.ClaimsFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			gate.Handler(next).ServeHTTP(rec, req)

			res := rec.Result()
			defer res.Body.Close()

			assert.Equal(t, tt.wantStatus, res.StatusCode)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, res.Header.Get("Location"))
			}
			if tt.wantAsked {
				require.Equal(t, 1, service.askCount)
			} else {
				require.Zero(t, service.askCount)
			}
			if tt.wantNextCalled && tt.wantAsked {
				require.True(t, gotOK)
				assert.Equal(t, int64(7), gotClaims.UserID)
				assert.Equal(t, "ada", gotClaims.Username)
			}
		})
	}
}

func TestAuthenticate_Handler_CookieValuePassedThrough(t *testing.T) {
	t.Parallel()

	service := &fakeTokenService{claims: model.Claims{UserID: 1}}
	gate := NewAuthenticate(service, testPolicy(), testutil.MakeNoopLogger())

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "the-raw-token"})
	rec := httptest.NewRecorder()

	gate.Handler(next).ServeHTTP(rec, req)

	assert.Equal(t, "the-raw-token", service.lastRaw)
}

func TestRoutePolicy_Categorize(t *testing.T) {
	t.Parallel()

	policy := testPolicy()

	tests := map[string]struct {
		path string
		want routeCategory
	}{
		"root":               {path: "/", want: routePublic},
		"login entry":        {path: "/login", want: routePublic},
		"account page":       {path: "/account", want: routeBrowser},
		"account subpath":    {path: "/account/extra", want: routePublic},
		"api account":        {path: "/api/account", want: routeAPI},
		"api anything":       {path: "/api/whatever", want: routeAPI},
		"change password":    {path: "/change-password", want: routeBrowser},
		"unprotected health": {path: "/healthz", want: routePublic},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, policy.categorize(tt.path))
		})
	}
}
