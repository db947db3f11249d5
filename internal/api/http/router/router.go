package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dtroode/beatgate/internal/api/http/handler"
	"github.com/dtroode/beatgate/internal/api/http/middleware"
	"github.com/dtroode/beatgate/internal/logger"
	"github.com/dtroode/beatgate/internal/service"
)

// Router wires handlers and middleware into the HTTP route table.
type Router struct {
	authService  *service.Auth
	secureCookie bool
	logger       *logger.Logger
}

// New creates a new Router instance.
func New(authService *service.Auth, secureCookie bool, logger *logger.Logger) *Router {
	return &Router{
		authService:  authService,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Policy is the protected route set served by Register.
func Policy() middleware.RoutePolicy {
	return middleware.RoutePolicy{
		RedirectPaths: []string{"/account", "/edit-profile", "/change-password"},
		APIPrefixes:   []string{"/api/"},
		LoginPath:     "/login",
	}
}

// Register builds the route table with logging and the access gate applied
// to every request. The middleware wraps the mux itself rather than hanging
// off matched routes, so unmatched methods and paths under a protected
// prefix still answer gate-shaped.
func (r *Router) Register() http.Handler {
	authHandler := handler.NewAuth(r.authService, r.secureCookie, r.logger)

	logging := middleware.NewLogging(r.logger)
	gate := middleware.NewAuthenticate(r.authService.TokenService(), Policy(), r.logger)

	m := mux.NewRouter()

	m.HandleFunc("/auth/signup", authHandler.SignUp).Methods(http.MethodPost)
	m.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	m.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	m.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	m.HandleFunc("/healthz", authHandler.Health).Methods(http.MethodGet)

	m.HandleFunc("/account", authHandler.Account).Methods(http.MethodGet)
	m.HandleFunc("/edit-profile", authHandler.EditProfile).Methods(http.MethodPost)
	m.HandleFunc("/change-password", authHandler.ChangePattern).Methods(http.MethodPost)
	m.HandleFunc("/api/account", authHandler.Account).Methods(http.MethodGet)

	return logging.Handler(gate.Handler(m))
}
