package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/beatgate/internal/model"
	"github.com/dtroode/beatgate/internal/pattern"
	"github.com/dtroode/beatgate/internal/service"
)

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, pattern.ErrMalformed),
		errors.Is(err, pattern.ErrEmpty),
		errors.Is(err, pattern.ErrTooShort):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, model.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid username or rhythm pattern")
	case errors.Is(err, model.ErrConflict):
		writeError(w, http.StatusConflict, "username or email already taken")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, model.ErrTokenMissing),
		errors.Is(err, model.ErrTokenMalformed),
		errors.Is(err, model.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
