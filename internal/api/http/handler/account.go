package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dtroode/beatgate/internal/api/http/httpctx"
	"github.com/dtroode/beatgate/internal/model"
	"github.com/dtroode/beatgate/internal/pattern"
)

// Account returns the authenticated user's profile. Served both as the
// browser page and the /api alias.
func (h *Auth) Account(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpctx.ClaimsFrom(r.Context())
	if !ok {
		handleError(w, model.ErrTokenMissing)
		return
	}

	user, err := h.service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("Auth handler: account lookup failed",
			"user_id", claims.UserID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewOf(user))
}

// EditProfile updates username and email for the authenticated user. A
// username change re-issues the session cookie so the gate keeps resolving
// the current session.
func (h *Auth) EditProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpctx.ClaimsFrom(r.Context())
	if !ok {
		handleError(w, model.ErrTokenMissing)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form")
		return
	}

	h.logger.Debug("Auth handler: processing profile update", "user_id", claims.UserID)

	session, err := h.service.UpdateProfile(r.Context(), claims.UserID,
		r.PostFormValue("username"), r.PostFormValue("email"))
	if err != nil {
		h.logger.Error("Auth handler: profile update failed",
			"user_id", claims.UserID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	if session.Token != "" {
		h.setSessionCookie(w, session.Token)
	}

	h.logger.Info("Auth handler: profile updated", "user_id", claims.UserID)

	writeJSON(w, http.StatusOK, viewOf(session.User))
}

type changePatternRequest struct {
	OldRhythmPattern pattern.Pattern `json:"old_rhythm_pattern"`
	NewRhythmPattern pattern.Pattern `json:"new_rhythm_pattern"`
}

// ChangePattern replaces the rhythm pattern secret and clears the session
// cookie, forcing a fresh login with the new pattern.
func (h *Auth) ChangePattern(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpctx.ClaimsFrom(r.Context())
	if !ok {
		handleError(w, model.ErrTokenMissing)
		return
	}

	var req changePatternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	h.logger.Debug("Auth handler: processing pattern change", "user_id", claims.UserID)

	if err := h.service.ChangePattern(r.Context(), claims.UserID,
		req.OldRhythmPattern, req.NewRhythmPattern); err != nil {
		h.logger.Info("Auth handler: pattern change failed",
			"user_id", claims.UserID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	h.logger.Info("Auth handler: pattern changed", "user_id", claims.UserID)

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "pattern changed"})
}
