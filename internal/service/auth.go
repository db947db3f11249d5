package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/beatgate/internal/logger"
	"github.com/dtroode/beatgate/internal/model"
	"github.com/dtroode/beatgate/internal/pattern"
)

// ErrInvalidInput covers missing or malformed request fields.
var ErrInvalidInput = errors.New("invalid input")

// Session is the result of a successful credential-issuing flow.
type Session struct {
	Token string
	User  model.User
}

// SignUpParams carries the signup request after transport decoding.
type SignUpParams struct {
	Username string
	Email    string
	Pattern  pattern.Pattern
}

// Auth orchestrates the credential flows against the user directory.
type Auth struct {
	users        model.UserStore
	hasher       model.SecretHasher
	tokenService *TokenService
	minNotes     int
	logger       *logger.Logger
}

func NewAuth(
	users model.UserStore,
	hasher model.SecretHasher,
	tokenManager model.TokenManager,
	minNotes int,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:        users,
		hasher:       hasher,
		tokenService: NewTokenService(tokenManager, users, logger),
		minNotes:     minNotes,
		logger:       logger,
	}
}

// TokenService exposes the credential validator for the access gate.
func (a *Auth) TokenService() *TokenService {
	return a.tokenService
}

// SignUp registers a new user and issues a credential. The record insert and
// the credential are all-or-nothing: a conflict or storage failure leaves no
// record and issues nothing.
func (a *Auth) SignUp(ctx context.Context, params SignUpParams) (Session, error) {
	username := strings.TrimSpace(params.Username)
	email := strings.TrimSpace(params.Email)
	if username == "" || email == "" {
		return Session{}, fmt.Errorf("%w: username and email are required", ErrInvalidInput)
	}
	if err := params.Pattern.Validate(a.minNotes); err != nil {
		return Session{}, err
	}

	a.logger.Debug("Auth service: starting signup", "username", username)

	digest, err := a.hasher.Hash(params.Pattern.Canonical())
	if err != nil {
		return Session{}, fmt.Errorf("failed to hash secret: %w", err)
	}

	now := time.Now()
	user, err := a.users.Create(ctx, model.User{
		Username:             username,
		Email:                email,
		PasswordHash:         digest,
		CredentialsUpdatedAt: now,
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			a.logger.Info("Auth service: signup conflict", "username", username)
			return Session{}, err
		}
		a.logger.Error("Auth service: failed to create user",
			"username", username,
			"error", err.Error())
		return Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	tok, err := a.tokenService.Issue(ctx, user)
	if err != nil {
		return Session{}, err
	}

	a.logger.Info("Auth service: signup completed", "user_id", user.ID)

	return Session{Token: tok, User: user}, nil
}

// Login authenticates a username and rhythm pattern. An unknown username and
// a wrong pattern produce the same error.
func (a *Auth) Login(ctx context.Context, username string, p pattern.Pattern) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Session{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(p) == 0 {
		return Session{}, fmt.Errorf("%w: rhythm pattern is required", ErrInvalidInput)
	}

	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return Session{}, model.ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	if !a.hasher.Verify(p.Canonical(), user.PasswordHash) {
		a.logger.Info("Auth service: login pattern mismatch", "user_id", user.ID)
		return Session{}, model.ErrInvalidCredentials
	}

	tok, err := a.tokenService.Issue(ctx, user)
	if err != nil {
		return Session{}, err
	}

	a.logger.Info("Auth service: login completed", "user_id", user.ID)

	return Session{Token: tok, User: user}, nil
}

// ChangePattern replaces the user's secret after verifying the old one.
// Persisting the new hash advances the credential cutoff, so credentials
// issued before the change stop validating.
func (a *Auth) ChangePattern(ctx context.Context, userID int64, oldPattern, newPattern pattern.Pattern) error {
	if len(oldPattern) == 0 || len(newPattern) == 0 {
		return fmt.Errorf("%w: old and new rhythm patterns are required", ErrInvalidInput)
	}

	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	// The old secret is verified first: a caller holding the wrong one
	// learns nothing about the policy on the replacement.
	if !a.hasher.Verify(oldPattern.Canonical(), user.PasswordHash) {
		a.logger.Info("Auth service: pattern change rejected", "user_id", user.ID)
		return model.ErrInvalidCredentials
	}

	if err := newPattern.Validate(a.minNotes); err != nil {
		return err
	}

	digest, err := a.hasher.Hash(newPattern.Canonical())
	if err != nil {
		return fmt.Errorf("failed to hash secret: %w", err)
	}

	if err := a.users.UpdateCredentials(ctx, user.ID, digest); err != nil {
		a.logger.Error("Auth service: failed to update credentials",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to update credentials: %w", err)
	}

	a.logger.Info("Auth service: pattern changed", "user_id", user.ID)

	return nil
}

// UpdateProfile persists a new username/email. Uniqueness is enforced by the
// storage layer. When the username changes, a fresh credential is issued for
// the requesting session so the gate keeps resolving it; the returned Session
// carries an empty token otherwise. Other active sessions keep their old
// username claim until expiry.
func (a *Auth) UpdateProfile(ctx context.Context, userID int64, username, email string) (Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return Session{}, fmt.Errorf("%w: username and email are required", ErrInvalidInput)
	}

	current, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	updated, err := a.users.UpdateProfile(ctx, userID, username, email)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			a.logger.Info("Auth service: profile conflict", "user_id", userID)
			return Session{}, err
		}
		return Session{}, fmt.Errorf("failed to update profile: %w", err)
	}

	session := Session{User: updated}
	if updated.Username != current.Username {
		tok, err := a.tokenService.Issue(ctx, updated)
		if err != nil {
			return Session{}, err
		}
		session.Token = tok
		a.logger.Info("Auth service: credential re-issued after rename", "user_id", userID)
	}

	a.logger.Info("Auth service: profile updated", "user_id", userID)

	return session, nil
}

// GetUser returns the directory record for the account view.
func (a *Auth) GetUser(ctx context.Context, userID int64) (model.User, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}
