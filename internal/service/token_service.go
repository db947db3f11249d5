package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/beatgate/internal/logger"
	"github.com/dtroode/beatgate/internal/model"
)

// TokenService issues credentials and authenticates presented ones. The gate
// stays stateless: there is no session table, but a presented credential is
// checked against the directory so that tokens issued before the user's last
// pattern change stop working everywhere.
type TokenService struct {
	manager model.TokenManager
	users   model.UserStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, users model.UserStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, users: users, logger: logger}
}

// Issue signs a credential bound to the user's current identity.
func (s *TokenService) Issue(ctx context.Context, user model.User) (string, error) {
	signed, err := s.manager.Generate(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to issue credential: %w", err)
	}
	return signed, nil
}

// Authenticate verifies a presented credential and returns its claims. Every
// failure is one of the model token errors; claims from a failed verification
// are never returned.
func (s *TokenService) Authenticate(ctx context.Context, raw string) (model.Claims, error) {
	if raw == "" {
		return model.Claims{}, model.ErrTokenMissing
	}

	claims, err := s.manager.Parse(raw)
	if err != nil {
		return model.Claims{}, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Claims{}, fmt.Errorf("%w: unknown subject", model.ErrTokenMalformed)
		}
		return model.Claims{}, fmt.Errorf("failed to resolve credential subject: %w", err)
	}

	// JWT issued-at has one-second resolution, so the cutoff is compared on
	// the same grid. A token issued within the same second as the change
	// stays valid; anything coarser would reject the credential issued to
	// the user right after the change itself.
	if claims.IssuedAt.Before(user.CredentialsUpdatedAt.Truncate(time.Second)) {
		s.logger.Info("Token service: credential predates pattern change",
			"user_id", user.ID)
		return model.Claims{}, fmt.Errorf("%w: issued before credentials changed", model.ErrTokenExpired)
	}

	return claims, nil
}
