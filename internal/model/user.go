package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for the user directory.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	UpdateCredentials(ctx context.Context, id int64, passwordHash []byte) error
	UpdateProfile(ctx context.Context, id int64, username, email string) (User, error)
}

// User represents a stored user with credential material. PasswordHash is a
// salted bcrypt digest of the canonical pattern secret, never the secret
// itself. CredentialsUpdatedAt advances whenever the hash is replaced and
// serves as the issued-at cutoff for previously issued tokens.
type User struct {
	ID                   int64
	Username             string
	Email                string
	PasswordHash         []byte
	CredentialsUpdatedAt time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
