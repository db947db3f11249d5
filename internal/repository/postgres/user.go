package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/beatgate/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// pgUniqueViolation is the SQLSTATE for unique constraint failures; it is how
// concurrent signups with the same username or email lose the race.
const pgUniqueViolation = "23505"

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (username, email, password_hash, credentials_updated_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, username, email, password_hash, credentials_updated_at, created_at, updated_at`

	var saved model.User
	err := r.db.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash,
		user.CredentialsUpdatedAt, user.CreatedAt, user.UpdatedAt,
	).Scan(
		&saved.ID, &saved.Username, &saved.Email, &saved.PasswordHash,
		&saved.CredentialsUpdatedAt, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("%w: %v", model.ErrConflict, err)
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	query := `SELECT id, username, email, password_hash, credentials_updated_at, created_at, updated_at
			  FROM users WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.CredentialsUpdatedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	query := `SELECT id, username, email, password_hash, credentials_updated_at, created_at, updated_at
			  FROM users WHERE username = $1`

	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.CredentialsUpdatedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *UserRepository) UpdateCredentials(ctx context.Context, id int64, passwordHash []byte) error {
	// The cutoff is stamped from the app clock, not now(): token issued-at
	// times come from the same clock, and the freshness check in the token
	// service compares the two.
	query := `UPDATE users
			  SET password_hash = $2, credentials_updated_at = $3, updated_at = $3
			  WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, username, email string) (model.User, error) {
	query := `UPDATE users
			  SET username = $2, email = $3, updated_at = now()
			  WHERE id = $1
			  RETURNING id, username, email, password_hash, credentials_updated_at, created_at, updated_at`

	var user model.User
	err := r.db.QueryRow(ctx, query, id, username, email).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.CredentialsUpdatedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("%w: %v", model.ErrConflict, err)
		}
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
