// Package sqlite implements the user directory on a single database file.
// It is the zero-dependency deployment backend; postgres is the
// client-server one.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dtroode/beatgate/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository stores users in a SQLite file. Writes are serialized behind
// a coarse mutex; the driver does not support concurrent writers and the
// uniqueness checks on username/email must not race.
type UserRepository struct {
	db        *sql.DB
	writeLock sync.Mutex
}

// NewUserRepository opens (or creates) the database file at path and ensures
// the schema exists.
func NewUserRepository(path string) (*UserRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := initializeSchema(db); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	return &UserRepository{db: db}, nil
}

func initializeSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                     INTEGER PRIMARY KEY AUTOINCREMENT,
			username               TEXT    UNIQUE NOT NULL,
			email                  TEXT    UNIQUE NOT NULL,
			password_hash          BLOB    NOT NULL,
			credentials_updated_at INTEGER NOT NULL,
			created_at             INTEGER NOT NULL,
			updated_at             INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, credentials_updated_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.PasswordHash,
		user.CredentialsUpdatedAt.Unix(), user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("%w: %v", model.ErrConflict, err)
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to read inserted id: %w", err)
	}
	user.ID = id

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (model.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, credentials_updated_at, created_at, updated_at
		 FROM users WHERE id = ?`, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, credentials_updated_at, created_at, updated_at
		 FROM users WHERE username = ?`, username))
}

func (r *UserRepository) UpdateCredentials(ctx context.Context, id int64, passwordHash []byte) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	now := time.Now().Unix()
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, credentials_updated_at = ?, updated_at = ? WHERE id = ?`,
		passwordHash, now, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, username, email string) (model.User, error) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, updated_at = ? WHERE id = ?`,
		username, email, time.Now().Unix(), id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("%w: %v", model.ErrConflict, err)
		}
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return model.User{}, model.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

// Close closes the underlying database file.
func (r *UserRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close db: %w", err)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (model.User, error) {
	var (
		user                          model.User
		credsUpdated, created, updated int64
	)
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&credsUpdated, &created, &updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to query user: %w", err)
	}

	user.CredentialsUpdatedAt = time.Unix(credsUpdated, 0)
	user.CreatedAt = time.Unix(created, 0)
	user.UpdatedAt = time.Unix(updated, 0)

	return user, nil
}

func isUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return false
	}
	switch liteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
