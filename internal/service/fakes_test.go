package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/beatgate/internal/model"
)

// fakeUserStore is an in-memory user directory with the same uniqueness
// semantics as the real backends.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]model.User

	createErr      error
	getErr         error
	updateCredErr  error
	credChangeTime time.Time // overrides now() for UpdateCredentials when set
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[int64]model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return model.User{}, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Username == user.Username || existing.Email == user.Email {
			return model.User{}, model.ErrConflict
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return model.User{}, f.getErr
	}
	user, ok := f.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return model.User{}, f.getErr
	}
	for _, user := range f.byID {
		if user.Username == username {
			return user, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (f *fakeUserStore) UpdateCredentials(_ context.Context, id int64, passwordHash []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateCredErr != nil {
		return f.updateCredErr
	}
	user, ok := f.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	now := time.Now()
	if !f.credChangeTime.IsZero() {
		now = f.credChangeTime
	}
	user.PasswordHash = passwordHash
	user.CredentialsUpdatedAt = now
	user.UpdatedAt = now
	f.byID[id] = user
	return nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id int64, username, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byID[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	for otherID, other := range f.byID {
		if otherID == id {
			continue
		}
		if other.Username == username || other.Email == email {
			return model.User{}, model.ErrConflict
		}
	}
	user.Username = username
	user.Email = email
	user.UpdatedAt = time.Now()
	f.byID[id] = user
	return user, nil
}

func (f *fakeUserStore) set(user model.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[user.ID] = user
}

// fakeTokenManager hands back scripted results.
type fakeTokenManager struct {
	mu          sync.Mutex
	generateErr error
	parseClaims model.Claims
	parseErr    error
	issued      int
}

func (f *fakeTokenManager) Generate(userID int64, username string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.generateErr != nil {
		return "", f.generateErr
	}
	f.issued++
	return fmt.Sprintf("tok-%d-%s-%d", userID, username, f.issued), nil
}

func (f *fakeTokenManager) Parse(string) (model.Claims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.parseErr != nil {
		return model.Claims{}, f.parseErr
	}
	return f.parseClaims, nil
}
