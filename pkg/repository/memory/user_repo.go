package memory

import (
	"context"
	"sync"

	"github.com/dmoreira/login-service/pkg/auth"
)

// UserRepository is an in-memory auth.UserRepository for development and
// tests. The mutex makes check-then-insert atomic, so the uniqueness
// guarantee holds under concurrent registrations.
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]auth.User
	byID    map[string]auth.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byEmail: make(map[string]auth.User),
		byID:    make(map[string]auth.User),
	}
}

func (r *UserRepository) Create(_ context.Context, user auth.User) error {
	email := auth.NormalizeEmail(user.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[email]; exists {
		return auth.ErrEmailTaken
	}
	user.Email = email
	r.byEmail[email] = user
	r.byID[user.ID.String()] = user
	return nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[auth.NormalizeEmail(email)]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return user, nil
}
