// Package memory holds map-backed repositories that live only as long as the
// process.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/msomdec/rolecall/internal/domain"
)

// UserRepository implements domain.UserRepository with a map keyed by user ID.
// It is safe for concurrent use.
type UserRepository struct {
	mu    sync.RWMutex
	users map[uint64]domain.User
}

// NewUserRepository creates an empty in-memory UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uint64]domain.User)}
}

func (r *UserRepository) FindByID(_ context.Context, id uint64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// FindByEmail matches case-insensitively. Emails are not unique; the lowest
// matching ID wins.
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *domain.User
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) && (found == nil || u.ID < found.ID) {
			found = &u
		}
	}
	return found, nil
}

// Save inserts the user or replaces the one stored under the same ID.
func (r *UserRepository) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	u := *user
	if prev, ok := r.users[u.ID]; ok {
		u.CreatedAt = prev.CreatedAt
	} else {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	r.users[u.ID] = u

	user.CreatedAt = u.CreatedAt
	user.UpdatedAt = u.UpdatedAt
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("%w: user with id %d not found", domain.ErrNotFound, id)
	}
	delete(r.users, id)
	return nil
}

// FindAll returns a snapshot of every stored user in map iteration order.
func (r *UserRepository) FindAll(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}
