package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/msomdec/rolecall/internal/domain"
)

// ProcessUsers groups users by role, preserving input order within each group.
// An empty input is rejected before any filtering happens. When filterInactive
// is set, inactive users are skipped; roles left with no users are absent
// from the result.
func ProcessUsers(users []domain.User, filterInactive bool) (map[domain.Role][]domain.User, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: empty user list", domain.ErrInvalidInput)
	}

	groups := make(map[domain.Role][]domain.User)
	for _, u := range users {
		if filterInactive && !u.Active {
			continue
		}
		groups[u.Role] = append(groups[u.Role], u)
	}
	return groups, nil
}

// TransformUsers maps every user through fn, in order.
func TransformUsers(users []domain.User, fn func(domain.User) string) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, fn(u))
	}
	return out
}

// UserService handles roster management on top of a UserRepository, with a
// read-through cache in front of single-user lookups.
type UserService struct {
	users domain.UserRepository
	cache domain.Cache[domain.User]
}

// NewUserService creates a new UserService. cache may be nil.
func NewUserService(users domain.UserRepository, cache domain.Cache[domain.User]) *UserService {
	return &UserService{users: users, cache: cache}
}

// Get returns the user with the given ID, or ErrNotFound.
func (s *UserService) Get(ctx context.Context, id uint64) (*domain.User, error) {
	if s.cache != nil {
		u, ok, err := s.cache.Get(ctx, cacheKey(id))
		if err != nil {
			slog.Warn("user cache get", "id", id, "error", err)
		} else if ok {
			return &u, nil
		}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user with id %d not found", domain.ErrNotFound, id)
	}

	s.remember(ctx, user)
	return user, nil
}

// List returns every user ordered by ID.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	slices.SortFunc(users, func(a, b domain.User) int { return cmp.Compare(a.ID, b.ID) })
	return users, nil
}

// Save validates and stores the user, replacing any user with the same ID.
// An existing password hash is kept when the incoming user carries none.
func (s *UserService) Save(ctx context.Context, user *domain.User) error {
	if user.ID == 0 || user.ID > domain.MaxUserID {
		return fmt.Errorf("%w: id must be between 1 and %d", domain.ErrInvalidInput, domain.MaxUserID)
	}
	if user.Name == "" || user.Email == "" {
		return fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}
	if _, err := domain.ParseRole(string(user.Role)); err != nil {
		return err
	}

	if user.PasswordHash == "" {
		existing, err := s.users.FindByID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if existing != nil {
			user.PasswordHash = existing.PasswordHash
		}
	}

	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	s.remember(ctx, user)
	return nil
}

// Delete removes the user, or returns ErrNotFound carrying the ID.
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.forget(ctx, id)
	return nil
}

// Deactivate marks the user inactive. Deactivating an inactive user succeeds.
func (s *UserService) Deactivate(ctx context.Context, id uint64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user with id %d not found", domain.ErrNotFound, id)
	}

	user.Deactivate()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	s.remember(ctx, user)
	return user, nil
}

// GroupByRole loads every user in ID order and groups them with ProcessUsers.
func (s *UserService) GroupByRole(ctx context.Context, activeOnly bool) (map[domain.Role][]domain.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ProcessUsers(users, activeOnly)
}

// Seed stores the given users when the repository is empty. It reports
// whether anything was written.
func (s *UserService) Seed(ctx context.Context, users []domain.User) (bool, error) {
	existing, err := s.users.FindAll(ctx)
	if err != nil {
		return false, fmt.Errorf("list users: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}
	for i := range users {
		if err := s.Save(ctx, &users[i]); err != nil {
			return false, fmt.Errorf("seed user %d: %w", users[i].ID, err)
		}
	}
	return true, nil
}

// remember caches the user without its password hash.
func (s *UserService) remember(ctx context.Context, user *domain.User) {
	if s.cache == nil {
		return
	}
	cached := *user
	cached.PasswordHash = ""
	if err := s.cache.Set(ctx, cacheKey(user.ID), cached); err != nil {
		slog.Warn("user cache set", "id", user.ID, "error", err)
	}
}

func (s *UserService) forget(ctx context.Context, id uint64) {
	if s.cache == nil {
		return
	}
	if _, _, err := s.cache.Remove(ctx, cacheKey(id)); err != nil {
		slog.Warn("user cache remove", "id", id, "error", err)
	}
}

func cacheKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}
