package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/msomdec/rolecall/internal/domain"
)

// Fetcher resolves a single user by ID.
type Fetcher interface {
	Fetch(ctx context.Context, id uint64) (*domain.User, error)
}

// DefaultFetchDelay is the simulated lookup latency of SimulatedFetcher.
const DefaultFetchDelay = 100 * time.Millisecond

// SimulatedFetcher stands in for a remote user API. After Delay it returns a
// synthesized viewer for even IDs and ErrNotFound for odd ones.
type SimulatedFetcher struct {
	Delay time.Duration
}

func (f SimulatedFetcher) Fetch(ctx context.Context, id uint64) (*domain.User, error) {
	timer := time.NewTimer(f.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	if id%2 != 0 {
		return nil, fmt.Errorf("%w: user %d not found", domain.ErrNotFound, id)
	}
	return domain.NewUser(id,
		fmt.Sprintf("User %d", id),
		fmt.Sprintf("user%d@example.com", id),
		domain.RoleViewer,
	), nil
}

// RepositoryFetcher resolves users from a UserRepository.
type RepositoryFetcher struct {
	Users domain.UserRepository
}

func (f RepositoryFetcher) Fetch(ctx context.Context, id uint64) (*domain.User, error) {
	user, err := f.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d not found", domain.ErrNotFound, id)
	}
	return user, nil
}

// ProcessUserBatch fetches every ID concurrently and waits for all of them.
// Individual failures are dropped; the call fails only when ids is empty
// (ErrInvalidInput), when ctx ends first (ctx.Err()) or when no fetch
// succeeded (ErrNotFound). Results keep the order of ids.
func ProcessUserBatch(ctx context.Context, fetcher Fetcher, ids []uint64) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: empty user id list", domain.ErrInvalidInput)
	}

	results := make([]*domain.User, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			user, err := fetcher.Fetch(ctx, id)
			if err != nil {
				slog.Debug("batch fetch skipped", "id", id, "error", err)
				return nil
			}
			results[i] = user
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(ids))
	for _, u := range results {
		if u != nil {
			users = append(users, *u)
		}
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: no users found", domain.ErrNotFound)
	}
	return users, nil
}
