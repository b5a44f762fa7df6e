package domain

import "context"

// Cache stores values of a single type under string keys.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool, error)
	Set(ctx context.Context, key string, value T) error
	// Remove deletes the key and returns the value it held, if any.
	Remove(ctx context.Context, key string) (T, bool, error)
}
