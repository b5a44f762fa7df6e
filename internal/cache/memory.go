// Package cache provides string-keyed caches holding one value type each.
package cache

import (
	"context"
	"slices"
	"sync"

	"github.com/msomdec/rolecall/internal/domain"
)

// Cache is an in-process map from string keys to values of type T.
// It is safe for concurrent use. Values are stored and returned by copy, so
// reference types inside T are shared with the caller.
type Cache[T any] struct {
	mu   sync.RWMutex
	data map[string]T
}

// New creates an empty Cache.
func New[T any]() *Cache[T] {
	return &Cache[T]{data: make(map[string]T)}
}

// Get returns the value stored under key and whether it was present.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.data[key]
	return v, ok
}

// Set inserts or replaces the value stored under key.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// Remove deletes key and returns the value it held.
func (c *Cache[T]) Remove(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if ok {
		delete(c.data, key)
	}
	return v, ok
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Keys returns the stored keys in sorted order.
func (c *Cache[T]) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	slices.Sort(keys)
	return keys
}

// Local adapts a Cache to domain.Cache. Its operations never fail.
type Local[T any] struct {
	*Cache[T]
}

// NewLocal creates an empty in-process domain.Cache.
func NewLocal[T any]() Local[T] {
	return Local[T]{Cache: New[T]()}
}

func (l Local[T]) Get(_ context.Context, key string) (T, bool, error) {
	v, ok := l.Cache.Get(key)
	return v, ok, nil
}

func (l Local[T]) Set(_ context.Context, key string, value T) error {
	l.Cache.Set(key, value)
	return nil
}

func (l Local[T]) Remove(_ context.Context, key string) (T, bool, error) {
	v, ok := l.Cache.Remove(key)
	return v, ok, nil
}

var _ domain.Cache[string] = Local[string]{}
