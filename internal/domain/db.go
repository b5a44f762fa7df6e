package domain

import "context"

// Database is implemented by persistent user stores that need schema setup
// before use and release resources on shutdown.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
