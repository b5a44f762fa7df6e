package service

import (
	"sync"
	"time"
)

// DefaultCounterDelay is the simulated work done while holding the lock.
const DefaultCounterDelay = 10 * time.Microsecond

type counterConfig struct {
	delay      time.Duration
	onProgress func(worker, total int)
}

// CounterOption configures ConcurrentCounter.
type CounterOption func(*counterConfig)

// WithDelay sets the pause taken inside the lock after each increment.
func WithDelay(d time.Duration) CounterOption {
	return func(c *counterConfig) { c.delay = d }
}

// WithProgress registers fn to be called as each worker finishes, with the
// worker index and the counter value at that moment. fn may be called from
// several goroutines at once.
func WithProgress(fn func(worker, total int)) CounterOption {
	return func(c *counterConfig) { c.onProgress = fn }
}

// ConcurrentCounter runs workers goroutines that each increment a shared,
// mutex-guarded counter iterations times, and returns the final value once
// all have finished. The result is always workers*iterations.
func ConcurrentCounter(workers, iterations int, opts ...CounterOption) int {
	cfg := counterConfig{delay: DefaultCounterDelay}
	for _, opt := range opts {
		opt(&cfg)
	}
	if workers <= 0 || iterations <= 0 {
		return 0
	}

	var (
		mu    sync.Mutex
		count int
		wg    sync.WaitGroup
	)
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				mu.Lock()
				count++
				if cfg.delay > 0 {
					time.Sleep(cfg.delay)
				}
				mu.Unlock()
			}
			if cfg.onProgress != nil {
				mu.Lock()
				total := count
				mu.Unlock()
				cfg.onProgress(w, total)
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	return count
}
