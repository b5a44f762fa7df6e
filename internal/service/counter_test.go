package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/msomdec/rolecall/internal/service"
)

func TestConcurrentCounter(t *testing.T) {
	assert.Equal(t, 400, service.ConcurrentCounter(4, 100))
}

func TestConcurrentCounter_Products(t *testing.T) {
	tests := []struct {
		workers, iterations, want int
	}{
		{1, 1, 1},
		{8, 25, 200},
		{16, 50, 800},
		{0, 10, 0},
		{3, 0, 0},
		{-1, 5, 0},
	}
	for _, tt := range tests {
		got := service.ConcurrentCounter(tt.workers, tt.iterations, service.WithDelay(0))
		assert.Equal(t, tt.want, got, "workers=%d iterations=%d", tt.workers, tt.iterations)
	}
}

func TestConcurrentCounter_Progress(t *testing.T) {
	var (
		mu      sync.Mutex
		workers []int
		last    int
	)
	got := service.ConcurrentCounter(4, 10,
		service.WithDelay(time.Microsecond),
		service.WithProgress(func(worker, total int) {
			mu.Lock()
			defer mu.Unlock()
			workers = append(workers, worker)
			last = max(last, total)
		}),
	)

	assert.Equal(t, 40, got)
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, workers)
	assert.Equal(t, 40, last, "the last worker to finish sees the full count")
}
