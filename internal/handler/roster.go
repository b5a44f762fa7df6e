package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	datastar "github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/rolecall/internal/domain"
	"github.com/msomdec/rolecall/internal/service"
	"github.com/msomdec/rolecall/internal/view"
)

const (
	defaultCounterWorkers    = 4
	defaultCounterIterations = 100
	maxCounterWorkers        = 16
	maxCounterIterations     = 1000
	// maxCounterIncrements caps workers*iterations for one request.
	maxCounterIncrements = 4000
)

// RosterHandler serves the HTML roster page and the concurrency demos.
type RosterHandler struct {
	users        *service.UserService
	counterDelay time.Duration
}

// NewRosterHandler creates a new RosterHandler. counterDelay is the pause
// each counter increment takes while holding the lock.
func NewRosterHandler(users *service.UserService, counterDelay time.Duration) *RosterHandler {
	return &RosterHandler{users: users, counterDelay: counterDelay}
}

// HandleRoster renders the roster page.
// GET /
func (h *RosterHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups(r)
	if err != nil {
		slog.Error("group users for roster", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	viewer := ""
	if user := UserFromContext(r.Context()); user != nil {
		viewer = user.Name
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.RosterPage(viewer, groups).Render(r.Context(), w); err != nil {
		slog.Error("render roster", "error", err)
	}
}

// HandleRosterStream patches the current roster into the page, then runs the
// counter demo and streams its progress as signals.
// GET /roster/stream?workers=4&iterations=100
func (h *RosterHandler) HandleRosterStream(w http.ResponseWriter, r *http.Request) {
	workers := queryInt(r, "workers", defaultCounterWorkers, maxCounterWorkers)
	iterations := queryInt(r, "iterations", defaultCounterIterations, maxCounterIterations)
	iterations = min(iterations, maxCounterIncrements/workers)

	groups, err := h.groups(r)
	if err != nil {
		slog.Error("group users for stream", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(view.RosterGroups(groups)); err != nil {
		slog.Error("patch roster", "error", err)
		return
	}

	var (
		mu       sync.Mutex
		finished int
	)
	count := service.ConcurrentCounter(workers, iterations,
		service.WithDelay(h.counterDelay),
		service.WithProgress(func(_, total int) {
			mu.Lock()
			defer mu.Unlock()
			finished++
			if err := sse.MarshalAndPatchSignals(map[string]int{"count": total, "workers": finished}); err != nil {
				slog.Debug("patch counter progress", "error", err)
			}
		}),
	)

	mu.Lock()
	defer mu.Unlock()
	if err := sse.MarshalAndPatchSignals(map[string]int{"count": count, "workers": workers}); err != nil {
		slog.Debug("patch counter result", "error", err)
	}
}

// HandleCounter runs the counter demo and returns the final count.
// POST /api/demo/counter
// Request:  {"workers":4,"iterations":100}
// Response: {"count":400}
func (h *RosterHandler) HandleCounter(w http.ResponseWriter, r *http.Request) {
	var req counterRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, r, "decode counter", err)
		return
	}
	if req.Workers*req.Iterations > maxCounterIncrements {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("workers*iterations must not exceed %d", maxCounterIncrements))
		return
	}

	start := time.Now()
	count := service.ConcurrentCounter(req.Workers, req.Iterations, service.WithDelay(h.counterDelay))
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      count,
		"durationMs": time.Since(start).Milliseconds(),
	})
}

// groups returns every user grouped by role; an empty roster yields no groups.
func (h *RosterHandler) groups(r *http.Request) (map[domain.Role][]domain.User, error) {
	groups, err := h.users.GroupByRole(r.Context(), false)
	if errors.Is(err, domain.ErrInvalidInput) {
		return nil, nil
	}
	return groups, err
}

func queryInt(r *http.Request, key string, def, limit int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return min(v, limit)
}
