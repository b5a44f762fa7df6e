package handler

import (
	"net/http"
	"time"

	"github.com/msomdec/rolecall/internal/service"
)

// Deps bundles what the HTTP layer needs from the rest of the application.
type Deps struct {
	Auth    *service.AuthService
	Users   *service.UserService
	Fetcher service.Fetcher
	// LoginLimiter throttles login attempts per client IP. Nil disables it.
	LoginLimiter *service.TokenBucket
	CounterDelay time.Duration
	CookieSecure bool
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authH := NewAuthHandler(d.Auth, d.LoginLimiter, d.CookieSecure)
	usersH := NewUserHandler(d.Users, d.Auth, d.Fetcher)
	rosterH := NewRosterHandler(d.Users, d.CounterDelay)

	authed := func(h http.HandlerFunc) http.Handler { return RequireAuth(d.Auth, h) }
	admin := func(h http.HandlerFunc) http.Handler { return RequireAdmin(d.Auth, h) }

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/login", authH.HandleLogin)
	mux.HandleFunc("POST /api/auth/logout", authH.HandleLogout)
	mux.Handle("GET /api/auth/me", authed(authH.HandleMe))

	mux.Handle("GET /api/users", authed(usersH.HandleList))
	mux.Handle("GET /api/users/by-role", authed(usersH.HandleByRole))
	mux.Handle("POST /api/users/batch", authed(usersH.HandleBatch))
	mux.Handle("GET /api/users/{id}", authed(usersH.HandleGet))
	mux.Handle("PUT /api/users/{id}", admin(usersH.HandlePut))
	mux.Handle("DELETE /api/users/{id}", admin(usersH.HandleDelete))
	mux.Handle("POST /api/users/{id}/deactivate", admin(usersH.HandleDeactivate))
	mux.Handle("PUT /api/users/{id}/password", admin(usersH.HandleSetPassword))

	mux.HandleFunc("GET /api/roles/{role}", HandleDescribeRole)
	mux.Handle("POST /api/demo/counter", authed(rosterH.HandleCounter))

	mux.Handle("GET /{$}", authed(rosterH.HandleRoster))
	mux.Handle("GET /roster/stream", authed(rosterH.HandleRosterStream))
}

// Wrap applies the middleware every response goes through.
func Wrap(h http.Handler) http.Handler {
	return RequestID(LogRequests(SecurityHeaders(h)))
}
