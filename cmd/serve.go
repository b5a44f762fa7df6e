package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msomdec/rolecall/internal/config"
	"github.com/msomdec/rolecall/internal/handler"
	"github.com/msomdec/rolecall/internal/service"
)

const (
	loginRate  = 0.2 // one attempt per five seconds
	loginBurst = 5
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and roster page",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.RequireJWTSecret(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := serveCmd.Flags()
	f.String("port", "8080", "HTTP listen port")
	f.String("storage", config.StorageMemory, "user store: memory or sqlite")
	f.String("database-path", "rolecall.db", "SQLite database file")
	f.String("redis-url", "", "redis URL for the user cache (empty keeps it in process)")
	f.Bool("seed", true, "seed Alice, Bob and Charlie into an empty store")

	v.BindPFlag("port", f.Lookup("port"))
	v.BindPFlag("storage", f.Lookup("storage"))
	v.BindPFlag("database_path", f.Lookup("database-path"))
	v.BindPFlag("cache.redis_url", f.Lookup("redis-url"))
	v.BindPFlag("seed", f.Lookup("seed"))
}

func runServe(ctx context.Context, cfg config.Config) error {
	repo, closeRepo, err := openUsers(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	userCache, closeCache, err := openUserCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	users := service.NewUserService(repo, userCache)
	authService := service.NewAuthService(repo, cfg.JWTSecret, cfg.BcryptCost, service.WithUserCache(userCache))

	if cfg.Seed {
		seeded, err := users.Seed(ctx, defaultUsers())
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		if seeded {
			slog.Info("seeded default users")
		}
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Deps{
		Auth:         authService,
		Users:        users,
		Fetcher:      service.RepositoryFetcher{Users: repo},
		LoginLimiter: service.NewTokenBucket(ctx, loginRate, loginBurst),
		CounterDelay: cfg.CounterDelay,
		CookieSecure: cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Wrap(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "storage", cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
