package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/msomdec/rolecall/internal/cache"
	"github.com/msomdec/rolecall/internal/domain"
	"github.com/msomdec/rolecall/internal/repository/memory"
	"github.com/msomdec/rolecall/internal/repository/sqlite"
	"github.com/msomdec/rolecall/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestAuthService(t *testing.T) (*service.AuthService, domain.UserRepository) {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	users := db.Users()
	// Use cost 4 for fast tests.
	return service.NewAuthService(users, testJWTSecret, 4), users
}

func seedUser(t *testing.T, users domain.UserRepository, user *domain.User) {
	t.Helper()
	if err := users.Save(context.Background(), user); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	auth, users := newTestAuthService(t)
	ctx := context.Background()
	seedUser(t, users, domain.NewUser(1, "Alice", "alice@example.com", domain.RoleAdmin))

	if err := auth.SetPassword(ctx, 1, "password123"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	token, err := auth.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 1 {
		t.Fatalf("expected user id 1, got %d", claims.UserID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %q", claims.Role)
	}

	user, err := auth.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Name != "Alice" {
		t.Fatalf("expected Alice, got %q", user.Name)
	}
}

func TestAuthService_SetPassword_TooShort(t *testing.T) {
	auth, users := newTestAuthService(t)
	seedUser(t, users, domain.NewUser(1, "Alice", "alice@example.com", domain.RoleAdmin))

	err := auth.SetPassword(context.Background(), 1, "short")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_SetPassword_UnknownUser(t *testing.T) {
	auth, _ := newTestAuthService(t)

	err := auth.SetPassword(context.Background(), 42, "password123")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	auth, users := newTestAuthService(t)
	ctx := context.Background()

	seedUser(t, users, domain.NewUser(1, "Alice", "alice@example.com", domain.RoleAdmin))
	seedUser(t, users, domain.NewUser(2, "Bob", "bob@example.com", domain.RoleEditor))
	if err := auth.SetPassword(ctx, 1, "password123"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "alice@example.com", "wrongpassword"},
		{"unknown email", "nobody@example.com", "password123"},
		{"no password set", "bob@example.com", "password123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Login(ctx, tt.email, tt.password)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestAuthService_InactiveUserRejected(t *testing.T) {
	auth, users := newTestAuthService(t)
	ctx := context.Background()

	seedUser(t, users, domain.NewUser(1, "Alice", "alice@example.com", domain.RoleAdmin))
	if err := auth.SetPassword(ctx, 1, "password123"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	token, err := auth.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user, _ := users.FindByID(ctx, 1)
	user.Deactivate()
	seedUser(t, users, user)

	if _, err := auth.Authenticate(ctx, token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for a deactivated user's token, got %v", err)
	}
	if _, err := auth.Login(ctx, "alice@example.com", "password123"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized logging in as a deactivated user, got %v", err)
	}
}

func TestAuthService_ValidateToken_Invalid(t *testing.T) {
	auth, _ := newTestAuthService(t)

	_, err := auth.ValidateToken("invalid.token.string")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	auth, users := newTestAuthService(t)
	ctx := context.Background()
	seedUser(t, users, domain.NewUser(1, "Alice", "alice@example.com", domain.RoleAdmin))
	if err := auth.SetPassword(ctx, 1, "password123"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	token, err := auth.Login(ctx, "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	other := service.NewAuthService(users, "a-completely-different-secret-value!!", 4)
	if _, err := other.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_SetPassword_EvictsUserCache(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewUserRepository()
	userCache := cache.NewLocal[domain.User]()
	users := service.NewUserService(repo, userCache)
	auth := service.NewAuthService(repo, testJWTSecret, 4, service.WithUserCache(userCache))

	if err := users.Save(ctx, domain.NewUser(1, "Alice", "alice@example.com", domain.RoleAdmin)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := users.Get(ctx, 1); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := userCache.Cache.Get("1"); !ok {
		t.Fatal("expected user to be cached")
	}

	if err := auth.SetPassword(ctx, 1, "password123"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if _, ok := userCache.Cache.Get("1"); ok {
		t.Fatal("expected SetPassword to evict the cached user")
	}

	after, err := users.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get after SetPassword: %v", err)
	}
	stored, err := repo.FindByID(ctx, 1)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !after.UpdatedAt.Equal(stored.UpdatedAt) {
		t.Fatalf("expected UpdatedAt %v from the store, got %v", stored.UpdatedAt, after.UpdatedAt)
	}
}
