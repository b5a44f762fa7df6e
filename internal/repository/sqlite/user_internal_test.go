package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/msomdec/rolecall/internal/domain"
)

func newMockRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &UserRepository{db: db}, mock
}

var errDriver = errors.New("disk I/O error")

func TestUserRepository_Save_DriverFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO users").WillReturnError(errDriver)

	err := repo.Save(context.Background(), domain.NewUser(1, "Alice", "alice@example.com", domain.RoleAdmin))
	if !errors.Is(err, domain.ErrDatabase) {
		t.Fatalf("expected ErrDatabase, got %v", err)
	}
	if !errors.Is(err, errDriver) {
		t.Fatalf("expected driver error in chain, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepository_FindByID_DriverFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").WillReturnError(errDriver)

	_, err := repo.FindByID(context.Background(), 1)
	if !errors.Is(err, domain.ErrDatabase) {
		t.Fatalf("expected ErrDatabase, got %v", err)
	}
}

func TestUserRepository_Delete_DriverFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM users").WillReturnError(errDriver)

	err := repo.Delete(context.Background(), 1)
	if !errors.Is(err, domain.ErrDatabase) {
		t.Fatalf("expected ErrDatabase, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatal("driver failure must not look like a missing user")
	}
}

func TestUserRepository_Delete_NoRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 12)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_FindAll_ScanFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "active", "password_hash", "created_at", "updated_at"}).
		AddRow("not-a-number", "A", "a@example.com", "admin", true, "", nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM users").WillReturnRows(rows)

	_, err := repo.FindAll(context.Background())
	if !errors.Is(err, domain.ErrDatabase) {
		t.Fatalf("expected ErrDatabase, got %v", err)
	}
}
