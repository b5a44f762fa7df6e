package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/rolecall/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
// Driver failures are reported wrapped in domain.ErrDatabase.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite-backed UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db.SqlDB}
}

const userColumns = `id, name, email, role, active, password_hash, created_at, updated_at`

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*domain.User, error) {
	if id > domain.MaxUserID {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: query user by id: %w", domain.ErrDatabase, err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE ORDER BY id LIMIT 1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: query user by email: %w", domain.ErrDatabase, err)
	}
	return user, nil
}

// Save upserts the user by ID. CreatedAt keeps its original value on replace.
// IDs above domain.MaxUserID are rejected with ErrInvalidInput.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	if user.ID > domain.MaxUserID {
		return fmt.Errorf("%w: id %d exceeds %d", domain.ErrInvalidInput, user.ID, domain.MaxUserID)
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, active, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			active = excluded.active,
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at`,
		user.ID, user.Name, user.Email, string(user.Role), user.Active, user.PasswordHash, now, now,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert user: %w", domain.ErrDatabase, err)
	}

	var createdAt time.Time
	err = r.db.QueryRowContext(ctx, `SELECT created_at FROM users WHERE id = ?`, user.ID).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("%w: read back user: %w", domain.ErrDatabase, err)
	}

	user.CreatedAt = createdAt
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	if id > domain.MaxUserID {
		return fmt.Errorf("%w: user with id %d not found", domain.ErrNotFound, id)
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: delete user: %w", domain.ErrDatabase, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %w", domain.ErrDatabase, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: user with id %d not found", domain.ErrNotFound, id)
	}
	return nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %w", domain.ErrDatabase, err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan user: %w", domain.ErrDatabase, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate users: %w", domain.ErrDatabase, err)
	}
	return users, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*domain.User, error) {
	u := &domain.User{}
	var role string
	err := s.Scan(&u.ID, &u.Name, &u.Email, &role, &u.Active, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return u, nil
}
