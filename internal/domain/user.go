package domain

import (
	"context"
	"math"
	"time"
)

// MaxUserID is the largest ID the SQL stores can hold.
const MaxUserID uint64 = math.MaxInt64

// User represents a member of the roster.
type User struct {
	ID           uint64
	Name         string
	Email        string
	Role         Role
	Active       bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser returns an active user. Inputs are not validated.
func NewUser(id uint64, name, email string, role Role) *User {
	return &User{
		ID:     id,
		Name:   name,
		Email:  email,
		Role:   role,
		Active: true,
	}
}

// Deactivate marks the user inactive. Calling it again has no further effect.
func (u *User) Deactivate() {
	u.Active = false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserRepository defines persistence operations for users.
//
// FindByID and FindByEmail report absence as (nil, nil). Returned users are
// copies owned by the caller.
type UserRepository interface {
	FindByID(ctx context.Context, id uint64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint64) error
	FindAll(ctx context.Context) ([]User, error)
}
