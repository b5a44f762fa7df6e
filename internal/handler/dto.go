package handler

import (
	"time"

	"github.com/msomdec/rolecall/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash never
// leaves the server.
type UserDTO struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

func toUserDTO(u *domain.User) UserDTO {
	dto := UserDTO{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   string(u.Role),
		Active: u.Active,
	}
	if !u.CreatedAt.IsZero() {
		dto.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	if !u.UpdatedAt.IsZero() {
		dto.UpdatedAt = u.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

func toUserDTOs(users []domain.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}
	return out
}

func toGroupDTOs(groups map[domain.Role][]domain.User) map[string][]UserDTO {
	out := make(map[string][]UserDTO, len(groups))
	for role, users := range groups {
		out[string(role)] = toUserDTOs(users)
	}
	return out
}

type saveUserRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Email  string `json:"email" validate:"required,email,max=254"`
	Role   string `json:"role" validate:"required,oneof=admin editor viewer"`
	Active *bool  `json:"active"`
}

type setPasswordRequest struct {
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type batchRequest struct {
	IDs []uint64 `json:"ids" validate:"max=100"`
}

type counterRequest struct {
	Workers    int `json:"workers" validate:"min=1,max=16"`
	Iterations int `json:"iterations" validate:"min=1,max=1000"`
}
