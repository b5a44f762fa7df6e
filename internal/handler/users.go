package handler

import (
	"net/http"
	"strconv"

	"github.com/msomdec/rolecall/internal/domain"
	"github.com/msomdec/rolecall/internal/service"
)

// UserHandler serves the roster API.
type UserHandler struct {
	users   *service.UserService
	auth    *service.AuthService
	fetcher service.Fetcher
}

// NewUserHandler creates a new UserHandler. Batch requests resolve IDs
// through fetcher.
func NewUserHandler(users *service.UserService, auth *service.AuthService, fetcher service.Fetcher) *UserHandler {
	return &UserHandler{users: users, auth: auth, fetcher: fetcher}
}

// HandleList returns every user ordered by ID.
// GET /api/users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserDTOs(users)})
}

// HandleGet returns one user.
// GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, "parse id", err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandlePut creates or replaces the user with the given ID.
// PUT /api/users/{id}
// Request: {"name":"...","email":"...","role":"admin|editor|viewer","active":true}
func (h *UserHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, "parse id", err)
		return
	}

	var req saveUserRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, r, "decode user", err)
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeServiceError(w, r, "parse role", err)
		return
	}

	user := domain.NewUser(id, req.Name, req.Email, role)
	if req.Active != nil && !*req.Active {
		user.Deactivate()
	}
	if err := h.users.Save(r.Context(), user); err != nil {
		writeServiceError(w, r, "save user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleDelete removes a user.
// DELETE /api/users/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, "parse id", err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeactivate marks a user inactive.
// POST /api/users/{id}/deactivate
func (h *UserHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, "parse id", err)
		return
	}

	user, err := h.users.Deactivate(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "deactivate user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(user)})
}

// HandleSetPassword sets a user's login password.
// PUT /api/users/{id}/password
// Request: {"password":"..."}
func (h *UserHandler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, r, "parse id", err)
		return
	}

	var req setPasswordRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, r, "decode password", err)
		return
	}

	if err := h.auth.SetPassword(r.Context(), id, req.Password); err != nil {
		writeServiceError(w, r, "set password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleByRole groups users by role. With ?active=true inactive users are left out.
// GET /api/users/by-role
func (h *UserHandler) HandleByRole(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "active must be true or false")
			return
		}
		activeOnly = parsed
	}

	groups, err := h.users.GroupByRole(r.Context(), activeOnly)
	if err != nil {
		writeServiceError(w, r, "group users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": toGroupDTOs(groups)})
}

// HandleBatch fetches several users concurrently, dropping IDs that fail.
// POST /api/users/batch
// Request: {"ids":[1,2,3]}
func (h *UserHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := readJSON(r, &req); err != nil {
		writeServiceError(w, r, "decode batch", err)
		return
	}

	users, err := service.ProcessUserBatch(r.Context(), h.fetcher, req.IDs)
	if err != nil {
		writeServiceError(w, r, "batch fetch", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserDTOs(users)})
}

// HandleDescribeRole returns the description of a role.
// GET /api/roles/{role}
func HandleDescribeRole(w http.ResponseWriter, r *http.Request) {
	role, err := domain.ParseRole(r.PathValue("role"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"role":        string(role),
		"description": role.Describe(),
	})
}
