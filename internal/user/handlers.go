package user

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"rentalmanager/internal/api"
)

// Handlers is the user/role admin surface. Routes are mounted behind
// api.RequireRole(api.RoleAdmin).
type Handlers struct {
	Repo *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type createRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if !strings.Contains(req.Email, "@") {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "a valid email is required")
		return
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	if len(req.Password) < 8 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "password must be at least 8 characters")
		return
	}

	salt, err := GenerateSaltHex()
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	hash, err := HashPassword(req.Password, salt)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	u, err := h.Repo.Create(r.Context(), req.Email, req.FullName, role, hash, salt)
	if err != nil {
		api.WriteError(w, http.StatusConflict, "USER_EXISTS", "a user with that email already exists")
		return
	}
	api.WriteJSON(w, http.StatusCreated, u)
}

type patchRoleRequest struct {
	Role string `json:"role"`
}

func (h Handlers) PatchRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var req patchRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	// The last admin must not lock everyone out.
	if a := api.ActorFromContext(r.Context()); a != nil && a.ID == id && role != api.RoleAdmin {
		api.WriteError(w, http.StatusConflict, "SELF_DEMOTION", "admins cannot demote themselves")
		return
	}

	u, err := h.Repo.UpdateRole(r.Context(), id, role)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, u)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	if a := api.ActorFromContext(r.Context()); a != nil && a.ID == id {
		api.WriteError(w, http.StatusConflict, "SELF_DELETE", "users cannot delete themselves")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "user not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
