package customer

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"rentalmanager/internal/api"
)

type Handlers struct {
	Repo *Repository
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	c, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "customer not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, c)
}

type upsertRequest struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	DriverLicense string `json:"driverLicense"`
	Notes         string `json:"notes"`
}

func (req upsertRequest) validate() string {
	if strings.TrimSpace(req.FullName) == "" {
		return "fullName is required"
	}
	if !strings.Contains(req.Email, "@") {
		return "a valid email is required"
	}
	return ""
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", msg)
		return
	}

	c, err := h.Repo.Create(r.Context(), UpsertParams{
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		DriverLicense: req.DriverLicense,
		Notes:         req.Notes,
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, c)
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if msg := req.validate(); msg != "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", msg)
		return
	}

	c, err := h.Repo.Update(r.Context(), id, UpsertParams{
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		DriverLicense: req.DriverLicense,
		Notes:         req.Notes,
	})
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "customer not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, c)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "customer not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
