package document

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"rentalmanager/internal/api"
)

type Handlers struct {
	Repo *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		items []Document
		err   error
	)
	switch {
	case q.Get("customerId") != "":
		cid, perr := strconv.ParseInt(q.Get("customerId"), 10, 64)
		if perr != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid customerId")
			return
		}
		items, err = h.Repo.ListByCustomer(r.Context(), cid)
	case q.Get("vehicleId") != "":
		vid, perr := strconv.ParseInt(q.Get("vehicleId"), 10, 64)
		if perr != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid vehicleId")
			return
		}
		items, err = h.Repo.ListByVehicle(r.Context(), vid)
	default:
		items, err = h.Repo.List(r.Context())
	}
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

type createRequest struct {
	CustomerID    *int64 `json:"customerId"`
	VehicleID     *int64 `json:"vehicleId"`
	ReservationID *int64 `json:"reservationId"`
	Kind          string `json:"kind"`
	Title         string `json:"title"`
	FileURL       string `json:"fileUrl"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	kind, err := ParseKind(req.Kind)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	if req.Title == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "title is required")
		return
	}

	var contractNumber string
	if kind == KindContract {
		contractNumber = NewContractNumber(time.Now())
	}

	d, err := h.Repo.Create(r.Context(), CreateParams{
		CustomerID:     req.CustomerID,
		VehicleID:      req.VehicleID,
		ReservationID:  req.ReservationID,
		Kind:           kind,
		Title:          req.Title,
		ContractNumber: contractNumber,
		FileURL:        req.FileURL,
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, d)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "document not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
