package reservation

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

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// List returns reservations; `from`/`to` narrow it to a calendar window and
// `vehicleId`/`customerId` filter by owner.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		items []Reservation
		err   error
	)
	switch {
	case q.Get("from") != "" || q.Get("to") != "":
		from := q.Get("from")
		to := q.Get("to")
		if from == "" || to == "" {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "from and to must be given together")
			return
		}
		if _, perr := time.Parse(DateFormat, from); perr != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "from must be YYYY-MM-DD")
			return
		}
		if _, perr := time.Parse(DateFormat, to); perr != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "to must be YYYY-MM-DD")
			return
		}
		items, err = h.Repo.ListRange(r.Context(), from, to)
	case q.Get("vehicleId") != "":
		vid, perr := strconv.ParseInt(q.Get("vehicleId"), 10, 64)
		if perr != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid vehicleId")
			return
		}
		items, err = h.Repo.ListByVehicle(r.Context(), vid)
	case q.Get("customerId") != "":
		cid, perr := strconv.ParseInt(q.Get("customerId"), 10, 64)
		if perr != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid customerId")
			return
		}
		items, err = h.Repo.ListByCustomer(r.Context(), cid)
	default:
		items, err = h.Repo.List(r.Context())
	}
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	res, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "reservation not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

type createRequest struct {
	VehicleID  int64   `json:"vehicleId"`
	CustomerID *int64  `json:"customerId"`
	StartDate  string  `json:"startDate"`
	EndDate    *string `json:"endDate"`
	Type       string  `json:"type"`
	Notes      string  `json:"notes"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if req.VehicleID <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "vehicleId is required")
		return
	}
	if req.Type == "" {
		req.Type = string(TypeRental)
	}
	typ, err := ParseType(req.Type)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	if typ != TypeMaintenanceBlock && req.CustomerID == nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "customerId is required for rentals")
		return
	}
	if err := ValidateDates(req.StartDate, req.EndDate); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	p := CreateParams{
		VehicleID:  req.VehicleID,
		CustomerID: req.CustomerID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Type:       typ,
		Notes:      req.Notes,
	}
	if typ == TypeMaintenanceBlock {
		ms := MaintenanceScheduled
		p.MaintenanceStatus = &ms
		p.CustomerID = nil
	}

	res, err := h.Repo.Create(r.Context(), p)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, res)
}

type updateRequest struct {
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Notes     string  `json:"notes"`
}

// Update edits the window and notes. Status moves only through the lifecycle
// endpoints (pickup/return/cancel), never through a bare edit.
func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if err := ValidateDates(req.StartDate, req.EndDate); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	res, err := h.Repo.Update(r.Context(), id, UpdateParams{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	})
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "reservation not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, res)
}

