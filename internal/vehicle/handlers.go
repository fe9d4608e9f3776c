package vehicle

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentalmanager/internal/api"
	"rentalmanager/internal/audit"
	"rentalmanager/internal/reservation"
	"rentalmanager/pkg/db"
)

type Handlers struct {
	DB           *pgxpool.Pool
	Vehicles     *Repository
	Reservations *reservation.Repository
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func today() string {
	return time.Now().Format(reservation.DateFormat)
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Vehicles.List(r.Context())
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

	v, err := h.Vehicles.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "vehicle not found")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"vehicle":     v,
		"statusLabel": StatusLabels[v.Status],
		"statusColor": StatusColors[v.Status],
	})
}

type upsertRequest struct {
	LicensePlate string `json:"licensePlate"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Mileage      int    `json:"mileage"`
	DailyRate    string `json:"dailyRate"`
	Notes        string `json:"notes"`
}

func (req upsertRequest) validate() string {
	if req.LicensePlate == "" {
		return "licensePlate is required"
	}
	if req.Brand == "" || req.Model == "" {
		return "brand and model are required"
	}
	if req.DailyRate == "" {
		return "dailyRate is required"
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
	rate, err := ParseDailyRate(req.DailyRate)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	v, err := h.Vehicles.Create(r.Context(), CreateParams{
		LicensePlate: req.LicensePlate,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Mileage:      req.Mileage,
		DailyRate:    rate,
		Notes:        req.Notes,
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, v)
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
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
	rate, err := ParseDailyRate(req.DailyRate)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	v, err := h.Vehicles.Update(r.Context(), id, UpdateParams{
		LicensePlate: req.LicensePlate,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Mileage:      req.Mileage,
		DailyRate:    rate,
		Notes:        req.Notes,
	})
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "vehicle not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, v)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	if err := h.Vehicles.Delete(r.Context(), id); err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "vehicle not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type patchStatusRequest struct {
	Status string `json:"status"`
}

// PatchStatus is the manual status edit. The requested status runs through
// the manual-change decision table; denials roll the transaction back.
func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	var req patchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	requested, err := ParseStatus(req.Status)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
		return
	}

	actor := actorEmail(r)
	var result TransitionResult

	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		v, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}

		rs, err := reservation.ListByVehicleTx(r.Context(), tx, v.ID)
		if err != nil {
			return err
		}

		sctx := BuildStatusContext(v, rs, today())
		result = ValidateManualChange(v.Status, requested, sctx)
		if !result.Allowed {
			api.WriteError(w, http.StatusConflict, "INVALID_STATUS_TRANSITION", result.Error)
			return pgx.ErrTxCommitRollback
		}

		if result.NewStatus != v.Status {
			if err := UpdateStatusTx(r.Context(), tx, v.ID, result.NewStatus); err != nil {
				return err
			}
			if err := audit.Insert(r.Context(), tx, actor, "vehicle", v.ID, "STATUS_CHANGED",
				map[string]any{"from": v.Status, "to": result.NewStatus, "trigger": "manual"}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "vehicle not found")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  result.NewStatus,
		"warning": result.Warning,
	})
}

// StatusCheck reports drift between the stored status and what the
// reservation data implies. Read-only; reconciliation is a separate action.
func (h Handlers) StatusCheck(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	v, err := h.Vehicles.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "vehicle not found")
		return
	}
	rs, err := h.Reservations.ListByVehicle(r.Context(), v.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	calculated := CalculateCorrectStatus(BuildStatusContext(v, rs, today()))
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"storedStatus":     v.Status,
		"calculatedStatus": calculated,
		"inSync":           calculated == v.Status,
	})
}

func actorEmail(r *http.Request) string {
	if a := api.ActorFromContext(r.Context()); a != nil {
		return a.Email
	}
	return "system"
}
