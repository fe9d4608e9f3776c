package expense

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"rentalmanager/internal/api"
)

type Handlers struct {
	Repo *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []Expense
		err   error
	)
	if s := r.URL.Query().Get("vehicleId"); s != "" {
		vid, perr := strconv.ParseInt(s, 10, 64)
		if perr != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid vehicleId")
			return
		}
		items, err = h.Repo.ListByVehicle(r.Context(), vid)
	} else {
		items, err = h.Repo.List(r.Context())
	}
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": Total(items),
	})
}

// Summary returns category and monthly totals, optionally per vehicle.
func (h Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	var (
		items []Expense
		err   error
	)
	if s := r.URL.Query().Get("vehicleId"); s != "" {
		vid, perr := strconv.ParseInt(s, 10, 64)
		if perr != nil {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid vehicleId")
			return
		}
		items, err = h.Repo.ListByVehicle(r.Context(), vid)
	} else {
		items, err = h.Repo.List(r.Context())
	}
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"byCategory": Summarize(items),
		"byMonth":    SummarizeByMonth(items),
		"total":      Total(items),
	})
}

type createRequest struct {
	VehicleID  int64  `json:"vehicleId"`
	Category   string `json:"category"`
	Amount     string `json:"amount"`
	IncurredOn string `json:"incurredOn"`
	Note       string `json:"note"`
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
	cat, err := ParseCategory(req.Category)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "amount must be a positive number")
		return
	}
	if _, err := time.Parse("2006-01-02", req.IncurredOn); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "incurredOn must be YYYY-MM-DD")
		return
	}

	e, err := h.Repo.Create(r.Context(), CreateParams{
		VehicleID:  req.VehicleID,
		Category:   cat,
		Amount:     amount,
		IncurredOn: req.IncurredOn,
		Note:       req.Note,
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, e)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "expense not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
