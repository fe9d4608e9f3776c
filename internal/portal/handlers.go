package portal

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentalmanager/internal/api"
	"rentalmanager/internal/audit"
	"rentalmanager/internal/customer"
	"rentalmanager/internal/reservation"
	"rentalmanager/internal/vehicle"
	"rentalmanager/pkg/config"
	"rentalmanager/pkg/db"
)

type Handlers struct {
	Cfg          config.Config
	DB           *pgxpool.Pool
	Customers    *customer.Repository
	Reservations *reservation.Repository
	Vehicles     *vehicle.Repository
}

// MintLink is the staff-side endpoint that creates a portal link for a
// customer.
func (h Handlers) MintLink(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	c, err := h.Customers.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "customer not found")
		return
	}

	now := time.Now()
	ttl := time.Duration(h.Cfg.PortalTokenTTLHours) * time.Hour
	tok, err := MintLinkToken(c.ID, h.Cfg.PortalSigningSecret, ttl, now)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"token":     tok,
		"expiresAt": now.Add(ttl),
	})
}

func (h Handlers) customerFromToken(w http.ResponseWriter, r *http.Request) *customer.Customer {
	token := chi.URLParam(r, "token")
	if token == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing token")
		return nil
	}

	customerID, err := VerifyLinkToken(token, h.Cfg.PortalSigningSecret, time.Now())
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "portal link not found")
		return nil
	}

	c, err := h.Customers.GetByID(r.Context(), customerID)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "portal link not found")
		return nil
	}
	return c
}

// reservationView is a portal-safe projection: no internal notes, plus the
// vehicle's display fields.
type reservationView struct {
	ID            int64   `json:"id"`
	StartDate     string  `json:"startDate"`
	EndDate       *string `json:"endDate,omitempty"`
	Status        string  `json:"status"`
	CancelPending bool    `json:"cancelPending"`
	Vehicle       string  `json:"vehicle"`
	StatusLabel   string  `json:"statusLabel"`
	StatusColor   string  `json:"statusColor"`
}

// View shows a customer their own reservations.
func (h Handlers) View(w http.ResponseWriter, r *http.Request) {
	c := h.customerFromToken(w, r)
	if c == nil {
		return
	}

	rs, err := h.Reservations.ListByCustomer(r.Context(), c.ID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	views := make([]reservationView, 0, len(rs))
	for _, res := range rs {
		v, err := h.Vehicles.GetByID(r.Context(), res.VehicleID)
		if err != nil {
			continue
		}
		views = append(views, reservationView{
			ID:            res.ID,
			StartDate:     res.StartDate,
			EndDate:       res.EndDate,
			Status:        string(res.Status),
			CancelPending: res.CancellationRequested,
			Vehicle:       v.Brand + " " + v.Model + " (" + v.LicensePlate + ")",
			StatusLabel:   vehicle.StatusLabels[v.Status],
			StatusColor:   vehicle.StatusColors[v.Status],
		})
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"customer":     map[string]any{"fullName": c.FullName, "email": c.Email},
		"reservations": views,
	})
}

// RequestCancellation flags a booked reservation for cancellation. Staff
// perform the actual cancel through the lifecycle endpoint; the portal only
// records the wish.
func (h Handlers) RequestCancellation(w http.ResponseWriter, r *http.Request) {
	c := h.customerFromToken(w, r)
	if c == nil {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	err = db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		res, err := reservation.GetForUpdate(r.Context(), tx, id)
		if err != nil || res.CustomerID == nil || *res.CustomerID != c.ID {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "reservation not found")
			return pgx.ErrTxCommitRollback
		}
		if res.Status != reservation.StatusBooked {
			api.WriteError(w, http.StatusConflict, "RESERVATION_NOT_BOOKED", "only upcoming bookings can be cancelled")
			return pgx.ErrTxCommitRollback
		}

		if err := reservation.RequestCancellationTx(r.Context(), tx, res.ID); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, c.Email, "reservation", res.ID, "CANCELLATION_REQUESTED",
			map[string]any{"via": "portal"})
	})
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
