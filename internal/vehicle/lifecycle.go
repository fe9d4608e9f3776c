package vehicle

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/jackc/pgx/v5"

	"rentalmanager/internal/api"
	"rentalmanager/internal/audit"
	"rentalmanager/internal/reservation"
	"rentalmanager/pkg/db"
)

// Lifecycle endpoints: the reservation-driven triggers that move a vehicle's
// availability status. Each one locks the reservation and vehicle rows,
// builds a status context from the pre-event snapshot (post-event for cancel
// and maintenance-end, where the event removes the reservation from play),
// runs the matching validator and persists both sides in one transaction.

// Pickup hands the vehicle to the customer: reservation booked -> picked_up,
// vehicle -> rented.
func (h Handlers) Pickup(w http.ResponseWriter, r *http.Request) {
	h.reservationEvent(w, r, "PICKUP", func(ctx *eventContext) (TransitionResult, error) {
		if ctx.Reservation.Type == reservation.TypeMaintenanceBlock {
			return deny("maintenance blocks cannot be picked up"), nil
		}
		if ctx.Reservation.Status != reservation.StatusBooked {
			return deny("only a booked reservation can be picked up"), nil
		}

		result := StatusOnPickup(ctx.Vehicle.Status)
		if !result.Allowed {
			return result, nil
		}
		err := reservation.UpdateStatusTx(ctx.Ctx, ctx.Tx, ctx.Reservation.ID, reservation.StatusPickedUp)
		return result, err
	})
}

// Return takes the vehicle back. The status context is built before the
// reservation row changes, so the returning rental still counts as picked up
// and the multi-pickup edge case stays visible.
func (h Handlers) Return(w http.ResponseWriter, r *http.Request) {
	h.reservationEvent(w, r, "RETURN", func(ctx *eventContext) (TransitionResult, error) {
		if ctx.Reservation.Status != reservation.StatusPickedUp {
			return deny("only a picked-up reservation can be returned"), nil
		}

		sctx := BuildStatusContext(ctx.Vehicle, ctx.AllReservations, ctx.Today)
		result := StatusOnReturn(ctx.Vehicle.Status, sctx)
		if !result.Allowed {
			return result, nil
		}
		err := reservation.UpdateStatusTx(ctx.Ctx, ctx.Tx, ctx.Reservation.ID, reservation.StatusReturned)
		return result, err
	})
}

// Cancel cancels a reservation. The row is cancelled first, then the context
// is rebuilt so only the surviving reservations decide the vehicle status.
func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	h.reservationEvent(w, r, "CANCEL", func(ctx *eventContext) (TransitionResult, error) {
		if ctx.Reservation.Terminal() {
			return deny("reservation is already closed"), nil
		}

		if err := reservation.UpdateStatusTx(ctx.Ctx, ctx.Tx, ctx.Reservation.ID, reservation.StatusCancelled); err != nil {
			return TransitionResult{}, err
		}
		remaining, err := reservation.ListByVehicleTx(ctx.Ctx, ctx.Tx, ctx.Vehicle.ID)
		if err != nil {
			return TransitionResult{}, err
		}

		sctx := BuildStatusContext(ctx.Vehicle, remaining, ctx.Today)
		return StatusOnReservationCancel(ctx.Vehicle.Status, sctx), nil
	})
}

type eventContext struct {
	Ctx             context.Context
	Tx              pgx.Tx
	Today           string
	Vehicle         *Vehicle
	Reservation     *reservation.Reservation
	AllReservations []reservation.Reservation
}

// reservationEvent is the shared transaction shell for pickup/return/cancel.
// apply runs inside the transaction and returns the validated transition; a
// denial writes a 409 and rolls everything back.
func (h Handlers) reservationEvent(w http.ResponseWriter, r *http.Request, action string, apply func(*eventContext) (TransitionResult, error)) {
	id, ok := idParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	actor := actorEmail(r)
	day := today()
	var result TransitionResult

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		resv, err := reservation.GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}
		v, err := GetForUpdate(r.Context(), tx, resv.VehicleID)
		if err != nil {
			return err
		}
		all, err := reservation.ListByVehicleTx(r.Context(), tx, v.ID)
		if err != nil {
			return err
		}

		result, err = apply(&eventContext{
			Ctx:             r.Context(),
			Tx:              tx,
			Today:           day,
			Vehicle:         v,
			Reservation:     resv,
			AllReservations: all,
		})
		if err != nil {
			return err
		}
		if !result.Allowed {
			api.WriteError(w, http.StatusConflict, "INVALID_STATUS_TRANSITION", result.Error)
			return pgx.ErrTxCommitRollback
		}

		if result.NewStatus != v.Status {
			if err := UpdateStatusTx(r.Context(), tx, v.ID, result.NewStatus); err != nil {
				return err
			}
		}
		return audit.Insert(r.Context(), tx, actor, "reservation", resv.ID, action,
			map[string]any{"vehicleId": v.ID, "from": v.Status, "to": result.NewStatus})
	})
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "reservation not found")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"vehicleStatus": result.NewStatus,
		"warning":       result.Warning,
	})
}

// DeleteReservation soft-deletes a reservation. Removing a booking changes
// what the reservation data implies for the vehicle, so the delete runs
// through the same status decision a cancellation does.
func (h Handlers) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	actor := actorEmail(r)
	day := today()

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		resv, err := reservation.GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}
		if resv.Status == reservation.StatusPickedUp {
			api.WriteError(w, http.StatusConflict, "RESERVATION_ACTIVE", "reservation has an active pickup; return the vehicle or cancel it first")
			return pgx.ErrTxCommitRollback
		}
		v, err := GetForUpdate(r.Context(), tx, resv.VehicleID)
		if err != nil {
			return err
		}

		if err := reservation.SoftDeleteTx(r.Context(), tx, resv.ID); err != nil {
			return err
		}
		remaining, err := reservation.ListByVehicleTx(r.Context(), tx, v.ID)
		if err != nil {
			return err
		}

		sctx := BuildStatusContext(v, remaining, day)
		result := StatusOnReservationCancel(v.Status, sctx)
		if result.Allowed && result.NewStatus != v.Status {
			if err := UpdateStatusTx(r.Context(), tx, v.ID, result.NewStatus); err != nil {
				return err
			}
		}
		return audit.Insert(r.Context(), tx, actor, "reservation", resv.ID, "DELETED",
			map[string]any{"vehicleId": v.ID, "from": v.Status, "to": result.NewStatus})
	})
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "reservation not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type maintenanceStartRequest struct {
	ReservationID *int64 `json:"reservationId,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// MaintenanceStart opens (or activates) a maintenance block on the vehicle
// and moves it to needs_fixing.
func (h Handlers) MaintenanceStart(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	// An empty body means an ad-hoc block; a malformed one is still an error.
	var req maintenanceStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	actor := actorEmail(r)
	day := today()
	var result TransitionResult

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		v, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}

		result = StatusOnMaintenanceStart(v.Status)
		if !result.Allowed {
			api.WriteError(w, http.StatusConflict, "INVALID_STATUS_TRANSITION", result.Error)
			return pgx.ErrTxCommitRollback
		}

		if req.ReservationID != nil {
			// Activate a previously scheduled block.
			block, err := reservation.GetForUpdate(r.Context(), tx, *req.ReservationID)
			if err != nil || block.VehicleID != v.ID || block.Type != reservation.TypeMaintenanceBlock {
				api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "maintenance block not found")
				return pgx.ErrTxCommitRollback
			}
			if err := reservation.SetMaintenanceStatusTx(r.Context(), tx, block.ID, reservation.MaintenanceIn); err != nil {
				return err
			}
		} else {
			if _, err := reservation.CreateMaintenanceBlockTx(r.Context(), tx, v.ID, day, req.Notes); err != nil {
				return err
			}
		}

		if err := UpdateStatusTx(r.Context(), tx, v.ID, result.NewStatus); err != nil {
			return err
		}
		return audit.Insert(r.Context(), tx, actor, "vehicle", v.ID, "MAINTENANCE_STARTED",
			map[string]any{"from": v.Status, "to": result.NewStatus})
	})
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "vehicle not found")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"vehicleStatus": result.NewStatus,
		"warning":       result.Warning,
	})
}

// MaintenanceEnd closes the vehicle's in-progress maintenance blocks and
// lets the remaining reservations decide the next status.
func (h Handlers) MaintenanceEnd(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid id")
		return
	}

	actor := actorEmail(r)
	day := today()
	var result TransitionResult

	err := db.WithTx(r.Context(), h.DB, func(tx pgx.Tx) error {
		v, err := GetForUpdate(r.Context(), tx, id)
		if err != nil {
			return err
		}

		if _, err := reservation.CloseMaintenanceTx(r.Context(), tx, v.ID, day); err != nil {
			return err
		}
		remaining, err := reservation.ListByVehicleTx(r.Context(), tx, v.ID)
		if err != nil {
			return err
		}

		sctx := BuildStatusContext(v, remaining, day)
		result = StatusOnMaintenanceEnd(v.Status, sctx)

		if result.NewStatus != v.Status {
			if err := UpdateStatusTx(r.Context(), tx, v.ID, result.NewStatus); err != nil {
				return err
			}
		}
		return audit.Insert(r.Context(), tx, actor, "vehicle", v.ID, "MAINTENANCE_ENDED",
			map[string]any{"from": v.Status, "to": result.NewStatus})
	})
	if err != nil {
		if err == pgx.ErrTxCommitRollback {
			return
		}
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "vehicle not found")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"vehicleStatus": result.NewStatus,
		"warning":       result.Warning,
	})
}
