package vehicle

import (
	"rentalmanager/internal/reservation"
)

// StatusContext is the per-decision snapshot the availability machine works
// on. It is rebuilt from the vehicle and its reservations on every call and
// never persisted.
type StatusContext struct {
	Vehicle *Vehicle

	// Today is the decision date as an ISO YYYY-MM-DD string. Injected by the
	// caller so decisions are deterministic under test.
	Today string

	// ActiveReservations are the vehicle's non-maintenance reservations that
	// are live today: not soft-deleted, not terminal, window contains today.
	ActiveReservations []reservation.Reservation

	HasPickedUp          bool
	HasBooked            bool
	HasActiveMaintenance bool
}

// BuildStatusContext filters the full reservation set down to what matters
// for v today. Maintenance blocks only feed HasActiveMaintenance; ordinary
// reservations feed the active list and the picked-up/booked flags.
func BuildStatusContext(v *Vehicle, all []reservation.Reservation, today string) StatusContext {
	ctx := StatusContext{Vehicle: v, Today: today}

	for _, r := range all {
		if r.VehicleID != v.ID || r.DeletedAt != nil || r.Terminal() {
			continue
		}
		if !r.WindowContains(today) {
			continue
		}

		if r.Type == reservation.TypeMaintenanceBlock {
			if r.MaintenanceInProgress() {
				ctx.HasActiveMaintenance = true
			}
			continue
		}

		ctx.ActiveReservations = append(ctx.ActiveReservations, r)
		switch r.Status {
		case reservation.StatusPickedUp:
			ctx.HasPickedUp = true
		case reservation.StatusBooked:
			ctx.HasBooked = true
		}
	}

	return ctx
}

// pickedUpCount counts concurrently picked-up reservations. More than one is
// a data oddity the return path handles defensively.
func (c StatusContext) pickedUpCount() int {
	n := 0
	for _, r := range c.ActiveReservations {
		if r.Status == reservation.StatusPickedUp {
			n++
		}
	}
	return n
}

// CalculateCorrectStatus derives the status the reservation data implies,
// used to detect drift between the stored status and reality. Sticky statuses
// win over everything: they only move through an explicit transition.
func CalculateCorrectStatus(ctx StatusContext) Status {
	switch {
	case ctx.Vehicle.Status.Sticky():
		return ctx.Vehicle.Status
	case ctx.HasPickedUp:
		return StatusRented
	case ctx.HasActiveMaintenance:
		return StatusNeedsFixing
	case ctx.HasBooked:
		return StatusScheduled
	default:
		return StatusAvailable
	}
}

// TransitionResult is the outcome of a validated status transition.
//
// Allowed=false carries an Error and no NewStatus; the caller must not mutate
// anything. Allowed=true carries the NewStatus to persist and possibly a
// Warning the operator should see.
type TransitionResult struct {
	Allowed   bool   `json:"allowed"`
	NewStatus Status `json:"newStatus,omitempty"`
	Warning   string `json:"warning,omitempty"`
	Error     string `json:"error,omitempty"`
}

func allow(s Status) TransitionResult {
	return TransitionResult{Allowed: true, NewStatus: s}
}

func allowWarn(s Status, warning string) TransitionResult {
	return TransitionResult{Allowed: true, NewStatus: s, Warning: warning}
}

func deny(msg string) TransitionResult {
	return TransitionResult{Allowed: false, Error: msg}
}

// manualRule is one row of the manual-edit decision table. Rules are checked
// top to bottom and the first match wins; order encodes business priority
// (active rental > active maintenance > upcoming bookings > derived-status
// guards).
type manualRule struct {
	when func(requested Status, ctx StatusContext) bool
	then func(requested Status, ctx StatusContext) TransitionResult
}

var manualRules = []manualRule{
	{
		// An active rental blocks marking the vehicle available.
		when: func(req Status, ctx StatusContext) bool {
			return ctx.HasPickedUp && req == StatusAvailable
		},
		then: func(Status, StatusContext) TransitionResult {
			return deny("vehicle has an active rental; it must be returned before it can be marked available")
		},
	},
	{
		// Taking a rented vehicle out of circulation is allowed, but the
		// running rental continues until return.
		when: func(req Status, ctx StatusContext) bool {
			return ctx.HasPickedUp && (req == StatusNeedsFixing || req == StatusNotForRental)
		},
		then: func(req Status, _ StatusContext) TransitionResult {
			return allowWarn(req, "the active rental is not affected; the new status takes effect once the vehicle is returned")
		},
	},
	{
		when: func(req Status, ctx StatusContext) bool {
			return ctx.HasActiveMaintenance && req == StatusAvailable
		},
		then: func(Status, StatusContext) TransitionResult {
			return deny("vehicle is in maintenance; close the maintenance block before marking it available")
		},
	},
	{
		when: func(req Status, ctx StatusContext) bool {
			return ctx.HasActiveMaintenance && req == StatusNotForRental
		},
		then: func(req Status, _ StatusContext) TransitionResult {
			return allowWarn(req, "status takes full effect once the maintenance block closes")
		},
	},
	{
		when: func(req Status, ctx StatusContext) bool {
			return ctx.HasBooked && (req == StatusNeedsFixing || req == StatusNotForRental)
		},
		then: func(req Status, _ StatusContext) TransitionResult {
			return allowWarn(req, "upcoming bookings for this vehicle may need to be rescheduled")
		},
	},
	{
		// rented is derived from an actual pickup, never set by hand.
		when: func(req Status, ctx StatusContext) bool {
			return req == StatusRented && !ctx.HasPickedUp
		},
		then: func(Status, StatusContext) TransitionResult {
			return deny("rented is derived from an actual pickup; register a pickup instead of setting it manually")
		},
	},
	{
		// Same for scheduled: it reflects an existing booking.
		when: func(req Status, ctx StatusContext) bool {
			return req == StatusScheduled && !ctx.HasBooked
		},
		then: func(Status, StatusContext) TransitionResult {
			return deny("scheduled is derived from an active booking; create a reservation instead of setting it manually")
		},
	},
}

// ValidateManualChange validates an operator editing the status field
// directly. Same-status requests are a no-op and always succeed.
func ValidateManualChange(current, requested Status, ctx StatusContext) TransitionResult {
	if current == requested {
		return allow(current)
	}
	for _, rule := range manualRules {
		if rule.when(requested, ctx) {
			return rule.then(requested, ctx)
		}
	}
	return allow(requested)
}

// StatusOnPickup validates handing the vehicle to a customer.
func StatusOnPickup(current Status) TransitionResult {
	if current == StatusNotForRental {
		return deny("vehicle is marked not for rental and cannot be picked up")
	}
	return allow(StatusRented)
}

// StatusOnReturn decides the status after a rental comes back. Sticky
// statuses survive the return; otherwise the remaining reservations decide.
// The context must be the snapshot from before the return is committed, so
// the returning reservation itself still counts as picked up.
func StatusOnReturn(current Status, ctx StatusContext) TransitionResult {
	if current.Sticky() {
		return allowWarn(current, "vehicle keeps its "+string(current)+" status after the return")
	}
	if ctx.pickedUpCount() > 1 {
		// Overlapping active rentals should not happen, but if the data says
		// so the vehicle is still out.
		return allowWarn(StatusRented, "another rental is still active for this vehicle")
	}
	if ctx.HasBooked {
		return allow(StatusScheduled)
	}
	return allow(StatusAvailable)
}

// StatusOnMaintenanceStart validates opening a maintenance block now.
func StatusOnMaintenanceStart(current Status) TransitionResult {
	if current == StatusRented {
		return deny("vehicle is currently rented; take it back first or schedule the maintenance for later")
	}
	return allow(StatusNeedsFixing)
}

// StatusOnMaintenanceEnd decides the status after the last maintenance block
// closes. Expects a context built after the block is closed.
func StatusOnMaintenanceEnd(current Status, ctx StatusContext) TransitionResult {
	if current == StatusNotForRental {
		return allow(StatusNotForRental)
	}
	if ctx.HasPickedUp {
		return allow(StatusRented)
	}
	if ctx.HasBooked {
		return allow(StatusScheduled)
	}
	return allow(StatusAvailable)
}

// StatusOnReservationCancel decides the status after a reservation is
// cancelled. Expects a context built after the cancellation, so only other
// reservations remain.
func StatusOnReservationCancel(current Status, ctx StatusContext) TransitionResult {
	if current.Sticky() {
		return allow(current)
	}
	if ctx.HasPickedUp {
		return allow(StatusRented)
	}
	if ctx.HasBooked {
		return allow(StatusScheduled)
	}
	return allow(StatusAvailable)
}
