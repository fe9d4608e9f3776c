package vehicle

import (
	"strings"
	"testing"
	"time"

	"rentalmanager/internal/reservation"
)

const testToday = "2026-08-25"

var allStatuses = []Status{StatusAvailable, StatusRented, StatusScheduled, StatusNeedsFixing, StatusNotForRental}

func veh(status Status) *Vehicle {
	return &Vehicle{ID: 1, LicensePlate: "AB-123-C", Status: status}
}

func strPtr(s string) *string { return &s }

func booked(vehicleID int64, start string, end *string) reservation.Reservation {
	return reservation.Reservation{
		ID: 10, VehicleID: vehicleID, StartDate: start, EndDate: end,
		Status: reservation.StatusBooked, Type: reservation.TypeRental,
	}
}

func pickedUp(vehicleID int64, start string, end *string) reservation.Reservation {
	r := booked(vehicleID, start, end)
	r.Status = reservation.StatusPickedUp
	return r
}

func maintBlock(vehicleID int64, ms reservation.MaintenanceStatus, start string, end *string) reservation.Reservation {
	return reservation.Reservation{
		ID: 20, VehicleID: vehicleID, StartDate: start, EndDate: end,
		Status: reservation.StatusBooked, Type: reservation.TypeMaintenanceBlock,
		MaintenanceStatus: &ms,
	}
}

func ctxWith(v *Vehicle, rs ...reservation.Reservation) StatusContext {
	return BuildStatusContext(v, rs, testToday)
}

// checkInvariant asserts the TransitionResult contract: a denial carries an
// error and no status, an allow carries a status.
func checkInvariant(t *testing.T, res TransitionResult) {
	t.Helper()
	if res.Allowed {
		if res.NewStatus == "" {
			t.Fatalf("allowed result must carry a new status: %+v", res)
		}
		if res.Error != "" {
			t.Fatalf("allowed result must not carry an error: %+v", res)
		}
	} else {
		if res.NewStatus != "" {
			t.Fatalf("denied result must not carry a new status: %+v", res)
		}
		if res.Error == "" {
			t.Fatalf("denied result must carry an error: %+v", res)
		}
	}
}

func TestBuildStatusContext_FiltersAndFlags(t *testing.T) {
	v := veh(StatusAvailable)
	deleted := booked(1, "2026-08-01", nil)
	now := time.Now()
	deleted.DeletedAt = &now
	cancelled := booked(1, "2026-08-01", nil)
	cancelled.Status = reservation.StatusCancelled
	otherVehicle := pickedUp(2, "2026-08-01", nil)
	future := booked(1, "2026-09-01", strPtr("2026-09-10"))
	expired := booked(1, "2026-08-01", strPtr("2026-08-20"))
	active := booked(1, "2026-08-25", nil)
	scheduledBlock := maintBlock(1, reservation.MaintenanceScheduled, "2026-08-20", nil)

	ctx := ctxWith(v, deleted, cancelled, otherVehicle, future, expired, active, scheduledBlock)

	if len(ctx.ActiveReservations) != 1 {
		t.Fatalf("expected 1 active reservation, got %d", len(ctx.ActiveReservations))
	}
	if !ctx.HasBooked || ctx.HasPickedUp {
		t.Fatalf("expected booked only, got %+v", ctx)
	}
	if ctx.HasActiveMaintenance {
		t.Fatalf("a scheduled block must not count as active maintenance")
	}
}

func TestBuildStatusContext_MaintenanceInProgress(t *testing.T) {
	v := veh(StatusAvailable)
	for _, ms := range []reservation.MaintenanceStatus{reservation.MaintenanceIn, reservation.MaintenanceInService} {
		ctx := ctxWith(v, maintBlock(1, ms, "2026-08-20", nil))
		if !ctx.HasActiveMaintenance {
			t.Fatalf("maintenance status %q should be active", ms)
		}
		if len(ctx.ActiveReservations) != 0 {
			t.Fatalf("maintenance blocks must not join the active reservation list")
		}
	}
}

func TestCalculateCorrectStatus_StickyWins(t *testing.T) {
	for _, s := range []Status{StatusNeedsFixing, StatusNotForRental} {
		ctx := ctxWith(veh(s), pickedUp(1, "2026-08-01", nil), booked(1, "2026-08-25", nil))
		if got := CalculateCorrectStatus(ctx); got != s {
			t.Fatalf("sticky status %s must not auto-revert, got %s", s, got)
		}
	}
}

func TestCalculateCorrectStatus_Precedence(t *testing.T) {
	cases := []struct {
		name string
		ctx  StatusContext
		want Status
	}{
		{"picked up wins", ctxWith(veh(StatusAvailable), pickedUp(1, "2026-08-01", nil), maintBlock(1, reservation.MaintenanceIn, "2026-08-01", nil)), StatusRented},
		{"maintenance before booked", ctxWith(veh(StatusAvailable), booked(1, "2026-08-25", nil), maintBlock(1, reservation.MaintenanceIn, "2026-08-01", nil)), StatusNeedsFixing},
		{"booked alone", ctxWith(veh(StatusScheduled), booked(1, "2026-08-25", nil)), StatusScheduled},
		{"nothing active", ctxWith(veh(StatusRented)), StatusAvailable},
	}
	for _, tc := range cases {
		if got := CalculateCorrectStatus(tc.ctx); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestValidateManualChange_SameStatusIsNoOp(t *testing.T) {
	// Holds for every status even with a busy context.
	busy := ctxWith(veh(StatusRented), pickedUp(1, "2026-08-01", nil), maintBlock(1, reservation.MaintenanceIn, "2026-08-01", nil))
	for _, s := range allStatuses {
		res := ValidateManualChange(s, s, busy)
		checkInvariant(t, res)
		if !res.Allowed || res.NewStatus != s || res.Warning != "" {
			t.Fatalf("no-op change for %s: got %+v", s, res)
		}
	}
}

func TestValidateManualChange_Rules(t *testing.T) {
	withPickup := ctxWith(veh(StatusRented), pickedUp(1, "2026-08-01", nil))
	withMaint := ctxWith(veh(StatusNeedsFixing), maintBlock(1, reservation.MaintenanceIn, "2026-08-01", nil))
	withBooking := ctxWith(veh(StatusScheduled), booked(1, "2026-08-25", nil))
	idle := ctxWith(veh(StatusAvailable))

	cases := []struct {
		name        string
		current     Status
		requested   Status
		ctx         StatusContext
		wantAllowed bool
		wantStatus  Status
		wantWarning bool
		errContains string
	}{
		{"active rental blocks available", StatusRented, StatusAvailable, withPickup, false, "", false, "returned"},
		{"needs_fixing during rental warns", StatusRented, StatusNeedsFixing, withPickup, true, StatusNeedsFixing, true, ""},
		{"not_for_rental during rental warns", StatusRented, StatusNotForRental, withPickup, true, StatusNotForRental, true, ""},
		{"rented allowed when pickup exists", StatusAvailable, StatusRented, withPickup, true, StatusRented, false, ""},
		{"maintenance blocks available", StatusNeedsFixing, StatusAvailable, withMaint, false, "", false, "maintenance"},
		{"not_for_rental during maintenance warns", StatusNeedsFixing, StatusNotForRental, withMaint, true, StatusNotForRental, true, ""},
		{"needs_fixing with booking warns", StatusScheduled, StatusNeedsFixing, withBooking, true, StatusNeedsFixing, true, ""},
		{"not_for_rental with booking warns", StatusScheduled, StatusNotForRental, withBooking, true, StatusNotForRental, true, ""},
		{"scheduled allowed when booking exists", StatusAvailable, StatusScheduled, withBooking, true, StatusScheduled, false, ""},
		{"rented without pickup denied", StatusAvailable, StatusRented, idle, false, "", false, "pickup"},
		{"scheduled without booking denied", StatusAvailable, StatusScheduled, idle, false, "", false, "booking"},
		{"plain change allowed", StatusAvailable, StatusNotForRental, idle, true, StatusNotForRental, false, ""},
		{"sticky back to available allowed when idle", StatusNeedsFixing, StatusAvailable, ctxWith(veh(StatusNeedsFixing)), true, StatusAvailable, false, ""},
	}

	for _, tc := range cases {
		res := ValidateManualChange(tc.current, tc.requested, tc.ctx)
		checkInvariant(t, res)
		if res.Allowed != tc.wantAllowed {
			t.Fatalf("%s: allowed=%v, want %v (%+v)", tc.name, res.Allowed, tc.wantAllowed, res)
		}
		if tc.wantAllowed && res.NewStatus != tc.wantStatus {
			t.Fatalf("%s: status=%s, want %s", tc.name, res.NewStatus, tc.wantStatus)
		}
		if tc.wantWarning != (res.Warning != "") {
			t.Fatalf("%s: warning=%q, wantWarning=%v", tc.name, res.Warning, tc.wantWarning)
		}
		if tc.errContains != "" && !strings.Contains(res.Error, tc.errContains) {
			t.Fatalf("%s: error %q should mention %q", tc.name, res.Error, tc.errContains)
		}
	}
}

func TestValidateManualChange_PickupRuleBeatsMaintenanceRule(t *testing.T) {
	// Both conditions hold; the first matching rule (active rental) decides
	// the denial message.
	ctx := ctxWith(veh(StatusRented),
		pickedUp(1, "2026-08-01", nil),
		maintBlock(1, reservation.MaintenanceIn, "2026-08-01", nil),
	)
	res := ValidateManualChange(StatusRented, StatusAvailable, ctx)
	checkInvariant(t, res)
	if res.Allowed {
		t.Fatalf("expected denial, got %+v", res)
	}
	if !strings.Contains(res.Error, "rental") {
		t.Fatalf("expected the rental rule to win, got error %q", res.Error)
	}
}

func TestStatusOnPickup(t *testing.T) {
	res := StatusOnPickup(StatusNotForRental)
	checkInvariant(t, res)
	if res.Allowed {
		t.Fatalf("pickup of a not_for_rental vehicle must be denied")
	}
	if !strings.Contains(res.Error, "not for rental") {
		t.Fatalf("denial should explain the status, got %q", res.Error)
	}

	for _, s := range []Status{StatusAvailable, StatusRented, StatusScheduled, StatusNeedsFixing} {
		res := StatusOnPickup(s)
		checkInvariant(t, res)
		if !res.Allowed || res.NewStatus != StatusRented {
			t.Fatalf("pickup from %s: got %+v", s, res)
		}
	}
}

func TestStatusOnReturn(t *testing.T) {
	// Sticky statuses survive the return with an informational warning.
	for _, s := range []Status{StatusNeedsFixing, StatusNotForRental} {
		res := StatusOnReturn(s, ctxWith(veh(s), pickedUp(1, "2026-08-01", nil)))
		checkInvariant(t, res)
		if !res.Allowed || res.NewStatus != s || res.Warning == "" {
			t.Fatalf("return with sticky %s: got %+v", s, res)
		}
	}

	// Two concurrent pickups: the vehicle is still out after one comes back.
	second := pickedUp(1, "2026-08-10", nil)
	second.ID = 11
	res := StatusOnReturn(StatusRented, ctxWith(veh(StatusRented), pickedUp(1, "2026-08-01", nil), second))
	checkInvariant(t, res)
	if res.NewStatus != StatusRented || res.Warning == "" {
		t.Fatalf("multi-pickup return: got %+v", res)
	}

	// A remaining booking takes over.
	res = StatusOnReturn(StatusRented, ctxWith(veh(StatusRented), pickedUp(1, "2026-08-01", nil), booked(1, "2026-08-25", nil)))
	checkInvariant(t, res)
	if res.NewStatus != StatusScheduled {
		t.Fatalf("return with remaining booking: got %+v", res)
	}

	// Nothing left: available.
	res = StatusOnReturn(StatusRented, ctxWith(veh(StatusRented), pickedUp(1, "2026-08-01", nil)))
	checkInvariant(t, res)
	if res.NewStatus != StatusAvailable || res.Warning != "" {
		t.Fatalf("plain return: got %+v", res)
	}
}

func TestStatusOnMaintenanceStart(t *testing.T) {
	res := StatusOnMaintenanceStart(StatusRented)
	checkInvariant(t, res)
	if res.Allowed {
		t.Fatalf("maintenance on a rented vehicle must be denied")
	}

	for _, s := range []Status{StatusAvailable, StatusScheduled, StatusNeedsFixing, StatusNotForRental} {
		res := StatusOnMaintenanceStart(s)
		checkInvariant(t, res)
		if !res.Allowed || res.NewStatus != StatusNeedsFixing {
			t.Fatalf("maintenance start from %s: got %+v", s, res)
		}
	}
}

func TestStatusOnMaintenanceEnd(t *testing.T) {
	cases := []struct {
		name    string
		current Status
		ctx     StatusContext
		want    Status
	}{
		{"not_for_rental stays", StatusNotForRental, ctxWith(veh(StatusNotForRental)), StatusNotForRental},
		{"active pickup wins", StatusNeedsFixing, ctxWith(veh(StatusNeedsFixing), pickedUp(1, "2026-08-01", nil)), StatusRented},
		{"booking remains", StatusNeedsFixing, ctxWith(veh(StatusNeedsFixing), booked(1, "2026-08-25", nil)), StatusScheduled},
		{"nothing left", StatusNeedsFixing, ctxWith(veh(StatusNeedsFixing)), StatusAvailable},
	}
	for _, tc := range cases {
		res := StatusOnMaintenanceEnd(tc.current, tc.ctx)
		checkInvariant(t, res)
		if !res.Allowed || res.NewStatus != tc.want {
			t.Fatalf("%s: got %+v, want %s", tc.name, res, tc.want)
		}
	}
}

func TestStatusOnReservationCancel(t *testing.T) {
	cases := []struct {
		name    string
		current Status
		ctx     StatusContext
		want    Status
	}{
		{"sticky needs_fixing", StatusNeedsFixing, ctxWith(veh(StatusNeedsFixing)), StatusNeedsFixing},
		{"sticky not_for_rental", StatusNotForRental, ctxWith(veh(StatusNotForRental)), StatusNotForRental},
		{"other pickup active", StatusRented, ctxWith(veh(StatusRented), pickedUp(1, "2026-08-01", nil)), StatusRented},
		{"other booking active", StatusScheduled, ctxWith(veh(StatusScheduled), booked(1, "2026-08-25", nil)), StatusScheduled},
		// The cancelled reservation is gone from the context by contract.
		{"last booking cancelled", StatusScheduled, ctxWith(veh(StatusScheduled)), StatusAvailable},
	}
	for _, tc := range cases {
		res := StatusOnReservationCancel(tc.current, tc.ctx)
		checkInvariant(t, res)
		if !res.Allowed || res.NewStatus != tc.want {
			t.Fatalf("%s: got %+v, want %s", tc.name, res, tc.want)
		}
	}
}

// Soft-deleting the last booking must release the vehicle: the deleted row is
// filtered out of the context, so the cancel decision falls to available.
func TestSoftDeletedBookingReleasesVehicle(t *testing.T) {
	v := veh(StatusScheduled)
	gone := booked(1, "2026-08-25", nil)
	now := time.Now()
	gone.DeletedAt = &now

	res := StatusOnReservationCancel(v.Status, ctxWith(v, gone))
	checkInvariant(t, res)
	if !res.Allowed || res.NewStatus != StatusAvailable {
		t.Fatalf("deleting the last booking should free the vehicle, got %+v", res)
	}
}

// A full pickup/return cycle with a single open-ended reservation restores
// the original status.
func TestPickupReturnRoundTrip(t *testing.T) {
	v := veh(StatusAvailable)
	r := booked(1, testToday, nil)

	pick := StatusOnPickup(v.Status)
	checkInvariant(t, pick)
	if !pick.Allowed || pick.NewStatus != StatusRented {
		t.Fatalf("pickup: got %+v", pick)
	}
	v.Status = pick.NewStatus
	r.Status = reservation.StatusPickedUp

	ret := StatusOnReturn(v.Status, ctxWith(v, r))
	checkInvariant(t, ret)
	if !ret.Allowed || ret.NewStatus != StatusAvailable {
		t.Fatalf("return: got %+v", ret)
	}
}

func TestStatusTablesCoverAllStatuses(t *testing.T) {
	for _, s := range allStatuses {
		if StatusLabels[s] == "" {
			t.Fatalf("missing label for %s", s)
		}
		if StatusColors[s] == "" {
			t.Fatalf("missing color for %s", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses {
		got, err := ParseStatus(string(s))
		if err != nil || got != s {
			t.Fatalf("ParseStatus(%s): %v, %v", s, got, err)
		}
	}
	if _, err := ParseStatus("in_the_shop"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
