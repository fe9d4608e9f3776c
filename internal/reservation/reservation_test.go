package reservation

import "testing"

func strPtr(s string) *string { return &s }

func TestWindowContains(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   *string
		today string
		want  bool
	}{
		{"inside window", "2026-08-01", strPtr("2026-08-31"), "2026-08-25", true},
		{"starts today", "2026-08-25", strPtr("2026-08-31"), "2026-08-25", true},
		{"ends today", "2026-08-01", strPtr("2026-08-25"), "2026-08-25", true},
		{"starts tomorrow", "2026-08-26", nil, "2026-08-25", false},
		{"ended yesterday", "2026-08-01", strPtr("2026-08-24"), "2026-08-25", false},
		{"open ended", "2026-08-01", nil, "2026-08-25", true},
	}
	for _, tc := range cases {
		r := Reservation{StartDate: tc.start, EndDate: tc.end}
		if got := r.WindowContains(tc.today); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	terminal := []Status{StatusReturned, StatusCompleted, StatusCancelled}
	for _, s := range terminal {
		if !(Reservation{Status: s}).Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusBooked, StatusPickedUp} {
		if (Reservation{Status: s}).Terminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}

func TestMaintenanceInProgress(t *testing.T) {
	ms := func(m MaintenanceStatus) *MaintenanceStatus { return &m }

	cases := []struct {
		name string
		r    Reservation
		want bool
	}{
		{"in", Reservation{Type: TypeMaintenanceBlock, MaintenanceStatus: ms(MaintenanceIn)}, true},
		{"in_service", Reservation{Type: TypeMaintenanceBlock, MaintenanceStatus: ms(MaintenanceInService)}, true},
		{"scheduled does not count", Reservation{Type: TypeMaintenanceBlock, MaintenanceStatus: ms(MaintenanceScheduled)}, false},
		{"done", Reservation{Type: TypeMaintenanceBlock, MaintenanceStatus: ms(MaintenanceDone)}, false},
		{"no maintenance status", Reservation{Type: TypeMaintenanceBlock}, false},
		{"rental never counts", Reservation{Type: TypeRental, MaintenanceStatus: ms(MaintenanceIn)}, false},
	}
	for _, tc := range cases {
		if got := tc.r.MaintenanceInProgress(); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidateDates(t *testing.T) {
	if err := ValidateDates("2026-08-25", nil); err != nil {
		t.Fatalf("open-ended window should validate: %v", err)
	}
	if err := ValidateDates("2026-08-25", strPtr("2026-08-25")); err != nil {
		t.Fatalf("single-day window should validate: %v", err)
	}
	if err := ValidateDates("25-08-2026", nil); err == nil {
		t.Fatalf("expected error for wrong date layout")
	}
	if err := ValidateDates("2026-08-25", strPtr("2026-08-24")); err == nil {
		t.Fatalf("expected error for end before start")
	}
	if err := ValidateDates("2026-08-25", strPtr("not-a-date")); err == nil {
		t.Fatalf("expected error for invalid end date")
	}
}

func TestParseStatusAndType(t *testing.T) {
	if _, err := ParseStatus("picked_up"); err != nil {
		t.Fatalf("ParseStatus: %v", err)
	}
	if _, err := ParseStatus("lost"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if _, err := ParseType("maintenance_block"); err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if _, err := ParseType("lease"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
