package reservation

import "time"

// DateFormat is the storage and wire format for reservation dates. Dates are
// compared lexically, which is only correct for this layout.
const DateFormat = "2006-01-02"

type Status string

const (
	StatusBooked    Status = "booked"
	StatusPickedUp  Status = "picked_up"
	StatusReturned  Status = "returned"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Type string

const (
	TypeRental           Type = "rental"
	TypeMaintenanceBlock Type = "maintenance_block"
	TypeReplacement      Type = "replacement"
)

type MaintenanceStatus string

const (
	MaintenanceScheduled MaintenanceStatus = "scheduled"
	MaintenanceIn        MaintenanceStatus = "in"
	MaintenanceInService MaintenanceStatus = "in_service"
	MaintenanceDone      MaintenanceStatus = "done"
)

type Reservation struct {
	ID         int64  `json:"id"`
	VehicleID  int64  `json:"vehicleId"`
	CustomerID *int64 `json:"customerId,omitempty"`

	// StartDate/EndDate are ISO YYYY-MM-DD strings; EndDate nil means the
	// reservation is open-ended.
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate,omitempty"`

	Status            Status             `json:"status"`
	Type              Type               `json:"type"`
	MaintenanceStatus *MaintenanceStatus `json:"maintenanceStatus,omitempty"`

	// CancellationRequested is set from the customer portal; staff act on it.
	CancellationRequested bool `json:"cancellationRequested"`

	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Terminal reports whether the reservation can no longer affect vehicle
// availability: cancelled, completed or already returned.
func (r Reservation) Terminal() bool {
	switch r.Status {
	case StatusCancelled, StatusCompleted, StatusReturned:
		return true
	}
	return false
}

// WindowContains reports whether today falls inside the reservation's date
// window. Comparison is lexical on ISO date strings.
func (r Reservation) WindowContains(today string) bool {
	if r.StartDate > today {
		return false
	}
	return r.EndDate == nil || *r.EndDate >= today
}

// MaintenanceInProgress reports whether a maintenance block is actually being
// worked on. A block whose window has opened but is still "scheduled" does
// not count; the explicit maintenance-start action flips it.
func (r Reservation) MaintenanceInProgress() bool {
	if r.Type != TypeMaintenanceBlock || r.MaintenanceStatus == nil {
		return false
	}
	switch *r.MaintenanceStatus {
	case MaintenanceIn, MaintenanceInService:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusBooked, StatusPickedUp, StatusReturned, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", ValidationError{Code: "RESERVATION_STATUS_INVALID", Message: "unknown reservation status: " + s}
	}
}

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeRental, TypeMaintenanceBlock, TypeReplacement:
		return Type(s), nil
	default:
		return "", ValidationError{Code: "RESERVATION_TYPE_INVALID", Message: "unknown reservation type: " + s}
	}
}

type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// ValidateDates checks the ISO layout and ordering of a reservation window.
func ValidateDates(startDate string, endDate *string) error {
	if _, err := time.Parse(DateFormat, startDate); err != nil {
		return ValidationError{Code: "RESERVATION_DATE_INVALID", Message: "startDate must be YYYY-MM-DD"}
	}
	if endDate != nil {
		if _, err := time.Parse(DateFormat, *endDate); err != nil {
			return ValidationError{Code: "RESERVATION_DATE_INVALID", Message: "endDate must be YYYY-MM-DD"}
		}
		if *endDate < startDate {
			return ValidationError{Code: "RESERVATION_DATE_INVALID", Message: "endDate must not be before startDate"}
		}
	}
	return nil
}
