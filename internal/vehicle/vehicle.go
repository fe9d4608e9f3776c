package vehicle

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is a vehicle's rental availability. Persisted as a string; the set
// is closed and every consumer switches over these five values.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusRented       Status = "rented"
	StatusScheduled    Status = "scheduled"
	StatusNeedsFixing  Status = "needs_fixing"
	StatusNotForRental Status = "not_for_rental"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusRented, StatusScheduled, StatusNeedsFixing, StatusNotForRental:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown vehicle status: %s", s)
	}
}

// Sticky reports whether the status is held until an explicit transition
// clears it; reservation data never auto-reverts it.
func (s Status) Sticky() bool {
	return s == StatusNeedsFixing || s == StatusNotForRental
}

// StatusLabels and StatusColors feed UI badge rendering. Both maps cover the
// full status set.
var StatusLabels = map[Status]string{
	StatusAvailable:    "Available",
	StatusRented:       "Rented out",
	StatusScheduled:    "Scheduled",
	StatusNeedsFixing:  "In maintenance",
	StatusNotForRental: "Not for rental",
}

var StatusColors = map[Status]string{
	StatusAvailable:    "green",
	StatusRented:       "blue",
	StatusScheduled:    "amber",
	StatusNeedsFixing:  "orange",
	StatusNotForRental: "red",
}

type Vehicle struct {
	ID           int64           `json:"id"`
	LicensePlate string          `json:"licensePlate"`
	Brand        string          `json:"brand"`
	Model        string          `json:"model"`
	Year         int             `json:"year"`
	Mileage      int             `json:"mileage"`
	DailyRate    decimal.Decimal `json:"dailyRate"`
	Status       Status          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ParseDailyRate validates a daily rental rate from request input.
func ParseDailyRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("dailyRate must be a number")
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, fmt.Errorf("dailyRate must be a positive number")
	}
	return rate, nil
}
