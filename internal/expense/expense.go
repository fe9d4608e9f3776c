package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryFuel        Category = "fuel"
	CategoryMaintenance Category = "maintenance"
	CategoryInsurance   Category = "insurance"
	CategoryTax         Category = "tax"
	CategoryDamage      Category = "damage"
	CategoryOther       Category = "other"
)

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryFuel, CategoryMaintenance, CategoryInsurance, CategoryTax, CategoryDamage, CategoryOther:
		return Category(s), nil
	default:
		return "", ValidationError{Code: "EXPENSE_CATEGORY_INVALID", Message: "unknown expense category: " + s}
	}
}

type Expense struct {
	ID         int64           `json:"id"`
	VehicleID  int64           `json:"vehicleId"`
	Category   Category        `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	IncurredOn string          `json:"incurredOn"` // ISO YYYY-MM-DD
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Code + ": " + e.Message
}
