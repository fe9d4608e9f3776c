package document

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindContract  Kind = "contract"
	KindInsurance Kind = "insurance"
	KindIDScan    Kind = "id_scan"
	KindInvoice   Kind = "invoice"
	KindOther     Kind = "other"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindContract, KindInsurance, KindIDScan, KindInvoice, KindOther:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown document kind: %s", s)
	}
}

// Document is metadata only; the file bytes live in external storage and are
// referenced by URL.
type Document struct {
	ID             int64     `json:"id"`
	CustomerID     *int64    `json:"customerId,omitempty"`
	VehicleID      *int64    `json:"vehicleId,omitempty"`
	ReservationID  *int64    `json:"reservationId,omitempty"`
	Kind           Kind      `json:"kind"`
	Title          string    `json:"title"`
	ContractNumber string    `json:"contractNumber,omitempty"`
	FileURL        string    `json:"fileUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewContractNumber generates a display number like CNT-2026-1a2b3c4d.
// Uniqueness comes from the uuid fragment; the year keeps it human-sortable.
func NewContractNumber(now time.Time) string {
	return fmt.Sprintf("CNT-%d-%s", now.Year(), uuid.NewString()[:8])
}
