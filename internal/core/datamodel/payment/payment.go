package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Payment correlates a local record with a gateway transaction via
// BookingReference. A record exists only after the gateway confirmed
// initiation; TransactionID is set only on verified success.
type Payment struct {
	ID               int64           `json:"id" gorm:"primaryKey"`
	BookingReference string          `json:"booking_reference" gorm:"column:booking_reference;not null;uniqueIndex"`
	Amount           decimal.Decimal `json:"amount" gorm:"column:amount;type:decimal(10,2);not null"`
	TransactionID    *string         `json:"transaction_id,omitempty" gorm:"column:transaction_id"`
	Status           string          `json:"status" gorm:"column:status;default:pending"`
	CreatedAt        time.Time       `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time       `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsTerminal reports whether the record reached completed or failed.
// Terminal records never transition again.
func (p *Payment) IsTerminal() bool {
	return p.Status == StatusCompleted || p.Status == StatusFailed
}
