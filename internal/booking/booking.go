package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Booking reserves a listing for a date range. TotalPrice is computed at
// creation time from the listing's nightly rate and never recomputed, so
// later price changes do not affect existing bookings.
type Booking struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	ListingID    int64           `json:"listing_id" gorm:"column:listing_id;not null;uniqueIndex:idx_booking_stay"`
	GuestID      int64           `json:"guest_id" gorm:"column:guest_id;not null;uniqueIndex:idx_booking_stay"`
	CheckInDate  time.Time       `json:"check_in_date" gorm:"column:check_in_date;type:date;not null;uniqueIndex:idx_booking_stay"`
	CheckOutDate time.Time       `json:"check_out_date" gorm:"column:check_out_date;type:date;not null;uniqueIndex:idx_booking_stay"`
	NumGuests    int             `json:"num_guests" gorm:"column:num_guests;not null"`
	TotalPrice   decimal.Decimal `json:"total_price" gorm:"column:total_price;type:decimal(10,2);not null"`
	Status       string          `json:"status" gorm:"column:status;default:pending"`
	CreatedAt    time.Time       `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.GuestID == userID
}
