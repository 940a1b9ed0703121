package listing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing is a bookable property. Inactive listings stay stored but are
// hidden from search and refuse new bookings.
type Listing struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	HostID        int64           `json:"host_id" gorm:"column:host_id;not null"`
	Title         string          `json:"title" gorm:"not null"`
	Description   string          `json:"description"`
	Address       string          `json:"address" gorm:"not null"`
	City          string          `json:"city" gorm:"not null"`
	Country       string          `json:"country" gorm:"not null"`
	PricePerNight decimal.Decimal `json:"price_per_night" gorm:"column:price_per_night;type:decimal(10,2);not null"`
	MaxGuests     int             `json:"max_guests" gorm:"column:max_guests;not null"`
	Bedrooms      int             `json:"bedrooms" gorm:"column:bedrooms"`
	Bathrooms     int             `json:"bathrooms" gorm:"column:bathrooms"`
	Amenities     string          `json:"amenities"`
	IsActive      bool            `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt     time.Time       `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Listing) TableName() string {
	return "listings"
}

func (l *Listing) CanAccommodate(guests int) bool {
	return guests > 0 && guests <= l.MaxGuests
}

func (l *Listing) IsOwnedBy(userID int64) bool {
	return l.HostID == userID
}

func (l *Listing) Deactivate() {
	l.IsActive = false
	l.UpdatedAt = time.Now()
}
