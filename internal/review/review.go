package review

import "time"

// Review is feedback on a completed stay. A booking gets at most one
// review, written by the guest who stayed.
type Review struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	BookingID int64     `json:"booking_id" gorm:"column:booking_id;not null;uniqueIndex"`
	ListingID int64     `json:"listing_id" gorm:"column:listing_id;not null;index"`
	GuestID   int64     `json:"guest_id" gorm:"column:guest_id;not null"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) IsOwnedBy(userID int64) bool {
	return r.GuestID == userID
}
