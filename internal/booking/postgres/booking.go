package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/travel-booking/internal/booking"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(b *booking.Booking) error {
	err := r.db.Create(b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return booking.ErrDuplicateBooking
		}
		return err
	}
	return nil
}

func (r *BookingRepository) GetByID(id int64) (*booking.Booking, error) {
	var b booking.Booking
	err := r.db.First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByGuestID(guestID int64, limit, offset int) ([]*booking.Booking, error) {
	var bookings []*booking.Booking
	err := r.db.Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) GetByListingID(listingID int64, limit, offset int) ([]*booking.Booking, error) {
	var bookings []*booking.Booking
	err := r.db.Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) UpdateStatus(id int64, status string) error {
	tx := r.db.Model(&booking.Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return booking.ErrNotFound
	}
	return nil
}
