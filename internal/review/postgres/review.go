package postgres

import (
	"errors"

	"github.com/frahmantamala/travel-booking/internal/review"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(rv *review.Review) error {
	err := r.db.Create(rv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return review.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ReviewRepository) GetByID(id int64) (*review.Review, error) {
	var rv review.Review
	err := r.db.First(&rv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) GetByBookingID(bookingID int64) (*review.Review, error) {
	var rv review.Review
	err := r.db.Where("booking_id = ?", bookingID).First(&rv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) GetByListingID(listingID int64, limit, offset int) ([]*review.Review, error) {
	var reviews []*review.Review
	err := r.db.Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) Delete(id int64) error {
	return r.db.Delete(&review.Review{}, id).Error
}
