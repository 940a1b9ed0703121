package postgres

import (
	"errors"

	"github.com/frahmantamala/travel-booking/internal/listing"
	"gorm.io/gorm"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(l *listing.Listing) error {
	return r.db.Create(l).Error
}

func (r *ListingRepository) GetByID(id int64) (*listing.Listing, error) {
	var l listing.Listing
	err := r.db.First(&l, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, listing.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// Search returns active listings only, newest first.
func (r *ListingRepository) Search(params listing.SearchParams) ([]*listing.Listing, error) {
	query := r.db.Model(&listing.Listing{}).Where("is_active = ?", true)

	if params.City != "" {
		query = query.Where("LOWER(city) = LOWER(?)", params.City)
	}
	if params.Country != "" {
		query = query.Where("LOWER(country) = LOWER(?)", params.Country)
	}
	if !params.MaxPrice.IsZero() {
		query = query.Where("price_per_night <= ?", params.MaxPrice)
	}
	if params.MinGuests > 0 {
		query = query.Where("max_guests >= ?", params.MinGuests)
	}

	var listings []*listing.Listing
	err := query.Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *ListingRepository) GetByHostID(hostID int64, limit, offset int) ([]*listing.Listing, error) {
	var listings []*listing.Listing
	err := r.db.Where("host_id = ?", hostID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *ListingRepository) Update(l *listing.Listing) error {
	return r.db.Save(l).Error
}

func (r *ListingRepository) Delete(id int64) error {
	return r.db.Delete(&listing.Listing{}, id).Error
}
