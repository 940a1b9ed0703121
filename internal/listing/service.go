package listing

import (
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/travel-booking/internal"
)

var (
	ErrNotFound = apperrors.ErrListingNotFound
)

// RepositoryAPI defines the data access methods for listings.
type RepositoryAPI interface {
	Create(listing *Listing) error
	GetByID(id int64) (*Listing, error)
	Search(params SearchParams) ([]*Listing, error)
	GetByHostID(hostID int64, limit, offset int) ([]*Listing, error)
	Update(listing *Listing) error
	Delete(id int64) error
}

// ServiceAPI is what handlers and sibling services consume.
type ServiceAPI interface {
	CreateListing(hostID int64, dto CreateListingDTO) (*Listing, error)
	GetListing(id int64) (*Listing, error)
	GetActiveListing(id int64) (*Listing, error)
	SearchListings(params SearchParams) ([]*Listing, error)
	GetHostListings(hostID int64, limit, offset int) ([]*Listing, error)
	UpdateListing(id, userID int64, dto UpdateListingDTO) (*Listing, error)
	DeactivateListing(id, userID int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreateListing(hostID int64, dto CreateListingDTO) (*Listing, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("listing validation failed", "error", err, "host_id", hostID)
		return nil, err
	}

	now := time.Now()
	listing := &Listing{
		HostID:        hostID,
		Title:         dto.Title,
		Description:   dto.Description,
		Address:       dto.Address,
		City:          dto.City,
		Country:       dto.Country,
		PricePerNight: dto.PricePerNight,
		MaxGuests:     dto.MaxGuests,
		Bedrooms:      dto.Bedrooms,
		Bathrooms:     dto.Bathrooms,
		Amenities:     dto.Amenities,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(listing); err != nil {
		s.logger.Error("failed to create listing", "error", err, "host_id", hostID)
		return nil, apperrors.NewInternalError("failed to create listing", err)
	}

	s.logger.Info("listing created",
		"listing_id", listing.ID,
		"host_id", hostID,
		"city", listing.City)

	return listing, nil
}

func (s *Service) GetListing(id int64) (*Listing, error) {
	listing, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to get listing", "error", err, "listing_id", id)
		return nil, apperrors.NewInternalError("failed to get listing", err)
	}
	return listing, nil
}

// GetActiveListing is the public read path. Inactive listings behave as if
// they do not exist.
func (s *Service) GetActiveListing(id int64) (*Listing, error) {
	listing, err := s.GetListing(id)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, ErrNotFound
	}
	return listing, nil
}

func (s *Service) SearchListings(params SearchParams) ([]*Listing, error) {
	params.Normalize()

	listings, err := s.repo.Search(params)
	if err != nil {
		s.logger.Error("failed to search listings", "error", err)
		return nil, apperrors.NewInternalError("failed to search listings", err)
	}
	return listings, nil
}

func (s *Service) GetHostListings(hostID int64, limit, offset int) ([]*Listing, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	listings, err := s.repo.GetByHostID(hostID, limit, offset)
	if err != nil {
		s.logger.Error("failed to get host listings", "error", err, "host_id", hostID)
		return nil, apperrors.NewInternalError("failed to get host listings", err)
	}
	return listings, nil
}

func (s *Service) UpdateListing(id, userID int64, dto UpdateListingDTO) (*Listing, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	listing, err := s.GetListing(id)
	if err != nil {
		return nil, err
	}

	if !listing.IsOwnedBy(userID) {
		s.logger.Warn("unauthorized listing update", "listing_id", id, "user_id", userID)
		return nil, apperrors.ErrUnauthorizedAccess
	}

	applyUpdate(listing, dto)
	listing.UpdatedAt = time.Now()

	if err := s.repo.Update(listing); err != nil {
		s.logger.Error("failed to update listing", "error", err, "listing_id", id)
		return nil, apperrors.NewInternalError("failed to update listing", err)
	}

	s.logger.Info("listing updated", "listing_id", id, "host_id", userID)
	return listing, nil
}

func (s *Service) DeactivateListing(id, userID int64) error {
	listing, err := s.GetListing(id)
	if err != nil {
		return err
	}

	if !listing.IsOwnedBy(userID) {
		s.logger.Warn("unauthorized listing deactivation", "listing_id", id, "user_id", userID)
		return apperrors.ErrUnauthorizedAccess
	}

	listing.Deactivate()
	if err := s.repo.Update(listing); err != nil {
		s.logger.Error("failed to deactivate listing", "error", err, "listing_id", id)
		return apperrors.NewInternalError("failed to deactivate listing", err)
	}

	s.logger.Info("listing deactivated", "listing_id", id, "host_id", userID)
	return nil
}

func applyUpdate(listing *Listing, dto UpdateListingDTO) {
	if dto.Title != nil {
		listing.Title = *dto.Title
	}
	if dto.Description != nil {
		listing.Description = *dto.Description
	}
	if dto.Address != nil {
		listing.Address = *dto.Address
	}
	if dto.City != nil {
		listing.City = *dto.City
	}
	if dto.Country != nil {
		listing.Country = *dto.Country
	}
	if dto.PricePerNight != nil {
		listing.PricePerNight = *dto.PricePerNight
	}
	if dto.MaxGuests != nil {
		listing.MaxGuests = *dto.MaxGuests
	}
	if dto.Bedrooms != nil {
		listing.Bedrooms = *dto.Bedrooms
	}
	if dto.Bathrooms != nil {
		listing.Bathrooms = *dto.Bathrooms
	}
	if dto.Amenities != nil {
		listing.Amenities = *dto.Amenities
	}
	if dto.IsActive != nil {
		listing.IsActive = *dto.IsActive
	}
}
