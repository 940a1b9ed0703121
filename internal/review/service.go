package review

import (
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/booking"
)

var (
	ErrNotFound      = apperrors.NewNotFoundError("Review not found", apperrors.ErrCodeReviewNotFound)
	ErrAlreadyExists = apperrors.NewConflictError("booking already has a review", apperrors.ErrCodeReviewExists)
	ErrNotAllowed    = apperrors.NewValidationError("only completed stays can be reviewed", apperrors.ErrCodeReviewNotAllowed)
)

// RepositoryAPI defines the data access methods for reviews.
type RepositoryAPI interface {
	Create(review *Review) error
	GetByID(id int64) (*Review, error)
	GetByBookingID(bookingID int64) (*Review, error)
	GetByListingID(listingID int64, limit, offset int) ([]*Review, error)
	Delete(id int64) error
}

// BookingAPI is the slice of the booking service reviews depend on.
type BookingAPI interface {
	GetBooking(id, userID int64) (*booking.Booking, error)
}

type ServiceAPI interface {
	CreateReview(guestID int64, dto CreateReviewDTO) (*Review, error)
	GetListingReviews(listingID int64, limit, offset int) ([]*Review, error)
	DeleteReview(id, userID int64) error
}

type Service struct {
	repo     RepositoryAPI
	bookings BookingAPI
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, bookings BookingAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		bookings: bookings,
		logger:   logger,
	}
}

// CreateReview writes the single review a completed booking is allowed.
func (s *Service) CreateReview(guestID int64, dto CreateReviewDTO) (*Review, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("review validation failed", "error", err, "guest_id", guestID)
		return nil, err
	}

	stay, err := s.bookings.GetBooking(dto.BookingID, guestID)
	if err != nil {
		return nil, err
	}

	if !stay.IsOwnedBy(guestID) {
		s.logger.Warn("review attempt by non-guest", "booking_id", stay.ID, "user_id", guestID)
		return nil, apperrors.ErrUnauthorizedAccess
	}

	if stay.Status != booking.StatusCompleted {
		s.logger.Warn("review attempt on unfinished stay",
			"booking_id", stay.ID,
			"status", stay.Status)
		return nil, ErrNotAllowed
	}

	now := time.Now()
	review := &Review{
		BookingID: stay.ID,
		ListingID: stay.ListingID,
		GuestID:   guestID,
		Rating:    dto.Rating,
		Comment:   dto.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(review); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}
		s.logger.Error("failed to create review", "error", err, "booking_id", stay.ID)
		return nil, apperrors.NewInternalError("failed to create review", err)
	}

	s.logger.Info("review created",
		"review_id", review.ID,
		"booking_id", stay.ID,
		"listing_id", stay.ListingID,
		"rating", dto.Rating)

	return review, nil
}

func (s *Service) GetListingReviews(listingID int64, limit, offset int) ([]*Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	reviews, err := s.repo.GetByListingID(listingID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list reviews", "error", err, "listing_id", listingID)
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	return reviews, nil
}

func (s *Service) DeleteReview(id, userID int64) error {
	review, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.logger.Error("failed to get review", "error", err, "review_id", id)
		return apperrors.NewInternalError("failed to get review", err)
	}

	if !review.IsOwnedBy(userID) {
		return apperrors.ErrUnauthorizedAccess
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete review", "error", err, "review_id", id)
		return apperrors.NewInternalError("failed to delete review", err)
	}

	s.logger.Info("review deleted", "review_id", id, "guest_id", userID)
	return nil
}
