package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/listing"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = apperrors.ErrBookingNotFound
	ErrDuplicateBooking = apperrors.NewConflictError("an identical booking already exists for these dates", apperrors.ErrCodeDuplicateBooking)
)

// RepositoryAPI defines the data access methods for bookings.
type RepositoryAPI interface {
	Create(booking *Booking) error
	GetByID(id int64) (*Booking, error)
	GetByGuestID(guestID int64, limit, offset int) ([]*Booking, error)
	GetByListingID(listingID int64, limit, offset int) ([]*Booking, error)
	UpdateStatus(id int64, status string) error
}

// ListingAPI is the slice of the listing service bookings depend on.
type ListingAPI interface {
	GetActiveListing(id int64) (*listing.Listing, error)
	GetListing(id int64) (*listing.Listing, error)
}

type ServiceAPI interface {
	CreateBooking(guestID int64, guestEmail string, dto CreateBookingDTO) (*Booking, error)
	GetBooking(id, userID int64) (*Booking, error)
	GetGuestBookings(guestID int64, limit, offset int) ([]*Booking, error)
	ConfirmBooking(id, userID int64) (*Booking, error)
	CancelBooking(id, userID int64) (*Booking, error)
	CompleteBooking(id, userID int64) (*Booking, error)
}

type Service struct {
	repo     RepositoryAPI
	listings ListingAPI
	eventBus *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, listings ListingAPI, eventBus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		listings: listings,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateBooking reserves an active listing. The total price is nights times
// the nightly rate captured at booking time.
func (s *Service) CreateBooking(guestID int64, guestEmail string, dto CreateBookingDTO) (*Booking, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("booking validation failed", "error", err, "guest_id", guestID)
		return nil, err
	}

	target, err := s.listings.GetActiveListing(dto.ListingID)
	if err != nil {
		return nil, err
	}

	if !target.CanAccommodate(dto.NumGuests) {
		s.logger.Warn("booking exceeds listing capacity",
			"listing_id", target.ID,
			"requested", dto.NumGuests,
			"max_guests", target.MaxGuests)
		return nil, apperrors.NewValidationError("listing cannot accommodate the requested guests", apperrors.ErrCodeCapacityExceeded)
	}

	nights := int(dto.CheckOutDate.Sub(dto.CheckInDate).Hours() / 24)
	totalPrice := target.PricePerNight.Mul(decimal.NewFromInt(int64(nights)))

	now := time.Now()
	booking := &Booking{
		ListingID:    dto.ListingID,
		GuestID:      guestID,
		CheckInDate:  dto.CheckInDate,
		CheckOutDate: dto.CheckOutDate,
		NumGuests:    dto.NumGuests,
		TotalPrice:   totalPrice,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(booking); err != nil {
		if errors.Is(err, ErrDuplicateBooking) {
			return nil, ErrDuplicateBooking
		}
		s.logger.Error("failed to create booking", "error", err, "guest_id", guestID)
		return nil, apperrors.NewInternalError("failed to create booking", err)
	}

	s.logger.Info("booking created",
		"booking_id", booking.ID,
		"listing_id", target.ID,
		"guest_id", guestID,
		"nights", nights,
		"total_price", totalPrice.String())

	if s.eventBus != nil {
		s.eventBus.Publish(context.Background(), events.NewBookingCreatedEvent(
			booking.ID,
			target.Title,
			guestEmail,
			booking.CheckInDate.Format("2006-01-02"),
			booking.CheckOutDate.Format("2006-01-02"),
			totalPrice.String(),
		))
	}

	return booking, nil
}

// GetBooking allows access for the guest who made the booking or the host
// of the listed property.
func (s *Service) GetBooking(id, userID int64) (*Booking, error) {
	booking, err := s.getBooking(id)
	if err != nil {
		return nil, err
	}

	if !booking.IsOwnedBy(userID) && !s.isListingHost(booking.ListingID, userID) {
		s.logger.Warn("unauthorized booking access", "booking_id", id, "user_id", userID)
		return nil, apperrors.ErrUnauthorizedAccess
	}

	return booking, nil
}

func (s *Service) GetGuestBookings(guestID int64, limit, offset int) ([]*Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	bookings, err := s.repo.GetByGuestID(guestID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list guest bookings", "error", err, "guest_id", guestID)
		return nil, apperrors.NewInternalError("failed to list bookings", err)
	}
	return bookings, nil
}

// ConfirmBooking is a host action on a pending booking.
func (s *Service) ConfirmBooking(id, userID int64) (*Booking, error) {
	return s.transition(id, userID, StatusConfirmed, hostOnly, func(b *Booking) bool {
		return b.CanBeConfirmed()
	})
}

// CancelBooking is allowed for the guest or the host while the booking is
// not yet completed.
func (s *Service) CancelBooking(id, userID int64) (*Booking, error) {
	return s.transition(id, userID, StatusCancelled, guestOrHost, func(b *Booking) bool {
		return b.CanBeCancelled()
	})
}

// CompleteBooking is a host action once the stay has been confirmed.
func (s *Service) CompleteBooking(id, userID int64) (*Booking, error) {
	return s.transition(id, userID, StatusCompleted, hostOnly, func(b *Booking) bool {
		return b.CanBeCompleted()
	})
}

type accessRule int

const (
	guestOrHost accessRule = iota
	hostOnly
)

func (s *Service) transition(id, userID int64, target string, rule accessRule, allowed func(*Booking) bool) (*Booking, error) {
	booking, err := s.getBooking(id)
	if err != nil {
		return nil, err
	}

	isGuest := booking.IsOwnedBy(userID)
	isHost := s.isListingHost(booking.ListingID, userID)

	switch rule {
	case hostOnly:
		if !isHost {
			return nil, apperrors.ErrUnauthorizedAccess
		}
	case guestOrHost:
		if !isGuest && !isHost {
			return nil, apperrors.ErrUnauthorizedAccess
		}
	}

	if !allowed(booking) {
		s.logger.Warn("illegal booking transition",
			"booking_id", id,
			"from", booking.Status,
			"to", target)
		return nil, apperrors.NewConflictError("booking cannot move to "+target+" from "+booking.Status, apperrors.ErrCodeInvalidBooking)
	}

	if err := s.repo.UpdateStatus(id, target); err != nil {
		s.logger.Error("failed to update booking status", "error", err, "booking_id", id)
		return nil, apperrors.NewInternalError("failed to update booking status", err)
	}

	booking.Status = target
	booking.UpdatedAt = time.Now()

	s.logger.Info("booking status updated", "booking_id", id, "status", target)
	return booking, nil
}

func (s *Service) getBooking(id int64) (*Booking, error) {
	booking, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("failed to get booking", "error", err, "booking_id", id)
		return nil, apperrors.NewInternalError("failed to get booking", err)
	}
	return booking, nil
}

func (s *Service) isListingHost(listingID, userID int64) bool {
	l, err := s.listings.GetListing(listingID)
	if err != nil {
		return false
	}
	return l.IsOwnedBy(userID)
}
