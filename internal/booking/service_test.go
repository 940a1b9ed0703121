package booking_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	apperrors "github.com/frahmantamala/travel-booking/internal"
	bookingpkg "github.com/frahmantamala/travel-booking/internal/booking"
	"github.com/frahmantamala/travel-booking/internal/core/events"
	listingpkg "github.com/frahmantamala/travel-booking/internal/listing"
)

func TestBookingService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Booking Service Suite")
}

type mockBookingRepository struct {
	bookings    map[int64]*bookingpkg.Booking
	nextID      int64
	createError error
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{bookings: make(map[int64]*bookingpkg.Booking)}
}

func (m *mockBookingRepository) Create(b *bookingpkg.Booking) error {
	if m.createError != nil {
		return m.createError
	}
	for _, existing := range m.bookings {
		if existing.ListingID == b.ListingID &&
			existing.GuestID == b.GuestID &&
			existing.CheckInDate.Equal(b.CheckInDate) &&
			existing.CheckOutDate.Equal(b.CheckOutDate) {
			return bookingpkg.ErrDuplicateBooking
		}
	}
	m.nextID++
	b.ID = m.nextID
	m.bookings[b.ID] = b
	return nil
}

func (m *mockBookingRepository) GetByID(id int64) (*bookingpkg.Booking, error) {
	b, exists := m.bookings[id]
	if !exists {
		return nil, bookingpkg.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepository) GetByGuestID(guestID int64, limit, offset int) ([]*bookingpkg.Booking, error) {
	var result []*bookingpkg.Booking
	for _, b := range m.bookings {
		if b.GuestID == guestID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockBookingRepository) GetByListingID(listingID int64, limit, offset int) ([]*bookingpkg.Booking, error) {
	var result []*bookingpkg.Booking
	for _, b := range m.bookings {
		if b.ListingID == listingID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockBookingRepository) UpdateStatus(id int64, status string) error {
	b, exists := m.bookings[id]
	if !exists {
		return bookingpkg.ErrNotFound
	}
	b.Status = status
	return nil
}

type mockListingService struct {
	listings map[int64]*listingpkg.Listing
}

func newMockListingService() *mockListingService {
	return &mockListingService{listings: make(map[int64]*listingpkg.Listing)}
}

func (m *mockListingService) GetActiveListing(id int64) (*listingpkg.Listing, error) {
	l, exists := m.listings[id]
	if !exists || !l.IsActive {
		return nil, listingpkg.ErrNotFound
	}
	return l, nil
}

func (m *mockListingService) GetListing(id int64) (*listingpkg.Listing, error) {
	l, exists := m.listings[id]
	if !exists {
		return nil, listingpkg.ErrNotFound
	}
	return l, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("BookingService", func() {
	const (
		hostID  = int64(1)
		guestID = int64(2)
	)

	var (
		repo     *mockBookingRepository
		listings *mockListingService
		service  *bookingpkg.Service
		checkIn  time.Time
		checkOut time.Time
	)

	BeforeEach(func() {
		repo = newMockBookingRepository()
		listings = newMockListingService()
		listings.listings[10] = &listingpkg.Listing{
			ID:            10,
			HostID:        hostID,
			Title:         "Cozy Studio in Bole",
			City:          "Addis Ababa",
			PricePerNight: decimal.NewFromInt(80),
			MaxGuests:     2,
			IsActive:      true,
		}
		service = bookingpkg.NewService(repo, listings, nil, testLogger())

		checkIn = time.Now().AddDate(0, 0, 7).Truncate(24 * time.Hour)
		checkOut = checkIn.AddDate(0, 0, 3)
	})

	validDTO := func() bookingpkg.CreateBookingDTO {
		return bookingpkg.CreateBookingDTO{
			ListingID:    10,
			CheckInDate:  checkIn,
			CheckOutDate: checkOut,
			NumGuests:    2,
		}
	}

	Describe("CreateBooking", func() {
		It("computes the total price from nights and the nightly rate", func() {
			booking, err := service.CreateBooking(guestID, "guest@example.com", validDTO())

			Expect(err).ToNot(HaveOccurred())
			Expect(booking.Status).To(Equal(bookingpkg.StatusPending))
			Expect(booking.TotalPrice.Equal(decimal.NewFromInt(240))).To(BeTrue())
			Expect(booking.Nights()).To(Equal(3))
		})

		It("publishes a booking created event", func() {
			bus := events.NewEventBus(testLogger())
			received := make(chan events.Event, 1)
			bus.Subscribe(events.EventTypeBookingCreated, func(ctx context.Context, e events.Event) error {
				received <- e
				return nil
			})
			withBus := bookingpkg.NewService(repo, listings, bus, testLogger())

			_, err := withBus.CreateBooking(guestID, "guest@example.com", validDTO())
			Expect(err).ToNot(HaveOccurred())

			Eventually(received).Should(Receive())
		})

		It("wraps repository failures in an internal error", func() {
			repo.createError = errors.New("connection reset")

			_, err := service.CreateBooking(guestID, "guest@example.com", validDTO())

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
			Expect(errors.Is(err, repo.createError)).To(BeTrue())
		})

		It("rejects a stay at an inactive listing", func() {
			listings.listings[10].IsActive = false

			_, err := service.CreateBooking(guestID, "guest@example.com", validDTO())

			Expect(err).To(Equal(listingpkg.ErrNotFound))
		})

		It("rejects more guests than the listing accommodates", func() {
			dto := validDTO()
			dto.NumGuests = 5

			_, err := service.CreateBooking(guestID, "guest@example.com", dto)

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeCapacityExceeded))
		})

		It("rejects checkout on or before checkin", func() {
			dto := validDTO()
			dto.CheckOutDate = dto.CheckInDate

			_, err := service.CreateBooking(guestID, "guest@example.com", dto)

			Expect(err).To(HaveOccurred())
			Expect(repo.bookings).To(BeEmpty())
		})

		It("rejects a checkin in the past", func() {
			dto := validDTO()
			dto.CheckInDate = time.Now().AddDate(0, 0, -3)
			dto.CheckOutDate = time.Now().AddDate(0, 0, -1)

			_, err := service.CreateBooking(guestID, "guest@example.com", dto)

			Expect(err).To(HaveOccurred())
		})

		It("rejects a duplicate booking for the same stay", func() {
			_, err := service.CreateBooking(guestID, "guest@example.com", validDTO())
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CreateBooking(guestID, "guest@example.com", validDTO())

			Expect(err).To(Equal(bookingpkg.ErrDuplicateBooking))
		})
	})

	Describe("GetBooking", func() {
		var bookingID int64

		BeforeEach(func() {
			booking, err := service.CreateBooking(guestID, "guest@example.com", validDTO())
			Expect(err).ToNot(HaveOccurred())
			bookingID = booking.ID
		})

		It("is visible to the guest", func() {
			booking, err := service.GetBooking(bookingID, guestID)

			Expect(err).ToNot(HaveOccurred())
			Expect(booking.GuestID).To(Equal(guestID))
		})

		It("is visible to the listing host", func() {
			_, err := service.GetBooking(bookingID, hostID)

			Expect(err).ToNot(HaveOccurred())
		})

		It("is hidden from unrelated users", func() {
			_, err := service.GetBooking(bookingID, 999)

			Expect(err).To(Equal(apperrors.ErrUnauthorizedAccess))
		})
	})

	Describe("status transitions", func() {
		var bookingID int64

		BeforeEach(func() {
			booking, err := service.CreateBooking(guestID, "guest@example.com", validDTO())
			Expect(err).ToNot(HaveOccurred())
			bookingID = booking.ID
		})

		It("lets the host confirm a pending booking", func() {
			booking, err := service.ConfirmBooking(bookingID, hostID)

			Expect(err).ToNot(HaveOccurred())
			Expect(booking.Status).To(Equal(bookingpkg.StatusConfirmed))
		})

		It("refuses confirmation from the guest", func() {
			_, err := service.ConfirmBooking(bookingID, guestID)

			Expect(err).To(Equal(apperrors.ErrUnauthorizedAccess))
		})

		It("lets the guest cancel a pending booking", func() {
			booking, err := service.CancelBooking(bookingID, guestID)

			Expect(err).ToNot(HaveOccurred())
			Expect(booking.Status).To(Equal(bookingpkg.StatusCancelled))
		})

		It("completes only a confirmed booking", func() {
			_, err := service.CompleteBooking(bookingID, hostID)
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidBooking))

			_, err = service.ConfirmBooking(bookingID, hostID)
			Expect(err).ToNot(HaveOccurred())

			booking, err := service.CompleteBooking(bookingID, hostID)
			Expect(err).ToNot(HaveOccurred())
			Expect(booking.Status).To(Equal(bookingpkg.StatusCompleted))
		})

		It("refuses cancelling a completed booking", func() {
			_, err := service.ConfirmBooking(bookingID, hostID)
			Expect(err).ToNot(HaveOccurred())
			_, err = service.CompleteBooking(bookingID, hostID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CancelBooking(bookingID, guestID)

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidBooking))
		})
	})
})
