package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/travel-booking/internal/booking"
	"github.com/shopspring/decimal"
)

func TestBookingRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "BookingRepository Suite")
}

type SQLiteBooking struct {
	ID           int64     `gorm:"primaryKey"`
	ListingID    int64     `gorm:"column:listing_id;not null;uniqueIndex:idx_booking_stay"`
	GuestID      int64     `gorm:"column:guest_id;not null;uniqueIndex:idx_booking_stay"`
	CheckInDate  time.Time `gorm:"column:check_in_date;not null;uniqueIndex:idx_booking_stay"`
	CheckOutDate time.Time `gorm:"column:check_out_date;not null;uniqueIndex:idx_booking_stay"`
	NumGuests    int       `gorm:"column:num_guests;not null"`
	TotalPrice   string    `gorm:"column:total_price;not null"`
	Status       string    `gorm:"column:status;default:'pending'"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteBooking) TableName() string {
	return "bookings"
}

var _ = Describe("BookingRepository", func() {
	var (
		db   *gorm.DB
		repo booking.RepositoryAPI
	)

	checkIn := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 10, 4, 0, 0, 0, 0, time.UTC)

	newBooking := func(listingID, guestID int64) *booking.Booking {
		return &booking.Booking{
			ListingID:    listingID,
			GuestID:      guestID,
			CheckInDate:  checkIn,
			CheckOutDate: checkOut,
			NumGuests:    2,
			TotalPrice:   decimal.NewFromInt(240),
			Status:       booking.StatusPending,
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteBooking{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewBookingRepository(db)
	})

	Describe("Create", func() {
		It("persists a booking and assigns an ID", func() {
			b := newBooking(10, 2)

			Expect(repo.Create(b)).To(Succeed())
			Expect(b.ID).NotTo(BeZero())

			stored, err := repo.GetByID(b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(booking.StatusPending))
			Expect(stored.TotalPrice.Equal(decimal.NewFromInt(240))).To(BeTrue())
		})

		It("rejects a second booking for the same stay", func() {
			Expect(repo.Create(newBooking(10, 2))).To(Succeed())

			err := repo.Create(newBooking(10, 2))
			Expect(err).To(MatchError(booking.ErrDuplicateBooking))
		})

		It("allows the same guest to book the listing for other dates", func() {
			Expect(repo.Create(newBooking(10, 2))).To(Succeed())

			later := newBooking(10, 2)
			later.CheckInDate = checkIn.AddDate(0, 1, 0)
			later.CheckOutDate = checkOut.AddDate(0, 1, 0)

			Expect(repo.Create(later)).To(Succeed())
		})
	})

	Describe("GetByID", func() {
		It("returns the sentinel for an unknown booking", func() {
			_, err := repo.GetByID(9999)
			Expect(err).To(MatchError(booking.ErrNotFound))
		})
	})

	Describe("GetByGuestID", func() {
		It("returns only the guest's bookings", func() {
			Expect(repo.Create(newBooking(10, 2))).To(Succeed())
			Expect(repo.Create(newBooking(11, 3))).To(Succeed())

			bookings, err := repo.GetByGuestID(2, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(bookings).To(HaveLen(1))
			Expect(bookings[0].ListingID).To(Equal(int64(10)))
		})
	})

	Describe("UpdateStatus", func() {
		It("moves the booking to the requested status", func() {
			b := newBooking(10, 2)
			Expect(repo.Create(b)).To(Succeed())

			Expect(repo.UpdateStatus(b.ID, booking.StatusConfirmed)).To(Succeed())

			stored, err := repo.GetByID(b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(booking.StatusConfirmed))
		})

		It("reports the sentinel for an unknown booking", func() {
			err := repo.UpdateStatus(9999, booking.StatusConfirmed)
			Expect(err).To(MatchError(booking.ErrNotFound))
		})
	})
})
