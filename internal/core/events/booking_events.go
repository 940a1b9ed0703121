package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeBookingCreated   = "booking.created"
	EventTypePaymentCompleted = "payment.completed"
	EventTypePaymentFailed    = "payment.failed"
)

type BookingCreatedEvent struct {
	BaseEvent
	BookingID    int64  `json:"booking_id"`
	ListingTitle string `json:"listing_title"`
	GuestEmail   string `json:"guest_email"`
	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`
	TotalPrice   string `json:"total_price"`
}

func NewBookingCreatedEvent(bookingID int64, listingTitle, guestEmail, checkIn, checkOut, totalPrice string) *BookingCreatedEvent {
	return &BookingCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBookingCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"booking_id":     bookingID,
				"listing_title":  listingTitle,
				"guest_email":    guestEmail,
				"check_in_date":  checkIn,
				"check_out_date": checkOut,
				"total_price":    totalPrice,
			},
		},
		BookingID:    bookingID,
		ListingTitle: listingTitle,
		GuestEmail:   guestEmail,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		TotalPrice:   totalPrice,
	}
}

type PaymentCompletedEvent struct {
	BaseEvent
	PaymentID        int64  `json:"payment_id"`
	BookingReference string `json:"booking_reference"`
	TransactionID    string `json:"transaction_id"`
	Amount           string `json:"amount"`
}

func NewPaymentCompletedEvent(paymentID int64, bookingReference, transactionID, amount string) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentCompleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":        paymentID,
				"booking_reference": bookingReference,
				"transaction_id":    transactionID,
				"amount":            amount,
			},
		},
		PaymentID:        paymentID,
		BookingReference: bookingReference,
		TransactionID:    transactionID,
		Amount:           amount,
	}
}

type PaymentFailedEvent struct {
	BaseEvent
	PaymentID        int64  `json:"payment_id"`
	BookingReference string `json:"booking_reference"`
	Amount           string `json:"amount"`
	FailureReason    string `json:"failure_reason"`
}

func NewPaymentFailedEvent(paymentID int64, bookingReference, amount, failureReason string) *PaymentFailedEvent {
	return &PaymentFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypePaymentFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"payment_id":        paymentID,
				"booking_reference": bookingReference,
				"amount":            amount,
				"failure_reason":    failureReason,
			},
		},
		PaymentID:        paymentID,
		BookingReference: bookingReference,
		Amount:           amount,
		FailureReason:    failureReason,
	}
}
