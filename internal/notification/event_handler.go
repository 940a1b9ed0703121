package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/travel-booking/internal/core/events"
)

// EventHandler turns domain events into queued emails. Payment outcome
// mails go to opsAddress since the payment record carries no payer address.
type EventHandler struct {
	dispatcher *Dispatcher
	opsAddress string
	logger     *slog.Logger
}

func NewEventHandler(dispatcher *Dispatcher, opsAddress string, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		dispatcher: dispatcher,
		opsAddress: opsAddress,
		logger:     logger,
	}
}

func (h *EventHandler) HandleBookingCreated(ctx context.Context, event events.Event) error {
	bookingEvent, ok := event.(*events.BookingCreatedEvent)
	if !ok {
		h.logger.Error("invalid event type for booking created handler", "event_type", event.EventType())
		return fmt.Errorf("expected BookingCreatedEvent, got %T", event)
	}

	body := fmt.Sprintf(
		"Your booking for %s is confirmed as received.\n\n"+
			"Check-in: %s\nCheck-out: %s\nTotal price: %s\n\n"+
			"Complete the payment to secure your stay.",
		bookingEvent.ListingTitle,
		bookingEvent.CheckInDate,
		bookingEvent.CheckOutDate,
		bookingEvent.TotalPrice,
	)

	h.dispatcher.Enqueue(EmailJob{
		Recipients: []string{bookingEvent.GuestEmail},
		Subject:    "Booking received: " + bookingEvent.ListingTitle,
		Body:       body,
	})

	h.logger.Info("booking confirmation email queued",
		"booking_id", bookingEvent.BookingID,
		"event_id", bookingEvent.EventID())

	return nil
}

func (h *EventHandler) HandlePaymentCompleted(ctx context.Context, event events.Event) error {
	paymentEvent, ok := event.(*events.PaymentCompletedEvent)
	if !ok {
		h.logger.Error("invalid event type for payment completed handler", "event_type", event.EventType())
		return fmt.Errorf("expected PaymentCompletedEvent, got %T", event)
	}

	h.logger.Info("payment completed, queueing receipt",
		"payment_id", paymentEvent.PaymentID,
		"booking_reference", paymentEvent.BookingReference)

	// the payment record does not carry the payer address; operations
	// receive the receipt copy and forward it
	h.dispatcher.Enqueue(EmailJob{
		Recipients: []string{h.opsAddress},
		Subject:    "Payment received for " + paymentEvent.BookingReference,
		Body: fmt.Sprintf(
			"Payment %d completed.\nReference: %s\nTransaction: %s\nAmount: %s",
			paymentEvent.PaymentID,
			paymentEvent.BookingReference,
			paymentEvent.TransactionID,
			paymentEvent.Amount,
		),
	})

	return nil
}

func (h *EventHandler) HandlePaymentFailed(ctx context.Context, event events.Event) error {
	paymentEvent, ok := event.(*events.PaymentFailedEvent)
	if !ok {
		h.logger.Error("invalid event type for payment failed handler", "event_type", event.EventType())
		return fmt.Errorf("expected PaymentFailedEvent, got %T", event)
	}

	h.dispatcher.Enqueue(EmailJob{
		Recipients: []string{h.opsAddress},
		Subject:    "Payment failed for " + paymentEvent.BookingReference,
		Body: fmt.Sprintf(
			"Payment %d failed.\nReference: %s\nAmount: %s\nReason: %s",
			paymentEvent.PaymentID,
			paymentEvent.BookingReference,
			paymentEvent.Amount,
			paymentEvent.FailureReason,
		),
	})

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeBookingCreated, h.HandleBookingCreated)
	eventBus.Subscribe(events.EventTypePaymentCompleted, h.HandlePaymentCompleted)
	eventBus.Subscribe(events.EventTypePaymentFailed, h.HandlePaymentFailed)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.EventTypeBookingCreated,
			events.EventTypePaymentCompleted,
			events.EventTypePaymentFailed,
		})
}
