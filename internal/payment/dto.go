package payment

import (
	errors "github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/common/validation"
	paymentmodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/payment"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "ETB"

// InitiatePaymentDTO is the request payload for starting a payment.
type InitiatePaymentDTO struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
}

// Validate checks the payload before any network call is made.
func (dto *InitiatePaymentDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("amount", dto.Amount).Required().PositiveDecimal(errors.ErrCodeInvalidAmount)
	validator.Field("currency", dto.Currency).Required().MaxLength(3)
	validator.Field("first_name", dto.FirstName).Required().MaxLength(100)
	validator.Field("last_name", dto.LastName).Required().MaxLength(100)
	validator.Field("email", dto.Email).Required().Email()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// InitiatePaymentResult mirrors what the API layer exposes after a
// successful initiation.
type InitiatePaymentResult struct {
	Message     string                `json:"message"`
	CheckoutURL string                `json:"checkout_url"`
	TxRef       string                `json:"tx_ref"`
	Payment     *paymentmodel.Payment `json:"payment"`
}

// VerifyPaymentResult carries the updated record and the gateway's message.
// For a failed transaction the message is the operation's result detail,
// not a processing error.
type VerifyPaymentResult struct {
	Message string                `json:"message"`
	Payment *paymentmodel.Payment `json:"payment"`
}
