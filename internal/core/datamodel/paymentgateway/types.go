package paymentgateway

import (
	"errors"

	"github.com/shopspring/decimal"
)

// InitializeRequest is the payload for the gateway's transaction/initialize
// endpoint. TxRef is caller-generated and must be unique per call.
type InitializeRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	TxRef       string          `json:"tx_ref"`
	CallbackURL string          `json:"callback_url"`
}

func (r *InitializeRequest) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("amount must be greater than 0")
	}
	if r.Currency == "" {
		return errors.New("currency is required")
	}
	if r.TxRef == "" {
		return errors.New("tx_ref is required")
	}
	return nil
}

// InitResult carries the gateway-assigned checkout URL for a successfully
// initialized transaction.
type InitResult struct {
	CheckoutURL string `json:"checkout_url"`
	Message     string `json:"message"`
}

// VerifyResult reports the gateway's view of a transaction. Succeeded false
// with a nil client error means the gateway answered but the underlying
// transaction failed; that is a lifecycle decision, not a transport problem.
type VerifyResult struct {
	Succeeded     bool   `json:"succeeded"`
	TransactionID string `json:"transaction_id,omitempty"`
	Message       string `json:"message"`
}
