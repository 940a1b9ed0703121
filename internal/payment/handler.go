package payment

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/transport"
	"github.com/go-chi/chi"
)

type Handler struct {
	transport.BaseHandler
	Service ServiceAPI
	Logger  *slog.Logger
}

func NewHandler(service ServiceAPI, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.BaseHandler{Logger: logger},
		Service:     service,
		Logger:      logger,
	}
}

// InitiatePayment handles POST /api/v1/payments/initiate
func (h *Handler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var dto InitiatePaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("InitiatePayment: failed to parse request body", "error", err)
		h.HandleError(w, errors.NewValidationError("invalid request body", errors.ErrCodeValidationFailed))
		return
	}

	if dto.Currency == "" {
		dto.Currency = DefaultCurrency
	}

	result, err := h.Service.InitiatePayment(r.Context(), dto)
	if err != nil {
		h.Logger.Error("InitiatePayment: service error", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("InitiatePayment: payment initiated",
		"tx_ref", result.TxRef,
		"amount", dto.Amount.String())

	h.WriteJSON(w, http.StatusOK, result)
}

// VerifyPayment handles GET /api/v1/payments/verify/{tx_ref}. The same URL
// doubles as the gateway's callback target.
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	txRef := chi.URLParam(r, "tx_ref")
	if txRef == "" {
		h.HandleError(w, errors.NewValidationError("tx_ref is required", errors.ErrCodeValidationFailed))
		return
	}

	result, err := h.Service.VerifyPayment(r.Context(), txRef)
	if err != nil {
		h.Logger.Error("VerifyPayment: service error", "error", err, "tx_ref", txRef)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("VerifyPayment: verification processed",
		"tx_ref", txRef,
		"status", result.Payment.Status)

	h.WriteJSON(w, http.StatusOK, result)
}

// GetPayment handles GET /api/v1/payments/{tx_ref}
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	txRef := chi.URLParam(r, "tx_ref")
	if txRef == "" {
		h.HandleError(w, errors.NewValidationError("tx_ref is required", errors.ErrCodeValidationFailed))
		return
	}

	record, err := h.Service.GetPaymentByReference(txRef)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"payment": record})
}
