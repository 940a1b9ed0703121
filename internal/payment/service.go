package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/frahmantamala/travel-booking/internal"
	paymentmodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/payment"
	gatewaytypes "github.com/frahmantamala/travel-booking/internal/core/datamodel/paymentgateway"
	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/paymentgateway"
	"github.com/google/uuid"
)

// Domain sentinels returned by the repository so the service can classify
// persistence outcomes without importing the ORM.
var (
	ErrNotFound           = errors.New("payment record not found")
	ErrDuplicateReference = errors.New("booking reference already exists")
)

// RepositoryAPI is the persistence contract for payment records. The two
// *FromPending mutations are conditional updates: they only apply while the
// record still holds status pending, so a record never leaves a terminal
// status.
type RepositoryAPI interface {
	Create(p *paymentmodel.Payment) error
	GetByReference(reference string) (*paymentmodel.Payment, error)
	CompleteFromPending(reference, transactionID string) (bool, error)
	FailFromPending(reference string) (bool, error)
}

// GatewayAPI is the outbound contract against the payment provider.
type GatewayAPI interface {
	Initialize(ctx context.Context, req *gatewaytypes.InitializeRequest) (*gatewaytypes.InitResult, error)
	Verify(ctx context.Context, txRef string) (*gatewaytypes.VerifyResult, error)
}

type ServiceAPI interface {
	InitiatePayment(ctx context.Context, dto InitiatePaymentDTO) (*InitiatePaymentResult, error)
	VerifyPayment(ctx context.Context, txRef string) (*VerifyPaymentResult, error)
	GetPaymentByReference(reference string) (*paymentmodel.Payment, error)
}

// Service owns the payment state machine: pending on confirmed initiation,
// then exactly one transition to completed or failed on verification.
type Service struct {
	repo            RepositoryAPI
	gateway         GatewayAPI
	eventBus        *events.EventBus
	callbackBaseURL string
	logger          *slog.Logger
}

func NewService(repo RepositoryAPI, gateway GatewayAPI, eventBus *events.EventBus, callbackBaseURL string, logger *slog.Logger) *Service {
	return &Service{
		repo:            repo,
		gateway:         gateway,
		eventBus:        eventBus,
		callbackBaseURL: strings.TrimRight(callbackBaseURL, "/"),
		logger:          logger,
	}
}

// NewTxRef generates a fresh booking reference. The prefix keeps gateway
// dashboards and logs traceable back to this service.
func NewTxRef() string {
	return "tx-" + uuid.NewString()
}

// InitiatePayment registers a transaction with the gateway and persists a
// pending record. No record is created when the gateway call fails in any
// way, so a failed initiation leaves no local state behind.
func (s *Service) InitiatePayment(ctx context.Context, dto InitiatePaymentDTO) (*InitiatePaymentResult, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("payment initiation validation failed", "error", err)
		return nil, err
	}

	txRef := NewTxRef()
	callbackURL := fmt.Sprintf("%s/api/v1/payments/verify/%s", s.callbackBaseURL, txRef)

	initResult, err := s.gateway.Initialize(ctx, &gatewaytypes.InitializeRequest{
		Amount:      dto.Amount,
		Currency:    dto.Currency,
		FirstName:   dto.FirstName,
		LastName:    dto.LastName,
		Email:       dto.Email,
		TxRef:       txRef,
		CallbackURL: callbackURL,
	})
	if err != nil {
		s.logger.Error("gateway initialization failed, no payment record created",
			"tx_ref", txRef,
			"error", err)
		return nil, s.mapGatewayError(err)
	}

	record := &paymentmodel.Payment{
		BookingReference: txRef,
		Amount:           dto.Amount,
		Status:           paymentmodel.StatusPending,
	}

	if err := s.repo.Create(record); err != nil {
		s.logger.Error("failed to persist payment record after gateway initiation",
			"tx_ref", txRef,
			"error", err)
		if errors.Is(err, ErrDuplicateReference) {
			return nil, apperrors.NewConflictError("booking reference already exists", apperrors.ErrCodeDuplicateReference).WithCause(err)
		}
		return nil, apperrors.NewInternalError("failed to persist payment record", err)
	}

	s.logger.Info("payment initiated",
		"payment_id", record.ID,
		"tx_ref", txRef,
		"amount", dto.Amount.String(),
		"currency", dto.Currency)

	return &InitiatePaymentResult{
		Message:     initResult.Message,
		CheckoutURL: initResult.CheckoutURL,
		TxRef:       txRef,
		Payment:     record,
	}, nil
}

// VerifyPayment reconciles a pending record against the gateway's verdict.
// Terminal records are immutable: a verify attempt on one returns a conflict
// without touching the gateway, and the conditional update below closes the
// race between concurrent verify calls on the same reference.
func (s *Service) VerifyPayment(ctx context.Context, txRef string) (*VerifyPaymentResult, error) {
	record, err := s.repo.GetByReference(txRef)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("verification requested for unknown reference", "tx_ref", txRef)
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.NewInternalError("failed to load payment record", err)
	}

	if record.IsTerminal() {
		s.logger.Warn("verification requested for terminal payment",
			"tx_ref", txRef,
			"status", record.Status)
		return nil, apperrors.ErrPaymentAlreadyProcessed
	}

	verifyResult, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		return nil, s.mapGatewayError(err)
	}

	if verifyResult.Succeeded {
		return s.completePayment(ctx, txRef, verifyResult)
	}
	return s.failPayment(ctx, txRef, verifyResult)
}

func (s *Service) completePayment(ctx context.Context, txRef string, verifyResult *gatewaytypes.VerifyResult) (*VerifyPaymentResult, error) {
	updated, err := s.repo.CompleteFromPending(txRef, verifyResult.TransactionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to update payment record", err)
	}
	if !updated {
		// lost the race: another verify already moved the record to a
		// terminal status
		s.logger.Warn("payment already finalized by a concurrent verification", "tx_ref", txRef)
		return nil, apperrors.ErrPaymentAlreadyProcessed
	}

	record, err := s.repo.GetByReference(txRef)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to reload payment record", err)
	}

	s.logger.Info("payment completed",
		"payment_id", record.ID,
		"tx_ref", txRef,
		"transaction_id", verifyResult.TransactionID)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewPaymentCompletedEvent(
			record.ID, txRef, verifyResult.TransactionID, record.Amount.String()))
	}

	return &VerifyPaymentResult{
		Message: "Payment verified successfully.",
		Payment: record,
	}, nil
}

func (s *Service) failPayment(ctx context.Context, txRef string, verifyResult *gatewaytypes.VerifyResult) (*VerifyPaymentResult, error) {
	updated, err := s.repo.FailFromPending(txRef)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to update payment record", err)
	}
	if !updated {
		s.logger.Warn("payment already finalized by a concurrent verification", "tx_ref", txRef)
		return nil, apperrors.ErrPaymentAlreadyProcessed
	}

	record, err := s.repo.GetByReference(txRef)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to reload payment record", err)
	}

	s.logger.Info("payment marked failed",
		"payment_id", record.ID,
		"tx_ref", txRef,
		"gateway_message", verifyResult.Message)

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.NewPaymentFailedEvent(
			record.ID, txRef, record.Amount.String(), verifyResult.Message))
	}

	// the verification itself succeeded as an operation; the gateway's
	// failure message is the result detail
	return &VerifyPaymentResult{
		Message: verifyResult.Message,
		Payment: record,
	}, nil
}

func (s *Service) GetPaymentByReference(reference string) (*paymentmodel.Payment, error) {
	record, err := s.repo.GetByReference(reference)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.NewInternalError("failed to load payment record", err)
	}
	return record, nil
}

// mapGatewayError translates client classifications into the error taxonomy
// the API layer renders. The gateway's own payload rides along in Details
// where it exists.
func (s *Service) mapGatewayError(err error) error {
	gwErr, ok := paymentgateway.AsError(err)
	if !ok {
		return apperrors.NewInternalError("unexpected gateway client error", err)
	}

	switch gwErr.Kind {
	case paymentgateway.KindUnavailable:
		return apperrors.NewServiceUnavailableError("Failed to connect to payment gateway.", apperrors.ErrCodeGatewayUnavailable).WithCause(gwErr)
	case paymentgateway.KindInvalidRequest:
		appErr := apperrors.NewExternalError("Payment gateway rejected the request.", apperrors.ErrCodeGatewayInvalidRequest, http.StatusBadRequest).WithCause(gwErr)
		if len(gwErr.Details) > 0 {
			appErr = appErr.WithDetails(gwErr.Details)
		}
		return appErr
	case paymentgateway.KindRejected:
		return apperrors.NewExternalError(gwErr.Message, apperrors.ErrCodeGatewayRejected, http.StatusBadRequest).WithCause(gwErr)
	case paymentgateway.KindMalformedResponse:
		return apperrors.NewBadGatewayError("Payment gateway returned an unreadable response.", apperrors.ErrCodeGatewayBadResponse).WithCause(gwErr)
	default:
		return apperrors.NewInternalError("unclassified gateway error", gwErr)
	}
}
