package payment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	apperrors "github.com/frahmantamala/travel-booking/internal"
	paymentmodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/payment"
	paymentpkg "github.com/frahmantamala/travel-booking/internal/payment"
)

type mockPaymentService struct {
	initiateResult *paymentpkg.InitiatePaymentResult
	initiateError  error
	verifyResult   *paymentpkg.VerifyPaymentResult
	verifyError    error
	getResult      *paymentmodel.Payment
	getError       error
}

func (m *mockPaymentService) InitiatePayment(ctx context.Context, dto paymentpkg.InitiatePaymentDTO) (*paymentpkg.InitiatePaymentResult, error) {
	if m.initiateError != nil {
		return nil, m.initiateError
	}
	return m.initiateResult, nil
}

func (m *mockPaymentService) VerifyPayment(ctx context.Context, txRef string) (*paymentpkg.VerifyPaymentResult, error) {
	if m.verifyError != nil {
		return nil, m.verifyError
	}
	return m.verifyResult, nil
}

func (m *mockPaymentService) GetPaymentByReference(reference string) (*paymentmodel.Payment, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.getResult, nil
}

func requestWithTxRef(method, target, txRef string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("tx_ref", txRef)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

var _ = ginkgo.Describe("PaymentHandler", func() {
	var (
		service  *mockPaymentService
		handler  *paymentpkg.Handler
		recorder *httptest.ResponseRecorder
	)

	pendingPayment := func(reference string) *paymentmodel.Payment {
		return &paymentmodel.Payment{
			ID:               1,
			BookingReference: reference,
			Amount:           decimal.NewFromInt(100),
			Status:           paymentmodel.StatusPending,
		}
	}

	ginkgo.BeforeEach(func() {
		service = &mockPaymentService{}
		handler = paymentpkg.NewHandler(service, testLogger())
		recorder = httptest.NewRecorder()
	})

	ginkgo.Context("InitiatePayment", func() {
		ginkgo.When("the request is valid", func() {
			ginkgo.It("returns the checkout URL and reference", func() {
				service.initiateResult = &paymentpkg.InitiatePaymentResult{
					Message:     "payment initiated",
					CheckoutURL: "https://pay.example/abc",
					TxRef:       "tx-ok",
					Payment:     pendingPayment("tx-ok"),
				}
				body, _ := json.Marshal(map[string]interface{}{
					"amount":     "100",
					"first_name": "Jane",
					"last_name":  "Doe",
					"email":      "jane@example.com",
				})
				req := httptest.NewRequest("POST", "/api/v1/payments/initiate", bytes.NewBuffer(body))
				req.Header.Set("Content-Type", "application/json")

				handler.InitiatePayment(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusOK))
				var response map[string]interface{}
				gomega.Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(gomega.Succeed())
				gomega.Expect(response["checkout_url"]).To(gomega.Equal("https://pay.example/abc"))
				gomega.Expect(response["tx_ref"]).To(gomega.Equal("tx-ok"))
			})
		})

		ginkgo.When("the request body is not JSON", func() {
			ginkgo.It("returns bad request", func() {
				req := httptest.NewRequest("POST", "/api/v1/payments/initiate", bytes.NewBufferString("not json"))

				handler.InitiatePayment(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusBadRequest))
			})
		})

		ginkgo.When("validation fails in the service", func() {
			ginkgo.It("propagates the validation status", func() {
				service.initiateError = apperrors.NewValidationError("amount must be positive", apperrors.ErrCodeInvalidAmount)
				body, _ := json.Marshal(map[string]interface{}{
					"amount": "0",
					"email":  "jane@example.com",
				})
				req := httptest.NewRequest("POST", "/api/v1/payments/initiate", bytes.NewBuffer(body))

				handler.InitiatePayment(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusBadRequest))
			})
		})

		ginkgo.When("the gateway is down", func() {
			ginkgo.It("returns service unavailable", func() {
				service.initiateError = apperrors.NewServiceUnavailableError("payment gateway unavailable", apperrors.ErrCodeGatewayUnavailable)
				body, _ := json.Marshal(map[string]interface{}{
					"amount":     "100",
					"first_name": "Jane",
					"last_name":  "Doe",
					"email":      "jane@example.com",
				})
				req := httptest.NewRequest("POST", "/api/v1/payments/initiate", bytes.NewBuffer(body))

				handler.InitiatePayment(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusServiceUnavailable))
			})
		})
	})

	ginkgo.Context("VerifyPayment", func() {
		ginkgo.When("verification succeeds", func() {
			ginkgo.It("returns the finalized record", func() {
				completed := pendingPayment("tx-done")
				completed.Status = paymentmodel.StatusCompleted
				txID := "abc123"
				completed.TransactionID = &txID
				service.verifyResult = &paymentpkg.VerifyPaymentResult{
					Message: "payment verified",
					Payment: completed,
				}
				req := requestWithTxRef("GET", "/api/v1/payments/verify/tx-done", "tx-done")

				handler.VerifyPayment(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusOK))
				var response map[string]interface{}
				gomega.Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(gomega.Succeed())
				payment := response["payment"].(map[string]interface{})
				gomega.Expect(payment["status"]).To(gomega.Equal("completed"))
			})
		})

		ginkgo.When("the reference is unknown", func() {
			ginkgo.It("returns not found", func() {
				service.verifyError = apperrors.ErrPaymentNotFound
				req := requestWithTxRef("GET", "/api/v1/payments/verify/tx-ghost", "tx-ghost")

				handler.VerifyPayment(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusNotFound))
			})
		})

		ginkgo.When("the record was already finalized", func() {
			ginkgo.It("returns conflict", func() {
				service.verifyError = apperrors.ErrPaymentAlreadyProcessed
				req := requestWithTxRef("GET", "/api/v1/payments/verify/tx-done", "tx-done")

				handler.VerifyPayment(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusConflict))
			})
		})

		ginkgo.When("the path parameter is empty", func() {
			ginkgo.It("returns bad request", func() {
				req := requestWithTxRef("GET", "/api/v1/payments/verify/", "")

				handler.VerifyPayment(recorder, req)

				gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusBadRequest))
			})
		})
	})

	ginkgo.Context("GetPayment", func() {
		ginkgo.It("returns the stored record", func() {
			service.getResult = pendingPayment("tx-view")
			req := requestWithTxRef("GET", "/api/v1/payments/tx-view", "tx-view")

			handler.GetPayment(recorder, req)

			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusOK))
		})

		ginkgo.It("maps unknown references to not found", func() {
			service.getError = apperrors.ErrPaymentNotFound
			req := requestWithTxRef("GET", "/api/v1/payments/tx-ghost", "tx-ghost")

			handler.GetPayment(recorder, req)

			gomega.Expect(recorder.Code).To(gomega.Equal(http.StatusNotFound))
		})
	})
})
