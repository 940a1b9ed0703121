package paymentgateway_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	gatewaytypes "github.com/frahmantamala/travel-booking/internal/core/datamodel/paymentgateway"
	"github.com/frahmantamala/travel-booking/internal/paymentgateway"
)

func TestGatewayClient(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Payment Gateway Client Suite")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newClient(baseURL string) *paymentgateway.Client {
	return paymentgateway.NewClient(paymentgateway.Config{
		BaseURL:   baseURL,
		SecretKey: "test-secret-key",
		Timeout:   2 * time.Second,
	}, testLogger())
}

func initRequest() *gatewaytypes.InitializeRequest {
	return &gatewaytypes.InitializeRequest{
		Amount:      decimal.NewFromInt(100),
		Currency:    "ETB",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		TxRef:       "tx-test-ref",
		CallbackURL: "https://example.com/api/v1/payments/verify/tx-test-ref",
	}
}

var _ = Describe("Client", func() {
	Describe("Initialize", func() {
		Context("when the gateway accepts the transaction", func() {
			It("returns the checkout URL and sends the bearer credential", func() {
				var gotAuth string
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					gotAuth = r.Header.Get("Authorization")
					Expect(r.Method).To(Equal(http.MethodPost))
					Expect(r.URL.Path).To(Equal("/transaction/initialize"))
					w.Header().Set("Content-Type", "application/json")
					w.Write([]byte(`{"status":"success","message":"Hosted Link","data":{"checkout_url":"https://pay.example/abc"}}`))
				}))
				defer server.Close()

				result, err := newClient(server.URL).Initialize(context.Background(), initRequest())

				Expect(err).ToNot(HaveOccurred())
				Expect(result.CheckoutURL).To(Equal("https://pay.example/abc"))
				Expect(result.Message).To(Equal("Hosted Link"))
				Expect(gotAuth).To(Equal("Bearer test-secret-key"))
			})
		})

		Context("when the gateway answers 400", func() {
			It("classifies as invalid request and surfaces the gateway payload", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusBadRequest)
					w.Write([]byte(`{"status":"failed","message":"Invalid currency"}`))
				}))
				defer server.Close()

				_, err := newClient(server.URL).Initialize(context.Background(), initRequest())

				gwErr, ok := paymentgateway.AsError(err)
				Expect(ok).To(BeTrue())
				Expect(gwErr.Kind).To(Equal(paymentgateway.KindInvalidRequest))
				Expect(string(gwErr.Details)).To(ContainSubstring("Invalid currency"))
			})
		})

		Context("when the gateway reports logical failure on a 200", func() {
			It("classifies as rejected with the gateway message", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`{"status":"failed","message":"Insufficient merchant balance"}`))
				}))
				defer server.Close()

				_, err := newClient(server.URL).Initialize(context.Background(), initRequest())

				gwErr, ok := paymentgateway.AsError(err)
				Expect(ok).To(BeTrue())
				Expect(gwErr.Kind).To(Equal(paymentgateway.KindRejected))
				Expect(gwErr.Message).To(Equal("Insufficient merchant balance"))
			})
		})

		Context("when the gateway answers 5xx", func() {
			It("classifies as unavailable", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusBadGateway)
				}))
				defer server.Close()

				_, err := newClient(server.URL).Initialize(context.Background(), initRequest())

				gwErr, ok := paymentgateway.AsError(err)
				Expect(ok).To(BeTrue())
				Expect(gwErr.Kind).To(Equal(paymentgateway.KindUnavailable))
			})
		})

		Context("when the gateway is unreachable", func() {
			It("classifies as unavailable", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
				server.Close()

				_, err := newClient(server.URL).Initialize(context.Background(), initRequest())

				gwErr, ok := paymentgateway.AsError(err)
				Expect(ok).To(BeTrue())
				Expect(gwErr.Kind).To(Equal(paymentgateway.KindUnavailable))
			})
		})

		Context("when a success response misses the checkout URL", func() {
			It("classifies as malformed response", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`{"status":"success","message":"ok","data":{}}`))
				}))
				defer server.Close()

				_, err := newClient(server.URL).Initialize(context.Background(), initRequest())

				gwErr, ok := paymentgateway.AsError(err)
				Expect(ok).To(BeTrue())
				Expect(gwErr.Kind).To(Equal(paymentgateway.KindMalformedResponse))
			})
		})

		Context("when the response body is not JSON", func() {
			It("classifies as malformed response", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`<html>gateway error page</html>`))
				}))
				defer server.Close()

				_, err := newClient(server.URL).Initialize(context.Background(), initRequest())

				gwErr, ok := paymentgateway.AsError(err)
				Expect(ok).To(BeTrue())
				Expect(gwErr.Kind).To(Equal(paymentgateway.KindMalformedResponse))
			})
		})
	})

	Describe("Verify", func() {
		Context("when the gateway confirms the transaction", func() {
			It("returns the transaction id", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					Expect(r.Method).To(Equal(http.MethodGet))
					Expect(r.URL.Path).To(Equal("/transaction/verify/tx-test-ref"))
					w.Write([]byte(`{"status":"success","message":"Payment verified","data":{"id":"abc123","tx_ref":"tx-test-ref"}}`))
				}))
				defer server.Close()

				result, err := newClient(server.URL).Verify(context.Background(), "tx-test-ref")

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Succeeded).To(BeTrue())
				Expect(result.TransactionID).To(Equal("abc123"))
			})
		})

		Context("when the gateway sends a numeric transaction id", func() {
			It("stringifies it", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`{"status":"success","message":"ok","data":{"id":987654}}`))
				}))
				defer server.Close()

				result, err := newClient(server.URL).Verify(context.Background(), "tx-test-ref")

				Expect(err).ToNot(HaveOccurred())
				Expect(result.TransactionID).To(Equal("987654"))
			})
		})

		Context("when the gateway reports the transaction failed", func() {
			It("returns an unsuccessful result without a client error", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`{"status":"failed","message":"Transaction declined"}`))
				}))
				defer server.Close()

				result, err := newClient(server.URL).Verify(context.Background(), "tx-test-ref")

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Succeeded).To(BeFalse())
				Expect(result.TransactionID).To(BeEmpty())
				Expect(result.Message).To(Equal("Transaction declined"))
			})
		})

		Context("when a success response misses the transaction id", func() {
			It("classifies as malformed response", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(`{"status":"success","message":"ok","data":{"tx_ref":"tx-test-ref"}}`))
				}))
				defer server.Close()

				_, err := newClient(server.URL).Verify(context.Background(), "tx-test-ref")

				gwErr, ok := paymentgateway.AsError(err)
				Expect(ok).To(BeTrue())
				Expect(gwErr.Kind).To(Equal(paymentgateway.KindMalformedResponse))
			})
		})

		Context("when the call exceeds the timeout", func() {
			It("classifies as unavailable and returns no result", func() {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					time.Sleep(300 * time.Millisecond)
					w.Write([]byte(`{"status":"success","message":"ok","data":{"id":"late"}}`))
				}))
				defer server.Close()

				client := paymentgateway.NewClient(paymentgateway.Config{
					BaseURL:   server.URL,
					SecretKey: "test-secret-key",
					Timeout:   50 * time.Millisecond,
				}, testLogger())

				result, err := client.Verify(context.Background(), "tx-test-ref")

				Expect(result).To(BeNil())
				gwErr, ok := paymentgateway.AsError(err)
				Expect(ok).To(BeTrue())
				Expect(gwErr.Kind).To(Equal(paymentgateway.KindUnavailable))
			})
		})
	})
})
