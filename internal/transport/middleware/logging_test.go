package middleware_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/travel-booking/internal/transport/middleware"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transport Middleware Suite")
}

// capturingHandler records every slog record together with the context it
// was emitted under.
type capturingHandler struct {
	mu      sync.Mutex
	records []capturedRecord
}

type capturedRecord struct {
	ctx     context.Context
	level   slog.Level
	message string
	attrs   map[string]any
}

func (h *capturingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capturingHandler) Handle(ctx context.Context, rec slog.Record) error {
	attrs := make(map[string]any)
	rec.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, capturedRecord{ctx: ctx, level: rec.Level, message: rec.Message, attrs: attrs})
	return nil
}

func (h *capturingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *capturingHandler) WithGroup(string) slog.Handler      { return h }

func (h *capturingHandler) find(message string) (capturedRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, rec := range h.records {
		if rec.message == message {
			return rec, true
		}
	}
	return capturedRecord{}, false
}

var _ = Describe("LoggingMiddleware", func() {
	var (
		captured *capturingHandler
		logger   *slog.Logger
	)

	BeforeEach(func() {
		captured = &capturingHandler{}
		logger = slog.New(captured)
	})

	serve := func(inner http.Handler, req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		chain := middleware.RequestID(middleware.LoggingMiddleware(logger)(inner))
		chain.ServeHTTP(rec, req)
		return rec
	}

	It("logs the response with the request context attached", func() {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/listings", nil)
		req.Header.Set("X-Trace-ID", "trace-abc")
		serve(inner, req)

		rec, found := captured.find("response")
		Expect(found).To(BeTrue())
		Expect(rec.ctx).ToNot(BeNil())
		Expect(middleware.TraceIDFromContext(rec.ctx)).To(Equal("trace-abc"))
		Expect(rec.attrs["request_id"]).To(Equal("trace-abc"))
	})

	It("escalates the log level for server errors", func() {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		serve(inner, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))

		rec, found := captured.find("response")
		Expect(found).To(BeTrue())
		Expect(rec.level).To(Equal(slog.LevelError))
		Expect(rec.attrs["status_code"]).To(Equal(int64(http.StatusInternalServerError)))
	})

	It("masks sensitive fields in request bodies", func() {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})

		body := strings.NewReader(`{"email":"jane@example.com","password":"hunter2","city":"Addis Ababa"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
		serve(inner, req)

		rec, found := captured.find("incoming request")
		Expect(found).To(BeTrue())
		logged, ok := rec.attrs["body"].(string)
		Expect(ok).To(BeTrue())
		Expect(logged).ToNot(ContainSubstring("hunter2"))
		Expect(logged).ToNot(ContainSubstring("jane@example.com"))
		Expect(logged).To(ContainSubstring("Addis Ababa"))
	})
})
