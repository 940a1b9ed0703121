package rest_test

import (
	"net/http"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestOpenAPIDocument(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OpenAPI Document Suite")
}

var _ = Describe("OpenAPI Document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Validate(loader.Context)).To(Succeed())
	})

	It("describes every published endpoint", func() {
		expected := map[string][]string{
			"/api/v1/ping":                     {http.MethodGet},
			"/api/v1/health":                   {http.MethodGet},
			"/api/v1/auth/login":               {http.MethodPost},
			"/api/v1/auth/refresh":             {http.MethodPost},
			"/api/v1/users/me":                 {http.MethodGet},
			"/api/v1/listings":                 {http.MethodGet, http.MethodPost},
			"/api/v1/listings/mine":            {http.MethodGet},
			"/api/v1/listings/{id}":            {http.MethodGet, http.MethodPatch, http.MethodDelete},
			"/api/v1/listings/{id}/reviews":    {http.MethodGet},
			"/api/v1/bookings":                 {http.MethodGet, http.MethodPost},
			"/api/v1/bookings/{id}":            {http.MethodGet},
			"/api/v1/bookings/{id}/confirm":    {http.MethodPost},
			"/api/v1/bookings/{id}/cancel":     {http.MethodPost},
			"/api/v1/bookings/{id}/complete":   {http.MethodPost},
			"/api/v1/reviews":                  {http.MethodPost},
			"/api/v1/reviews/{id}":             {http.MethodDelete},
			"/api/v1/payments/initiate":        {http.MethodPost},
			"/api/v1/payments/verify/{tx_ref}": {http.MethodGet},
			"/api/v1/payments/{tx_ref}":        {http.MethodGet},
		}

		for path, methods := range expected {
			item := doc.Paths.Find(path)
			Expect(item).NotTo(BeNil(), "missing path %s", path)
			for _, method := range methods {
				Expect(item.GetOperation(method)).NotTo(BeNil(), "missing %s %s", method, path)
			}
		}
	})

	It("marks mutating booking operations as bearer-protected", func() {
		for _, path := range []string{
			"/api/v1/bookings",
			"/api/v1/bookings/{id}/confirm",
			"/api/v1/bookings/{id}/cancel",
			"/api/v1/bookings/{id}/complete",
		} {
			op := doc.Paths.Find(path).GetOperation(http.MethodPost)
			Expect(op.Security).NotTo(BeNil(), "expected security on POST %s", path)
		}
	})

	It("keeps payment verification public for the gateway callback", func() {
		op := doc.Paths.Find("/api/v1/payments/verify/{tx_ref}").GetOperation(http.MethodGet)
		Expect(op).NotTo(BeNil())
		Expect(op.Security).To(BeNil())
	})
})
