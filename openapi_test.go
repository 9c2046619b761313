package main_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/ngo-donations/internal/auth"
	"github.com/frahmantamala/ngo-donations/internal/dashboard"
	"github.com/frahmantamala/ngo-donations/internal/donation"
	"github.com/frahmantamala/ngo-donations/internal/inquiry"
	"github.com/frahmantamala/ngo-donations/internal/newsletter"
	"github.com/frahmantamala/ngo-donations/internal/transport"
	"github.com/frahmantamala/ngo-donations/internal/transport/rest"
	"github.com/frahmantamala/ngo-donations/internal/user"
	"github.com/frahmantamala/ngo-donations/internal/volunteer"
)

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		loader := openapi3.NewLoader()
		var err error
		doc, err = loader.LoadFromFile("api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	It("is a valid OpenAPI 3 document", func() {
		Expect(doc.Validate(context.Background())).To(Succeed())
	})

	It("documents exactly the routes the API serves", func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		base := transport.NewBaseHandler(lg)

		router := chi.NewRouter()
		rest.RegisterAllRoutes(router, nil, rest.Handlers{
			Auth:       auth.NewHandler(base, nil),
			User:       user.NewHandler(base, nil),
			Donation:   donation.NewHandler(base, nil),
			Webhook:    donation.NewWebhookHandler(base, nil, "whsec"),
			Inquiry:    inquiry.NewHandler(base, nil),
			Volunteer:  volunteer.NewHandler(base, nil),
			Newsletter: newsletter.NewHandler(base, nil),
			Dashboard:  dashboard.NewHandler(base, nil),
		}, rest.Options{}, lg)

		served := map[string]bool{}
		err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			served[method+" "+route] = true
			return nil
		})
		Expect(err).NotTo(HaveOccurred())

		documented := map[string]bool{}
		for path, item := range doc.Paths.Map() {
			for method := range item.Operations() {
				documented[method+" /api"+path] = true
			}
		}

		for route := range documented {
			Expect(served).To(HaveKey(route))
		}
		for route := range served {
			if route == "GET /openapi.yml" || strings.HasSuffix(route, "/swagger/*") {
				continue
			}
			Expect(documented).To(HaveKey(route))
		}
	})
})
