package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/ngo-donations/internal/auth"
	"github.com/frahmantamala/ngo-donations/internal/dashboard"
	"github.com/frahmantamala/ngo-donations/internal/donation"
	"github.com/frahmantamala/ngo-donations/internal/inquiry"
	"github.com/frahmantamala/ngo-donations/internal/newsletter"
	"github.com/frahmantamala/ngo-donations/internal/transport/middleware"
	"github.com/frahmantamala/ngo-donations/internal/transport/swagger"
	"github.com/frahmantamala/ngo-donations/internal/user"
	"github.com/frahmantamala/ngo-donations/internal/volunteer"
)

// Handlers groups the REST handlers; nil entries are not mounted.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Donation   *donation.Handler
	Webhook    *donation.WebhookHandler
	Inquiry    *inquiry.Handler
	Volunteer  *volunteer.Handler
	Newsletter *newsletter.Handler
	Dashboard  *dashboard.Handler
}

type Options struct {
	AllowedOrigins []string
	OpenAPIPath    string
}

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	if opts.OpenAPIPath == "" {
		opts.OpenAPIPath = "./api/openapi.yml"
	}

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, opts.OpenAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Post("/auth/login", h.Auth.Login)
		}

		// Public site submissions
		if h.Donation != nil {
			r.Get("/donations/health", h.Donation.Health)
			r.Post("/donations/create-order", h.Donation.CreateOrder)
			r.Post("/donations/verify-payment", h.Donation.VerifyPayment)
		}
		if h.Webhook != nil {
			r.Post("/donations/webhook", h.Webhook.HandleRazorpayWebhook)
		}
		if h.Inquiry != nil {
			r.Post("/inquiries", h.Inquiry.CreateInquiry)
		}
		if h.Volunteer != nil {
			r.Post("/volunteers", h.Volunteer.Apply)
		}
		if h.Newsletter != nil {
			r.Post("/newsletter", h.Newsletter.Subscribe)
			r.Post("/newsletter/unsubscribe", h.Newsletter.UnsubscribeByEmail)
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.AdminContext)

			if h.User != nil {
				pr.Get("/auth/me", h.User.GetCurrentUser)
				pr.Get("/users", h.User.ListUsers)
			}

			if h.Donation != nil {
				pr.Get("/donations", h.Donation.ListDonations)
				pr.Get("/donations/{id}", h.Donation.GetDonation)
				pr.Put("/donations/{id}", h.Donation.UpdateDonation)
				pr.Delete("/donations/{id}", h.Donation.DeleteDonation)
				pr.Get("/export/donations", h.Donation.ExportDonations)
			}

			if h.Inquiry != nil {
				pr.Get("/inquiries", h.Inquiry.ListInquiries)
				pr.Get("/inquiries/stats", h.Inquiry.GetStats)
				pr.Put("/inquiries/{id}", h.Inquiry.UpdateInquiry)
				pr.Delete("/inquiries/{id}", h.Inquiry.DeleteInquiry)
			}

			if h.Volunteer != nil {
				pr.Get("/volunteers", h.Volunteer.ListVolunteers)
				pr.Get("/volunteers/stats", h.Volunteer.GetStats)
				pr.Put("/volunteers/{id}", h.Volunteer.UpdateVolunteer)
				pr.Delete("/volunteers/{id}", h.Volunteer.DeleteVolunteer)
			}

			if h.Newsletter != nil {
				pr.Get("/newsletter", h.Newsletter.ListSubscribers)
				pr.Get("/newsletter/stats", h.Newsletter.GetStats)
				pr.Delete("/newsletter/{id}", h.Newsletter.DeleteSubscriber)
			}

			if h.Dashboard != nil {
				pr.Get("/dashboard/stats", h.Dashboard.GetStats)
				pr.Get("/dashboard/recent", h.Dashboard.GetRecent)
			}
		})
	})
}
