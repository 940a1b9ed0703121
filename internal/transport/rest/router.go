package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/travel-booking/internal/auth"
	"github.com/frahmantamala/travel-booking/internal/booking"
	"github.com/frahmantamala/travel-booking/internal/listing"
	"github.com/frahmantamala/travel-booking/internal/payment"
	"github.com/frahmantamala/travel-booking/internal/review"
	"github.com/frahmantamala/travel-booking/internal/transport/middleware"
	"github.com/frahmantamala/travel-booking/internal/transport/swagger"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	listingHandler *listing.Handler,
	bookingHandler *booking.Handler,
	reviewHandler *review.Handler,
	paymentHandler *payment.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
			})
		}

		// public listing reads
		if listingHandler != nil {
			r.Get("/listings", listingHandler.SearchListings)
			r.Get("/listings/{id}", listingHandler.GetListing)
			if reviewHandler != nil {
				r.Get("/listings/{id}/reviews", reviewHandler.GetListingReviews)
			}
		}

		// payment routes stay public: the verify URL doubles as the
		// gateway's callback target
		if paymentHandler != nil {
			r.Route("/payments", func(pr chi.Router) {
				pr.Post("/initiate", paymentHandler.InitiatePayment)
				pr.Get("/verify/{tx_ref}", paymentHandler.VerifyPayment)
				pr.Get("/{tx_ref}", paymentHandler.GetPayment)
			})
		}

		if authHandler != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				pr.Get("/users/me", authHandler.Me)

				if listingHandler != nil {
					pr.Post("/listings", listingHandler.CreateListing)
					pr.Get("/listings/mine", listingHandler.GetMyListings)
					pr.Patch("/listings/{id}", listingHandler.UpdateListing)
					pr.Delete("/listings/{id}", listingHandler.DeactivateListing)
				}

				if bookingHandler != nil {
					pr.Route("/bookings", func(br chi.Router) {
						br.Post("/", bookingHandler.CreateBooking)
						br.Get("/", bookingHandler.GetMyBookings)
						br.Get("/{id}", bookingHandler.GetBooking)
						br.Post("/{id}/confirm", bookingHandler.ConfirmBooking)
						br.Post("/{id}/cancel", bookingHandler.CancelBooking)
						br.Post("/{id}/complete", bookingHandler.CompleteBooking)
					})
				}

				if reviewHandler != nil {
					pr.Post("/reviews", reviewHandler.CreateReview)
					pr.Delete("/reviews/{id}", reviewHandler.DeleteReview)
				}
			})
		}
	})
}
