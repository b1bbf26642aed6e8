package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router builds the chi router with every route of the booking API.
func (h *Handler) Router(accessLog *log.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	if accessLog != nil {
		r.Use(Logger(accessLog))
	}

	r.Get("/health", HealthCheck)

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/exhibitions", h.ListExhibitions)
		r.Get("/workshops", h.ListWorkshops)
		r.Get("/pricing", h.GetPricing)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.Authenticate)

		r.Post("/logout", h.Logout)

		r.Route("/me", func(r chi.Router) {
			r.Get("/pass", h.Pass)
			r.Put("/profile", h.UpdateProfile)
			r.Post("/quotes", h.Quote)
			r.Post("/checkout", h.Checkout)
			r.Post("/reservations/{id}", h.Reserve)
			r.Delete("/reservations/{id}", h.CancelReservation)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)

			r.Post("/exhibitions", h.AddExhibition)
			r.Put("/exhibitions/{name}", h.UpdateExhibition)
			r.Delete("/exhibitions/{name}", h.RemoveExhibition)
			r.Post("/workshops", h.AddWorkshop)
			r.Delete("/workshops/{id}", h.RemoveWorkshop)
			r.Put("/pricing", h.UpdatePricing)
			r.Get("/attendees/{email}", h.FindAttendee)
			r.Post("/attendees/{email}/upgrade", h.AdminUpgrade)
			r.Get("/stats", h.Stats)
			r.Get("/sales/{date}", h.DailySales)
		})
	})

	return r
}
