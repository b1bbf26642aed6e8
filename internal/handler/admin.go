package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// FindAttendee handles GET /admin/attendees/{email}
func (h *Handler) FindAttendee(w http.ResponseWriter, r *http.Request) {
	email, err := pathParam(r, "email")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid email")
		return
	}

	a, err := h.svc.Reports.FindAttendee(sessionFrom(r.Context()), email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// AdminUpgrade handles POST /admin/attendees/{email}/upgrade
// Converts a standard pass to all-access free of charge.
func (h *Handler) AdminUpgrade(w http.ResponseWriter, r *http.Request) {
	email, err := pathParam(r, "email")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid email")
		return
	}

	ticket, err := h.svc.Tickets.AdminUpgrade(r.Context(), sessionFrom(r.Context()), email)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// Stats handles GET /admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Reports.Stats(sessionFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DailySales handles GET /admin/sales/{date}
func (h *Handler) DailySales(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reports.DailySales(sessionFrom(r.Context()), chi.URLParam(r, "date"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
