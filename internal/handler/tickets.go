package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
)

// Quote handles POST /me/quotes
// Returns the pending transaction the client passes back to /me/checkout.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req model.QuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	tx, err := h.svc.Tickets.Quote(sessionFrom(r.Context()), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// Checkout handles POST /me/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	ticket, err := h.svc.Tickets.Checkout(r.Context(), sessionFrom(r.Context()), req.Transaction, req.Card)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// Reserve handles POST /me/reservations/{id}
func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	id, err := workshopID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "workshop id must be a number")
		return
	}

	ws, err := h.svc.Reservations.Reserve(r.Context(), sessionFrom(r.Context()), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newWorkshopView(ws))
}

// CancelReservation handles DELETE /me/reservations/{id}
func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := workshopID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "workshop id must be a number")
		return
	}

	ws, err := h.svc.Reservations.Cancel(r.Context(), sessionFrom(r.Context()), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newWorkshopView(ws))
}
