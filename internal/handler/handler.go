// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/repository"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/service"
	"github.com/go-chi/chi/v5"
)

// Services bundles the service layer the handlers call into.
type Services struct {
	Accounts     *service.AccountService
	Tickets      *service.TicketService
	Reservations *service.ReservationService
	Catalog      *service.CatalogService
	Reports      *service.ReportService
}

// Handler holds all HTTP handlers for the booking API.
type Handler struct {
	svc    Services
	tokens *Tokens
	logger *log.Logger
}

// New constructs a Handler.
func New(svc Services, tokens *Tokens, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg, Code: code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pathParam returns the URL-decoded value of a route parameter. chi hands back
// the raw segment when the client escaped characters such as & or @.
func pathParam(r *http.Request, key string) (string, error) {
	return url.PathUnescape(chi.URLParam(r, key))
}

func workshopID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

// writeServiceError maps service and repository errors to a status code.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	var perr *repository.PersistenceError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, "validation", verr.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, repository.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "duplicate_email", "email is already registered")
	case errors.Is(err, repository.ErrDuplicateExhibition):
		writeError(w, http.StatusConflict, "duplicate_exhibition", err.Error())
	case errors.Is(err, repository.ErrWorkshopFull):
		writeError(w, http.StatusConflict, "workshop_full", "workshop is fully booked")
	case errors.Is(err, repository.ErrAlreadyBooked):
		writeError(w, http.StatusConflict, "already_booked", "you have already reserved this workshop")
	case errors.Is(err, repository.ErrOutOfScope):
		writeError(w, http.StatusConflict, "out_of_scope", "your pass does not cover this exhibition")
	case errors.Is(err, repository.ErrReferencedByTicket):
		writeError(w, http.StatusConflict, "referenced_by_ticket", err.Error())
	case errors.Is(err, repository.ErrHasActiveReservations):
		writeError(w, http.StatusConflict, "has_active_reservations", err.Error())
	case errors.Is(err, repository.ErrTicketExists):
		writeError(w, http.StatusConflict, "ticket_exists", "you already hold a ticket")
	case errors.Is(err, repository.ErrNoTicket):
		writeError(w, http.StatusConflict, "no_ticket", "you do not hold a ticket")
	case errors.Is(err, repository.ErrAlreadyAllAccess):
		writeError(w, http.StatusConflict, "already_all_access", "your pass is already all-access")
	case errors.Is(err, repository.ErrAlreadyInScope):
		writeError(w, http.StatusConflict, "already_in_scope", "your pass already covers this exhibition")
	case errors.Is(err, repository.ErrPriceChanged):
		writeError(w, http.StatusConflict, "price_changed", "the price changed, please request a new quote")
	case errors.Is(err, service.ErrTransactionMismatch):
		writeError(w, http.StatusConflict, "transaction_mismatch", err.Error())
	case errors.As(err, &perr):
		h.logger.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "persistence", "could not save changes, nothing was modified")
	default:
		h.logger.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
