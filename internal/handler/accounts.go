package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
)

// Register handles POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	a, err := h.svc.Accounts.Register(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

// Login handles POST /login
// Returns the new session and a bearer token naming it.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	sess, err := h.svc.Accounts.Login(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	token, err := h.tokens.Issue(sess)
	if err != nil {
		_ = h.svc.Accounts.Logout(sess)
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{Token: token, Session: sess})
}

// Logout handles POST /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Accounts.Logout(sessionFrom(r.Context())); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Pass handles GET /me/pass
func (h *Handler) Pass(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Accounts.Pass(sessionFrom(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateProfile handles PUT /me/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	a, err := h.svc.Accounts.UpdateProfile(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
