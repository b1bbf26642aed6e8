package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
)

// workshopView adds the remaining seat count to a workshop.
type workshopView struct {
	model.Workshop
	Remaining int `json:"remaining"`
}

func newWorkshopView(w model.Workshop) workshopView {
	return workshopView{Workshop: w, Remaining: w.Remaining()}
}

// ListExhibitions handles GET /catalog/exhibitions
func (h *Handler) ListExhibitions(w http.ResponseWriter, r *http.Request) {
	exhibitions := h.svc.Catalog.Exhibitions()
	if exhibitions == nil {
		exhibitions = []model.Exhibition{}
	}
	writeJSON(w, http.StatusOK, exhibitions)
}

// ListWorkshops handles GET /catalog/workshops
func (h *Handler) ListWorkshops(w http.ResponseWriter, r *http.Request) {
	workshops := h.svc.Catalog.Workshops()
	views := make([]workshopView, 0, len(workshops))
	for _, ws := range workshops {
		views = append(views, newWorkshopView(ws))
	}
	writeJSON(w, http.StatusOK, views)
}

// GetPricing handles GET /catalog/pricing
func (h *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Catalog.Pricing())
}

// AddExhibition handles POST /admin/exhibitions
func (h *Handler) AddExhibition(w http.ResponseWriter, r *http.Request) {
	var req model.CreateExhibitionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	e, err := h.svc.Catalog.AddExhibition(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// UpdateExhibition handles PUT /admin/exhibitions/{name}
func (h *Handler) UpdateExhibition(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateExhibitionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	name, err := pathParam(r, "name")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid exhibition name")
		return
	}

	e, err := h.svc.Catalog.UpdateExhibition(r.Context(), sessionFrom(r.Context()), name, req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// RemoveExhibition handles DELETE /admin/exhibitions/{name}
func (h *Handler) RemoveExhibition(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid exhibition name")
		return
	}
	if err := h.svc.Catalog.RemoveExhibition(r.Context(), sessionFrom(r.Context()), name); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddWorkshop handles POST /admin/workshops
func (h *Handler) AddWorkshop(w http.ResponseWriter, r *http.Request) {
	var req model.CreateWorkshopRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	ws, err := h.svc.Catalog.AddWorkshop(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newWorkshopView(ws))
}

// RemoveWorkshop handles DELETE /admin/workshops/{id}
func (h *Handler) RemoveWorkshop(w http.ResponseWriter, r *http.Request) {
	id, err := workshopID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "workshop id must be a number")
		return
	}
	if err := h.svc.Catalog.RemoveWorkshop(r.Context(), sessionFrom(r.Context()), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdatePricing handles PUT /admin/pricing
func (h *Handler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	var req model.PricingUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Catalog.UpdatePricing(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
