package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

type LeadService interface {
	List(ctx context.Context, q entity.LeadQuery) (entity.Page[entity.Lead], error)
	Get(ctx context.Context, id string) (entity.Lead, error)
	ByCustomer(ctx context.Context, customerID string) ([]entity.Lead, error)
	Create(ctx context.Context, in entity.LeadInput) (entity.Lead, error)
	Update(ctx context.Context, id string, patch entity.LeadPatch) (entity.Lead, error)
	Delete(ctx context.Context, id string) error
}

type LeadHandler struct {
	Leads LeadService
	Log   logrus.FieldLogger
}

func NewLeadHandler(leads LeadService, log logrus.FieldLogger) *LeadHandler {
	return &LeadHandler{Leads: leads, Log: log}
}

// List handles GET /leads?page=&status=&customerId=
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	status, ok := entity.ParseLeadStatusFilter(r.URL.Query().Get("status"))
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_QUERY", "status must be All, New, Contacted, Converted or Lost")
		return
	}

	result, err := h.Leads.List(r.Context(), entity.LeadQuery{
		Page:       page,
		Status:     status,
		CustomerID: r.URL.Query().Get("customerId"),
	})
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.Leads.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input entity.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	l, err := h.Leads.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	middleware.RecordMutation("lead", "create")
	writeJSON(w, http.StatusCreated, l)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.LeadPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	l, err := h.Leads.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	middleware.RecordMutation("lead", "update")
	writeJSON(w, http.StatusOK, l)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Leads.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	middleware.RecordMutation("lead", "delete")
	w.WriteHeader(http.StatusNoContent)
}
