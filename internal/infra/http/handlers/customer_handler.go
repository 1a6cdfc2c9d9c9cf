package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
)

type CustomerService interface {
	List(ctx context.Context, q entity.CustomerQuery) (entity.Page[entity.Customer], error)
	Get(ctx context.Context, id string) (entity.Customer, error)
	Create(ctx context.Context, in entity.CustomerInput) (entity.Customer, error)
	Update(ctx context.Context, id string, patch entity.CustomerPatch) (entity.Customer, error)
	Delete(ctx context.Context, id string) ([]string, error)
}

type CustomerHandler struct {
	Customers CustomerService
	Leads     LeadService
	Log       logrus.FieldLogger
}

func NewCustomerHandler(customers CustomerService, leads LeadService, log logrus.FieldLogger) *CustomerHandler {
	return &CustomerHandler{Customers: customers, Leads: leads, Log: log}
}

// List handles GET /customers?page=&search=
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	result, err := h.Customers.List(r.Context(), entity.CustomerQuery{
		Page:   page,
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Customers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input entity.CustomerInput
	if !decodeJSON(w, r, &input) {
		return
	}

	c, err := h.Customers.Create(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	middleware.RecordMutation("customer", "create")
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.CustomerPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	c, err := h.Customers.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	middleware.RecordMutation("customer", "update")
	writeJSON(w, http.StatusOK, c)
}

// Delete removes the customer together with its leads.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	leadIDs, err := h.Customers.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	middleware.RecordMutation("customer", "delete")
	middleware.RecordCascade(len(leadIDs))
	w.WriteHeader(http.StatusNoContent)
}

// CustomerLeads handles GET /customers/{id}/leads, unpaginated.
func (h *CustomerHandler) CustomerLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.ByCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// parsePage reads ?page=. Absent means the first page.
func parsePage(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_QUERY", "page must be a number")
		return 0, false
	}
	return entity.NormalizePage(page), true
}
