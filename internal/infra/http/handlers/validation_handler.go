package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type UserLookup interface {
	FindUserByEmail(ctx context.Context, email string) (entity.User, error)
}

// ValidationHandler checks form input without storing anything, so clients can
// show field errors before submitting.
type ValidationHandler struct {
	Users UserLookup
	Log   logrus.FieldLogger
}

func NewValidationHandler(users UserLookup, log logrus.FieldLogger) *ValidationHandler {
	return &ValidationHandler{Users: users, Log: log}
}

func (h *ValidationHandler) Customer(w http.ResponseWriter, r *http.Request) {
	var in entity.CustomerInput
	if !decodeJSON(w, r, &in) {
		return
	}
	h.respond(w, usecase.ValidationFailure(usecase.ValidateCustomerInput(in)))
}

func (h *ValidationHandler) Lead(w http.ResponseWriter, r *http.Request) {
	var in entity.LeadInput
	if !decodeJSON(w, r, &in) {
		return
	}
	h.respond(w, usecase.ValidationFailure(usecase.ValidateLeadInput(in)))
}

// Email reports whether an address is still free for registration.
func (h *ValidationHandler) Email(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "email is required")
		return
	}

	_, err := h.Users.FindUserByEmail(r.Context(), email)
	switch {
	case err == nil:
		writeErrorResponse(w, http.StatusConflict, usecase.CodeDuplicateEmail, entity.ErrEmailAlreadyExists.Error())
	case errors.Is(err, entity.ErrUserNotFound):
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	default:
		h.Log.WithError(err).Error("email lookup failed")
		writeErrorResponse(w, http.StatusInternalServerError, usecase.CodeStore, "Internal server error")
	}
}

func (h *ValidationHandler) respond(w http.ResponseWriter, err error) {
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
