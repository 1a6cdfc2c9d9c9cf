package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type AuthService interface {
	Login(ctx context.Context, in usecase.LoginInput) (usecase.AuthResult, error)
	Register(ctx context.Context, in usecase.RegisterInput) (usecase.AuthResult, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	Auth        AuthService
	Log         logrus.FieldLogger
	rateLimiter *RateLimiter
}

// NewAuthHandler applies limiter per client IP to login and register; nil disables it.
func NewAuthHandler(auth AuthService, limiter *RateLimiter, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		Auth:        auth,
		Log:         log,
		rateLimiter: limiter,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		middleware.RecordLogin("rate_limited")
		return
	}

	var input usecase.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	res, err := h.Auth.Login(r.Context(), input)
	if err != nil {
		middleware.RecordLogin("failure")
		writeUseCaseError(w, h.Log, err)
		return
	}
	middleware.RecordLogin("success")
	writeJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	var input usecase.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	res, err := h.Auth.Register(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// Logout revokes the presented token. A missing token is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	raw, ok := middleware.BearerToken(r)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.Auth.Logout(r.Context(), raw); err != nil {
		h.Log.WithError(err).Debug("logout with unusable token")
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.rateLimiter == nil || h.rateLimiter.Allow(getClientIP(r)) {
		return true
	}
	writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
	return false
}
