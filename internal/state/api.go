package state

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type CustomerAPI interface {
	ListCustomers(ctx context.Context, q entity.CustomerQuery) (entity.Page[entity.Customer], error)
	GetCustomer(ctx context.Context, id string) (entity.Customer, error)
	CreateCustomer(ctx context.Context, in entity.CustomerInput) (entity.Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch entity.CustomerPatch) (entity.Customer, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type LeadAPI interface {
	ListLeads(ctx context.Context, q entity.LeadQuery) (entity.Page[entity.Lead], error)
	GetLead(ctx context.Context, id string) (entity.Lead, error)
	LeadsByCustomer(ctx context.Context, customerID string) ([]entity.Lead, error)
	CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error)
	UpdateLead(ctx context.Context, id string, patch entity.LeadPatch) (entity.Lead, error)
	DeleteLead(ctx context.Context, id string) error
}

type AuthAPI interface {
	Login(ctx context.Context, in usecase.LoginInput) (usecase.AuthResult, error)
	Register(ctx context.Context, in usecase.RegisterInput) (usecase.AuthResult, error)
	Logout(ctx context.Context, token string) error
}

// API is implemented by the HTTP transport (crmapi.Client) and in-process by usecase.CRM.
type API interface {
	CustomerAPI
	LeadAPI
	AuthAPI
}
