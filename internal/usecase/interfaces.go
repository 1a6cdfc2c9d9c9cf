package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type CustomerRepository interface {
	CreateCustomer(ctx context.Context, in entity.CustomerInput) (entity.Customer, error)
	FindCustomer(ctx context.Context, id string) (entity.Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch entity.CustomerPatch) (entity.Customer, error)
	// DeleteCustomer cascades to the customer's leads and returns their ids.
	DeleteCustomer(ctx context.Context, id string) ([]string, error)
	ListCustomers(ctx context.Context, q entity.CustomerQuery) (entity.Page[entity.Customer], error)
}

type LeadRepository interface {
	CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error)
	FindLead(ctx context.Context, id string) (entity.Lead, error)
	UpdateLead(ctx context.Context, id string, patch entity.LeadPatch) (entity.Lead, error)
	DeleteLead(ctx context.Context, id string) error
	ListLeads(ctx context.Context, q entity.LeadQuery) (entity.Page[entity.Lead], error)
	LeadsByCustomer(ctx context.Context, customerID string) ([]entity.Lead, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u entity.User) (entity.User, error)
	FindUserByEmail(ctx context.Context, email string) (entity.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.Event) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenService interface {
	Issue(u entity.User) (string, error)
	Revoke(token string) error
}
