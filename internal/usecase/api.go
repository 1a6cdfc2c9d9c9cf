package usecase

import (
	"context"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// CRM exposes the use cases with the same operation set as the REST transport, so
// the client state cache can run in-process against them.
type CRM struct {
	Customers *CustomerUseCase
	Leads     *LeadUseCase
	Auth      *AuthUseCase
}

func NewCRM(customers *CustomerUseCase, leads *LeadUseCase, auth *AuthUseCase) *CRM {
	return &CRM{Customers: customers, Leads: leads, Auth: auth}
}

func (c *CRM) ListCustomers(ctx context.Context, q entity.CustomerQuery) (entity.Page[entity.Customer], error) {
	return c.Customers.List(ctx, q)
}

func (c *CRM) GetCustomer(ctx context.Context, id string) (entity.Customer, error) {
	return c.Customers.Get(ctx, id)
}

func (c *CRM) CreateCustomer(ctx context.Context, in entity.CustomerInput) (entity.Customer, error) {
	return c.Customers.Create(ctx, in)
}

func (c *CRM) UpdateCustomer(ctx context.Context, id string, patch entity.CustomerPatch) (entity.Customer, error) {
	return c.Customers.Update(ctx, id, patch)
}

func (c *CRM) DeleteCustomer(ctx context.Context, id string) error {
	_, err := c.Customers.Delete(ctx, id)
	return err
}

func (c *CRM) ListLeads(ctx context.Context, q entity.LeadQuery) (entity.Page[entity.Lead], error) {
	return c.Leads.List(ctx, q)
}

func (c *CRM) GetLead(ctx context.Context, id string) (entity.Lead, error) {
	return c.Leads.Get(ctx, id)
}

func (c *CRM) LeadsByCustomer(ctx context.Context, customerID string) ([]entity.Lead, error) {
	return c.Leads.ByCustomer(ctx, customerID)
}

func (c *CRM) CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error) {
	return c.Leads.Create(ctx, in)
}

func (c *CRM) UpdateLead(ctx context.Context, id string, patch entity.LeadPatch) (entity.Lead, error) {
	return c.Leads.Update(ctx, id, patch)
}

func (c *CRM) DeleteLead(ctx context.Context, id string) error {
	return c.Leads.Delete(ctx, id)
}

func (c *CRM) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	return c.Auth.Login(ctx, in)
}

func (c *CRM) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	return c.Auth.Register(ctx, in)
}

func (c *CRM) Logout(ctx context.Context, token string) error {
	return c.Auth.Logout(ctx, token)
}
