package state

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListCustomers(ctx context.Context, q entity.CustomerQuery) (entity.Page[entity.Customer], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(entity.Page[entity.Customer]), args.Error(1)
}

func (m *MockAPI) GetCustomer(ctx context.Context, id string) (entity.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Customer), args.Error(1)
}

func (m *MockAPI) CreateCustomer(ctx context.Context, in entity.CustomerInput) (entity.Customer, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Customer), args.Error(1)
}

func (m *MockAPI) UpdateCustomer(ctx context.Context, id string, patch entity.CustomerPatch) (entity.Customer, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(entity.Customer), args.Error(1)
}

func (m *MockAPI) DeleteCustomer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) ListLeads(ctx context.Context, q entity.LeadQuery) (entity.Page[entity.Lead], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(entity.Page[entity.Lead]), args.Error(1)
}

func (m *MockAPI) GetLead(ctx context.Context, id string) (entity.Lead, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockAPI) LeadsByCustomer(ctx context.Context, customerID string) ([]entity.Lead, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockAPI) CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockAPI) UpdateLead(ctx context.Context, id string, patch entity.LeadPatch) (entity.Lead, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockAPI) DeleteLead(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAPI) Login(ctx context.Context, in usecase.LoginInput) (usecase.AuthResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(usecase.AuthResult), args.Error(1)
}

func (m *MockAPI) Register(ctx context.Context, in usecase.RegisterInput) (usecase.AuthResult, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(usecase.AuthResult), args.Error(1)
}

func (m *MockAPI) Logout(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}
