package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) CreateCustomer(ctx context.Context, in entity.CustomerInput) (entity.Customer, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindCustomer(ctx context.Context, id string) (entity.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) UpdateCustomer(ctx context.Context, id string, patch entity.CustomerPatch) (entity.Customer, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(entity.Customer), args.Error(1)
}

func (m *MockCustomerRepository) DeleteCustomer(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCustomerRepository) ListCustomers(ctx context.Context, q entity.CustomerQuery) (entity.Page[entity.Customer], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(entity.Page[entity.Customer]), args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindLead(ctx context.Context, id string) (entity.Lead, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateLead(ctx context.Context, id string, patch entity.LeadPatch) (entity.Lead, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) DeleteLead(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) ListLeads(ctx context.Context, q entity.LeadQuery) (entity.Page[entity.Lead], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(entity.Page[entity.Lead]), args.Error(1)
}

func (m *MockLeadRepository) LeadsByCustomer(ctx context.Context, customerID string) ([]entity.Lead, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, u entity.User) (entity.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(entity.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (entity.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entity.User), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event entity.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(u entity.User) (string, error) {
	args := m.Called(u)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Revoke(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e entity.Event) bool { return e.Type == eventType })
}
