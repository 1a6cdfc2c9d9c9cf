// Package memory is the default Record Store: customers, leads and users held in
// process memory, guarded by a single lock so every operation sees a consistent view.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type Store struct {
	mu        sync.RWMutex
	customers *collection[entity.Customer]
	leads     *collection[entity.Lead]
	users     *collection[entity.User]
	now       func() time.Time
}

type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns an empty store. Use Seed to load the demo data.
func NewStore(opts ...Option) *Store {
	s := &Store{
		customers: newCollection[entity.Customer](),
		leads:     newCollection[entity.Lead](),
		users:     newCollection[entity.User](),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) CreateCustomer(_ context.Context, in entity.CustomerInput) (entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := entity.NewCustomer(s.customers.nextID(), in, s.now())
	s.customers.set(c.ID, c)
	return c, nil
}

func (s *Store) FindCustomer(_ context.Context, id string) (entity.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers.get(id)
	if !ok {
		return entity.Customer{}, entity.ErrCustomerNotFound
	}
	return c, nil
}

func (s *Store) UpdateCustomer(_ context.Context, id string, patch entity.CustomerPatch) (entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers.get(id)
	if !ok {
		return entity.Customer{}, entity.ErrCustomerNotFound
	}
	patch.Apply(&c, s.now())
	s.customers.set(id, c)
	return c, nil
}

// DeleteCustomer removes the customer and every lead that references it, returning
// the ids of the removed leads. Nothing changes when the customer does not exist.
func (s *Store) DeleteCustomer(_ context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.customers.remove(id) {
		return nil, entity.ErrCustomerNotFound
	}

	owned := s.leads.filter(func(l entity.Lead) bool { return l.CustomerID == id })
	removed := make([]string, 0, len(owned))
	for _, l := range owned {
		s.leads.remove(l.ID)
		removed = append(removed, l.ID)
	}
	return removed, nil
}

func (s *Store) ListCustomers(_ context.Context, q entity.CustomerQuery) (entity.Page[entity.Customer], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return entity.Paginate(s.customers.filter(q.Matches), q.Page), nil
}

func (s *Store) CreateLead(_ context.Context, in entity.LeadInput) (entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := entity.NewLead(s.leads.nextID(), in, s.now())
	s.leads.set(l.ID, l)
	return l, nil
}

func (s *Store) FindLead(_ context.Context, id string) (entity.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.leads.get(id)
	if !ok {
		return entity.Lead{}, entity.ErrLeadNotFound
	}
	return l, nil
}

func (s *Store) UpdateLead(_ context.Context, id string, patch entity.LeadPatch) (entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leads.get(id)
	if !ok {
		return entity.Lead{}, entity.ErrLeadNotFound
	}
	patch.Apply(&l, s.now())
	s.leads.set(id, l)
	return l, nil
}

func (s *Store) DeleteLead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.leads.remove(id) {
		return entity.ErrLeadNotFound
	}
	return nil
}

func (s *Store) ListLeads(_ context.Context, q entity.LeadQuery) (entity.Page[entity.Lead], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return entity.Paginate(s.leads.filter(q.Matches), q.Page), nil
}

// LeadsByCustomer is unpaginated.
func (s *Store) LeadsByCustomer(_ context.Context, customerID string) ([]entity.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.leads.filter(func(l entity.Lead) bool { return l.CustomerID == customerID }), nil
}

// CreateUser assigns id and creation time. Emails are unique ignoring case.
func (s *Store) CreateUser(_ context.Context, u entity.User) (entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findUserByEmail(u.Email); ok {
		return entity.User{}, entity.ErrEmailAlreadyExists
	}
	u.ID = s.users.nextID()
	u.CreatedAt = s.now()
	s.users.set(u.ID, u)
	return u, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.findUserByEmail(email)
	if !ok {
		return entity.User{}, entity.ErrUserNotFound
	}
	return u, nil
}

func (s *Store) findUserByEmail(email string) (entity.User, bool) {
	email = strings.TrimSpace(email)
	for _, u := range s.users.list() {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return entity.User{}, false
}

func (s *Store) RecordCounts(_ context.Context) (map[string]int, error) {
	return s.Counts(), nil
}

// Counts reports collection sizes, used by the health endpoint.
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]int{
		"customers": s.customers.count(),
		"leads":     s.leads.count(),
		"users":     s.users.count(),
	}
}
