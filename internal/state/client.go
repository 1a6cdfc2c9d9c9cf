package state

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

const (
	DefaultSearchDebounce = 500 * time.Millisecond
	DefaultFilterDelay    = 100 * time.Millisecond
)

type Option func(*Client)

// WithStaleResponseGuard drops list responses that resolve after a response to
// a later request of the same kind was already applied. Without it the last
// response to arrive wins.
func WithStaleResponseGuard() Option {
	return func(c *Client) { c.guard = true }
}

func WithSearchDebounce(d time.Duration) Option {
	return func(c *Client) { c.searchDebounce = d }
}

func WithFilterDelay(d time.Duration) Option {
	return func(c *Client) { c.filterDelay = d }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// sequence orders list requests so late responses can be recognised.
type sequence struct {
	issued  uint64
	applied uint64
}

func (s *sequence) next() uint64 {
	s.issued++
	return s.issued
}

// apply reports whether the response to request n may still be applied.
func (s *sequence) apply(n uint64) bool {
	if n < s.applied {
		return false
	}
	s.applied = n
	return true
}

// Client holds the session, customer and lead state and runs operations
// against an API. It is safe for concurrent use.
type Client struct {
	api API
	log logrus.FieldLogger

	guard          bool
	searchDebounce time.Duration
	filterDelay    time.Duration

	mu        sync.Mutex
	session   SessionState
	customers CustomerState
	leads     LeadState
	customerQ sequence
	leadQ     sequence

	// generation changes on every reset; calls issued before it never settle.
	generation uint64
}

func NewClient(api API, opts ...Option) *Client {
	discard := logrus.New()
	discard.Out = io.Discard

	c := &Client{
		api:            api,
		log:            discard,
		searchDebounce: DefaultSearchDebounce,
		filterDelay:    DefaultFilterDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.reset()
	return c
}

func (c *Client) reset() {
	c.generation++
	c.session = SessionState{}
	c.customers = InitialCustomerState()
	c.leads = InitialLeadState()
	c.customerQ = sequence{}
	c.leadQ = sequence{}
}

func (c *Client) Session() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.clone()
}

func (c *Client) Customers() CustomerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.customers.clone()
}

func (c *Client) Leads() LeadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leads.clone()
}

// perform runs pending and settle under the lock and call outside it, so other
// operations may be issued while call is in flight. A call that outlives a
// logout is reported as stale and leaves the fresh state alone.
func perform[T any](ctx context.Context, c *Client, pending func(), call func(context.Context) (T, error), settle func(T, error) bool) Result[T] {
	c.mu.Lock()
	pending()
	gen := c.generation
	c.mu.Unlock()

	v, err := call(ctx)

	c.mu.Lock()
	applied := false
	if c.generation == gen {
		applied = settle(v, err)
	}
	c.mu.Unlock()

	return Result[T]{Value: v, Err: err, Stale: !applied}
}

// Session

func (c *Client) Login(ctx context.Context, email, password string) Result[usecase.AuthResult] {
	return perform(ctx, c, c.session.pending,
		func(ctx context.Context) (usecase.AuthResult, error) {
			return c.api.Login(ctx, usecase.LoginInput{Email: email, Password: password})
		},
		func(res usecase.AuthResult, err error) bool {
			if err != nil {
				c.session.rejected(err, msgLogin)
				return true
			}
			c.session.fulfilled(res.User, res.Token)
			return true
		})
}

func (c *Client) Register(ctx context.Context, name, email, password string) Result[usecase.AuthResult] {
	return perform(ctx, c, c.session.pending,
		func(ctx context.Context) (usecase.AuthResult, error) {
			return c.api.Register(ctx, usecase.RegisterInput{Name: name, Email: email, Password: password})
		},
		func(res usecase.AuthResult, err error) bool {
			if err != nil {
				c.session.rejected(err, msgRegister)
				return true
			}
			c.session.fulfilled(res.User, res.Token)
			return true
		})
}

// Logout tells the server to revoke the token and then resets every entity
// state to its initial value. A failed server call does not keep the session alive.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	token := c.session.Token
	c.mu.Unlock()

	var err error
	if token != "" {
		if err = c.api.Logout(ctx, token); err != nil {
			c.log.WithError(err).Warn("logout request failed, clearing session anyway")
		}
	}

	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
	return err
}

func (c *Client) ClearSessionError() {
	c.mu.Lock()
	c.session.Error = ""
	c.mu.Unlock()
}

// Customers

func (c *Client) FetchCustomers(ctx context.Context, q entity.CustomerQuery) Result[entity.Page[entity.Customer]] {
	var n uint64
	return perform(ctx, c,
		func() {
			n = c.customerQ.next()
			c.customers.pending()
		},
		func(ctx context.Context) (entity.Page[entity.Customer], error) {
			return c.api.ListCustomers(ctx, q)
		},
		func(page entity.Page[entity.Customer], err error) bool {
			if c.guard && !c.customerQ.apply(n) {
				c.log.WithField("request", n).Debug("discarding stale customer list")
				return false
			}
			if err != nil {
				c.customers.rejected(err, msgFetchCustomers)
				return true
			}
			c.customers.listFulfilled(page)
			return true
		})
}

func (c *Client) FetchCustomer(ctx context.Context, id string) Result[entity.Customer] {
	return perform(ctx, c, c.customers.pending,
		func(ctx context.Context) (entity.Customer, error) { return c.api.GetCustomer(ctx, id) },
		func(cu entity.Customer, err error) bool {
			if err != nil {
				c.customers.rejected(err, msgFetchCustomer)
				return true
			}
			c.customers.fetchOneFulfilled(cu)
			return true
		})
}

func (c *Client) CreateCustomer(ctx context.Context, in entity.CustomerInput) Result[entity.Customer] {
	return perform(ctx, c, c.customers.pending,
		func(ctx context.Context) (entity.Customer, error) { return c.api.CreateCustomer(ctx, in) },
		func(cu entity.Customer, err error) bool {
			if err != nil {
				c.customers.rejected(err, msgCreateCustomer)
				return true
			}
			c.customers.createFulfilled(cu)
			return true
		})
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, patch entity.CustomerPatch) Result[entity.Customer] {
	return perform(ctx, c, c.customers.pending,
		func(ctx context.Context) (entity.Customer, error) { return c.api.UpdateCustomer(ctx, id, patch) },
		func(cu entity.Customer, err error) bool {
			if err != nil {
				c.customers.rejected(err, msgUpdateCustomer)
				return true
			}
			c.customers.updateFulfilled(cu)
			return true
		})
}

// DeleteCustomer resolves to the deleted id. Leads removed by the cascade stay
// in the lead cache until the next lead fetch.
func (c *Client) DeleteCustomer(ctx context.Context, id string) Result[string] {
	return perform(ctx, c, c.customers.pending,
		func(ctx context.Context) (string, error) { return id, c.api.DeleteCustomer(ctx, id) },
		func(id string, err error) bool {
			if err != nil {
				c.customers.rejected(err, msgDeleteCustomer)
				return true
			}
			c.customers.deleteFulfilled(id)
			return true
		})
}

func (c *Client) SetSearchQuery(q string) {
	c.mu.Lock()
	c.customers.SearchQuery = q
	c.mu.Unlock()
}

func (c *Client) SetCustomerPage(page int) {
	c.mu.Lock()
	c.customers.CurrentPage = page
	c.mu.Unlock()
}

func (c *Client) ClearCustomerError() {
	c.mu.Lock()
	c.customers.Error = ""
	c.mu.Unlock()
}

func (c *Client) ClearCurrentCustomer() {
	c.mu.Lock()
	c.customers.CurrentCustomer = nil
	c.mu.Unlock()
}

// Leads

func (c *Client) FetchLeads(ctx context.Context, q entity.LeadQuery) Result[entity.Page[entity.Lead]] {
	var n uint64
	return perform(ctx, c,
		func() {
			n = c.leadQ.next()
			c.leads.pending()
		},
		func(ctx context.Context) (entity.Page[entity.Lead], error) {
			return c.api.ListLeads(ctx, q)
		},
		func(page entity.Page[entity.Lead], err error) bool {
			if c.guard && !c.leadQ.apply(n) {
				c.log.WithField("request", n).Debug("discarding stale lead list")
				return false
			}
			if err != nil {
				c.leads.rejected(err, msgFetchLeads)
				return true
			}
			c.leads.listFulfilled(page)
			return true
		})
}

func (c *Client) FetchLeadsByCustomer(ctx context.Context, customerID string) Result[[]entity.Lead] {
	var n uint64
	return perform(ctx, c,
		func() {
			n = c.leadQ.next()
			c.leads.pending()
		},
		func(ctx context.Context) ([]entity.Lead, error) {
			return c.api.LeadsByCustomer(ctx, customerID)
		},
		func(leads []entity.Lead, err error) bool {
			if c.guard && !c.leadQ.apply(n) {
				return false
			}
			if err != nil {
				c.leads.rejected(err, msgFetchCustomerLeads)
				return true
			}
			c.leads.byCustomerFulfilled(leads)
			return true
		})
}

func (c *Client) FetchLead(ctx context.Context, id string) Result[entity.Lead] {
	return perform(ctx, c, c.leads.pending,
		func(ctx context.Context) (entity.Lead, error) { return c.api.GetLead(ctx, id) },
		func(l entity.Lead, err error) bool {
			if err != nil {
				c.leads.rejected(err, msgFetchLead)
				return true
			}
			c.leads.fetchOneFulfilled(l)
			return true
		})
}

func (c *Client) CreateLead(ctx context.Context, in entity.LeadInput) Result[entity.Lead] {
	return perform(ctx, c, c.leads.pending,
		func(ctx context.Context) (entity.Lead, error) { return c.api.CreateLead(ctx, in) },
		func(l entity.Lead, err error) bool {
			if err != nil {
				c.leads.rejected(err, msgCreateLead)
				return true
			}
			c.leads.createFulfilled(l)
			return true
		})
}

func (c *Client) UpdateLead(ctx context.Context, id string, patch entity.LeadPatch) Result[entity.Lead] {
	return perform(ctx, c, c.leads.pending,
		func(ctx context.Context) (entity.Lead, error) { return c.api.UpdateLead(ctx, id, patch) },
		func(l entity.Lead, err error) bool {
			if err != nil {
				c.leads.rejected(err, msgUpdateLead)
				return true
			}
			c.leads.updateFulfilled(l)
			return true
		})
}

func (c *Client) DeleteLead(ctx context.Context, id string) Result[string] {
	return perform(ctx, c, c.leads.pending,
		func(ctx context.Context) (string, error) { return id, c.api.DeleteLead(ctx, id) },
		func(id string, err error) bool {
			if err != nil {
				c.leads.rejected(err, msgDeleteLead)
				return true
			}
			c.leads.deleteFulfilled(id)
			return true
		})
}

func (c *Client) SetStatusFilter(status entity.LeadStatus) {
	c.mu.Lock()
	c.leads.StatusFilter = status
	c.mu.Unlock()
}

func (c *Client) SetLeadPage(page int) {
	c.mu.Lock()
	c.leads.CurrentPage = page
	c.mu.Unlock()
}

func (c *Client) ClearLeadError() {
	c.mu.Lock()
	c.leads.Error = ""
	c.mu.Unlock()
}

func (c *Client) ClearCurrentLead() {
	c.mu.Lock()
	c.leads.CurrentLead = nil
	c.mu.Unlock()
}
