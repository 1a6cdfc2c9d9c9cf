package state

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// SearchCustomers stores the query, resets to page 1 and fetches after the
// search debounce. An earlier search that is still waiting is not cancelled.
func (c *Client) SearchCustomers(ctx context.Context, query string) Result[entity.Page[entity.Customer]] {
	c.mu.Lock()
	c.customers.SearchQuery = query
	c.customers.CurrentPage = 1
	c.mu.Unlock()

	if err := wait(ctx, c.searchDebounce); err != nil {
		return Result[entity.Page[entity.Customer]]{Err: err}
	}
	return c.FetchCustomers(ctx, entity.CustomerQuery{Page: 1, Search: query})
}

// RefreshCustomers refetches the current page with the current search.
func (c *Client) RefreshCustomers(ctx context.Context) Result[entity.Page[entity.Customer]] {
	c.mu.Lock()
	q := entity.CustomerQuery{Page: c.customers.CurrentPage, Search: c.customers.SearchQuery}
	c.mu.Unlock()
	return c.FetchCustomers(ctx, q)
}

// LoadMoreCustomers advances to the next page when more customers exist and no
// operation is in flight. ok is false when nothing was fetched.
func (c *Client) LoadMoreCustomers(ctx context.Context) (res Result[entity.Page[entity.Customer]], ok bool) {
	c.mu.Lock()
	if len(c.customers.Customers) >= c.customers.TotalCount || c.customers.Loading {
		c.mu.Unlock()
		return res, false
	}
	c.customers.CurrentPage++
	q := entity.CustomerQuery{Page: c.customers.CurrentPage, Search: c.customers.SearchQuery}
	c.mu.Unlock()

	return c.FetchCustomers(ctx, q), true
}

// FilterLeads sets the status filter, resets to page 1 and fetches after a
// short delay. customerID scopes the list to one customer when set.
func (c *Client) FilterLeads(ctx context.Context, status entity.LeadStatus, customerID string) Result[entity.Page[entity.Lead]] {
	c.mu.Lock()
	c.leads.StatusFilter = status
	c.leads.CurrentPage = 1
	c.mu.Unlock()

	if err := wait(ctx, c.filterDelay); err != nil {
		return Result[entity.Page[entity.Lead]]{Err: err}
	}
	return c.FetchLeads(ctx, entity.LeadQuery{Page: 1, Status: status, CustomerID: customerID})
}

func (c *Client) RefreshLeads(ctx context.Context, customerID string) Result[entity.Page[entity.Lead]] {
	c.mu.Lock()
	q := entity.LeadQuery{Page: c.leads.CurrentPage, Status: c.leads.StatusFilter, CustomerID: customerID}
	c.mu.Unlock()
	return c.FetchLeads(ctx, q)
}

func (c *Client) LoadMoreLeads(ctx context.Context, customerID string) (res Result[entity.Page[entity.Lead]], ok bool) {
	c.mu.Lock()
	if len(c.leads.Leads) >= c.leads.TotalCount || c.leads.Loading {
		c.mu.Unlock()
		return res, false
	}
	c.leads.CurrentPage++
	q := entity.LeadQuery{Page: c.leads.CurrentPage, Status: c.leads.StatusFilter, CustomerID: customerID}
	c.mu.Unlock()

	return c.FetchLeads(ctx, q), true
}

// LoadDashboard fetches the first page of customers and of leads concurrently.
// Both requests run to completion; the first failure is returned.
func (c *Client) LoadDashboard(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		return c.FetchCustomers(ctx, entity.CustomerQuery{Page: 1}).Err
	})
	g.Go(func() error {
		return c.FetchLeads(ctx, entity.LeadQuery{Page: 1}).Err
	})
	return g.Wait()
}

// LoadCustomerDetails fetches a customer and all of its leads concurrently.
func (c *Client) LoadCustomerDetails(ctx context.Context, customerID string) error {
	var g errgroup.Group
	g.Go(func() error {
		return c.FetchCustomer(ctx, customerID).Err
	})
	g.Go(func() error {
		return c.FetchLeadsByCustomer(ctx, customerID).Err
	})
	return g.Wait()
}

// DashboardStats summarises the held collections. Counts cover only what is
// currently cached, not the whole store.
type DashboardStats struct {
	Customers  int
	Leads      int
	New        int
	Contacted  int
	Converted  int
	Lost       int
	TotalValue float64
}

func (c *Client) DashboardStats() DashboardStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := DashboardStats{
		Customers: len(c.customers.Customers),
		Leads:     len(c.leads.Leads),
	}
	for _, l := range c.leads.Leads {
		switch l.Status {
		case entity.LeadStatusNew:
			stats.New++
		case entity.LeadStatusContacted:
			stats.Contacted++
		case entity.LeadStatusConverted:
			stats.Converted++
		case entity.LeadStatusLost:
			stats.Lost++
		}
		stats.TotalValue += l.Value
	}
	return stats
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
