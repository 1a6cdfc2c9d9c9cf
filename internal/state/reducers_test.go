package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func customers(ids ...string) []entity.Customer {
	out := make([]entity.Customer, 0, len(ids))
	for _, id := range ids {
		out = append(out, entity.Customer{ID: id, Name: "Customer " + id})
	}
	return out
}

func TestCustomerReducers(t *testing.T) {
	s := InitialCustomerState()
	assert.Equal(t, 1, s.CurrentPage)
	assert.NotNil(t, s.Customers)
	assert.Equal(t, PhaseIdle, s.Phase)

	s.Error = "old"
	s.pending()
	assert.True(t, s.Loading)
	assert.Empty(t, s.Error)
	assert.Equal(t, PhasePending, s.Phase)

	s.listFulfilled(entity.Page[entity.Customer]{Data: customers("1", "2", "3"), TotalCount: 12, CurrentPage: 2})
	assert.False(t, s.Loading)
	assert.Equal(t, 12, s.TotalCount)
	assert.Equal(t, 1, s.CurrentPage, "fetch does not move the page")
	assert.Len(t, s.Customers, 3)

	s.createFulfilled(entity.Customer{ID: "13"})
	assert.Equal(t, "13", s.Customers[0].ID)
	assert.Equal(t, 13, s.TotalCount)

	cur := entity.Customer{ID: "2", Name: "Before"}
	s.CurrentCustomer = &cur
	s.updateFulfilled(entity.Customer{ID: "2", Name: "After"})
	assert.Equal(t, "After", s.Customers[2].Name, "position kept")
	assert.Equal(t, "After", s.CurrentCustomer.Name)

	s.updateFulfilled(entity.Customer{ID: "99", Name: "Unknown"})
	assert.Len(t, s.Customers, 4)

	s.deleteFulfilled("2")
	assert.Nil(t, s.CurrentCustomer)
	assert.Equal(t, 12, s.TotalCount)
	assert.Equal(t, []string{"13", "1", "3"}, []string{s.Customers[0].ID, s.Customers[1].ID, s.Customers[2].ID})

	before := s.clone()
	s.pending()
	s.rejected(errors.New("Customer not found"), msgFetchCustomer)
	assert.Equal(t, PhaseRejected, s.Phase)
	assert.Equal(t, "Customer not found", s.Error)
	assert.Equal(t, before.Customers, s.Customers)
	assert.Equal(t, before.TotalCount, s.TotalCount)

	s.rejected(errors.New(""), msgDeleteCustomer)
	assert.Equal(t, "Failed to delete customer", s.Error)
}

func TestLeadReducers(t *testing.T) {
	s := InitialLeadState()
	assert.Equal(t, entity.LeadStatusAll, s.StatusFilter)

	s.listFulfilled(entity.Page[entity.Lead]{Data: []entity.Lead{{ID: "1"}, {ID: "2"}}, TotalCount: 5})
	s.byCustomerFulfilled([]entity.Lead{{ID: "1"}})
	assert.Len(t, s.Leads, 1)
	assert.Equal(t, 5, s.TotalCount, "by-customer leaves the total alone")

	s.byCustomerFulfilled(nil)
	assert.NotNil(t, s.Leads)
	assert.Empty(t, s.Leads)

	s.fetchOneFulfilled(entity.Lead{ID: "7", Title: "Deal"})
	s.createFulfilled(entity.Lead{ID: "7", Title: "Deal"})
	s.updateFulfilled(entity.Lead{ID: "7", Title: "Bigger deal"})
	assert.Equal(t, "Bigger deal", s.CurrentLead.Title)
	assert.Equal(t, "Bigger deal", s.Leads[0].Title)

	s.deleteFulfilled("7")
	assert.Nil(t, s.CurrentLead)
	assert.Equal(t, 5, s.TotalCount)

	s.rejected(nil, msgFetchCustomerLeads)
	assert.Equal(t, "Failed to fetch customer leads", s.Error)
}

func TestCloneIsIndependent(t *testing.T) {
	s := InitialCustomerState()
	s.listFulfilled(entity.Page[entity.Customer]{Data: customers("1"), TotalCount: 1})
	cur := entity.Customer{ID: "1"}
	s.CurrentCustomer = &cur

	cp := s.clone()
	cp.Customers[0].Name = "changed"
	cp.CurrentCustomer.Name = "changed"

	assert.Equal(t, "Customer 1", s.Customers[0].Name)
	assert.Empty(t, s.CurrentCustomer.Name)
}

func TestSequence(t *testing.T) {
	var q sequence
	first, second := q.next(), q.next()
	assert.True(t, q.apply(second))
	assert.False(t, q.apply(first))
	third := q.next()
	assert.True(t, q.apply(third))
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "pending", PhasePending.String())
	assert.Equal(t, "fulfilled", PhaseFulfilled.String())
	assert.Equal(t, "rejected", PhaseRejected.String())
}
