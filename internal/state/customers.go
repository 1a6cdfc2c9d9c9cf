package state

import (
	"slices"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	msgFetchCustomers = "Failed to fetch customers"
	msgCreateCustomer = "Failed to create customer"
	msgUpdateCustomer = "Failed to update customer"
	msgDeleteCustomer = "Failed to delete customer"
	msgFetchCustomer  = "Failed to fetch customer"
)

// CustomerState is the client's view of customers. Error is empty when there is none.
type CustomerState struct {
	Customers       []entity.Customer
	CurrentCustomer *entity.Customer
	Phase           Phase
	Loading         bool
	Error           string
	TotalCount      int
	CurrentPage     int
	SearchQuery     string
}

func InitialCustomerState() CustomerState {
	return CustomerState{
		Customers:   []entity.Customer{},
		CurrentPage: 1,
	}
}

func (s *CustomerState) pending() {
	s.Phase = PhasePending
	s.Loading = true
	s.Error = ""
}

func (s *CustomerState) fulfilled() {
	s.Phase = PhaseFulfilled
	s.Loading = false
	s.Error = ""
}

func (s *CustomerState) rejected(err error, fallback string) {
	s.Phase = PhaseRejected
	s.Loading = false
	s.Error = errorMessage(err, fallback)
}

func (s *CustomerState) listFulfilled(page entity.Page[entity.Customer]) {
	s.fulfilled()
	s.Customers = slices.Clone(page.Data)
	if s.Customers == nil {
		s.Customers = []entity.Customer{}
	}
	s.TotalCount = page.TotalCount
}

func (s *CustomerState) createFulfilled(c entity.Customer) {
	s.fulfilled()
	s.Customers = slices.Insert(s.Customers, 0, c)
	s.TotalCount++
}

func (s *CustomerState) updateFulfilled(c entity.Customer) {
	s.fulfilled()
	if i := slices.IndexFunc(s.Customers, func(x entity.Customer) bool { return x.ID == c.ID }); i >= 0 {
		s.Customers[i] = c
	}
	if s.CurrentCustomer != nil && s.CurrentCustomer.ID == c.ID {
		s.CurrentCustomer = &c
	}
}

func (s *CustomerState) deleteFulfilled(id string) {
	s.fulfilled()
	s.Customers = slices.DeleteFunc(s.Customers, func(x entity.Customer) bool { return x.ID == id })
	s.TotalCount--
	if s.CurrentCustomer != nil && s.CurrentCustomer.ID == id {
		s.CurrentCustomer = nil
	}
}

func (s *CustomerState) fetchOneFulfilled(c entity.Customer) {
	s.fulfilled()
	s.CurrentCustomer = &c
}

func (s CustomerState) clone() CustomerState {
	s.Customers = slices.Clone(s.Customers)
	if s.CurrentCustomer != nil {
		c := *s.CurrentCustomer
		s.CurrentCustomer = &c
	}
	return s
}
