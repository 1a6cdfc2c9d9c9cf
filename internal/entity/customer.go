package entity

import (
	"time"
)

// Customer is the authoritative customer record held by the record store.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomerInput carries the fields a caller supplies on create (everything but id and timestamps).
type CustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company,omitempty"`
}

// CustomerPatch is a partial update. Nil fields are left untouched.
type CustomerPatch struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
}

// NewCustomer builds a customer from input with both timestamps set to now.
func NewCustomer(id string, in CustomerInput, now time.Time) Customer {
	return Customer{
		ID:        id,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply merges the patch over c and advances UpdatedAt. UpdatedAt never moves backwards.
func (p CustomerPatch) Apply(c *Customer, now time.Time) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	c.UpdatedAt = laterOf(c.UpdatedAt, now)
}

// IsEmpty reports whether the patch changes nothing.
func (p CustomerPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Company == nil
}

func laterOf(prev, now time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}
