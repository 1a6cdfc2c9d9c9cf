package entity

import (
	"time"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "New"
	LeadStatusContacted LeadStatus = "Contacted"
	LeadStatusConverted LeadStatus = "Converted"
	LeadStatusLost      LeadStatus = "Lost"

	// LeadStatusAll is only meaningful as a filter value; it disables status filtering.
	LeadStatusAll LeadStatus = "All"
)

// LeadStatuses lists the assignable statuses in pipeline order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusConverted,
	LeadStatusLost,
}

// Valid reports whether s is an assignable lead status ("All" is not).
func (s LeadStatus) Valid() bool {
	for _, st := range LeadStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ParseLeadStatusFilter accepts the four statuses, "All" and the empty string.
func ParseLeadStatusFilter(raw string) (LeadStatus, bool) {
	s := LeadStatus(raw)
	if s == "" || s == LeadStatusAll || s.Valid() {
		return s, true
	}
	return "", false
}

type Lead struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      LeadStatus `json:"status"`
	Value       float64    `json:"value"`
	CustomerID  string     `json:"customerId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type LeadInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      LeadStatus `json:"status"`
	Value       float64    `json:"value"`
	CustomerID  string     `json:"customerId"`
}

type LeadPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *LeadStatus `json:"status,omitempty"`
	Value       *float64    `json:"value,omitempty"`
	CustomerID  *string     `json:"customerId,omitempty"`
}

// NewLead builds a lead from input. An empty status defaults to New.
func NewLead(id string, in LeadInput, now time.Time) Lead {
	status := in.Status
	if status == "" {
		status = LeadStatusNew
	}
	return Lead{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Value:       in.Value,
		CustomerID:  in.CustomerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (p LeadPatch) Apply(l *Lead, now time.Time) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Value != nil {
		l.Value = *p.Value
	}
	if p.CustomerID != nil {
		l.CustomerID = *p.CustomerID
	}
	l.UpdatedAt = laterOf(l.UpdatedAt, now)
}

func (p LeadPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Value == nil && p.CustomerID == nil
}
