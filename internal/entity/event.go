package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventCustomerCreated = "customer.created"
	EventCustomerUpdated = "customer.updated"
	EventCustomerDeleted = "customer.deleted"
	EventLeadCreated     = "lead.created"
	EventLeadUpdated     = "lead.updated"
	EventLeadDeleted     = "lead.deleted"
	EventUserRegistered  = "user.registered"
)

// Event is the envelope published for every successful mutation.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// CustomerDeletedPayload lists the leads removed by the cascade.
type CustomerDeletedPayload struct {
	CustomerID string   `json:"customerId"`
	LeadIDs    []string `json:"leadIds"`
}

type LeadDeletedPayload struct {
	LeadID string `json:"leadId"`
}

// NewEvent marshals payload into a fresh envelope.
func NewEvent(eventType string, payload any, now time.Time) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: now,
		Payload:    body,
	}, nil
}

type UserRegisteredPayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}
