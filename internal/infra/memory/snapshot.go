package memory

import (
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Snapshot is the full store state in insertion order. Sequences keep id
// assignment monotonic across a save and restore.
type Snapshot struct {
	Customers []entity.Customer `json:"customers"`
	Leads     []entity.Lead     `json:"leads"`
	Users     []UserRecord      `json:"users"`
	Sequences Sequences         `json:"sequences"`
}

type Sequences struct {
	Customer uint64 `json:"customer"`
	Lead     uint64 `json:"lead"`
	User     uint64 `json:"user"`
}

// UserRecord is entity.User with the password hash exposed for persistence.
type UserRecord struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         entity.Role `json:"role"`
	PasswordHash string      `json:"passwordHash"`
	CreatedAt    time.Time   `json:"createdAt"`
}

func userRecord(u entity.User) UserRecord {
	return UserRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (r UserRecord) user() entity.User {
	return entity.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]UserRecord, 0, s.users.count())
	for _, u := range s.users.list() {
		users = append(users, userRecord(u))
	}
	return Snapshot{
		Customers: s.customers.list(),
		Leads:     s.leads.list(),
		Users:     users,
		Sequences: Sequences{
			Customer: s.customers.next,
			Lead:     s.leads.next,
			User:     s.users.next,
		},
	}
}

// Restore replaces the whole store with snap.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.customers.reset()
	s.leads.reset()
	s.users.reset()

	for _, c := range snap.Customers {
		s.customers.set(c.ID, c)
		s.customers.observeID(c.ID)
	}
	for _, l := range snap.Leads {
		s.leads.set(l.ID, l)
		s.leads.observeID(l.ID)
	}
	for _, r := range snap.Users {
		s.users.set(r.ID, r.user())
		s.users.observeID(r.ID)
	}

	if snap.Sequences.Customer > s.customers.next {
		s.customers.next = snap.Sequences.Customer
	}
	if snap.Sequences.Lead > s.leads.next {
		s.leads.next = snap.Sequences.Lead
	}
	if snap.Sequences.User > s.users.next {
		s.users.next = snap.Sequences.User
	}
}
