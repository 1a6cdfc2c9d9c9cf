package state

import "github.com/xavierca1/ligue-crm/internal/entity"

const (
	msgLogin    = "Login failed"
	msgRegister = "Registration failed"
)

type SessionState struct {
	User    *entity.User
	Token   string
	Phase   Phase
	Loading bool
	Error   string
}

func (s SessionState) Authenticated() bool {
	return s.Token != ""
}

func (s *SessionState) pending() {
	s.Phase = PhasePending
	s.Loading = true
	s.Error = ""
}

func (s *SessionState) fulfilled(u entity.User, token string) {
	s.Phase = PhaseFulfilled
	s.Loading = false
	s.Error = ""
	s.User = &u
	s.Token = token
}

func (s *SessionState) rejected(err error, fallback string) {
	s.Phase = PhaseRejected
	s.Loading = false
	s.Error = errorMessage(err, fallback)
}

func (s SessionState) clone() SessionState {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
