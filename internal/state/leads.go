package state

import (
	"slices"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	msgFetchLeads         = "Failed to fetch leads"
	msgCreateLead         = "Failed to create lead"
	msgUpdateLead         = "Failed to update lead"
	msgDeleteLead         = "Failed to delete lead"
	msgFetchLead          = "Failed to fetch lead"
	msgFetchCustomerLeads = "Failed to fetch customer leads"
)

type LeadState struct {
	Leads        []entity.Lead
	CurrentLead  *entity.Lead
	Phase        Phase
	Loading      bool
	Error        string
	TotalCount   int
	CurrentPage  int
	StatusFilter entity.LeadStatus
}

func InitialLeadState() LeadState {
	return LeadState{
		Leads:        []entity.Lead{},
		CurrentPage:  1,
		StatusFilter: entity.LeadStatusAll,
	}
}

func (s *LeadState) pending() {
	s.Phase = PhasePending
	s.Loading = true
	s.Error = ""
}

func (s *LeadState) fulfilled() {
	s.Phase = PhaseFulfilled
	s.Loading = false
	s.Error = ""
}

func (s *LeadState) rejected(err error, fallback string) {
	s.Phase = PhaseRejected
	s.Loading = false
	s.Error = errorMessage(err, fallback)
}

func (s *LeadState) replaceLeads(leads []entity.Lead) {
	s.Leads = slices.Clone(leads)
	if s.Leads == nil {
		s.Leads = []entity.Lead{}
	}
}

func (s *LeadState) listFulfilled(page entity.Page[entity.Lead]) {
	s.fulfilled()
	s.replaceLeads(page.Data)
	s.TotalCount = page.TotalCount
}

// byCustomerFulfilled replaces the held leads but leaves TotalCount alone.
func (s *LeadState) byCustomerFulfilled(leads []entity.Lead) {
	s.fulfilled()
	s.replaceLeads(leads)
}

func (s *LeadState) createFulfilled(l entity.Lead) {
	s.fulfilled()
	s.Leads = slices.Insert(s.Leads, 0, l)
	s.TotalCount++
}

func (s *LeadState) updateFulfilled(l entity.Lead) {
	s.fulfilled()
	if i := slices.IndexFunc(s.Leads, func(x entity.Lead) bool { return x.ID == l.ID }); i >= 0 {
		s.Leads[i] = l
	}
	if s.CurrentLead != nil && s.CurrentLead.ID == l.ID {
		s.CurrentLead = &l
	}
}

func (s *LeadState) deleteFulfilled(id string) {
	s.fulfilled()
	s.Leads = slices.DeleteFunc(s.Leads, func(x entity.Lead) bool { return x.ID == id })
	s.TotalCount--
	if s.CurrentLead != nil && s.CurrentLead.ID == id {
		s.CurrentLead = nil
	}
}

func (s *LeadState) fetchOneFulfilled(l entity.Lead) {
	s.fulfilled()
	s.CurrentLead = &l
}

func (s LeadState) clone() LeadState {
	s.Leads = slices.Clone(s.Leads)
	if s.CurrentLead != nil {
		l := *s.CurrentLead
		s.CurrentLead = &l
	}
	return s
}
