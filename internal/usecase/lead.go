package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LeadUseCase struct {
	Repo   LeadRepository
	Events EventPublisher
	Log    logrus.FieldLogger
}

func NewLeadUseCase(repo LeadRepository, events EventPublisher, log logrus.FieldLogger) *LeadUseCase {
	return &LeadUseCase{
		Repo:   repo,
		Events: events,
		Log:    orDiscard(log).WithField("component", "leads"),
	}
}

func (uc *LeadUseCase) List(ctx context.Context, q entity.LeadQuery) (page entity.Page[entity.Lead], err error) {
	ctx, span := startSpan(ctx, "leads.list",
		attribute.Int("page", entity.NormalizePage(q.Page)),
		attribute.String("status", string(q.Status)),
		attribute.String("customer.id", q.CustomerID),
	)
	defer func() { endSpan(span, err) }()

	q.Page = entity.NormalizePage(q.Page)
	page, err = uc.Repo.ListLeads(ctx, q)
	if err != nil {
		return entity.Page[entity.Lead]{}, translate(err)
	}
	return page, nil
}

func (uc *LeadUseCase) Get(ctx context.Context, id string) (l entity.Lead, err error) {
	ctx, span := startSpan(ctx, "leads.get", attribute.String("lead.id", id))
	defer func() { endSpan(span, err) }()

	l, err = uc.Repo.FindLead(ctx, id)
	if err != nil {
		return entity.Lead{}, translate(err)
	}
	return l, nil
}

func (uc *LeadUseCase) ByCustomer(ctx context.Context, customerID string) (leads []entity.Lead, err error) {
	ctx, span := startSpan(ctx, "leads.by_customer", attribute.String("customer.id", customerID))
	defer func() { endSpan(span, err) }()

	leads, err = uc.Repo.LeadsByCustomer(ctx, customerID)
	if err != nil {
		return nil, translate(err)
	}
	return leads, nil
}

// Create does not check that CustomerID exists; callers pick it from the customer list.
func (uc *LeadUseCase) Create(ctx context.Context, in entity.LeadInput) (l entity.Lead, err error) {
	ctx, span := startSpan(ctx, "leads.create", attribute.String("customer.id", in.CustomerID))
	defer func() { endSpan(span, err) }()

	if errs := ValidateLeadInput(in); len(errs) > 0 {
		return entity.Lead{}, newValidationError(errs)
	}

	l, err = uc.Repo.CreateLead(ctx, in)
	if err != nil {
		uc.Log.WithError(err).Error("create lead failed")
		return entity.Lead{}, translate(err)
	}

	uc.Log.WithFields(logrus.Fields{
		"lead_id":     l.ID,
		"customer_id": l.CustomerID,
		"status":      l.Status,
	}).Info("lead created")
	publish(ctx, uc.Events, uc.Log, entity.EventLeadCreated, l)
	return l, nil
}

func (uc *LeadUseCase) Update(ctx context.Context, id string, patch entity.LeadPatch) (l entity.Lead, err error) {
	ctx, span := startSpan(ctx, "leads.update", attribute.String("lead.id", id))
	defer func() { endSpan(span, err) }()

	if errs := ValidateLeadPatch(patch); len(errs) > 0 {
		return entity.Lead{}, newValidationError(errs)
	}

	l, err = uc.Repo.UpdateLead(ctx, id, patch)
	if err != nil {
		return entity.Lead{}, translate(err)
	}

	uc.Log.WithFields(logrus.Fields{"lead_id": id, "status": l.Status}).Info("lead updated")
	publish(ctx, uc.Events, uc.Log, entity.EventLeadUpdated, l)
	return l, nil
}

func (uc *LeadUseCase) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "leads.delete", attribute.String("lead.id", id))
	defer func() { endSpan(span, err) }()

	if err = uc.Repo.DeleteLead(ctx, id); err != nil {
		return translate(err)
	}

	uc.Log.WithField("lead_id", id).Info("lead deleted")
	publish(ctx, uc.Events, uc.Log, entity.EventLeadDeleted, entity.LeadDeletedPayload{LeadID: id})
	return nil
}
