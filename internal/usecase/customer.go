package usecase

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// CustomerUseCase is the Mutation Coordinator and query entry point for customers.
type CustomerUseCase struct {
	Repo   CustomerRepository
	Events EventPublisher
	Log    logrus.FieldLogger
}

func NewCustomerUseCase(repo CustomerRepository, events EventPublisher, log logrus.FieldLogger) *CustomerUseCase {
	return &CustomerUseCase{
		Repo:   repo,
		Events: events,
		Log:    orDiscard(log).WithField("component", "customers"),
	}
}

func (uc *CustomerUseCase) List(ctx context.Context, q entity.CustomerQuery) (page entity.Page[entity.Customer], err error) {
	ctx, span := startSpan(ctx, "customers.list",
		attribute.Int("page", entity.NormalizePage(q.Page)),
		attribute.Bool("search", q.Search != ""),
	)
	defer func() { endSpan(span, err) }()

	q.Page = entity.NormalizePage(q.Page)
	page, err = uc.Repo.ListCustomers(ctx, q)
	if err != nil {
		return entity.Page[entity.Customer]{}, translate(err)
	}
	return page, nil
}

func (uc *CustomerUseCase) Get(ctx context.Context, id string) (c entity.Customer, err error) {
	ctx, span := startSpan(ctx, "customers.get", attribute.String("customer.id", id))
	defer func() { endSpan(span, err) }()

	c, err = uc.Repo.FindCustomer(ctx, id)
	if err != nil {
		return entity.Customer{}, translate(err)
	}
	return c, nil
}

func (uc *CustomerUseCase) Create(ctx context.Context, in entity.CustomerInput) (c entity.Customer, err error) {
	ctx, span := startSpan(ctx, "customers.create")
	defer func() { endSpan(span, err) }()

	if errs := ValidateCustomerInput(in); len(errs) > 0 {
		return entity.Customer{}, newValidationError(errs)
	}

	c, err = uc.Repo.CreateCustomer(ctx, in)
	if err != nil {
		uc.Log.WithError(err).Error("create customer failed")
		return entity.Customer{}, translate(err)
	}

	uc.Log.WithField("customer_id", c.ID).Info("customer created")
	publish(ctx, uc.Events, uc.Log, entity.EventCustomerCreated, c)
	return c, nil
}

func (uc *CustomerUseCase) Update(ctx context.Context, id string, patch entity.CustomerPatch) (c entity.Customer, err error) {
	ctx, span := startSpan(ctx, "customers.update", attribute.String("customer.id", id))
	defer func() { endSpan(span, err) }()

	if errs := ValidateCustomerPatch(patch); len(errs) > 0 {
		return entity.Customer{}, newValidationError(errs)
	}

	c, err = uc.Repo.UpdateCustomer(ctx, id, patch)
	if err != nil {
		return entity.Customer{}, translate(err)
	}

	uc.Log.WithField("customer_id", id).Info("customer updated")
	publish(ctx, uc.Events, uc.Log, entity.EventCustomerUpdated, c)
	return c, nil
}

// Delete removes the customer and its leads; the removed lead ids are returned.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) (leadIDs []string, err error) {
	ctx, span := startSpan(ctx, "customers.delete", attribute.String("customer.id", id))
	defer func() { endSpan(span, err) }()

	leadIDs, err = uc.Repo.DeleteCustomer(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	span.SetAttributes(attribute.Int("leads.cascaded", len(leadIDs)))

	uc.Log.WithFields(logrus.Fields{
		"customer_id":    id,
		"leads_cascaded": len(leadIDs),
	}).Info("customer deleted")
	publish(ctx, uc.Events, uc.Log, entity.EventCustomerDeleted, entity.CustomerDeletedPayload{
		CustomerID: id,
		LeadIDs:    leadIDs,
	})
	return leadIDs, nil
}
