package usecase

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

var tracer = otel.Tracer("github.com/xavierca1/ligue-crm/internal/usecase")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on the span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// publish emits a domain event. A failed publish is logged and never fails the mutation.
func publish(ctx context.Context, events EventPublisher, log logrus.FieldLogger, eventType string, payload any) {
	if events == nil {
		return
	}
	event, err := entity.NewEvent(eventType, payload, time.Now().UTC())
	if err != nil {
		log.WithError(err).WithField("event_type", eventType).Error("failed to build event")
		return
	}
	if err := events.Publish(ctx, event); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"event_type": eventType,
			"event_id":   event.ID,
		}).Warn("failed to publish event")
	}
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.Out = io.Discard
	return l
}
