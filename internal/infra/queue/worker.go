package queue

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Consumer is the consuming half of *amqp.Channel.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type WelcomeSender interface {
	SendWelcome(to, name string) error
}

type Worker struct {
	Channel Consumer
	Mailer  WelcomeSender
	Log     logrus.FieldLogger
}

func NewWorker(ch Consumer, mailer WelcomeSender, log logrus.FieldLogger) *Worker {
	return &Worker{
		Channel: ch,
		Mailer:  mailer,
		Log:     log.WithField("component", "event-worker"),
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return errors.Wrap(err, "register consumer")
	}

	w.Log.WithField("queue", queueName).Info("worker waiting for events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var event entity.Event
	if err := json.Unmarshal(d.Body, &event); err != nil {
		w.Log.WithError(err).Warn("malformed event, dead-lettering")
		d.Nack(false, false)
		return
	}

	log := w.Log.WithFields(logrus.Fields{"event_id": event.ID, "event_type": event.Type})

	if err := w.processMessage(ctx, event); err != nil {
		log.WithError(err).Error("event processing failed")
		d.Nack(false, false)
		return
	}

	log.Debug("event processed")
	d.Ack(false)
}

func (w *Worker) processMessage(_ context.Context, event entity.Event) error {
	switch event.Type {
	case entity.EventUserRegistered:
		var p entity.UserRegisteredPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return errors.Wrap(err, "decode user.registered payload")
		}
		if w.Mailer == nil {
			w.Log.WithField("user_id", p.UserID).Info("mail not configured, skipping welcome email")
			return nil
		}
		return w.Mailer.SendWelcome(p.Email, p.Name)

	case entity.EventCustomerDeleted:
		var p entity.CustomerDeletedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return errors.Wrap(err, "decode customer.deleted payload")
		}
		w.Log.WithFields(logrus.Fields{
			"customer_id": p.CustomerID,
			"lead_ids":    p.LeadIDs,
		}).Info("customer removed with its leads")
		return nil

	default:
		w.Log.WithField("event_type", event.Type).Info("event received")
		return nil
	}
}
