package notification

import (
	"context"
	"time"

	"github.com/MiniduTH/vitalink-sub001/metrics"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	AppointmentBooked      = "appointment.booked"
	AppointmentConfirmed   = "appointment.confirmed"
	AppointmentCheckedIn   = "appointment.checked_in"
	AppointmentRescheduled = "appointment.rescheduled"
	AppointmentCancelled   = "appointment.cancelled"
	AppointmentCompleted   = "appointment.completed"
	PaymentConfirmed       = "payment.confirmed"
	PaymentFailed          = "payment.failed"
	ClaimUpdated           = "claim.updated"
	PatientRegistered      = "patient.registered"
)

type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Source     string                 `json:"source"`
	Subject    string                 `json:"subject"`
	Recipient  string                 `json:"recipient"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurredAt"`
}

func NewEvent(eventType, subject, recipient string, data map[string]interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Source:     "vitalink",
		Subject:    subject,
		Recipient:  recipient,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

// Sink delivers an event somewhere. Implementations may fail; callers that
// must not fail go through a Dispatcher.
type Sink interface {
	Name() string
	Send(ctx context.Context, event Event) error
}

// Notifier is what services depend on. It has no error return.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type LogSink struct{}

func (LogSink) Name() string { return "log" }

func (LogSink) Send(_ context.Context, event Event) error {
	log.WithFields(log.Fields{
		"event_id":  event.ID,
		"type":      event.Type,
		"subject":   event.Subject,
		"recipient": event.Recipient,
	}).Info("notification")
	return nil
}

// Dispatcher fans an event out to every sink. A failing sink is logged and
// counted and never reaches the caller.
type Dispatcher struct {
	sinks []Sink
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks}
}

func (d *Dispatcher) Notify(ctx context.Context, event Event) {
	for _, sink := range d.sinks {
		if err := sink.Send(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"sink":     sink.Name(),
				"type":     event.Type,
				"event_id": event.ID,
			}).WithError(err).Warn("notification delivery failed")
			metrics.RecordNotificationFailure(sink.Name(), event.Type)
		}
	}
}
