package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	name   string
	err    error
	events []Event
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Send(_ context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestDispatcher_SwallowsSinkFailures(t *testing.T) {
	failing := &recordingSink{name: "broken", err: errors.New("smtp down")}
	healthy := &recordingSink{name: "ok"}
	d := NewDispatcher(failing, healthy, LogSink{})

	event := NewEvent(AppointmentBooked, "appt-1", "patient-1", map[string]interface{}{"timeSlot": "09:00-09:30"})
	assert.NotPanics(t, func() { d.Notify(context.Background(), event) })

	require.Len(t, failing.events, 1)
	require.Len(t, healthy.events, 1)
	assert.Equal(t, event.ID, healthy.events[0].ID)
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(PaymentConfirmed, "pay-1", "patient-1", nil)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, PaymentConfirmed, event.Type)
	assert.Equal(t, "vitalink", event.Source)
	assert.False(t, event.OccurredAt.IsZero())
}

type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.messages = append(f.messages, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaSink_Send(t *testing.T) {
	w := &fakeWriter{}
	sink := &KafkaSink{writer: w}

	event := NewEvent(ClaimUpdated, "claim-1", "patient-1", map[string]interface{}{"status": "Approved"})
	require.NoError(t, sink.Send(context.Background(), event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "claim-1", string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, "Approved", decoded.Data["status"])
}

func TestKafkaSink_WriteError(t *testing.T) {
	sink := &KafkaSink{writer: &fakeWriter{err: errors.New("broker unreachable")}}

	err := sink.Send(context.Background(), NewEvent(PaymentFailed, "pay-1", "patient-1", nil))
	assert.ErrorContains(t, err, "broker unreachable")
}
