package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/md-rashed-zaman/apptagent/libs/kafkax"
	"github.com/md-rashed-zaman/apptagent/libs/runtime"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/model"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected write deadline")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sample() model.Appointment {
	age := 30
	return model.Appointment{
		ID:          7,
		PhoneNumber: "01712345678",
		PersonName:  "Jane Doe",
		Age:         &age,
		Date:        time.Date(2024, 12, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   time.Date(0, 1, 1, 9, 5, 0, 0, time.UTC),
		EndTime:     time.Date(0, 1, 1, 9, 10, 0, 0, time.UTC),
	}
}

func TestForAppointment(t *testing.T) {
	evt, err := ForAppointment(AppointmentBooked, sample())
	require.NoError(t, err)
	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "7", evt.AggregateID)
	assert.Equal(t, AggregateAppointment, evt.AggregateType)

	var body map[string]any
	require.NoError(t, json.Unmarshal(evt.Payload, &body))
	assert.Equal(t, "2024-12-02", body["appointment_date"])
	assert.Equal(t, "09:05:00", body["appointment_time"])
	assert.Equal(t, "09:10:00", body["appointment_end_time"])
	assert.EqualValues(t, 30, body["age"])
}

func TestForCancellation(t *testing.T) {
	evt, err := ForCancellation(9)
	require.NoError(t, err)
	assert.Equal(t, AppointmentCancelled, evt.EventType)
	assert.JSONEq(t, `{"user_id":9}`, string(evt.Payload))
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, KafkaConfig{}, runtime.DiscardLogger())

	evt, err := ForAppointment(AppointmentUpdated, sample())
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), evt))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, AppointmentUpdated, msg.Topic)
	assert.Equal(t, "7", string(msg.Key))
	assert.Equal(t, evt.ID, kafkax.HeaderValue(msg.Headers, "event_id"))
	assert.Equal(t, AppointmentUpdated, kafkax.HeaderValue(msg.Headers, "event_type"))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_TopicOverride(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, KafkaConfig{Topic: "appointments"}, runtime.DiscardLogger())
	evt, err := ForCancellation(3)
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), evt))
	assert.Equal(t, "appointments", w.msgs[0].Topic)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w, KafkaConfig{}, runtime.DiscardLogger())
	evt, err := ForCancellation(3)
	require.NoError(t, err)
	assert.EqualError(t, p.Publish(context.Background(), evt), "broker down")
}

func TestNewKafkaPublisher_NoBrokers(t *testing.T) {
	p := NewKafkaPublisher(KafkaConfig{}, runtime.DiscardLogger())
	_, ok := p.(Noop)
	assert.True(t, ok)
}
