// Package events publishes appointment lifecycle events after a write has
// been committed.
package events

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/model"
)

const (
	AppointmentBooked    = "booking.appointment.booked.v1"
	AppointmentUpdated   = "booking.appointment.updated.v1"
	AppointmentCancelled = "booking.appointment.cancelled.v1"

	AggregateAppointment = "appointment"
)

// Event is the envelope handed to a Publisher. AggregateID is the user id as
// a decimal string and doubles as the Kafka message key.
type Event struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	OccurredAt    time.Time
	Payload       []byte
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Noop drops every event; it is used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

type appointmentPayload struct {
	UserID             int64  `json:"user_id"`
	PhoneNumber        string `json:"phone_number,omitempty"`
	PersonName         string `json:"person_name,omitempty"`
	Age                *int   `json:"age,omitempty"`
	AppointmentDate    string `json:"appointment_date,omitempty"`
	AppointmentTime    string `json:"appointment_time,omitempty"`
	AppointmentEndTime string `json:"appointment_end_time,omitempty"`
}

// ForAppointment builds an event carrying the full record.
func ForAppointment(eventType string, appt model.Appointment) (Event, error) {
	return newEvent(eventType, appt.ID, appointmentPayload{
		UserID:             appt.ID,
		PhoneNumber:        appt.PhoneNumber,
		PersonName:         appt.PersonName,
		Age:                appt.Age,
		AppointmentDate:    appt.Date.Format(model.DateLayout),
		AppointmentTime:    appt.StartTime.Format(model.TimeLayout),
		AppointmentEndTime: appt.EndTime.Format(model.TimeLayout),
	})
}

// ForCancellation only carries the id; the row is gone by the time it is sent.
func ForCancellation(id int64) (Event, error) {
	return newEvent(AppointmentCancelled, id, appointmentPayload{UserID: id})
}

func newEvent(eventType string, id int64, payload appointmentPayload) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:            uuid.NewString(),
		AggregateType: AggregateAppointment,
		AggregateID:   strconv.FormatInt(id, 10),
		EventType:     eventType,
		OccurredAt:    time.Now().UTC(),
		Payload:       body,
	}, nil
}
