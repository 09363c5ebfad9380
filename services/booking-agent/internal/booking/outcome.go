package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/model"
)

type Kind int

const (
	KindOK Kind = iota
	KindInvalid
	KindNotFound
	KindNoChange
	KindFailed
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindNoChange:
		return "no_change"
	case KindFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsError reports whether the message describes a failure the user has to act
// on, as opposed to a result.
func (k Kind) IsError() bool {
	return k == KindInvalid || k == KindFailed
}

// Outcome is the result of one booking operation. Message is the technical
// text; turning it into a friendly sentence is left to the caller.
type Outcome struct {
	Kind        Kind
	Message     string
	ID          int64
	Appointment *model.Appointment
	Err         error
}

func ok(msg string, id int64, appt *model.Appointment) Outcome {
	return Outcome{Kind: KindOK, Message: msg, ID: id, Appointment: appt}
}

func invalid(err error) Outcome {
	return Outcome{Kind: KindInvalid, Message: err.Error(), Err: err}
}

func notFound(msg string, id int64) Outcome {
	return Outcome{Kind: KindNotFound, Message: msg, ID: id}
}

func failed(err error) Outcome {
	return Outcome{Kind: KindFailed, Message: err.Error(), Err: err}
}

const (
	msgNoChange = "No new information provided to update."
	msgUpdated  = "Your appointment details have been updated."
)

func msgInserted(id int64) string {
	return fmt.Sprintf("Your appointment request has been posted. Your ID number is %d.", id)
}

func msgSearchNotFound(id int64) string {
	return fmt.Sprintf("No appointment booked with user id %d.", id)
}

func msgUpdateNotFound(id int64) string {
	return fmt.Sprintf("No appointment details found for user id %d.", id)
}

func msgDeleted(id int64) string {
	return fmt.Sprintf("Appointment canceled for user id %d.", id)
}

func msgDeleteNotFound(id int64) string {
	return fmt.Sprintf("No appointment details found with the user id %d.", id)
}

// FormatAppointment renders a record as the aligned block shown to users.
// Dates are DD-MM-YYYY and clock times H:MM.
func FormatAppointment(a model.Appointment) string {
	age := "not provided"
	if a.Age != nil {
		age = strconv.Itoa(*a.Age)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "User id              : %d\n", a.ID)
	fmt.Fprintf(&b, "Person name          : %s\n", a.PersonName)
	fmt.Fprintf(&b, "Phone number         : %s\n", a.PhoneNumber)
	fmt.Fprintf(&b, "Age                  : %s\n", age)
	fmt.Fprintf(&b, "Appointment date     : %s\n", a.Date.Format("02-01-2006"))
	fmt.Fprintf(&b, "Appointment time     : %s\n", clock(a.StartTime))
	fmt.Fprintf(&b, "Appointment end time : %s", clock(a.EndTime))
	return b.String()
}

// clock renders H:MM with an unpadded hour.
func clock(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}
