package model

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"

	// AppointmentLength is the fixed slot length; EndTime is always StartTime
	// plus this.
	AppointmentLength = 5 * time.Minute
)

// Appointment is one row of the appointments table. Date holds midnight UTC of
// the appointment day; StartTime and EndTime hold only a clock time (their
// date part is the zero date).
type Appointment struct {
	ID          int64
	PhoneNumber string
	PersonName  string
	Age         *int
	Date        time.Time
	StartTime   time.Time
	EndTime     time.Time
}

// EndTimeFor wraps past midnight the way clock arithmetic does.
func EndTimeFor(start time.Time) time.Time {
	end := start.Add(AppointmentLength)
	return time.Date(0, 1, 1, end.Hour(), end.Minute(), end.Second(), 0, time.UTC)
}

// ClockTime drops the date part of t.
func ClockTime(t time.Time) time.Time {
	return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// Patch is a sparse update: nil fields are left untouched. Values are already
// validated and normalized.
type Patch struct {
	PhoneNumber *string
	PersonName  *string
	Age         *int
	Date        *time.Time
	StartTime   *time.Time
}

func (p Patch) Empty() bool {
	return p.PhoneNumber == nil && p.PersonName == nil && p.Age == nil && p.Date == nil && p.StartTime == nil
}
