package storage

import (
	"fmt"
	"time"

	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/model"
)

// row is the text form both backends select into.
type row struct {
	id        int64
	phone     string
	name      string
	age       *int
	date      string
	startTime string
	endTime   string
}

func (r row) toModel() (model.Appointment, error) {
	date, err := time.Parse(model.DateLayout, r.date)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("appointment %d: bad date %q: %w", r.id, r.date, err)
	}
	start, err := parseClock(r.startTime)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("appointment %d: bad time %q: %w", r.id, r.startTime, err)
	}
	end, err := parseClock(r.endTime)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("appointment %d: bad end time %q: %w", r.id, r.endTime, err)
	}
	return model.Appointment{
		ID:          r.id,
		PhoneNumber: r.phone,
		PersonName:  r.name,
		Age:         r.age,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
	}, nil
}

// Postgres renders TIME as HH:MM:SS[.ffffff].
func parseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04:05.999999", s)
	if err != nil {
		return time.Time{}, err
	}
	return model.ClockTime(t), nil
}

func insertArgs(a model.Appointment) []any {
	start := model.ClockTime(a.StartTime)
	var age any
	if a.Age != nil {
		age = *a.Age
	}
	return []any{
		a.PhoneNumber,
		a.PersonName,
		age,
		a.Date.Format(model.DateLayout),
		start.Format(model.TimeLayout),
		model.EndTimeFor(start).Format(model.TimeLayout),
	}
}
