package storage

import (
	"strconv"
	"strings"

	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/model"
)

const (
	Table = "appointments"

	colID        = "user_id"
	colPhone     = "phone_number"
	colName      = "person_name"
	colAge       = "age"
	colDate      = "appointment_date"
	colStartTime = "appointment_time"
	colEndTime   = "appointment_end_time"
)

// Dialect renders the n-th (1-based) bind parameter for a column.
type Dialect interface {
	Bind(n int, column string) string
}

// Postgres binds $n and casts date/time columns from text so plain strings
// can be sent for them.
type Postgres struct{}

func (Postgres) Bind(n int, column string) string {
	p := "$" + strconv.Itoa(n)
	switch column {
	case colDate:
		return p + "::text::date"
	case colStartTime, colEndTime:
		return p + "::text::time"
	default:
		return p
	}
}

type SQLite struct{}

func (SQLite) Bind(int, string) string { return "?" }

// Statement is a parameterized SQL statement.
type Statement struct {
	SQL  string
	Args []any
}

// BuildUpdate composes an UPDATE that touches only the columns present in p,
// in the order phone, name, age, date, time. A start time also rewrites the
// end time. ok is false when p carries no field; nothing should be executed
// then.
func BuildUpdate(d Dialect, id int64, p model.Patch) (Statement, bool) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = "+d.Bind(len(args), column))
	}

	if p.PhoneNumber != nil {
		add(colPhone, *p.PhoneNumber)
	}
	if p.PersonName != nil {
		add(colName, *p.PersonName)
	}
	if p.Age != nil {
		add(colAge, *p.Age)
	}
	if p.Date != nil {
		add(colDate, p.Date.Format(model.DateLayout))
	}
	if p.StartTime != nil {
		start := model.ClockTime(*p.StartTime)
		add(colStartTime, start.Format(model.TimeLayout))
		add(colEndTime, model.EndTimeFor(start).Format(model.TimeLayout))
	}
	if len(sets) == 0 {
		return Statement{}, false
	}

	args = append(args, id)
	query := "UPDATE " + Table + " SET " + strings.Join(sets, ", ") +
		" WHERE " + colID + " = " + d.Bind(len(args), colID)
	return Statement{SQL: query, Args: args}, true
}
