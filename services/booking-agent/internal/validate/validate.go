// Package validate holds the pure field rules for appointment input. Every
// function returns the normalized value or a *FieldError; nothing here does
// I/O, so the rephrasing of messages happens at the tool boundary instead.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/model"
)

const (
	FieldUserID          = "user_id"
	FieldPhoneNumber     = "phone_number"
	FieldPersonName      = "person_name"
	FieldAge             = "age"
	FieldAppointmentDate = "appointment_date"
	FieldAppointmentTime = "appointment_time"

	MinAge = 20
	MaxAge = 100
)

// PhonePrefixes are the operator prefixes a phone number may start with.
var PhonePrefixes = []string{"013", "015", "016", "017", "018", "019"}

var elevenDigits = regexp.MustCompile(`^\d{11}$`)

// FieldError describes every rule one field violated. Message joins them the
// way they are shown to the user.
type FieldError struct {
	Field    string
	Summary  string
	Problems []string
}

func (e *FieldError) Error() string {
	if len(e.Problems) == 0 {
		return e.Summary
	}
	return e.Summary + " " + strings.Join(e.Problems, " ")
}

func newFieldError(field, summary string, problems ...string) *FieldError {
	return &FieldError{Field: field, Summary: summary, Problems: problems}
}

// AsFieldError reports whether err is (or wraps) a validation failure.
func AsFieldError(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// Phone checks length and prefix independently and reports both when both fail.
func Phone(value string) (string, error) {
	value = strings.TrimSpace(value)
	var problems []string
	if !elevenDigits.MatchString(value) {
		problems = append(problems, "It must have exactly 11 digits.")
	}
	if !hasPhonePrefix(value) {
		problems = append(problems, "It must start with one of the following prefixes: "+strings.Join(PhonePrefixes, ", ")+".")
	}
	if len(problems) > 0 {
		return "", newFieldError(FieldPhoneNumber, "Invalid phone number.", problems...)
	}
	return value, nil
}

func hasPhonePrefix(value string) bool {
	for _, p := range PhonePrefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	return false
}

func Name(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", newFieldError(FieldPersonName, "Invalid person name.", "It must not be empty.")
	}
	return value, nil
}

// Date accepts only YYYY-MM-DD.
func Date(value string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, newFieldError(FieldAppointmentDate, "Invalid date.", "It must be in the format YYYY-MM-DD.")
	}
	return d, nil
}

// NormalizeDate accepts DD-MM-YYYY or YYYY-MM-DD and returns the date; its
// YYYY-MM-DD rendering is therefore idempotent.
func NormalizeDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if d, err := time.Parse("02-01-2006", value); err == nil {
		return d, nil
	}
	if d, err := time.Parse(model.DateLayout, value); err == nil {
		return d, nil
	}
	return time.Time{}, newFieldError(FieldAppointmentDate, "Invalid date.", "It must be in the format YYYY-MM-DD or DD-MM-YYYY.")
}

// NormalizeDateString is NormalizeDate rendered back as YYYY-MM-DD.
func NormalizeDateString(value string) (string, error) {
	d, err := NormalizeDate(value)
	if err != nil {
		return "", err
	}
	return d.Format(model.DateLayout), nil
}

// Time accepts H:M:S with unpadded components ("9:5:0" and "09:05:00").
func Time(value string) (time.Time, error) {
	t, err := time.Parse("15:4:5", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, newFieldError(FieldAppointmentTime, "Invalid time.", "It must be in the format H:M:S.")
	}
	return model.ClockTime(t), nil
}

// ClockHHMM drops anything after the minutes and parses the rest as HH:MM, so
// "11:05" and "11:05:59" both become 11:05:00.
func ClockHHMM(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if hm, _, ok := cutSecondColon(value); ok {
		value = hm
	}
	t, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, newFieldError(FieldAppointmentTime, "Invalid time.", "It must be in the format HH:MM or HH:MM:SS.")
	}
	return model.ClockTime(t), nil
}

func Age(value int) (int, error) {
	if value < MinAge || value > MaxAge {
		return 0, newFieldError(FieldAge, "Invalid age.", "It should be between "+strconv.Itoa(MinAge)+"-"+strconv.Itoa(MaxAge)+".")
	}
	return value, nil
}

func Identifier(value int64) (int64, error) {
	if value <= 0 {
		return 0, InvalidIdentifier()
	}
	return value, nil
}

// InvalidIdentifier is the failure for ids that are not positive integers,
// including ids that could not be decoded as integers at all.
func InvalidIdentifier() *FieldError {
	return newFieldError(FieldUserID, "Invalid user id.", "It should be a positive integer number.")
}

// InvalidAge is returned when the age could not be decoded as an integer.
func InvalidAge() *FieldError {
	return newFieldError(FieldAge, "Invalid age.", "It should be between "+strconv.Itoa(MinAge)+"-"+strconv.Itoa(MaxAge)+".")
}

func cutSecondColon(s string) (string, string, bool) {
	first := strings.IndexByte(s, ':')
	if first < 0 {
		return s, "", false
	}
	second := strings.IndexByte(s[first+1:], ':')
	if second < 0 {
		return s, "", false
	}
	cut := first + 1 + second
	return s[:cut], s[cut+1:], true
}
