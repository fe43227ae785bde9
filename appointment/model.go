package appointment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout and TimeLayout are the wire formats for Date and Time.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	// ErrIncomplete is returned when a required booking field is blank.
	ErrIncomplete = errors.New("please fill all the details")
	// ErrInvalidPhone is returned when the phone is not exactly ten digits.
	ErrInvalidPhone = errors.New("phone number must be 10 digits")
	// ErrInvalidDate is returned when the date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid appointment date")
	// ErrDateInPast is returned when the date is before today.
	ErrDateInPast = errors.New("appointment date is in the past")
	// ErrInvalidTime is returned when the time is not HH:MM.
	ErrInvalidTime = errors.New("invalid appointment time")
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// Appointment is one booking as exchanged with the API.
type Appointment struct {
	ID          string `json:"_id,omitempty"`
	DoctorName  string `json:"doctorName"`
	PatientName string `json:"patientName"`
	Phone       string `json:"phone"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// Validate checks a booking against today's date in now's location.
func (a Appointment) Validate(now time.Time) error {
	for _, f := range []struct{ name, value string }{
		{"doctor", a.DoctorName},
		{"patient name", a.PatientName},
		{"phone", a.Phone},
		{"date", a.Date},
		{"time", a.Time},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrIncomplete, f.name)
		}
	}

	if !phonePattern.MatchString(a.Phone) {
		return ErrInvalidPhone
	}

	day, err := time.ParseInLocation(DateLayout, a.Date, now.Location())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	y, m, d := now.Date()
	if day.Before(time.Date(y, m, d, 0, 0, 0, 0, now.Location())) {
		return ErrDateInPast
	}

	if _, err := time.Parse(TimeLayout, a.Time); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	return nil
}

// Upcoming reports whether the appointment day, read as midnight UTC, is not
// before now. Unparseable dates are never upcoming.
func (a Appointment) Upcoming(now time.Time) bool {
	day, err := time.Parse(DateLayout, a.Date)
	if err != nil {
		return false
	}
	return !day.Before(now)
}
