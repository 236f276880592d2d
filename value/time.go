package value

import (
	"encoding/json"
	"time"

	"github.com/leekchan/timeutil"
)

const (
	dateFormat     = "%Y-%m-%d"
	dateTimeFormat = "%Y-%m-%d %H:%M:%S"
	clockFormat    = "%H:%M:%S"
)

// NewDateValue wraps a calendar date (or date-time) value.
func NewDateValue(v time.Time) DateValue {
	return DateValue{v: v}
}

func (m DateValue) Nil() bool                    { return false }
func (m DateValue) Type() ValueType              { return DateType }
func (m DateValue) Value() any                   { return m.v }
func (m DateValue) Val() time.Time               { return m.v }
func (m DateValue) Time() time.Time              { return m.v }
func (m DateValue) MarshalJSON() ([]byte, error) { return json.Marshal(m.v) }

// ToString renders midnight values as a bare date.
func (m DateValue) ToString() string {
	t := m.v
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return timeutil.Strftime(&t, dateFormat)
	}
	return timeutil.Strftime(&t, dateTimeFormat)
}

// NewClockValue builds a time-of-day value. No range checks are done here.
func NewClockValue(hour, minute, second int) ClockValue {
	return ClockValue{v: time.Date(0, time.January, 1, hour, minute, second, 0, time.UTC)}
}

func (m ClockValue) Nil() bool                    { return false }
func (m ClockValue) Type() ValueType              { return ClockType }
func (m ClockValue) Time() time.Time              { return m.v }
func (m ClockValue) Hour() int                    { return m.v.Hour() }
func (m ClockValue) Minute() int                  { return m.v.Minute() }
func (m ClockValue) Second() int                  { return m.v.Second() }
func (m ClockValue) MarshalJSON() ([]byte, error) { return json.Marshal(m.ToString()) }

// Value is the "HH:MM:SS" text form; Go has no native time-of-day type.
func (m ClockValue) Value() any { return m.ToString() }
func (m ClockValue) ToString() string {
	t := m.v
	return timeutil.Strftime(&t, clockFormat)
}

// Duration is the offset since midnight.
func (m ClockValue) Duration() time.Duration {
	return time.Duration(m.v.Hour())*time.Hour +
		time.Duration(m.v.Minute())*time.Minute +
		time.Duration(m.v.Second())*time.Second
}
