package timeseries

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Day is the length of the single reference day every profile lives in.
const Day = 24 * time.Hour

// ErrInvalidTime is returned when a cell cannot be read as a time of day.
var ErrInvalidTime = errors.New("invalid time of day")

// TimeOfDay is an offset from midnight of the reference day, at second
// resolution.
type TimeOfDay time.Duration

// Clock builds a TimeOfDay from hours, minutes and seconds.
func Clock(h, m, s int) TimeOfDay {
	return TimeOfDay(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

// Duration returns the offset from midnight.
func (t TimeOfDay) Duration() time.Duration { return time.Duration(t) }

// String formats the time as 15:04:05.
func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// On anchors the time of day on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTimeOfDay reads a spreadsheet time cell. Excel stores times as a
// fraction of a day ("0.25" is 06:00); full serial dates keep only their
// fractional part. Clock strings "6:00", "06:00:00" and RFC 3339 stamps are
// accepted as well.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty cell", ErrInvalidTime)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		_, frac := math.Modf(f)
		sec := math.Round(frac * Day.Seconds())
		if sec >= Day.Seconds() {
			sec = 0
		}
		return TimeOfDay(time.Duration(sec) * time.Second), nil
	}
	for _, layout := range []string{"15:04:05", "15:04", "2006-01-02 15:04:05", "2006-01-02T15:04:05", time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return Clock(ts.Hour(), ts.Minute(), ts.Second()), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// Equal reports whether both indexes hold the same labels in the same order.
func Equal(a, b []TimeOfDay) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
