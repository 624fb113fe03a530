package values

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Meridiem distinguishes the two halves of a 12-hour clock.
type Meridiem string

const (
	MeridiemAM Meridiem = "AM"
	MeridiemPM Meridiem = "PM"
)

// Clock is a 12-hour wall-clock time with a meridiem marker.
type Clock struct {
	hour     int
	minute   int
	meridiem Meridiem
}

// NewClock constructs a Clock from typed components.
func NewClock(hour, minute int, meridiem Meridiem) (Clock, error) {
	if hour < 1 || hour > 12 {
		return Clock{}, fmt.Errorf("clock hour %d out of range 1-12", hour)
	}
	if minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("clock minute %d out of range 0-59", minute)
	}
	switch meridiem {
	case MeridiemAM, MeridiemPM:
	default:
		return Clock{}, fmt.Errorf("clock meridiem %q must be AM or PM", string(meridiem))
	}
	return Clock{hour: hour, minute: minute, meridiem: meridiem}, nil
}

// ParseClock constructs a Clock from its canonical "hh:mm AM" form.
func ParseClock(value string) (Clock, error) {
	fields := strings.Fields(strings.TrimSpace(value))
	if len(fields) != 2 {
		return Clock{}, fmt.Errorf("clock %q is not in \"hh:mm AM\" form", value)
	}
	hm := strings.Split(fields[0], ":")
	if len(hm) != 2 {
		return Clock{}, fmt.Errorf("clock %q is missing an hour:minute separator", value)
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil {
		return Clock{}, fmt.Errorf("clock %q has non-numeric hour %q", value, hm[0])
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil {
		return Clock{}, fmt.Errorf("clock %q has non-numeric minute %q", value, hm[1])
	}
	return NewClock(hour, minute, Meridiem(strings.ToUpper(fields[1])))
}

// Hour returns the hour component.
func (c Clock) Hour() int { return c.hour }

// Minute returns the minute component.
func (c Clock) Minute() int { return c.minute }

// Meridiem returns the AM/PM marker.
func (c Clock) Meridiem() Meridiem { return c.meridiem }

// IsZero reports whether the clock was never set.
func (c Clock) IsZero() bool { return c == Clock{} }

// String renders the canonical zero-padded "hh:mm AM" form.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d %s", c.hour, c.minute, c.meridiem)
}

// Equal compares the zero-padded canonical forms.
func (c Clock) Equal(other Clock) bool {
	return c.String() == other.String()
}

// MarshalJSON encodes the clock as its canonical string form.
func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes the canonical string form back into a validated Clock.
func (c *Clock) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode clock: %w", err)
	}
	parsed, err := ParseClock(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
