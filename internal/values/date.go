package values

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Date is a calendar date with range-checked components. Only ranges are
// validated; calendar validity (leap years, days per month) is deliberately
// not enforced, matching the systems this tool migrates between.
type Date struct {
	month int
	day   int
	year  int
}

// NewDate constructs a Date from typed components.
func NewDate(month, day, year int) (Date, error) {
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("date month %d out of range 1-12", month)
	}
	if day < 1 || day > 31 {
		return Date{}, fmt.Errorf("date day %d out of range 1-31", day)
	}
	if year < 1900 || year > 2100 {
		return Date{}, fmt.Errorf("date year %d out of range 1900-2100", year)
	}
	return Date{month: month, day: day, year: year}, nil
}

// ParseDate constructs a Date from its canonical "mm/dd/yyyy" form.
func ParseDate(value string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("date %q is not in mm/dd/yyyy form", value)
	}
	numbers := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Date{}, fmt.Errorf("date %q has non-numeric component %q", value, part)
		}
		numbers[i] = n
	}
	return NewDate(numbers[0], numbers[1], numbers[2])
}

// Month returns the month component.
func (d Date) Month() int { return d.month }

// Day returns the day component.
func (d Date) Day() int { return d.day }

// Year returns the year component.
func (d Date) Year() int { return d.year }

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool { return d == Date{} }

// String renders the canonical zero-padded "mm/dd/yyyy" form.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.month, d.day, d.year)
}

// Equal reports component-wise equality.
func (d Date) Equal(other Date) bool { return d == other }

// MarshalJSON encodes the date as its canonical string form.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes the canonical string form back into a validated Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
