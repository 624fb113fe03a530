package values

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Option is an immutable (value, text) pair taken from a select control,
// used for category and department style fields.
type Option struct {
	value string
	text  string
}

// NewOption constructs an Option. The value is what the destination form
// submits; the text is what the operator sees.
func NewOption(value, text string) (Option, error) {
	value = strings.TrimSpace(value)
	text = strings.TrimSpace(text)
	if value == "" && text == "" {
		return Option{}, fmt.Errorf("option requires a value or display text")
	}
	return Option{value: value, text: text}, nil
}

// Value returns the submitted form value.
func (o Option) Value() string { return o.value }

// Text returns the operator-visible label.
func (o Option) Text() string { return o.text }

// IsZero reports whether the option was never set.
func (o Option) IsZero() bool { return o == Option{} }

// Equal reports component-wise equality.
func (o Option) Equal(other Option) bool { return o == other }

type optionJSON struct {
	Value string `json:"value,omitempty"`
	Text  string `json:"text,omitempty"`
}

// MarshalJSON encodes the pair as a plain object.
func (o Option) MarshalJSON() ([]byte, error) {
	return json.Marshal(optionJSON{Value: o.value, Text: o.text})
}

// UnmarshalJSON reconstructs the pair through the validating constructor.
func (o *Option) UnmarshalJSON(data []byte) error {
	var raw optionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode option: %w", err)
	}
	parsed, err := NewOption(raw.Value, raw.Text)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
