package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks a value type or record invariant violated at
	// construction. Local to one record, never retried.
	ErrValidation = errors.New("validation error")
	// ErrNavigation marks a page that could not be reached or stabilized
	// within its timeout. Retried a bounded number of times.
	ErrNavigation = errors.New("navigation error")
	// ErrDownload marks a file fetch that failed for a reason other than the
	// resource being gone.
	ErrDownload = errors.New("download error")
	// ErrCreation marks a submission the destination system rejected; the
	// banner message is preserved verbatim.
	ErrCreation = errors.New("creation error")
	// ErrConfiguration marks unusable operator configuration. Fatal to the
	// run, not to a single record.
	ErrConfiguration = errors.New("configuration error")
	// ErrTimeout marks a bounded wait that expired.
	ErrTimeout = errors.New("timeout")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrNavigation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error should stop the whole run rather than
// fail one record. Only configuration errors qualify; everything else is
// recorded on the record and the batch continues.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// Message extracts the operator-facing text of a wrapped error, stripping
// the leading marker prefix so record error notes stay readable.
func Message(err error) string {
	if err == nil {
		return ""
	}
	text := err.Error()
	for _, marker := range []error{ErrValidation, ErrNavigation, ErrDownload, ErrCreation, ErrConfiguration, ErrTimeout} {
		prefix := marker.Error() + ": "
		if strings.HasPrefix(text, prefix) {
			return strings.TrimPrefix(text, prefix)
		}
	}
	return text
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
