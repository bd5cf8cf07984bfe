package scorer

import (
	"errors"
	"fmt"
)

// ValidationError reports a structurally invalid property input. It is the
// only error ScoreProperty returns for bad data, so batch callers can skip
// the property and keep going.
type ValidationError struct {
	// Side is "property1" or "property2" when raised by a comparison.
	Side       string
	PropertyID string
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	id := e.PropertyID
	if id == "" {
		id = "<unidentified>"
	}
	msg := fmt.Sprintf("scorer: invalid property %s: %s %s", id, e.Field, e.Reason)
	if e.Side != "" {
		msg = e.Side + ": " + msg
	}
	return msg
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidationError extracts the *ValidationError from err, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
