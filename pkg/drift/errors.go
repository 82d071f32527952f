package drift

import (
	"errors"
	"fmt"
)

// ErrColumnNotFound signals a positioning or rename reference to a column that
// is not present in the current schema.
var ErrColumnNotFound = errors.New("column not found")

// ErrUnsupportedEvent signals an event variant outside the known set, e.g. one
// decoded from a newer protocol version.
var ErrUnsupportedEvent = errors.New("unsupported schema change event")

// UnsupportedEventError carries the offending event for diagnostics.
type UnsupportedEventError struct {
	Event Event
}

func (e *UnsupportedEventError) Error() string {
	if e == nil || e.Event == nil {
		return "unsupported schema change event"
	}
	return fmt.Sprintf("unsupported schema change event %T for table %s", e.Event, e.Event.Table())
}

func (e *UnsupportedEventError) Unwrap() error {
	return ErrUnsupportedEvent
}
