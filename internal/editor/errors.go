package editor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRowNotFound is returned when a row key does not address any row.
	ErrRowNotFound = errors.New("editor: row not found")
	// ErrUnknownField is returned for field names the editor does not manage.
	ErrUnknownField = errors.New("editor: unknown field")
	// ErrInvalidValue is returned when a value cannot be coerced to the field type.
	ErrInvalidValue = errors.New("editor: invalid value")
	// ErrBusy is returned while a submission is in flight.
	ErrBusy = errors.New("editor: submission in progress")
	// ErrNotReady is returned when submitting before loading finished.
	ErrNotReady = errors.New("editor: still loading")
	// ErrNotEditable is returned once the editor succeeded, aborted or was closed.
	ErrNotEditable = errors.New("editor: no longer editable")
)

// LoadError reports a failed fetch. Critical failures concern the record being
// edited and leave the editor aborted; non-critical ones concern reference data
// and leave the form usable with empty options.
type LoadError struct {
	Critical bool
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("editor: load %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsCritical reports whether err contains a critical LoadError.
func IsCritical(err error) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr) && loadErr.Critical
}

// ValidationError lists required header fields left empty.
type ValidationError struct {
	Fields []HeaderField
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("editor: required fields missing: %s", strings.Join(names, ", "))
}

// SubmitError wraps a rejected submission. The editor keeps it as LastError
// until the next submit.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("editor: submit: %v", e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }
