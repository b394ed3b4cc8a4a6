package admin

import (
	"errors"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound        = eris.New("record not found")
	// ErrUnknownResource indicates the resource key is not registered.
	ErrUnknownResource = eris.New("unknown resource")
	// ErrConflict indicates a unique constraint rejected the write.
	ErrConflict        = eris.New("record conflicts with an existing record")
	// ErrInUse indicates other records still reference the record.
	ErrInUse           = eris.New("record is referenced by other records")
)

// ValidationError collects per-field messages for a rejected save.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a message for a field, keeping the first message per field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// Empty reports whether no messages were recorded.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
