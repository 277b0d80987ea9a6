package schema

import (
	"fmt"
	"strings"
)

// FieldError represents a single property type failure.
type FieldError struct {
	Key    string
	Reason string
	Value  any
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("property %q: %s", e.Key, e.Reason)
}

// AggregateError represents multiple property failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	parts := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d property errors: %s", len(e.Errors), strings.Join(parts, "; "))
}

// FieldErrors returns the individual failures if err is an AggregateError.
func FieldErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
