package errortypes

import (
	"fmt"
	"strings"
)

// AggregateErrors reports every problem found in one pass, such as config validation,
// under a single error.
type AggregateErrors struct {
	Message string
	Errors  []error
}

func NewAggregateErrors(msg string, errs []error) AggregateErrors {
	return AggregateErrors{
		Message: msg,
		Errors:  errs,
	}
}

func (e AggregateErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s (1 error):\n  1: %v\n", e.Message, e.Errors[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d errors):\n", e.Message, len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "  %d: %v\n", i+1, err)
	}
	return b.String()
}

// Unwrap exposes the grouped errors to errors.Is and errors.As.
func (e AggregateErrors) Unwrap() []error {
	return e.Errors
}
