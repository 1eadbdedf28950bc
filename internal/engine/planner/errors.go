package planner

import (
	"errors"
	"strings"
)

var (
	ErrGenerationInFlight = errors.New("an itinerary is already being generated")
	ErrClosed             = errors.New("planner closed")
)

// FieldError is one problem with one form field.
type FieldError struct {
	Field string
	Msg   string
}

func (e *FieldError) Error() string { return e.Msg }

// ValidationErrors collects every problem found in a form.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Msg
	}
	return strings.Join(msgs, ". ")
}

// Unwrap lets errors.As reach an individual *FieldError.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, len(v))
	for i, e := range v {
		out[i] = e
	}
	return out
}

// For returns the errors attached to field.
func (v ValidationErrors) For(field string) []*FieldError {
	var out []*FieldError
	for _, e := range v {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

func (v *ValidationErrors) add(field, msg string) {
	*v = append(*v, &FieldError{Field: field, Msg: msg})
}
