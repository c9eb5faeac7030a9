package workouts

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDate  = errors.New("malformed date")
	ErrMalformedValue = errors.New("malformed value")
)

// DateError reports a present, non-blank date that could not be parsed.
type DateError struct {
	Row   int
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("row %d: %s: %q (expected day-first, e.g. 03/04/2024)", e.Row, ErrMalformedDate, e.Value)
}

func (e *DateError) Unwrap() error {
	return ErrMalformedDate
}

// CoercionError reports a non-blank numeric value that could not be coerced.
// Only returned when strict coercion is enabled.
type CoercionError struct {
	Row    int
	Column string
	Value  string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("row %d: %s in column %s: %q", e.Row, ErrMalformedValue, e.Column, e.Value)
}

func (e *CoercionError) Unwrap() error {
	return ErrMalformedValue
}
