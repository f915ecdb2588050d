// Package parsererror defines the error taxonomy of the conversion pipeline.
//
// File-level errors (HeaderNotFoundError, InvalidFormatError) abort the
// conversion of one file. Row-level errors (ParseError, and anything wrapping
// ErrMalformedAmount, ErrMalformedDate, ErrMissingField or ErrNotApplicable)
// mean the row is skipped and the batch continues.
package parsererror

import (
	"errors"
	"fmt"
)

var (
	// ErrHeaderNotFound means no recognizable data region exists in a file.
	ErrHeaderNotFound = errors.New("header not found")
	// ErrMalformedAmount means a monetary field could not be read as a decimal.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrMalformedDate means a date field matched none of the expected layouts.
	ErrMalformedDate = errors.New("malformed date")
	// ErrMissingField means a required column was empty.
	ErrMissingField = errors.New("missing required field")
	// ErrNotApplicable means the record is not a transaction we convert.
	ErrNotApplicable = errors.New("record not applicable")
)

// ParseError is a row-local failure to read one field.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// HeaderNotFoundError is returned when a file has no header line.
type HeaderNotFoundError struct {
	FilePath string
	Expected string
}

func (e *HeaderNotFoundError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("header not found: expected a line starting with %q", e.Expected)
	}
	return fmt.Sprintf("header not found in '%s': expected a line starting with %q", e.FilePath, e.Expected)
}

func (e *HeaderNotFoundError) Unwrap() error {
	return ErrHeaderNotFound
}

// InvalidFormatError means the input file is not the export a parser expects.
// Its header lacks the columns that mark the data region, so it matches
// ErrHeaderNotFound.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("invalid format: %s. Expected: %s", e.Msg, e.ExpectedFormat)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Unwrap() error {
	return ErrHeaderNotFound
}

// NotApplicable wraps ErrNotApplicable with the reason a row was skipped.
func NotApplicable(reason string) error {
	return fmt.Errorf("%w: %s", ErrNotApplicable, reason)
}

// IsRowLocal reports whether err only concerns a single row.
func IsRowLocal(err error) bool {
	return errors.Is(err, ErrMalformedAmount) ||
		errors.Is(err, ErrMalformedDate) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrNotApplicable)
}
