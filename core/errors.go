package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by detail fetchers when no record matches.
var ErrNotFound = errors.New("not found")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FetchFailure reports that a data collaborator could not serve a resource.
type FetchFailure struct {
	Resource string
	Err      error
}

func NewFetchFailure(resource string, err error) error {
	return &FetchFailure{Resource: resource, Err: err}
}

func (f *FetchFailure) Error() string {
	return fmt.Sprintf("fetching %s: %v", f.Resource, f.Err)
}

func (f *FetchFailure) Unwrap() error { return f.Err }

// IsFetchFailure reports whether err (or anything it wraps) is a *FetchFailure.
func IsFetchFailure(err error) bool {
	var ff *FetchFailure
	return errors.As(err, &ff)
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
