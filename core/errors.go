package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrConflict is returned when a record cannot be removed or changed because other records reference it.
var ErrConflict = errors.New("o registro é referenciado por outros registros")

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
		if len(err.Fields) > 0 {
			return fmt.Sprintf("%s: %s", err.Fields[0].Field, err.Fields[0].Error)
		}
		return ""
	}
	return err.Err.Error()
}

// UniqueValueText is the message of a field whose value is already taken by another record.
const UniqueValueText = "valor já cadastrado"

// NewUniqueValueError reports that the value of field is already taken.
func NewUniqueValueError(err error, field string) error {
	return NewValidationError(err, FieldError{Field: field, Error: UniqueValueText})
}

// NotFoundError reports a missing record of the named resource.
type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

func (err NotFoundError) Error() string {
	return err.Resource + " not found"
}

// IsNotFound reports whether the cause of err is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// ConflictError reports a referential integrity violation.
type ConflictError struct {
	Err    error
	Detail string
}

func NewConflictError(detail string) error {
	return &ConflictError{Err: ErrConflict, Detail: detail}
}

func (err ConflictError) Error() string {
	if err.Detail == "" {
		return err.Err.Error()
	}
	return err.Err.Error() + ": " + err.Detail
}

func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
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
