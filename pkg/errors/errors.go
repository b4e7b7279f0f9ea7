// Package errors defines the coded errors shared by chronoline's packages.
//
// An [*Error] carries a [Code] next to its message. The CLI prints only the
// message; the HTTP API also returns the code and picks a status from the
// code's class ([IsInvalid], [IsNotFound]). Codes survive fmt.Errorf
// wrapping because every lookup goes through errors.As.
//
//	if d.Persons[i].BirthYear > d.Persons[i].DeathYear {
//	    return errors.New(errors.ErrCodeInvalidDataset, "%s: born after death", id)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidGrouping Code = "INVALID_GROUPING"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidDataset  Code = "INVALID_DATASET"
	ErrCodeInvalidRange    Code = "INVALID_RANGE"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeFileNotFound   Code = "FILE_NOT_FOUND"
	ErrCodePersonNotFound Code = "PERSON_NOT_FOUND"

	ErrCodeStorage     Code = "STORAGE_ERROR"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

type class uint8

const (
	classOther class = iota
	classInvalid
	classNotFound
)

var classes = map[Code]class{
	ErrCodeInvalidInput:    classInvalid,
	ErrCodeInvalidGrouping: classInvalid,
	ErrCodeInvalidFormat:   classInvalid,
	ErrCodeInvalidDataset:  classInvalid,
	ErrCodeInvalidRange:    classInvalid,
	ErrCodeInvalidPath:     classInvalid,
	ErrCodeNotFound:        classNotFound,
	ErrCodeFileNotFound:    classNotFound,
	ErrCodePersonNotFound:  classNotFound,
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause that stays reachable through errors.Is and
// errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// IsInvalid reports whether err was caused by rejected input.
func IsInvalid(err error) bool { return classes[GetCode(err)] == classInvalid }

// IsNotFound reports whether err names a dataset, file or person that does
// not exist.
func IsNotFound(err error) bool { return classes[GetCode(err)] == classNotFound }

// UserMessage returns the message of the outermost *Error without its code,
// or err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
