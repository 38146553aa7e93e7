// internal/model/errors.go
package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an AppError for HTTP mapping and retry policy.
type ErrorKind int

const (
	// KindInvalidInput marks malformed request bodies and rejected command
	// data. Surfaced immediately, never retried.
	KindInvalidInput ErrorKind = iota
	// KindPrinter marks transport and protocol failures that escaped the
	// retry loop (the orchestrator absorbs transport errors, so these are
	// rare and only reach callers through non-retrying paths).
	KindPrinter
	// KindInternal marks unexpected library or state failures.
	KindInternal
)

// AppError is the typed failure returned across the service boundary.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	prefix := "Internal error"
	switch e.Kind {
	case KindInvalidInput:
		prefix = "Invalid input"
	case KindPrinter:
		prefix = "Printer error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// StatusCode maps the error kind to an HTTP status class.
func (e *AppError) StatusCode() int {
	if e.Kind == KindInvalidInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// InvalidInput builds a client-error AppError.
func InvalidInput(msg string, err error) *AppError {
	return &AppError{Kind: KindInvalidInput, Message: msg, Err: err}
}

// PrinterFailure builds a printer-class AppError.
func PrinterFailure(msg string, err error) *AppError {
	return &AppError{Kind: KindPrinter, Message: msg, Err: err}
}

// Internal builds an internal-class AppError.
func Internal(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// AsAppError unwraps err into an *AppError, coercing unknown errors to the
// internal kind so every failure has a status mapping.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}
