// Package errors defines the error taxonomy shared by the money services.
package errors

import (
	"fmt"
)

// DomainError is a non-reportable business rule violation. Callers match
// these with errors.Is against the package sentinels.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// ReportableError wraps a downstream failure (gateway, order fulfillment,
// webhook processing) so it is surfaced with its original cause attached
// and never silently dropped.
type ReportableError struct {
	Message string
	Cause   error
}

func (e *ReportableError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *ReportableError) Unwrap() error {
	return e.Cause
}

// Report wraps err into a ReportableError with the given message.
func Report(message string, err error) *ReportableError {
	return &ReportableError{Message: message, Cause: err}
}
