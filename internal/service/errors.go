package service

import "errors"

// ErrInvalidArgument reports a structurally invalid request, detected
// before any store interaction. Callers must fix the request; retrying
// will not help.
var ErrInvalidArgument = errors.New("invalid argument")

// ServiceError signals either a business-rule violation or a wrapped
// store failure. Cause is nil for pure rule violations, so callers can
// branch on the failure kind without string matching.
type ServiceError struct {
	Msg   string
	Cause error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Cause == nil:
		return e.Msg
	case e.Msg == "":
		return e.Cause.Error()
	default:
		return e.Msg + ": " + e.Cause.Error()
	}
}

// Unwrap exposes the underlying cause for diagnostics.
func (e *ServiceError) Unwrap() error { return e.Cause }

// ruleViolation builds a ServiceError for a failed business rule.
func ruleViolation(msg string) *ServiceError {
	return &ServiceError{Msg: msg}
}

// storeFailure builds a ServiceError wrapping a store-level error.
func storeFailure(msg string, cause error) *ServiceError {
	return &ServiceError{Msg: msg, Cause: cause}
}
