package models

import "errors"

// ErrorKind classifies a failure for display.
type ErrorKind string

const (
	ErrExtractionFailure  ErrorKind = "extraction_failure"
	ErrConfigurationError ErrorKind = "configuration_error"
	ErrTransportError     ErrorKind = "transport_error"
	ErrUpstreamError      ErrorKind = "upstream_error"
)

// HintError is a classified failure in the hint pipeline. None of them are
// retried; the user starts a fresh request.
type HintError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *HintError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HintError) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or "" when err is not a HintError.
func KindOf(err error) ErrorKind {
	var he *HintError
	if errors.As(err, &he) {
		return he.Kind
	}
	return ""
}
