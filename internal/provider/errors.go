package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"riskpulse/internal/domain"
)

// ErrorKind classifies a failed (or specially flagged) API call.
type ErrorKind string

const (
	KindTimeout           ErrorKind = "timeout"
	KindUnreachable       ErrorKind = "network_unreachable"
	KindAuth              ErrorKind = "auth"
	KindNotFound          ErrorKind = "not_found"
	KindRateLimited       ErrorKind = "rate_limited"
	KindPaymentRequired   ErrorKind = "payment_required"
	KindServerUnavailable ErrorKind = "server_unavailable"
	KindHTTPStatus        ErrorKind = "http_status"
	KindMalformed         ErrorKind = "malformed_response"
	// KindQuotaExceeded is not a transport failure: the API answered with a
	// structured limit_exceeded status instead of a value.
	KindQuotaExceeded ErrorKind = "quota_exceeded"
)

// APIError is the classified failure of one API call. Timeframe is set for
// per-timeframe sentiment fetches so the coordinator can aggregate failures
// without losing which horizon they belong to.
type APIError struct {
	Kind      ErrorKind
	Status    int
	Timeframe domain.Timeframe
	Message   string
	Err       error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Timeframe != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Timeframe, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsKind reports whether err carries the given classification.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// kindForStatus maps an HTTP status code to its semantic kind.
func kindForStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusNotFound:
		return KindNotFound
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code == http.StatusPaymentRequired:
		return KindPaymentRequired
	case code >= 500:
		return KindServerUnavailable
	default:
		return KindHTTPStatus
	}
}

// classifyTransportErr turns a raw transport failure into a kinded error.
func classifyTransportErr(err error) *APIError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &APIError{Kind: KindTimeout, Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &APIError{Kind: KindTimeout, Err: err}
	default:
		return &APIError{Kind: KindUnreachable, Err: err}
	}
}

func statusError(code int, body string) *APIError {
	return &APIError{
		Kind:    kindForStatus(code),
		Status:  code,
		Message: fmt.Sprintf("API error %d: %s", code, body),
	}
}
