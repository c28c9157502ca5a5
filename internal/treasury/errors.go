package treasury

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUpstream marks every error caused by the payments platform rejecting a request.
	ErrUpstream = errors.New("payments platform rejected request")

	// ErrUnavailable indicates the platform could not be reached or timed out.
	ErrUnavailable = errors.New("payments platform unavailable")
)

// APIError carries the status code and error body returned by the platform.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Parameter  string
}

type errorEnvelope struct {
	Errors struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Parameter string `json:"parameter"`
	} `json:"errors"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Parameter != "" {
		return fmt.Sprintf("payments platform returned %d: %s (%s)", e.StatusCode, msg, e.Parameter)
	}
	return fmt.Sprintf("payments platform returned %d: %s", e.StatusCode, msg)
}

func (e *APIError) Unwrap() error { return ErrUpstream }

// Temporary reports whether the same request may succeed later.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsRetryable reports whether err is a transient failure worth another attempt.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return false
}
