package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUpstreamTimeout  = errors.New("upstream timeout")
	ErrUpstreamError    = errors.New("upstream error")
	ErrUpstreamProtocol = errors.New("upstream protocol error")
)

const maxErrorBody = 512

// UpstreamError is returned when AccuWeather answers with a non-2xx status,
// or when the request could not be delivered at all (StatusCode 0).
type UpstreamError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("accuweather %s request failed: %v", e.Operation, e.Err)
	}

	detail := e.Body
	if detail == "" {
		detail = e.Status
	}
	if len(detail) > maxErrorBody {
		detail = truncateUTF8(detail, maxErrorBody) + "..."
	}
	return fmt.Sprintf("accuweather %s returned status %d: %s", e.Operation, e.StatusCode, detail)
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstreamError}
	}
	return []error{ErrUpstreamError, e.Err}
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func protocolError(operation, detail string) error {
	return fmt.Errorf("%w: %s: malformed response: %s", ErrUpstreamProtocol, operation, detail)
}

// ErrorKind returns a stable label for err, used in logs and tool failures.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrUpstreamTimeout):
		return "upstream_timeout"
	case errors.Is(err, ErrUpstreamProtocol):
		return "upstream_protocol_error"
	case errors.Is(err, ErrUpstreamError):
		return "upstream_error"
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline_exceeded"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "internal"
	}
}
