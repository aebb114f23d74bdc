package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// bodyExcerptChars bounds the response text carried by HTTPError.
const bodyExcerptChars = 200

// NetworkKind narrows down why a request never produced a response.
type NetworkKind int

const (
	NetworkOther NetworkKind = iota
	NetworkTimeout
	NetworkConnection
)

// NetworkError is a connection, timeout or transport failure.
type NetworkError struct {
	Op   string
	Kind NetworkKind
	Err  error
}

func newNetworkError(op string, err error) *NetworkError {
	ne := &NetworkError{Op: op, Err: err}
	var netErr net.Error
	var opErr *net.OpError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		ne.Kind = NetworkTimeout
	case errors.As(err, &opErr) && opErr.Op == "dial":
		ne.Kind = NetworkConnection
	}
	return ne
}

func (e *NetworkError) Error() string {
	switch e.Kind {
	case NetworkTimeout:
		return e.Op + ": request timed out"
	case NetworkConnection:
		return e.Op + ": connection failed - is the service running?"
	default:
		return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response. Body holds at most the first 200
// characters of the response.
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

// ServiceError is reported by the fallback service in its JSON envelope.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return "service error: " + e.Message
}

func excerpt(s string) string {
	n := 0
	for i := range s {
		if n == bodyExcerptChars {
			return s[:i]
		}
		n++
	}
	return s
}
