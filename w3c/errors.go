package w3c

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind tells why a validation call produced no result.
type ErrorKind int

const (
	// KindTransport covers connection, DNS, TLS and timeout failures, and
	// requests that could not be built.
	KindTransport ErrorKind = iota + 1
	// KindStatus is any HTTP status other than 200 and 304.
	KindStatus
	// KindRead means the response body could not be read.
	KindRead
	// KindDecode means the body is not JSON or does not match the
	// response schema of the service.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindRead:
		return "read"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every validation call that produced no result.
type Error struct {
	Kind       ErrorKind
	Method     string
	URL        string
	StatusCode int
	Status     string
	// Body is a trimmed prefix of the response body for KindStatus errors.
	Body string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Method != "" || e.URL != "" {
		fmt.Fprintf(&b, " (%s %s)", e.Method, e.URL)
	}
	if e.Kind == KindStatus {
		status := e.Status
		if status == "" {
			status = fmt.Sprintf("%d", e.StatusCode)
		}
		fmt.Fprintf(&b, ": unexpected status %s", status)
		if body := strings.TrimSpace(e.Body); body != "" {
			fmt.Fprintf(&b, ": %s", body)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
