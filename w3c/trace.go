package w3c

import "time"

// DefaultTimeout bounds every request sent to a validator service.
const DefaultTimeout = 5 * time.Second

// TraceEvent describes one stage of an HTTP exchange with a validator.
// Stage is one of "request", "response" or "error".
type TraceEvent struct {
	Stage      string
	Method     string
	URL        string
	StatusCode int
	DurationMs int64
	Request    string
	Response   string
	Error      string
}
