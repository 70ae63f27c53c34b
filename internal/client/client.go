// Package client sends validation requests to a W3C service and decodes the
// JSON answer. It is shared by the markup and css validators.
package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/go-querystring/query"

	"github.com/w3c-validators/w3c-validators/internal/schema"
	"github.com/w3c-validators/w3c-validators/w3c"
)

const (
	connectTimeout        = 3 * time.Second
	tlsHandshakeTimeout   = 3 * time.Second
	expectContinueTimeout = 1 * time.Second
	keepAliveTimeout      = 30 * time.Second
	idleConnTimeout       = 90 * time.Second
	maxIdleConns          = 16
	maxIdleConnsPerHost   = 4

	maxBodyBytes  = 16 << 20
	maxTraceBytes = 2 << 20
	maxErrorBody  = 512
)

type API struct {
	http  *http.Client
	trace func(w3c.TraceEvent)
}

// New returns an API with its own transport. Every request is bounded by
// timeout.
func New(timeout time.Duration) *API {
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: keepAliveTimeout,
	}
	return &API{
		http: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   tlsHandshakeTimeout,
				ExpectContinueTimeout: expectContinueTimeout,
				IdleConnTimeout:       idleConnTimeout,
				MaxIdleConns:          maxIdleConns,
				MaxIdleConnsPerHost:   maxIdleConnsPerHost,
				ForceAttemptHTTP2:     true,
			},
			Timeout: timeout,
		},
	}
}

// NewWithClient wraps a caller supplied client. A client without a timeout is
// copied and given one; the caller's value is never modified.
func NewWithClient(hc *http.Client, timeout time.Duration) *API {
	if hc == nil {
		return New(timeout)
	}
	if hc.Timeout == 0 {
		cp := *hc
		cp.Timeout = timeout
		hc = &cp
	}
	return &API{http: hc}
}

func (a *API) SetTrace(fn func(w3c.TraceEvent)) {
	a.trace = fn
}

// Timeout is the overall request timeout of the underlying client.
func (a *API) Timeout() time.Duration {
	return a.http.Timeout
}

func (a *API) emitTrace(ev w3c.TraceEvent) {
	if a.trace != nil {
		a.trace(ev)
	}
}

// Request describes one call to a validator endpoint.
type Request struct {
	Method   string
	Endpoint *url.URL
	// Query is a struct encoded with go-querystring and merged into the
	// endpoint's own query.
	Query       any
	Body        []byte
	ContentType string
	Schema      *schema.Schema
}

// Do sends r and decodes an accepted response into a new T. The result is
// nil exactly when the error is non-nil; the error is always a *w3c.Error.
func Do[T any](ctx context.Context, a *API, r Request) (*T, error) {
	req, err := a.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	body, err := a.exchange(req)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*T, error) {
		return nil, &w3c.Error{Kind: w3c.KindDecode, Method: req.Method, URL: req.URL.String(), Err: err}
	}
	if r.Schema != nil {
		if err := r.Schema.Validate(body); err != nil {
			return fail(err)
		}
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return fail(fmt.Errorf("parse response: %w", err))
	}
	return &out, nil
}

func (a *API) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	if r.Endpoint == nil {
		return nil, &w3c.Error{Kind: w3c.KindTransport, Method: method, Err: fmt.Errorf("missing endpoint")}
	}
	u := *r.Endpoint
	if r.Query != nil {
		values, err := query.Values(r.Query)
		if err != nil {
			return nil, &w3c.Error{Kind: w3c.KindTransport, Method: method, URL: u.String(), Err: fmt.Errorf("encode query: %w", err)}
		}
		merged := u.Query()
		for k, vs := range values {
			merged[k] = vs
		}
		u.RawQuery = merged.Encode()
	}
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &w3c.Error{Kind: w3c.KindTransport, Method: method, URL: u.String(), Err: err}
	}
	req.Header.Set("User-Agent", w3c.UserAgent())
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}
	return req, nil
}

// acceptedStatus reports whether a response may carry a validation result.
func acceptedStatus(code int) bool {
	return code == http.StatusOK || code == http.StatusNotModified
}

func (a *API) exchange(req *http.Request) ([]byte, error) {
	reqBody := readReqBody(req)
	a.emitTrace(w3c.TraceEvent{
		Stage:   "request",
		Method:  req.Method,
		URL:     req.URL.String(),
		Request: reqBody,
	})
	start := time.Now()
	resp, err := a.http.Do(req)
	if err != nil {
		a.emitTrace(w3c.TraceEvent{
			Stage:      "error",
			Method:     req.Method,
			URL:        req.URL.String(),
			DurationMs: time.Since(start).Milliseconds(),
			Request:    reqBody,
			Error:      err.Error(),
		})
		return nil, &w3c.Error{Kind: w3c.KindTransport, Method: req.Method, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	ev := w3c.TraceEvent{
		Stage:      "response",
		Method:     req.Method,
		URL:        req.URL.String(),
		StatusCode: resp.StatusCode,
		DurationMs: time.Since(start).Milliseconds(),
		Request:    reqBody,
		Response:   traceBody(body),
	}
	if readErr != nil {
		ev.Error = readErr.Error()
	}
	a.emitTrace(ev)
	if !acceptedStatus(resp.StatusCode) {
		return nil, &w3c.Error{
			Kind:       w3c.KindStatus,
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       shortBody(body),
		}
	}
	if readErr != nil {
		return nil, &w3c.Error{Kind: w3c.KindRead, Method: req.Method, URL: req.URL.String(), StatusCode: resp.StatusCode, Err: readErr}
	}
	return body, nil
}

func readReqBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return ""
	}
	rc, err := req.GetBody()
	if err != nil {
		return ""
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, maxTraceBytes))
	if err != nil {
		return ""
	}
	return traceBody(b)
}

func traceBody(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		return string(b)
	}
	sum := sha256.Sum256(b)
	return fmt.Sprintf("<binary bytes=%d sha256=%s>", len(b), hex.EncodeToString(sum[:]))
}

func shortBody(b []byte) string {
	s := strings.TrimSpace(traceBody(b))
	if len(s) <= maxErrorBody {
		return s
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// ParseEndpoint parses a validator endpoint. Only absolute http(s) URLs are
// accepted.
func ParseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse validator uri %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("validator uri %q must be an absolute http(s) url", raw)
	}
	return u, nil
}
