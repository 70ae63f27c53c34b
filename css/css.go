// Package css checks style sheets with the W3C CSS validator.
package css

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"

	"github.com/google/go-querystring/query"

	"github.com/w3c-validators/w3c-validators/internal/client"
	"github.com/w3c-validators/w3c-validators/internal/schema"
	"github.com/w3c-validators/w3c-validators/w3c"
)

// DefaultURI is the public CSS validator.
const DefaultURI = "https://jigsaw.w3.org/css-validator/validator"

// Params are optional request parameters of the CSS validator. Empty values
// are not sent.
type Params struct {
	// Profile is the CSS profile, e.g. "css3" or "css21".
	Profile string `url:"profile,omitempty"`
	// Warning is the warning level: "0", "1", "2" or "no".
	Warning string `url:"warning,omitempty"`
	// UserMedium is the medium to check against, e.g. "screen".
	UserMedium string `url:"usermedium,omitempty"`
	// Lang is the language of the messages.
	Lang string `url:"lang,omitempty"`
}

type Options struct {
	// ValidatorURI overrides DefaultURI.
	ValidatorURI string
	Params       Params
	// HTTPClient is used instead of a client owned by the validator. A client
	// without a timeout gets w3c.DefaultTimeout.
	HTTPClient *http.Client
	// Trace receives every HTTP exchange.
	Trace func(w3c.TraceEvent)
}

// Validator is safe for concurrent use. Its configuration is fixed at
// construction.
type Validator struct {
	endpoint *url.URL
	params   Params
	api      *client.API
}

type uriQuery struct {
	URI    string `url:"uri"`
	Output string `url:"output"`
	Params
}

type textForm struct {
	Text   string `url:"text"`
	Output string `url:"output"`
	Params
}

// New returns a validator for opts. It fails only when the validator URI is
// not an absolute http(s) URL.
func New(opts Options) (*Validator, error) {
	raw := opts.ValidatorURI
	if raw == "" {
		raw = DefaultURI
	}
	endpoint, err := client.ParseEndpoint(raw)
	if err != nil {
		return nil, err
	}
	api := client.NewWithClient(opts.HTTPClient, w3c.DefaultTimeout)
	api.SetTrace(opts.Trace)
	return &Validator{endpoint: endpoint, params: opts.Params, api: api}, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(opts Options) *Validator {
	v, err := New(opts)
	if err != nil {
		panic("css: " + err.Error())
	}
	return v
}

// ValidatorURI is the endpoint requests are sent to.
func (v *Validator) ValidatorURI() string {
	return v.endpoint.String()
}

// ValidateURI asks the validator to fetch and check the style sheet at uri.
func (v *Validator) ValidateURI(ctx context.Context, uri string) (*Result, error) {
	return client.Do[Result](ctx, v.api, client.Request{
		Method:   http.MethodGet,
		Endpoint: v.endpoint,
		Query:    uriQuery{URI: uri, Output: "json", Params: v.params},
		Schema:   schema.CSS,
	})
}

// ValidateText sends text as a multipart form field.
func (v *Validator) ValidateText(ctx context.Context, text string) (*Result, error) {
	body, contentType, err := encodeForm(textForm{Text: text, Output: "json", Params: v.params})
	if err != nil {
		return nil, &w3c.Error{Kind: w3c.KindTransport, Method: http.MethodPost, URL: v.ValidatorURI(), Err: err}
	}
	return client.Do[Result](ctx, v.api, client.Request{
		Method:      http.MethodPost,
		Endpoint:    v.endpoint,
		Body:        body,
		ContentType: contentType,
		Schema:      schema.CSS,
	})
}

// encodeForm writes the fields of form as multipart/form-data, "text" first.
func encodeForm(form textForm) ([]byte, string, error) {
	values, err := query.Values(form)
	if err != nil {
		return nil, "", fmt.Errorf("encode form: %w", err)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "text" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	keys = append([]string{"text"}, keys...)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, k := range keys {
		for _, val := range values[k] {
			if err := w.WriteField(k, val); err != nil {
				return nil, "", fmt.Errorf("write form field %s: %w", k, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
