// Package markup checks HTML and XML documents with the W3C Nu Html Checker.
//
//	v := markup.MustNew(markup.Options{})
//	res, err := v.ValidateText(ctx, "<!DOCTYPE html><html lang=en></html>")
//	if err != nil {
//		// validation could not be performed
//	}
//	if !res.IsValid() {
//		for _, msg := range res.Errors() {
//			fmt.Println(msg.Type, msg.Message)
//		}
//	}
package markup

import (
	"context"
	"net/http"
	"net/url"

	"github.com/w3c-validators/w3c-validators/internal/client"
	"github.com/w3c-validators/w3c-validators/internal/schema"
	"github.com/w3c-validators/w3c-validators/w3c"
)

const (
	// DefaultURI is the public Nu Html Checker.
	DefaultURI = "https://validator.w3.org/nu/"
	// TextHTMLUTF8 is the content type of documents sent by ValidateText.
	TextHTMLUTF8 = "text/html; charset=utf-8"
)

type Options struct {
	// ValidatorURI overrides DefaultURI.
	ValidatorURI string
	// HTTPClient is used instead of a client owned by the validator. A client
	// without a timeout gets w3c.DefaultTimeout.
	HTTPClient *http.Client
	// Trace receives every HTTP exchange.
	Trace func(w3c.TraceEvent)
	// ContentType overrides TextHTMLUTF8, e.g. for XHTML documents.
	ContentType string
}

// Validator is safe for concurrent use. Its configuration is fixed at
// construction.
type Validator struct {
	endpoint    *url.URL
	contentType string
	api         *client.API
}

type uriQuery struct {
	Doc string `url:"doc"`
	Out string `url:"out"`
}

type textQuery struct {
	Out string `url:"out"`
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
	ct := opts.ContentType
	if ct == "" {
		ct = TextHTMLUTF8
	}
	api := client.NewWithClient(opts.HTTPClient, w3c.DefaultTimeout)
	api.SetTrace(opts.Trace)
	return &Validator{endpoint: endpoint, contentType: ct, api: api}, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(opts Options) *Validator {
	v, err := New(opts)
	if err != nil {
		panic("markup: " + err.Error())
	}
	return v
}

// ValidatorURI is the endpoint requests are sent to.
func (v *Validator) ValidatorURI() string {
	return v.endpoint.String()
}

// ValidateURI asks the checker to fetch and check the document at uri.
func (v *Validator) ValidateURI(ctx context.Context, uri string) (*Result, error) {
	return client.Do[Result](ctx, v.api, client.Request{
		Method:   http.MethodGet,
		Endpoint: v.endpoint,
		Query:    uriQuery{Doc: uri, Out: "json"},
		Schema:   schema.Markup,
	})
}

// ValidateText sends text to the checker as the document body.
func (v *Validator) ValidateText(ctx context.Context, text string) (*Result, error) {
	return client.Do[Result](ctx, v.api, client.Request{
		Method:      http.MethodPost,
		Endpoint:    v.endpoint,
		Query:       textQuery{Out: "json"},
		Body:        []byte(text),
		ContentType: v.contentType,
		Schema:      schema.Markup,
	})
}
