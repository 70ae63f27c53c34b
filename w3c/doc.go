// Package w3c holds what the markup and css validator clients share: the
// error taxonomy of a validation call, HTTP trace events, the request timeout
// and the user agent sent to the W3C services.
package w3c
