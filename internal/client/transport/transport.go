// Package transport is the thin HTTP adapter between the engine and the
// remote web endpoints. It knows nothing about the protocol: callers pass
// fully built URLs and header sets and get back the raw body and the raw
// Set-Cookie list.
package transport

import (
	"context"
	"net/http"
)

// Response is what the engine needs from an HTTP exchange.
//
// SetCookie always starts with an empty placeholder followed by the raw
// Set-Cookie header values in arrival order; session.Store.SetCookies drops
// the placeholder when merging.
type Response struct {
	StatusCode int
	Body       []byte
	SetCookie  []string
}

// Client performs GET and JSON POST requests.
type Client interface {
	Get(ctx context.Context, url string, header http.Header) (*Response, error)
	Post(ctx context.Context, url string, header http.Header, payload any) (*Response, error)
}
