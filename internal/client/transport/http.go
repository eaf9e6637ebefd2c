package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/webwx/internal/common"
	"github.com/dmitrijs2005/webwx/internal/logging"
	"github.com/sethvargo/go-retry"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultBaseDelay = 500 * time.Millisecond
	maxRetryDelay    = 10 * time.Second
)

// HTTPClient implements Client on net/http.
type HTTPClient struct {
	client    *http.Client
	log       logging.Logger
	retries   uint64
	baseDelay time.Duration
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying client (tests use httptest clients).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.client = c }
}

// WithTimeout bounds every single request, long-poll included.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithRetry retries transient failures (network errors and 5xx) up to n times
// with capped exponential backoff. n = 0 disables retries.
func WithRetry(n uint64, base time.Duration) Option {
	return func(h *HTTPClient) {
		h.retries = n
		if base > 0 {
			h.baseDelay = base
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.log = l }
}

func New(opts ...Option) *HTTPClient {
	h := &HTTPClient{
		client:    &http.Client{Timeout: defaultTimeout},
		log:       logging.Discard(),
		baseDelay: defaultBaseDelay,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *HTTPClient) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	return h.do(ctx, http.MethodGet, url, header, nil)
}

// Post sends payload as a JSON body.
func (h *HTTPClient) Post(ctx context.Context, url string, header http.Header, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return h.do(ctx, http.MethodPost, url, header, body)
}

func (h *HTTPClient) do(ctx context.Context, method, url string, header http.Header, body []byte) (*Response, error) {
	if h.retries == 0 {
		return h.roundTrip(ctx, method, url, header, body)
	}

	b := retry.NewExponential(h.baseDelay)
	b = retry.WithCappedDuration(maxRetryDelay, b)
	b = retry.WithMaxRetries(h.retries, b)

	attempt := 0
	return retry.DoValue(ctx, b, func(ctx context.Context) (*Response, error) {
		attempt++
		resp, err := h.roundTrip(ctx, method, url, header, body)
		if err != nil && transient(err) {
			h.log.Warn(ctx, "transient transport failure", "method", method, "url", url, "attempt", attempt, "error", err)
			return nil, retry.RetryableError(err)
		}
		return resp, err
	})
}

func (h *HTTPClient) roundTrip(ctx context.Context, method, url string, header http.Header, body []byte) (*Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, &common.TransportError{Method: method, URL: url, Err: err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	// net/http ignores a Host entry in req.Header.
	if host := header.Get("Host"); host != "" {
		req.Host = host
	}

	h.log.Debug(ctx, "http request", "method", method, "url", url)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &common.TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &common.TransportError{Method: method, URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &common.TransportError{Method: method, URL: url, StatusCode: resp.StatusCode}
	}

	h.log.Debug(ctx, "http response", "method", method, "url", url, "status", resp.StatusCode, "bytes", len(data))

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		SetCookie:  append([]string{common.PlaceholderCookie}, resp.Header.Values("Set-Cookie")...),
	}, nil
}

// transient reports failures worth another attempt: network errors and 5xx.
// Context cancellation never is.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var te *common.TransportError
	if !errors.As(err, &te) {
		return false
	}
	return te.Err != nil || te.StatusCode >= http.StatusInternalServerError
}
