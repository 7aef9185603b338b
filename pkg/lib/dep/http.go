package dep

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTP waits for an HTTP endpoint to answer with a success status. Both http
// and https targets are supported; the scheme of the URL decides.
type HTTP struct {
	tag     string
	rawURL  string
	method  string
	timeout time.Duration
	// insecure skips TLS certificate verification for https targets, for
	// local services with self-signed certificates.
	insecure bool
}

// NewHTTP constructs an HTTP dependency probing rawURL with the given method
// (http.MethodGet when empty). A zero timeout means wait forever.
func NewHTTP(tag, rawURL, method string, timeout time.Duration) *HTTP {
	if method == "" {
		method = http.MethodGet
	}
	return &HTTP{tag: tag, rawURL: rawURL, method: method, timeout: timeout}
}

// NewHTTPHostPort is a convenience constructor building the URL from parts,
// with ssl selecting the https scheme.
func NewHTTPHostPort(tag, host, port, path string, ssl bool, method string, timeout time.Duration) *HTTP {
	scheme := "http"
	if ssl {
		scheme = "https"
	}
	return NewHTTP(tag, fmt.Sprintf("%s://%s:%s%s", scheme, host, port, path), method, timeout)
}

// Insecure disables TLS certificate verification and returns the receiver
// for chaining.
func (h *HTTP) Insecure() *HTTP {
	h.insecure = true
	return h
}

// Tag identifies the dependency in pool output.
func (h *HTTP) Tag() string { return h.tag }

func (h *HTTP) validate() (*url.URL, error) {
	u, err := url.Parse(h.rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("empty host in %q", h.rawURL)
	}
	return u, nil
}

func (h *HTTP) client() *http.Client {
	transport := &http.Transport{}
	if h.insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &http.Client{Transport: transport}
}

// rejection wraps a non-success status. A reachable endpoint answering
// outside the 2xx class is broken, not pending, so it fails the wait
// immediately.
type rejection struct {
	status string
}

func (e *rejection) Error() string { return e.status }

func (h *HTTP) request(ctx context.Context, client *http.Client) error {
	req, err := http.NewRequestWithContext(ctx, h.method, h.rawURL, nil)
	if err != nil {
		return err
	}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	return &rejection{status: res.Status}
}

// Check issues one request. A success status returns nil; anything else is
// the error.
func (h *HTTP) Check(ctx context.Context) error {
	if _, err := h.validate(); err != nil {
		return err
	}
	return h.request(ctx, h.client())
}

// Wait polls the endpoint until it answers. A success status resolves the
// wait; a non-success status is a terminal Rejection without further
// retries; connection errors are retried until the timeout expires.
func (h *HTTP) Wait(ctx context.Context) error {
	if _, err := h.validate(); err != nil {
		return &WaitError{Kind: InvalidTarget, Err: err}
	}

	deadline := deadlineFrom(h.timeout)
	client := h.client()

	for {
		attemptCtx := ctx
		cancel := func() {}
		if !deadline.IsZero() {
			attemptCtx, cancel = context.WithDeadline(ctx, deadline)
		}
		err := h.request(attemptCtx, client)
		cancel()

		if err == nil {
			return nil
		}
		var rej *rejection
		if errors.As(err, &rej) {
			return &WaitError{Kind: Rejection, Err: rej}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if expired(deadline) {
			return &WaitError{Kind: Timeout}
		}
		if err := sleepGap(ctx); err != nil {
			return err
		}
		if expired(deadline) {
			return &WaitError{Kind: Timeout}
		}
	}
}
