package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// MaxBodySize bounds how much of an upstream body is read.
const MaxBodySize = 16 << 20

// ErrStatus marks a non-2xx upstream answer.
var ErrStatus = errors.New("upstream status")

// StatusError carries the upstream status code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.Code)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Options tunes a single request.
type Options struct {
	Headers map[string]string
	Timeout time.Duration
}

// Response is a fully read upstream answer.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Fetcher performs one upstream request.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts Options) (*Response, error)
}

// Client implements Fetcher on top of net/http.
type Client struct {
	http *http.Client
}

// New wraps client; nil means a client without a global timeout, since every
// call carries its own.
func New(client *http.Client) *Client {
	if client == nil {
		client = &http.Client{}
	}
	return &Client{http: client}
}

// Fetch issues a GET and reads the whole body. Any non-2xx answer is returned
// together with a *StatusError.
func (c *Client) Fetch(ctx context.Context, url string, opts Options) (*Response, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	out := &Response{Status: res.StatusCode, Header: res.Header, Body: body}
	if !out.OK() {
		return out, &StatusError{Code: res.StatusCode}
	}
	return out, nil
}
