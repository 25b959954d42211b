// Package httpclient is the net/http backed implementation of the outbound
// HTTP capability used by httpRequest nodes.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tsinling0525/flowrun/plugin"
)

// Options configures a Client. Zero values pick the defaults.
type Options struct {
	Timeout time.Duration
	Retry   RetryPolicy
}

// Client is safe for concurrent use by many runs.
type Client struct {
	http  *http.Client
	retry RetryPolicy
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		http:  &http.Client{Timeout: timeout, Transport: transport},
		retry: opts.Retry.normalized(),
	}
}

var _ plugin.HTTPClient = (*Client)(nil)

func (c *Client) Do(ctx context.Context, req *plugin.HTTPRequest) (*plugin.HTTPResponse, error) {
	target, err := withQuery(req.URL, req.Query)
	if err != nil {
		return nil, err
	}
	log := zerolog.Ctx(ctx)

	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retry.wait(attempt - 1)
			log.Debug().Int("attempt", attempt).Dur("wait", wait).Err(lastErr).Msg("retrying http request")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
		resp, err := c.once(ctx, req, target)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (c *Client) once(ctx context.Context, req *plugin.HTTPRequest, target string) (*plugin.HTTPResponse, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		hreq.Header.Set(k, v)
	}
	res, err := c.http.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &plugin.HTTPResponse{StatusCode: res.StatusCode, Header: res.Header, Body: data}, nil
}

// withQuery merges params into the URL's existing query string.
func withQuery(raw string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
