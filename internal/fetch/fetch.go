// Package fetch talks to the two page rendering services: the primary
// reader endpoint and the local browser-automation fallback.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Result is a fetched body with the HTTP status reported for the page.
type Result struct {
	Body       string
	StatusCode int
}

// Fetcher retrieves a page through one backing service.
type Fetcher interface {
	Fetch(ctx context.Context, target string) (Result, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, target string) (Result, error)

func (f FetcherFunc) Fetch(ctx context.Context, target string) (Result, error) {
	return f(ctx, target)
}

// Client holds transport settings shared by both services.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// PerRequestTimeout bounds each request. Zero means no bound beyond ctx.
	PerRequestTimeout time.Duration
	// RedirectMaxHops caps redirect following to avoid loops. Zero means default (5).
	RedirectMaxHops int
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{Timeout: c.PerRequestTimeout, CheckRedirect: c.checkRedirectFunc()}
}

// do sends req and returns the full body of a 2xx response. Transport
// failures come back as *NetworkError, other statuses as *HTTPError.
func (c *Client) do(ctx context.Context, op string, req *http.Request) (*http.Response, []byte, error) {
	if req.URL == nil || !isHTTPScheme(req.URL) {
		return nil, nil, fmt.Errorf("%s: unsupported URL scheme: %q", op, req.URL.String())
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.PerRequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.PerRequestTimeout)
		defer cancel()
	}
	req = req.WithContext(ctx)

	logger := zerolog.Ctx(ctx)
	start := time.Now()
	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("op", op).Dur("took", time.Since(start)).Msg("request failed")
		return nil, nil, newNetworkError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, newNetworkError(op, fmt.Errorf("read body: %w", err))
	}
	logger.Debug().Str("op", op).Int("status", resp.StatusCode).Int("bytes", len(body)).Dur("took", time.Since(start)).Msg("response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, nil, &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: excerpt(string(body))}
	}
	return resp, body, nil
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		// Only allow http/https during redirects
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
