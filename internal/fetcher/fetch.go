package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const maxBodySize = 8 * 1024 * 1024

// Source returns the raw bytes behind a URL.
type Source interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPClient is the subset of *http.Client used by Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches provider pages over HTTP and returns them as UTF-8.
type Client struct {
	http      HTTPClient
	userAgent string
	charset   string
}

// NewClient returns a Client using a plain http.Client with the given timeout.
// charset, when set, overrides whatever the server announces.
func NewClient(userAgent string, timeout time.Duration, charset string) *Client {
	return NewClientWith(&http.Client{Timeout: timeout}, userAgent, charset)
}

// NewClientWith returns a Client on top of an existing HTTPClient.
func NewClientWith(hc HTTPClient, userAgent, charset string) *Client {
	return &Client{http: hc, userAgent: userAgent, charset: charset}
}

// Fetch downloads url. Any failure is returned as a *FetchError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("NewRequest: %w", err)}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("Do: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("ReadAll: %w", err)}
	}
	out, err := toUTF8(body, c.charset, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return out, nil
}

// toUTF8 converts body from the override charset, or the charset in
// contentType, to UTF-8. Bodies without a declared charset pass through.
func toUTF8(body []byte, override, contentType string) ([]byte, error) {
	name := override
	if name == "" && contentType != "" {
		if _, params, err := mime.ParseMediaType(contentType); err == nil {
			name = params["charset"]
		}
	}
	if name == "" {
		return body, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", name, err)
	}
	if n, _ := htmlindex.Name(enc); n == "utf-8" {
		return body, nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}
