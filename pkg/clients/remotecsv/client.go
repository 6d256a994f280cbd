package remotecsv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNotFound is returned when the remote document does not exist.
var ErrNotFound = errors.New("remote document not found")

// Client fetches delimited datasets published over HTTP.
type Client interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	Revision(ctx context.Context, url string) (string, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a client with the provided request timeout.
func NewClient(timeout time.Duration) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5").
		SetTimeout(timeout)

	return &APIClient{httpClient: restyClient}
}

// Fetch downloads the document body.
func (c *APIClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("fetch %s: %w", url, ErrNotFound)
	case resp.StatusCode() >= http.StatusBadRequest:
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode())
	}

	return resp.Body(), nil
}

// Revision returns the ETag, or Last-Modified when no ETag is sent, from a HEAD
// request. An empty revision means the server does not expose one.
func (c *APIClient) Revision(ctx context.Context, url string) (string, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Head(url)
	if err != nil {
		return "", fmt.Errorf("head %s: %w", url, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return "", fmt.Errorf("head %s: %w", url, ErrNotFound)
	case resp.StatusCode() >= http.StatusBadRequest:
		return "", nil
	}

	if etag := resp.Header().Get("ETag"); etag != "" {
		return etag, nil
	}
	return resp.Header().Get("Last-Modified"), nil
}
