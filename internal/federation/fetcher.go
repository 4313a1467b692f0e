package federation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crewjam/saml"
	"github.com/crewjam/saml/samlsp"
)

const (
	defaultFetchTimeout = 30 * time.Second
	maxMetadataBytes    = 10 << 20
)

// Fetcher retrieves the metadata descriptor published at url. A nil
// descriptor with a nil error means the source answered with nothing usable.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*saml.EntityDescriptor, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (*saml.EntityDescriptor, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (*saml.EntityDescriptor, error) {
	return f(ctx, url)
}

// HTTPFetcher downloads metadata over HTTP(S) and parses it.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a fetcher using client, or a client with a 30s
// timeout when client is nil.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &HTTPFetcher{client: client}
}

// Fetch implements Fetcher. An empty response body yields a nil descriptor.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*saml.EntityDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/samlmetadata+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("get metadata: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMetadataBytes))
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	desc, err := samlsp.ParseMetadata(body)
	if err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return desc, nil
}
