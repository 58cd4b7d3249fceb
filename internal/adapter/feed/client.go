package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/covid-data-etl/internal/config"
	"github.com/couchcryptid/covid-data-etl/internal/domain"
)

// FetchError reports a transport or HTTP status failure while downloading a
// feed. An empty-but-200 response is domain.ErrEmptyFeed instead.
type FetchError struct {
	Source domain.SourceID
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d from %s", e.Source, e.Status, e.URL)
	}
	return fmt.Sprintf("fetch %s from %s: %v", e.Source, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client downloads CSV feeds over HTTP. It implements pipeline.Fetcher.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client with the given per-request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads one feed endpoint and parses it into a raw dataset. Any
// non-2xx status or transport failure is a FetchError; a well-formed response
// with a header but no data rows is domain.ErrEmptyFeed.
func (c *Client) Fetch(ctx context.Context, src config.FeedSource) (*domain.RawDataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, &FetchError{Source: src.ID, URL: src.URL, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Source: src.ID, URL: src.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{Source: src.ID, URL: src.URL, Status: resp.StatusCode}
	}

	dataset, err := ParseCSV(src.ID, resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("feed fetched",
		"source", src.ID,
		"rows", len(dataset.Rows),
		"columns", len(dataset.Columns),
	)
	return dataset, nil
}
