package sheet

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/order-dashboard/internal/domain"
)

// DefaultURL is the published order sheet the dashboard was built for.
const DefaultURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vSIio1cEFrxUbJEpg4SzgUnxKEiBH4e_r2GNDi4haOsMxXLrN4quMssNn8dAaIOUoZJuoMHL9MIeItY/pub?output=csv"

// maxBodyBytes caps the export size read per fetch.
const maxBodyBytes = 32 << 20

// Client fetches a published spreadsheet export over HTTP.
type Client struct {
	url        string
	format     Format
	httpClient *http.Client
	maxBytes   int64
	logger     *slog.Logger
}

// NewClient creates a sheet client for url.
func NewClient(url string, format Format, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:    url,
		format: format,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBytes: maxBodyBytes,
		logger:   logger,
	}
}

// Fetch downloads and parses the whole export. Every call hits the source.
func (c *Client) Fetch(ctx context.Context) (domain.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.Table{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Table{}, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Table{}, fmt.Errorf("fetch sheet: status %d: %s", resp.StatusCode, body)
	}

	contentType := resp.Header.Get("Content-Type")
	// Unpublished or private sheets answer 200 with a sign-in page.
	if strings.HasPrefix(contentType, "text/html") {
		return domain.Table{}, fmt.Errorf("fetch sheet: unexpected content type %q", contentType)
	}

	// One byte past the cap tells a truncated export from one that fits.
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return domain.Table{}, fmt.Errorf("read sheet: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return domain.Table{}, fmt.Errorf("fetch sheet: export exceeds %d bytes", c.maxBytes)
	}

	table, err := Parse(data, c.format, contentType)
	if err != nil {
		return domain.Table{}, err
	}

	c.logger.Debug("sheet fetched",
		"bytes", len(data),
		"rows", len(table.Rows),
		"duration", time.Since(start),
	)
	return table, nil
}
