package nominatim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Client implements domain.Geocoder using the Nominatim search API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client. Requests are spaced to at
// most rps per second; the public instance allows one.
func NewClient(baseURL, userAgent string, rps float64, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// ForwardGeocode looks up a place name and returns the best match.
func (c *Client) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.GeocodingResult{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	c.logger.Debug("nominatim search",
		"query", query,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return parseSearch(body, query)
}

// parseSearch extracts the first hit of a /search response. Nominatim encodes
// coordinates as strings.
func parseSearch(body []byte, query string) (domain.GeocodingResult, error) {
	if !gjson.ValidBytes(body) {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: invalid JSON")
	}
	if gjson.GetBytes(body, "#").Int() == 0 {
		return domain.GeocodingResult{}, fmt.Errorf("%w: %q", domain.ErrNotFound, query)
	}

	first := gjson.GetBytes(body, "0")
	lat, lon := first.Get("lat"), first.Get("lon")
	if !lat.Exists() || !lon.Exists() {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: missing coordinates")
	}

	return domain.GeocodingResult{
		Lat:              lat.Float(),
		Lon:              lon.Float(),
		FormattedAddress: first.Get("display_name").String(),
		Confidence:       first.Get("importance").Float(),
	}, nil
}
