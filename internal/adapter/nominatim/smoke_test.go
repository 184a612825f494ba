//go:build nominatim

package nominatim

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the public Nominatim API.
// Run with: go test -tags=nominatim ./internal/adapter/nominatim/ -v -count=1

func smokeClient() *Client {
	return NewClient(DefaultBaseURL, "order-tracker-smoke-test", 1, 10*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	result, err := smokeClient().ForwardGeocode(context.Background(), "Lahore")
	require.NoError(t, err)

	assert.InDelta(t, 31.55, result.Lat, 0.2, "lat should be near Lahore")
	assert.InDelta(t, 74.34, result.Lon, 0.2, "lon should be near Lahore")
	assert.Contains(t, result.FormattedAddress, "Lahore")
}

func TestSmoke_ForwardGeocode_NotFound(t *testing.T) {
	_, err := smokeClient().ForwardGeocode(context.Background(), "Xyznonexistentplace99")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
