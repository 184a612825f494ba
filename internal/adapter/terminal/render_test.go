package terminal

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/couchcryptid/order-dashboard/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, "✅", StatusIcon("Delivered"))
	assert.Equal(t, "🚚", StatusIcon("Shipped"))
	assert.Equal(t, "⏳", StatusIcon("Pending"))
}

func TestRender(t *testing.T) {
	forecast := 45
	data := &pipeline.DashboardData{
		GeneratedAt:  time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC),
		TotalRecords: 3,
		Records: []domain.OrderRecord{
			{CustomerName: "Ali", City: "Lahore", OrderStatus: "Delivered", OrderDate: "2024-05-01"},
			{CustomerName: "Sara", City: "Karachi", OrderStatus: "Pending", OrderDate: "2024-05-02"},
		},
		StatusSummary:   []domain.StatusCount{{Status: "Delivered", Count: 1}, {Status: "Pending", Count: 1}},
		HasTimestamp:    true,
		DailyTrend:      []domain.DailyCount{{Date: "2024-05-01", Count: 1}, {Date: "2024-05-02", Count: 1}},
		MonthlyForecast: &forecast,
		StatusForecasts: []domain.StatusForecast{{Status: "Delivered", Expected: 15}},
		MapPoints:       []domain.MapPoint{{City: "Lahore", OrderStatus: "Delivered", Lat: 31.5204, Lon: 74.3587}},
		Warnings:        []string{`"Email" column not found in the sheet; search skipped`},
		Dropped:         domain.DropStats{MissingRequired: 1},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, data))
	out := buf.String()

	assert.Contains(t, out, "2 of 3 orders")
	assert.Contains(t, out, "Order Summary")
	assert.Contains(t, out, "Predicted Monthly Orders")
	assert.Contains(t, out, "45")
	assert.Contains(t, out, "Delivered: Expected in next 30 days → 15")
	assert.Contains(t, out, "31.5204")
	assert.Contains(t, out, "Sara")
	assert.Contains(t, out, "column not found")
	assert.Contains(t, out, "1 rows skipped")
	assert.Contains(t, out, "Last updated")
}

func TestRender_NoTimestamp(t *testing.T) {
	data := &pipeline.DashboardData{
		Records:       []domain.OrderRecord{{City: "Lahore", OrderStatus: "Pending"}},
		StatusSummary: []domain.StatusCount{{Status: "Pending", Count: 1}},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, data))
	assert.NotContains(t, buf.String(), "Daily Orders Trend")
	assert.NotContains(t, buf.String(), "Predicted Monthly Orders")
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderError(&buf, errors.New("load sheet: status 404"), time.Now()))
	assert.Contains(t, buf.String(), "refresh failed: load sheet: status 404")
}
