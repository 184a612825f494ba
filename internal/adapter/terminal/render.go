// Package terminal renders dashboard snapshots as styled text.
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/couchcryptid/order-dashboard/internal/pipeline"
)

const (
	lastUpdatedLayout = "02-Jan-2006 03:04:05 PM"
	// maxRows caps the order table; the JSON output carries every record.
	maxRows = 50
)

// StatusIcon returns the marker shown next to an order status.
func StatusIcon(status string) string {
	switch status {
	case "Delivered":
		return "✅"
	case "Shipped":
		return "🚚"
	default:
		return "⏳"
	}
}

// Render writes data as a styled report to w.
func Render(w io.Writer, data *pipeline.DashboardData) error {
	sections := []string{
		titleStyle.Render("📦 Real-Time Order Tracking Dashboard"),
		captionStyle.Render(fmt.Sprintf("%d of %d orders match the current filters", len(data.Records), data.TotalRecords)),
	}

	sections = append(sections, renderSummary(data.StatusSummary)...)
	if data.HasTimestamp {
		sections = append(sections, renderTrend(data)...)
	}
	sections = append(sections, renderLocations(data)...)
	sections = append(sections, renderOrders(data.Records)...)

	for _, warning := range data.Warnings {
		sections = append(sections, warningStyle.Render("⚠ "+warning))
	}
	if d := data.Dropped; d.Total() > 0 {
		sections = append(sections, mutedStyle.Render(fmt.Sprintf(
			"%d rows skipped (%d missing city or status, %d bad timestamp)",
			d.Total(), d.MissingRequired, d.InvalidTimestamp,
		)))
	}
	sections = append(sections, mutedStyle.Render("⏱ Last updated: "+data.GeneratedAt.Local().Format(lastUpdatedLayout)))

	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

// RenderError writes a failed refresh.
func RenderError(w io.Writer, err error, at time.Time) error {
	_, werr := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("📦 Real-Time Order Tracking Dashboard"),
		errorStyle.Render("✗ refresh failed: "+err.Error()),
		mutedStyle.Render("⏱ Attempted: "+at.Local().Format(lastUpdatedLayout)),
	))
	return werr
}

func renderSummary(summary []domain.StatusCount) []string {
	out := []string{sectionStyle.Render("📊 Order Summary")}
	if len(summary) == 0 {
		return append(out, mutedStyle.Render("no orders"))
	}
	rows := make([][]string, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, []string{StatusIcon(s.Status) + " " + s.Status, strconv.Itoa(s.Count)})
	}
	return append(out, renderTable([]string{"Status", "Orders"}, rows))
}

func renderTrend(data *pipeline.DashboardData) []string {
	out := []string{sectionStyle.Render("📅 Daily Orders Trend")}
	if len(data.DailyTrend) == 0 {
		out = append(out, mutedStyle.Render("no dated orders"))
	} else {
		rows := make([][]string, 0, len(data.DailyTrend))
		for _, d := range data.DailyTrend {
			rows = append(rows, []string{d.Date, strconv.Itoa(d.Count)})
		}
		out = append(out, renderTable([]string{"Date", "Orders"}, rows))
	}

	if data.MonthlyForecast != nil {
		out = append(out, labelStyle.Render("Predicted Monthly Orders: ")+metricStyle.Render(strconv.Itoa(*data.MonthlyForecast)))
	}
	if len(data.StatusForecasts) > 0 {
		out = append(out, sectionStyle.Render("🔮 Category-wise Forecast"))
		for _, f := range data.StatusForecasts {
			out = append(out, valueStyle.Render(fmt.Sprintf("📦 %s: Expected in next 30 days → %d", f.Status, f.Expected)))
		}
	}
	return out
}

func renderLocations(data *pipeline.DashboardData) []string {
	out := []string{sectionStyle.Render("🗺 Order Locations")}
	if len(data.MapPoints) == 0 {
		return out
	}

	type cityPoint struct {
		lat, lon float64
		count    int
	}
	var order []string
	byCity := make(map[string]*cityPoint)
	for _, p := range data.MapPoints {
		cp, ok := byCity[p.City]
		if !ok {
			cp = &cityPoint{lat: p.Lat, lon: p.Lon}
			byCity[p.City] = cp
			order = append(order, p.City)
		}
		cp.count++
	}

	rows := make([][]string, 0, len(order))
	for _, city := range order {
		cp := byCity[city]
		rows = append(rows, []string{city, fmt.Sprintf("%.4f", cp.lat), fmt.Sprintf("%.4f", cp.lon), strconv.Itoa(cp.count)})
	}
	return append(out, renderTable([]string{"City", "Latitude", "Longitude", "Orders"}, rows))
}

func renderOrders(records []domain.OrderRecord) []string {
	out := []string{sectionStyle.Render("📋 Order Details")}
	if len(records) == 0 {
		return append(out, mutedStyle.Render("no orders"))
	}

	shown := records[:min(len(records), maxRows)]
	rows := make([][]string, 0, len(shown))
	for _, r := range shown {
		rows = append(rows, []string{r.OrderDate, r.CustomerName, r.Email, r.City, StatusIcon(r.OrderStatus) + " " + r.OrderStatus})
	}
	out = append(out, renderTable([]string{"Date", "Customer", "Email", "City", "Status"}, rows))
	if hidden := len(records) - len(shown); hidden > 0 {
		out = append(out, mutedStyle.Render(fmt.Sprintf("… %d more", hidden)))
	}
	return out
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			return cellStyle
		})
	return strings.TrimRight(t.Render(), "\n")
}
