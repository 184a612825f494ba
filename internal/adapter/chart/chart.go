// Package chart renders dashboard series as images.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/couchcryptid/order-dashboard/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no daily data to plot")

const (
	width  = 10 * vg.Inch
	height = 4 * vg.Inch
)

// RenderDailyTrend writes the daily order counts as a PNG line chart to w.
// When forecast is non-nil it is shown in the title.
func RenderDailyTrend(w io.Writer, trend []domain.DailyCount, forecast *int) error {
	if len(trend) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Daily Orders Trend"
	if forecast != nil {
		p.Title.Text = fmt.Sprintf("Daily Orders Trend (predicted next 30 days: %d)", *forecast)
	}
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Order Date"
	p.Y.Label.Text = "Orders"
	p.Y.Min = 0

	points := make(plotter.XYs, len(trend))
	labels := make([]string, len(trend))
	for i, d := range trend {
		points[i].X = float64(i)
		points[i].Y = float64(d.Count)
		labels[i] = d.Date
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("build line: %w", err)
	}
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	line.Width = vg.Points(2)

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("build markers: %w", err)
	}
	scatter.GlyphStyle.Color = line.Color
	scatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(plotter.NewGrid(), line, scatter)
	p.NominalX(labels...)

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
