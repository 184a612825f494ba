package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/couchcryptid/order-dashboard/internal/geocode"
	"github.com/couchcryptid/order-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
)

// noMapPointsWarning is surfaced when filtered records exist but none of
// their cities resolved.
const noMapPointsWarning = "no valid city locations to display on map"

// Loader fetches the raw sheet export.
type Loader interface {
	Fetch(ctx context.Context) (domain.Table, error)
}

// Resolver geocodes a set of city names.
type Resolver interface {
	ResolveAll(ctx context.Context, cities []string) map[string]geocode.Result
}

// FilterOptions lists the selectable values present in the data.
type FilterOptions struct {
	Statuses []string `json:"statuses"`
	Cities   []string `json:"cities"`
}

// DashboardData is everything the presentation layer renders for one run.
// Aggregates and forecasts are computed over the filtered records.
type DashboardData struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Spec        domain.FilterSpec `json:"filter"`

	// TotalRecords counts normalized records before filtering.
	TotalRecords int                  `json:"total_records"`
	Records      []domain.OrderRecord `json:"records"`

	StatusSummary []domain.StatusCount `json:"status_summary"`

	// HasTimestamp is false when the sheet has no Timestamp column; the trend
	// and forecast fields are then empty.
	HasTimestamp    bool                    `json:"has_timestamp"`
	DailyTrend      []domain.DailyCount     `json:"daily_trend,omitempty"`
	MonthlyForecast *int                    `json:"monthly_forecast,omitempty"`
	StatusForecasts []domain.StatusForecast `json:"status_forecasts,omitempty"`

	MapPoints []domain.MapPoint `json:"map_points"`
	Warnings  []string          `json:"warnings,omitempty"`
	Dropped   domain.DropStats  `json:"dropped"`
	Options   FilterOptions     `json:"options"`
}

// Pipeline runs one fetch → normalize → filter → aggregate → geocode pass.
// It holds no timer; see Refresher for periodic execution.
type Pipeline struct {
	loader   Loader
	resolver Resolver
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
}

// New creates a Pipeline. A nil resolver disables geocoding; records are then
// returned without locations and no map points are produced.
func New(loader Loader, resolver Resolver, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		loader:   loader,
		resolver: resolver,
		logger:   logger,
		metrics:  metrics,
		clock:    clock,
	}
}

// Run executes the pipeline once with the given filter selection.
func (p *Pipeline) Run(ctx context.Context, spec domain.FilterSpec) (*DashboardData, error) {
	start := p.clock.Now()

	data, err := p.run(ctx, spec)
	p.metrics.RefreshDuration.Observe(p.clock.Since(start).Seconds())
	if err != nil {
		p.metrics.RefreshTicks.WithLabelValues("error").Inc()
		return nil, err
	}

	p.metrics.RefreshTicks.WithLabelValues("success").Inc()
	p.metrics.LastSuccess.Set(float64(data.GeneratedAt.Unix()))
	return data, nil
}

func (p *Pipeline) run(ctx context.Context, spec domain.FilterSpec) (*DashboardData, error) {
	table, err := p.loader.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sheet: %w", err)
	}
	p.metrics.RowsFetched.Add(float64(len(table.Rows)))

	norm, err := domain.Normalize(table)
	if err != nil {
		return nil, fmt.Errorf("normalize sheet: %w", err)
	}
	p.recordDrops(norm.Dropped)

	filtered := domain.ApplyFilter(norm.Records, norm.Columns, spec)
	for _, w := range filtered.Warnings {
		p.logger.Warn("filter criterion skipped", "warning", w)
	}

	data := &DashboardData{
		Spec:          spec,
		TotalRecords:  len(norm.Records),
		StatusSummary: domain.Summarize(filtered.Records),
		HasTimestamp:  norm.HasTimestamp(),
		Warnings:      filtered.Warnings,
		Dropped:       norm.Dropped,
		Options: FilterOptions{
			Statuses: domain.StatusOptions(norm.Records),
			Cities:   domain.CityOptions(norm.Records),
		},
	}

	if data.HasTimestamp {
		data.DailyTrend = domain.DailyTrend(filtered.Records)
		forecast := domain.ForecastMonthly(data.DailyTrend)
		data.MonthlyForecast = &forecast
		data.StatusForecasts = domain.ForecastByStatus(filtered.Records)
	}

	data.Records = domain.AttachLocations(filtered.Records, p.locate(ctx, filtered.Records))
	data.MapPoints = domain.MapPoints(data.Records)
	if len(data.Records) > 0 && len(data.MapPoints) == 0 {
		data.Warnings = append(data.Warnings, noMapPointsWarning)
	}

	data.GeneratedAt = p.clock.Now().UTC()
	return data, nil
}

// locate geocodes the distinct cities of records. It returns nil when
// geocoding is disabled.
func (p *Pipeline) locate(ctx context.Context, records []domain.OrderRecord) domain.LocationLookup {
	if p.resolver == nil || len(records) == 0 {
		return nil
	}
	results := p.resolver.ResolveAll(ctx, domain.CityOptions(records))
	return func(city string) (domain.Geo, bool) {
		res, ok := results[city]
		if !ok {
			return domain.Geo{}, false
		}
		return res.Coordinates()
	}
}

func (p *Pipeline) recordDrops(d domain.DropStats) {
	if d.Total() == 0 {
		return
	}
	p.metrics.RowsDropped.WithLabelValues("missing_required").Add(float64(d.MissingRequired))
	p.metrics.RowsDropped.WithLabelValues("invalid_timestamp").Add(float64(d.InvalidTimestamp))
	p.logger.Debug("rows dropped during normalization",
		"missing_required", d.MissingRequired,
		"invalid_timestamp", d.InvalidTimestamp,
	)
}
