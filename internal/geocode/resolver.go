package geocode

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/couchcryptid/order-dashboard/internal/observability"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Status classifies a geocoding outcome.
type Status int

const (
	StatusFound Status = iota + 1
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the typed outcome of resolving one city. Geo, Address and
// Confidence are set only when Status is StatusFound; Err only when it is
// StatusFailed.
type Result struct {
	Status     Status
	Geo        domain.Geo
	Address    string
	Confidence float64
	Err        error
}

// Coordinates returns the location when the city was found.
func (r Result) Coordinates() (domain.Geo, bool) {
	if r.Status != StatusFound {
		return domain.Geo{}, false
	}
	return r.Geo, true
}

// Resolver turns city names into coordinates through a Cache and a Geocoder.
// Each distinct city reaches the geocoder at most once per process, whatever
// the outcome.
type Resolver struct {
	geocoder    domain.Geocoder
	cache       *Cache
	logger      *slog.Logger
	metrics     *observability.Metrics
	concurrency int
	inflight    singleflight.Group
}

// NewResolver creates a Resolver. concurrency bounds parallel lookups in
// ResolveAll; values below 1 are treated as 1.
func NewResolver(geocoder domain.Geocoder, cache *Cache, logger *slog.Logger, metrics *observability.Metrics, concurrency int) *Resolver {
	if concurrency < 1 {
		concurrency = 1
	}
	metrics.GeocodeEnabled.Set(1)
	return &Resolver{
		geocoder:    geocoder,
		cache:       cache,
		logger:      logger,
		metrics:     metrics,
		concurrency: concurrency,
	}
}

// Resolve returns the cached result for city, or performs a single lookup and
// caches its outcome. Lookups never retry and errors are reported inside the
// Result. A lookup aborted by ctx is returned as failed but not cached.
func (r *Resolver) Resolve(ctx context.Context, city string) Result {
	key := domain.NormalizeLabel(city)
	if key == "" {
		return Result{Status: StatusNotFound}
	}

	if res, ok := r.cache.Get(key); ok {
		r.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return res
	}
	r.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	v, _, _ := r.inflight.Do(key, func() (any, error) {
		if res, ok := r.cache.Get(key); ok {
			return res, nil
		}
		res := r.lookup(ctx, key)
		if res.Status == StatusFailed && ctx.Err() != nil {
			return res, nil
		}
		r.cache.Add(key, res)
		return res, nil
	})
	return v.(Result)
}

// ResolveAll resolves every distinct city in cities, running up to the
// configured number of lookups in parallel. The map is keyed by normalized
// city name.
func (r *Resolver) ResolveAll(ctx context.Context, cities []string) map[string]Result {
	var (
		mu      sync.Mutex
		results = make(map[string]Result, len(cities))
		g       errgroup.Group
	)
	g.SetLimit(r.concurrency)

	seen := make(map[string]bool, len(cities))
	for _, city := range cities {
		key := domain.NormalizeLabel(city)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		g.Go(func() error {
			res := r.Resolve(ctx, key)
			mu.Lock()
			results[key] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Resolver) lookup(ctx context.Context, city string) Result {
	start := time.Now()
	geo, err := r.geocoder.ForwardGeocode(ctx, city)
	r.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	var res Result
	switch {
	case err == nil:
		res = Result{
			Status:     StatusFound,
			Geo:        geo.Geo(),
			Address:    geo.FormattedAddress,
			Confidence: geo.Confidence,
		}
		r.logger.Debug("city geocoded",
			"city", city,
			"address", geo.FormattedAddress,
			"confidence", geo.Confidence,
		)
	case errors.Is(err, domain.ErrNotFound):
		res = Result{Status: StatusNotFound}
		r.logger.Warn("city not found by geocoder", "city", city)
	default:
		res = Result{Status: StatusFailed, Err: err}
		r.logger.Warn("geocoding failed", "city", city, "error", err)
	}
	r.metrics.GeocodeRequests.WithLabelValues(res.Status.String()).Inc()
	return res
}
