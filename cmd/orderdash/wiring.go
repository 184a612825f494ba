package main

import (
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/order-dashboard/internal/adapter/mapbox"
	"github.com/couchcryptid/order-dashboard/internal/adapter/nominatim"
	"github.com/couchcryptid/order-dashboard/internal/adapter/sheet"
	"github.com/couchcryptid/order-dashboard/internal/config"
	"github.com/couchcryptid/order-dashboard/internal/domain"
	"github.com/couchcryptid/order-dashboard/internal/geocode"
	"github.com/couchcryptid/order-dashboard/internal/observability"
	"github.com/couchcryptid/order-dashboard/internal/pipeline"
)

// newPipeline assembles the sheet loader, geocoding resolver and pipeline
// from configuration. cache is shared by every run for the life of the
// process.
func newPipeline(cfg *config.Config, cache *geocode.Cache, logger *slog.Logger, metrics *observability.Metrics) (*pipeline.Pipeline, error) {
	format, err := sheet.ParseFormat(cfg.SourceFormat)
	if err != nil {
		return nil, fmt.Errorf("source format: %w", err)
	}
	loader := sheet.NewClient(cfg.SourceURL, format, cfg.SourceTimeout, logger)

	return pipeline.New(loader, newResolver(cfg, cache, logger, metrics), logger, metrics, clockwork.NewRealClock()), nil
}

// newResolver returns nil (geocoding disabled) for GEOCODER=none. The nil is
// returned as an untyped interface so the pipeline can detect it.
func newResolver(cfg *config.Config, cache *geocode.Cache, logger *slog.Logger, metrics *observability.Metrics) pipeline.Resolver {
	g := newGeocoder(cfg, logger)
	if g == nil {
		logger.Info("geocoding disabled")
		return nil
	}
	return geocode.NewResolver(g, cache, logger, metrics, cfg.GeocodeConcurrency)
}

func newGeocoder(cfg *config.Config, logger *slog.Logger) domain.Geocoder {
	switch cfg.Geocoder {
	case config.GeocoderNominatim:
		logger.Info("nominatim geocoding enabled",
			"url", cfg.NominatimURL,
			"rps", cfg.NominatimRPS,
			"concurrency", cfg.GeocodeConcurrency,
		)
		return nominatim.NewClient(cfg.NominatimURL, cfg.GeocodeUserAgent, cfg.NominatimRPS, cfg.GeocodeTimeout, logger)
	case config.GeocoderMapbox:
		logger.Info("mapbox geocoding enabled", "timeout", cfg.GeocodeTimeout)
		return mapbox.NewClient(cfg.MapboxToken, cfg.GeocodeTimeout, logger)
	default:
		return nil
	}
}
