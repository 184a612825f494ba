package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Geocoder provider names accepted by GEOCODER.
const (
	GeocoderNominatim = "nominatim"
	GeocoderMapbox    = "mapbox"
	GeocoderNone      = "none"
)

const defaultSourceURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vSIio1cEFrxUbJEpg4SzgUnxKEiBH4e_r2GNDi4haOsMxXLrN4quMssNn8dAaIOUoZJuoMHL9MIeItY/pub?output=csv"

// Config holds all service settings, populated from environment variables.
type Config struct {
	SourceURL       string
	SourceFormat    string
	SourceTimeout   time.Duration
	RefreshInterval time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Geocoding configuration.
	Geocoder           string
	GeocodeUserAgent   string
	GeocodeTimeout     time.Duration
	GeocodeConcurrency int
	NominatimURL       string
	NominatimRPS       float64
	MapboxToken        string

	// Optional snapshot feed; disabled when KafkaBrokers is empty.
	KafkaBrokers       []string
	KafkaSnapshotTopic string
}

// KafkaEnabled reports whether snapshots should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sourceTimeout, err := parsePositiveDuration("SOURCE_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}
	geocodeTimeout, err := parsePositiveDuration("GEOCODE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	concurrency, err := strconv.Atoi(sharedcfg.EnvOrDefault("GEOCODE_CONCURRENCY", "1"))
	if err != nil || concurrency < 1 {
		return nil, errors.New("invalid GEOCODE_CONCURRENCY")
	}

	rps, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NOMINATIM_RPS", "1"), 64)
	if err != nil || rps <= 0 {
		return nil, errors.New("invalid NOMINATIM_RPS")
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); strings.TrimSpace(raw) != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		SourceURL:       sharedcfg.EnvOrDefault("SOURCE_URL", defaultSourceURL),
		SourceFormat:    strings.ToLower(sharedcfg.EnvOrDefault("SOURCE_FORMAT", "auto")),
		SourceTimeout:   sourceTimeout,
		RefreshInterval: refreshInterval,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Geocoder:           strings.ToLower(sharedcfg.EnvOrDefault("GEOCODER", GeocoderNominatim)),
		GeocodeUserAgent:   sharedcfg.EnvOrDefault("GEOCODE_USER_AGENT", "order-tracker"),
		GeocodeTimeout:     geocodeTimeout,
		GeocodeConcurrency: concurrency,
		NominatimURL:       sharedcfg.EnvOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimRPS:       rps,
		MapboxToken:        os.Getenv("MAPBOX_TOKEN"),

		KafkaBrokers:       brokers,
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "order-dashboard-snapshots"),
	}

	if cfg.SourceURL == "" {
		return nil, errors.New("SOURCE_URL is required")
	}
	switch cfg.SourceFormat {
	case "auto", "csv", "xlsx":
	default:
		return nil, fmt.Errorf("invalid SOURCE_FORMAT %q", cfg.SourceFormat)
	}
	switch cfg.Geocoder {
	case GeocoderNominatim, GeocoderNone:
	case GeocoderMapbox:
		if cfg.MapboxToken == "" {
			return nil, errors.New("GEOCODER is mapbox but MAPBOX_TOKEN is not set")
		}
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q", cfg.Geocoder)
	}
	if cfg.KafkaEnabled() && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
