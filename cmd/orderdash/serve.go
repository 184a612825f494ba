package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/order-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/order-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/order-dashboard/internal/config"
	"github.com/couchcryptid/order-dashboard/internal/geocode"
	"github.com/couchcryptid/order-dashboard/internal/observability"
	"github.com/couchcryptid/order-dashboard/internal/pipeline"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP service",
		Long: "Refreshes the dashboard on REFRESH_INTERVAL and serves it over HTTP.\n" +
			"When KAFKA_BROKERS is set, every scheduled snapshot is also published\n" +
			"to KAFKA_SNAPSHOT_TOPIC.",
		Args:         cobra.NoArgs,
		RunE:         runServe,
		SilenceUsage: true,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	p, err := newPipeline(cfg, geocode.NewCache(), logger, metrics)
	if err != nil {
		return err
	}

	refresher := pipeline.NewRefresher(p, cfg.RefreshInterval, clockwork.NewRealClock(), logger)

	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaSnapshotTopic, logger, metrics)
		refresher.WithPublisher(publisher)
		logger.Info("snapshot feed enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, refresher, p, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	go func() {
		if err := refresher.Start(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
