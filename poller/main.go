package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	_ "golang.org/x/crypto/x509roots/fallback"

	"github.com/DeafMist/intel-feed/internal/aggregator"
	"github.com/DeafMist/intel-feed/internal/broker"
	"github.com/DeafMist/intel-feed/internal/config"
	"github.com/DeafMist/intel-feed/internal/fetch"
	"github.com/DeafMist/intel-feed/internal/logger"
	"github.com/DeafMist/intel-feed/internal/metrics"
	"github.com/DeafMist/intel-feed/internal/models"
)

type snapshotSource interface {
	News(ctx context.Context) models.NewsResponse
	Markets(ctx context.Context) ([]models.MarketRecord, bool)
}

type snapshotPublisher interface {
	PublishJSON(ctx context.Context, key string, v any, headers ...kafka.Header) error
}

func main() {
	log := logger.New("poller")
	cfg, err := config.LoadPoller()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	svc := aggregator.New(fetch.New(nil), log)
	pub := broker.NewPublisher(broker.NewWriter(cfg.Brokers, cfg.SnapshotTopic), log)
	defer func() {
		if err := pub.Close(); err != nil {
			log.Error("close publisher", slog.Any("err", err))
		}
	}()

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info("poller running",
		slog.Duration("interval", cfg.Interval),
		slog.String("topic", cfg.SnapshotTopic),
	)

	runOnce(ctx, log, svc, pub, cfg.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			runOnce(ctx, log, svc, pub, cfg.Interval)
		}
	}
}

// runOnce aggregates both feeds and publishes one snapshot per kind. Errors
// are logged; the next tick tries again.
func runOnce(ctx context.Context, log *slog.Logger, src snapshotSource, pub snapshotPublisher, budget time.Duration) {
	subCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	news := src.News(subCtx)
	if err := publish(subCtx, pub, newsSnapshot(news, time.Now())); err != nil {
		logPublishError(log, models.KindNews, err)
	}

	records, fallback := src.Markets(subCtx)
	if err := publish(subCtx, pub, marketsSnapshot(records, fallback, time.Now())); err != nil {
		logPublishError(log, models.KindMarkets, err)
	}
}

func newsSnapshot(resp models.NewsResponse, now time.Time) models.Snapshot {
	return models.Snapshot{
		ID:          uuid.NewString(),
		Kind:        models.KindNews,
		Status:      resp.Status,
		GeneratedAt: now.UTC(),
		Items:       resp.Items,
	}
}

func marketsSnapshot(records []models.MarketRecord, fallback bool, now time.Time) models.Snapshot {
	status := models.StatusOK
	if fallback {
		status = models.StatusFallback
	}
	return models.Snapshot{
		ID:          uuid.NewString(),
		Kind:        models.KindMarkets,
		Status:      status,
		GeneratedAt: now.UTC(),
		Markets:     records,
	}
}

func publish(ctx context.Context, pub snapshotPublisher, snap models.Snapshot) error {
	err := pub.PublishJSON(ctx, snap.Kind, snap,
		kafka.Header{Key: "kind", Value: []byte(snap.Kind)},
		kafka.Header{Key: "status", Value: []byte(snap.Status)},
		kafka.Header{Key: "snapshot_id", Value: []byte(snap.ID)},
	)
	if err != nil {
		return err
	}
	metrics.SnapshotsPublished.WithLabelValues(snap.Kind, snap.Status).Inc()
	return nil
}

func logPublishError(log *slog.Logger, kind string, err error) {
	if errors.Is(err, context.Canceled) {
		log.Info("publish canceled", slog.String("kind", kind))
		return
	}
	log.Warn("publish snapshot failed (will retry on next interval)",
		slog.String("kind", kind),
		slog.Any("err", err),
	)
}
