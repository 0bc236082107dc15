package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/intel-feed/internal/broker"
	"github.com/DeafMist/intel-feed/internal/config"
	"github.com/DeafMist/intel-feed/internal/dedupe"
	"github.com/DeafMist/intel-feed/internal/logger"
	"github.com/DeafMist/intel-feed/internal/metrics"
	"github.com/DeafMist/intel-feed/internal/models"
)

var errEmptySnapshot = errors.New("snapshot without id or kind")

type alertPublisher interface {
	PublishJSON(ctx context.Context, key string, v any, headers ...kafka.Header) error
}

func main() {
	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	cache := dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.SnapshotTopic,
		GroupID:        cfg.ConsumerGroup,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit only
	})
	defer reader.Close()

	alerts := broker.NewPublisher(broker.NewWriter(cfg.Brokers, cfg.AlertTopic), log)
	defer alerts.Close()

	dlqTopic := cfg.SnapshotTopic + "_dlq"
	dlq := broker.NewPublisher(broker.NewWriter(cfg.Brokers, dlqTopic), log)
	defer dlq.Close()

	log.Info("worker started",
		slog.String("topic", cfg.SnapshotTopic),
		slog.String("group", cfg.ConsumerGroup),
		slog.String("alert_topic", cfg.AlertTopic),
		slog.String("dlq_topic", dlqTopic),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := processMessage(ctx, log, alerts, cache, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)

			// Commit only once the DLQ holds the message; otherwise it is
			// reprocessed after restart.
			if dlqErr := dlq.Publish(ctx, deadLetter(msg, err, time.Now())); dlqErr != nil {
				if errors.Is(dlqErr, context.Canceled) {
					log.Info("context canceled during DLQ write")
					return
				}
				log.Error("DLQ write exhausted retries",
					slog.Any("err", dlqErr),
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
				)
				continue
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

// processMessage relays every critical headline of a news snapshot that has
// not been relayed within the dedupe window. Market snapshots are ignored.
func processMessage(ctx context.Context, log *slog.Logger, alerts alertPublisher, cache *dedupe.Cache, msg kafka.Message) error {
	var snap models.Snapshot
	if err := json.Unmarshal(msg.Value, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.ID == "" || snap.Kind == "" {
		return errEmptySnapshot
	}
	if snap.Kind != models.KindNews {
		log.Debug("skip snapshot", slog.String("kind", snap.Kind), slog.String("id", snap.ID))
		return nil
	}

	relayed := 0
	for _, item := range snap.Items {
		if item.Level != models.LevelCritical {
			continue
		}
		key := dedupe.HeadlineKey(item.Title)
		if cache.IsSeen(key) {
			log.Debug("duplicate alert", slog.String("title", item.Title))
			continue
		}

		alert := models.Alert{
			ID:         uuid.NewString(),
			SnapshotID: snap.ID,
			Title:      item.Title,
			Link:       item.Link,
			Date:       item.Date,
			Source:     item.Source,
			Level:      item.Level,
			RelayedAt:  time.Now().UTC(),
		}
		if err := alerts.PublishJSON(ctx, key, alert,
			kafka.Header{Key: "src", Value: []byte(item.Source)},
			kafka.Header{Key: "snapshot_id", Value: []byte(snap.ID)},
		); err != nil {
			return fmt.Errorf("publish alert: %w", err)
		}

		cache.MarkSeen(key)
		metrics.AlertsRelayed.Inc()
		relayed++
	}

	if relayed > 0 {
		log.Info("relayed alerts", slog.String("snapshot_id", snap.ID), slog.Int("count", relayed))
	}
	return nil
}

func deadLetter(msg kafka.Message, cause error, now time.Time) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers)+4)
	headers = append(headers, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: "original_partition", Value: []byte(strconv.Itoa(msg.Partition))},
		kafka.Header{Key: "original_offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
		kafka.Header{Key: "error", Value: []byte(cause.Error())},
		kafka.Header{Key: "timestamp", Value: []byte(now.UTC().Format(time.RFC3339))},
	)
	return kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers}
}
