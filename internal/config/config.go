package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Kafka holds broker settings shared by the poller and the worker.
type Kafka struct {
	Brokers       []string `env:"KAFKA_BROKERS" env-default:"kafka:9092" env-separator:","`
	SnapshotTopic string   `env:"KAFKA_SNAPSHOT_TOPIC" env-default:"intel_snapshots"`
}

// API describes HTTP-layer configuration.
type API struct {
	BindAddr        string        `env:"API_BIND_ADDR" env-default:"0.0.0.0:8080"`
	ShutdownTimeout time.Duration `env:"API_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Poller configures the periodic aggregation loop.
type Poller struct {
	Kafka
	Interval time.Duration `env:"POLLER_INTERVAL" env-default:"2m"`
}

// Worker holds configuration for the critical alert relay.
type Worker struct {
	Kafka
	ConsumerGroup  string        `env:"KAFKA_CONSUMER_GROUP" env-default:"alert-relay"`
	AlertTopic     string        `env:"KAFKA_ALERT_TOPIC" env-default:"intel_alerts"`
	DedupeCapacity int           `env:"WORKER_DEDUPE_CAPACITY" env-default:"20000"`
	DedupeTTL      time.Duration `env:"WORKER_DEDUPE_TTL" env-default:"24h"`
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	var c API
	if err := cleanenv.ReadEnv(&c); err != nil {
		return nil, fmt.Errorf("read api env: %w", err)
	}

	if c.BindAddr == "" {
		return nil, fmt.Errorf("API_BIND_ADDR must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return nil, fmt.Errorf("API_SHUTDOWN_TIMEOUT must be positive")
	}

	return &c, nil
}

// LoadPoller builds a Poller config from environment variables.
func LoadPoller() (*Poller, error) {
	var c Poller
	if err := cleanenv.ReadEnv(&c); err != nil {
		return nil, fmt.Errorf("read poller env: %w", err)
	}

	if err := c.Kafka.validate(); err != nil {
		return nil, err
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("POLLER_INTERVAL must be positive")
	}

	return &c, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	var c Worker
	if err := cleanenv.ReadEnv(&c); err != nil {
		return nil, fmt.Errorf("read worker env: %w", err)
	}

	if err := c.Kafka.validate(); err != nil {
		return nil, err
	}
	if c.ConsumerGroup == "" {
		return nil, fmt.Errorf("KAFKA_CONSUMER_GROUP must not be empty")
	}
	if c.AlertTopic == "" {
		return nil, fmt.Errorf("KAFKA_ALERT_TOPIC must not be empty")
	}
	if c.AlertTopic == c.SnapshotTopic {
		return nil, fmt.Errorf("KAFKA_ALERT_TOPIC must differ from KAFKA_SNAPSHOT_TOPIC")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}
	if c.DedupeTTL <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_TTL must be positive")
	}

	return &c, nil
}

func (k *Kafka) validate() error {
	brokers := k.Brokers[:0]
	for _, b := range k.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	k.Brokers = brokers

	if len(k.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if k.SnapshotTopic == "" {
		return fmt.Errorf("KAFKA_SNAPSHOT_TOPIC must not be empty")
	}
	return nil
}
