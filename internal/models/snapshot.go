package models

import "time"

// Snapshot kinds published by the poller.
const (
	KindNews    = "news"
	KindMarkets = "markets"
)

// Snapshot is one aggregation result as published to the snapshot topic.
type Snapshot struct {
	ID          string         `json:"id"`
	Kind        string         `json:"kind"`
	Status      string         `json:"status"`
	GeneratedAt time.Time      `json:"generated_at"`
	Items       []FeedItem     `json:"items,omitempty"`
	Markets     []MarketRecord `json:"markets,omitempty"`
}

// Alert is emitted by the relay worker for each newly seen critical headline.
type Alert struct {
	ID         string    `json:"id"`
	SnapshotID string    `json:"snapshot_id"`
	Title      string    `json:"title"`
	Link       string    `json:"link"`
	Date       string    `json:"date"`
	Source     string    `json:"src"`
	Level      Level     `json:"level"`
	RelayedAt  time.Time `json:"relayed_at"`
}
