package aggregator

import (
	"context"
	"log/slog"
	"time"

	"github.com/DeafMist/intel-feed/internal/feeds"
	"github.com/DeafMist/intel-feed/internal/fetch"
	"github.com/DeafMist/intel-feed/internal/logger"
	"github.com/DeafMist/intel-feed/internal/markets"
	"github.com/DeafMist/intel-feed/internal/metrics"
	"github.com/DeafMist/intel-feed/internal/models"
	"github.com/DeafMist/intel-feed/internal/rank"
)

// Fallback news item fields.
const (
	FallbackTitle  = "Feed temporarily unavailable - refresh to retry"
	FallbackLink   = "#"
	FallbackSource = "SYS"
)

type newsCollector interface {
	Collect(ctx context.Context) [][]models.FeedItem
}

type marketRunner interface {
	Run(ctx context.Context) ([]models.MarketRecord, string)
}

// Service runs news and market aggregation.
type Service struct {
	news    newsCollector
	markets marketRunner
	log     *slog.Logger
	now     func() time.Time
}

// New wires the default sources over fetcher.
func New(fetcher fetch.Fetcher, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return NewWith(
		feeds.NewFanOut(fetcher, feeds.NewsSources, log),
		feeds.NewCascade(feeds.DefaultCascadeSources(fetcher), log),
		log,
	)
}

// NewWith builds a Service from explicit collaborators.
func NewWith(news newsCollector, mk marketRunner, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{news: news, markets: mk, log: log, now: time.Now}
}

// News fans out to every source and returns the merged feed, or the
// synthetic fallback item when nothing usable came back.
func (s *Service) News(ctx context.Context) models.NewsResponse {
	merged := rank.Merge(s.news.Collect(ctx), rank.MaxItems)
	if len(merged) == 0 {
		s.log.Warn("no news items from any source, serving fallback")
		metrics.Fallbacks.WithLabelValues(models.KindNews).Inc()
		return s.NewsFallback()
	}

	return models.NewsResponse{Status: models.StatusOK, Items: merged}
}

// NewsFallback is the degraded news payload.
func (s *Service) NewsFallback() models.NewsResponse {
	return models.NewsResponse{
		Status: models.StatusFallback,
		Items: []models.FeedItem{{
			Title:  FallbackTitle,
			Link:   FallbackLink,
			Date:   s.now().UTC().Format(time.RFC3339),
			Source: FallbackSource,
			Level:  models.LevelWarning,
		}},
	}
}

// Markets runs the endpoint cascade. The bool reports whether the static
// catalog was served.
func (s *Service) Markets(ctx context.Context) ([]models.MarketRecord, bool) {
	records, source := s.markets.Run(ctx)
	fallback := source == feeds.StaticSourceName
	if fallback {
		metrics.Fallbacks.WithLabelValues(models.KindMarkets).Inc()
	}
	return records, fallback
}

// MarketsFallback is the degraded market payload.
func (s *Service) MarketsFallback() []models.MarketRecord {
	return markets.Fallback()
}
