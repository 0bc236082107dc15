package feeds

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DeafMist/intel-feed/internal/fetch"
	"github.com/DeafMist/intel-feed/internal/logger"
	"github.com/DeafMist/intel-feed/internal/metrics"
	"github.com/DeafMist/intel-feed/internal/models"
	"github.com/DeafMist/intel-feed/internal/processing"
)

const (
	// NewsTimeout bounds each news source independently.
	NewsTimeout = 8 * time.Second
	// PerSourceLimit caps items kept from one source before merge.
	PerSourceLimit = 8
)

// NewsSources are the world-news RSS feeds polled on every request.
var NewsSources = []models.Source{
	{URL: "https://feeds.bbci.co.uk/news/world/rss.xml", Code: "BBC"},
	{URL: "https://rss.nytimes.com/services/xml/rss/nyt/World.xml", Code: "NYT"},
	{URL: "https://www.aljazeera.com/xml/rss/all.xml", Code: "AJAZ"},
	{URL: "https://feeds.npr.org/1004/rss.xml", Code: "NPR"},
	{URL: "https://www.theguardian.com/world/rss", Code: "GUAR"},
}

var newsHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (compatible; PULSE-Bot/1.0)",
	"Accept":     "application/rss+xml, application/xml, text/xml, */*",
}

// FanOut fetches every news source concurrently. A failing source contributes
// an empty list and never affects the others.
type FanOut struct {
	fetcher fetch.Fetcher
	sources []models.Source
	timeout time.Duration
	limit   int
	log     *slog.Logger
}

// NewFanOut builds a FanOut over sources.
func NewFanOut(fetcher fetch.Fetcher, sources []models.Source, log *slog.Logger) *FanOut {
	if log == nil {
		log = logger.Discard()
	}
	return &FanOut{
		fetcher: fetcher,
		sources: sources,
		timeout: NewsTimeout,
		limit:   PerSourceLimit,
		log:     log,
	}
}

// WithTimeout overrides the per-source timeout.
func (f *FanOut) WithTimeout(d time.Duration) *FanOut {
	if d > 0 {
		f.timeout = d
	}
	return f
}

// Collect returns one item list per source, indexed like the source list,
// once every fetch has settled.
func (f *FanOut) Collect(ctx context.Context) [][]models.FeedItem {
	results := make([][]models.FeedItem, len(f.sources))

	var g errgroup.Group
	for i, src := range f.sources {
		i, src := i, src
		g.Go(func() error {
			results[i] = f.fetchOne(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (f *FanOut) fetchOne(ctx context.Context, src models.Source) (items []models.FeedItem) {
	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			f.log.Error("source panicked",
				slog.String("source", src.Code),
				slog.Any("reason", rec),
			)
			metrics.ObserveFetch(src.Code, metrics.OutcomeError, started)
			items = nil
		}
	}()

	res, err := f.fetcher.Fetch(ctx, src.URL, fetch.Options{Headers: newsHeaders, Timeout: f.timeout})
	if err != nil {
		f.log.Warn("source fetch failed",
			slog.String("source", src.Code),
			slog.String("url", src.URL),
			slog.Any("err", err),
		)
		metrics.ObserveFetch(src.Code, outcomeOf(err), started)
		return nil
	}

	items = processing.ExtractItems(string(res.Body), src.Code)
	if len(items) > f.limit {
		items = items[:f.limit]
	}

	metrics.ObserveFetch(src.Code, metrics.OutcomeOK, started)
	metrics.SourceItems.WithLabelValues(src.Code).Set(float64(len(items)))
	f.log.Debug("source fetched",
		slog.String("source", src.Code),
		slog.Int("items", len(items)),
		slog.Duration("took", time.Since(started)),
	)
	return items
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeTimeout
	case errors.Is(err, fetch.ErrStatus):
		return metrics.OutcomeStatus
	default:
		return metrics.OutcomeError
	}
}
