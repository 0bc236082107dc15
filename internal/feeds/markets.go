package feeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DeafMist/intel-feed/internal/fetch"
	"github.com/DeafMist/intel-feed/internal/logger"
	"github.com/DeafMist/intel-feed/internal/markets"
	"github.com/DeafMist/intel-feed/internal/metrics"
	"github.com/DeafMist/intel-feed/internal/models"
)

// MarketTimeout bounds a single cascade attempt.
const MarketTimeout = 15 * time.Second

// StaticSourceName identifies the built-in fallback catalog.
const StaticSourceName = "static"

// ErrNoMarkets means an endpoint answered but nothing survived filtering.
var ErrNoMarkets = errors.New("no relevant markets")

// MarketEndpoints are tried in order until one yields relevant markets.
var MarketEndpoints = []string{
	"https://gamma-api.polymarket.com/markets?closed=false&limit=200&active=true",
	"https://gamma-api.polymarket.com/markets?closed=false&limit=200",
	"https://strapi-matic.polymarket.com/markets?closed=false&_limit=200",
}

var marketHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "application/json",
	"Accept-Language": "en-US,en;q=0.9",
}

// MarketSource is one step of the cascade.
type MarketSource interface {
	Name() string
	Markets(ctx context.Context) ([]models.MarketRecord, error)
}

// HTTPMarkets reads a live market catalog.
type HTTPMarkets struct {
	fetcher fetch.Fetcher
	url     string
	timeout time.Duration
}

// NewHTTPMarkets returns a source for url with the default timeout.
func NewHTTPMarkets(fetcher fetch.Fetcher, url string) *HTTPMarkets {
	return &HTTPMarkets{fetcher: fetcher, url: url, timeout: MarketTimeout}
}

func (h *HTTPMarkets) Name() string { return h.url }

// Markets fetches and filters the catalog. Zero relevant entries is an error
// so the cascade moves on.
func (h *HTTPMarkets) Markets(ctx context.Context) ([]models.MarketRecord, error) {
	res, err := h.fetcher.Fetch(ctx, h.url, fetch.Options{Headers: marketHeaders, Timeout: h.timeout})
	if err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}

	records, err := markets.Parse(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse markets: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoMarkets
	}
	return records, nil
}

// StaticMarkets is the terminal cascade step; it always succeeds.
type StaticMarkets struct{}

func (StaticMarkets) Name() string { return StaticSourceName }

func (StaticMarkets) Markets(context.Context) ([]models.MarketRecord, error) {
	return markets.Fallback(), nil
}

// DefaultCascadeSources returns the live endpoints followed by the static
// catalog.
func DefaultCascadeSources(fetcher fetch.Fetcher) []MarketSource {
	sources := make([]MarketSource, 0, len(MarketEndpoints)+1)
	for _, url := range MarketEndpoints {
		sources = append(sources, NewHTTPMarkets(fetcher, url))
	}
	return append(sources, StaticMarkets{})
}

// Cascade tries sources one after another.
type Cascade struct {
	sources []MarketSource
	log     *slog.Logger
}

// NewCascade builds a Cascade. Callers normally end sources with
// StaticMarkets.
func NewCascade(sources []MarketSource, log *slog.Logger) *Cascade {
	if log == nil {
		log = logger.Discard()
	}
	return &Cascade{sources: sources, log: log}
}

// Run returns the records of the first source that succeeds along with that
// source's name. If none does, the static catalog is returned.
func (c *Cascade) Run(ctx context.Context) ([]models.MarketRecord, string) {
	for _, src := range c.sources {
		records, err := c.attempt(ctx, src)
		if err != nil {
			c.log.Warn("market source failed",
				slog.String("endpoint", src.Name()),
				slog.Any("err", err),
			)
			continue
		}
		c.log.Info("market source served",
			slog.String("endpoint", src.Name()),
			slog.Int("markets", len(records)),
		)
		return records, src.Name()
	}

	c.log.Warn("market cascade exhausted, serving static catalog")
	return markets.Fallback(), StaticSourceName
}

func (c *Cascade) attempt(ctx context.Context, src MarketSource) (records []models.MarketRecord, err error) {
	started := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			records, err = nil, fmt.Errorf("market source panicked: %v", rec)
		}
		switch {
		case err == nil:
			metrics.ObserveFetch(src.Name(), metrics.OutcomeOK, started)
		case errors.Is(err, ErrNoMarkets):
			metrics.ObserveFetch(src.Name(), metrics.OutcomeEmpty, started)
		default:
			metrics.ObserveFetch(src.Name(), outcomeOf(err), started)
		}
	}()

	records, err = src.Markets(ctx)
	if err == nil && len(records) == 0 {
		err = ErrNoMarkets
	}
	return records, err
}
