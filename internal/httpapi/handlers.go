package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DeafMist/intel-feed/internal/logger"
	"github.com/DeafMist/intel-feed/internal/models"
)

const (
	newsCacheControl    = "public, max-age=60"
	marketsCacheControl = "public, max-age=30"
)

// Aggregator is what the handlers need from the aggregation service.
type Aggregator interface {
	News(ctx context.Context) models.NewsResponse
	NewsFallback() models.NewsResponse
	Markets(ctx context.Context) ([]models.MarketRecord, bool)
	MarketsFallback() []models.MarketRecord
}

type server struct {
	log *slog.Logger
	agg Aggregator
}

// NewRouter mounts the aggregation endpoints, health and metrics.
func NewRouter(agg Aggregator, log *slog.Logger) http.Handler {
	if log == nil {
		log = logger.Discard()
	}
	srv := &server{log: log, agg: agg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/health", srv.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, prefix := range []string{"", "/api"} {
		r.Get(prefix+"/news", srv.handleNews)
		r.Options(prefix+"/news", handlePreflight(newsCacheControl))
		r.Get(prefix+"/polymarket", srv.handleMarkets)
		r.Options(prefix+"/polymarket", handlePreflight(marketsCacheControl))
	}

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleNews(w http.ResponseWriter, r *http.Request) {
	setHeaders(w, newsCacheControl)
	defer s.recoverWith(w, r, func() any { return s.agg.NewsFallback() })

	resp := s.agg.News(r.Context())
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	setHeaders(w, marketsCacheControl)
	defer s.recoverWith(w, r, func() any { return s.agg.MarketsFallback() })

	records, _ := s.agg.Markets(r.Context())
	writeJSON(w, http.StatusOK, records)
}

// recoverWith answers a panicking aggregation handler with its fallback
// payload instead of a 5xx.
func (s *server) recoverWith(w http.ResponseWriter, r *http.Request, fallback func() any) {
	rec := recover()
	if rec == nil {
		return
	}
	if rec == http.ErrAbortHandler {
		panic(rec)
	}
	s.log.Error("aggregation panicked, serving fallback",
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("reason", rec),
	)
	writeJSON(w, http.StatusOK, fallback())
}

func handlePreflight(cacheControl string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		setHeaders(w, cacheControl)
		w.WriteHeader(http.StatusOK)
	}
}

func setHeaders(w http.ResponseWriter, cacheControl string) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", cacheControl)
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("dur", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
