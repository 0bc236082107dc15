package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/intel-feed/internal/logger"
	"github.com/DeafMist/intel-feed/internal/markets"
	"github.com/DeafMist/intel-feed/internal/models"
)

type stubSource struct {
	news     models.NewsResponse
	records  []models.MarketRecord
	fallback bool
}

func (s stubSource) News(context.Context) models.NewsResponse { return s.news }

func (s stubSource) Markets(context.Context) ([]models.MarketRecord, bool) {
	return s.records, s.fallback
}

type published struct {
	key     string
	body    []byte
	headers []kafka.Header
}

type stubPublisher struct {
	msgs   []published
	failOn string
}

func (p *stubPublisher) PublishJSON(_ context.Context, key string, v any, headers ...kafka.Header) error {
	if key == p.failOn {
		return errors.New("broker down")
	}
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.msgs = append(p.msgs, published{key: key, body: body, headers: headers})
	return nil
}

func TestRunOncePublishesBothKinds(t *testing.T) {
	log := logger.Discard()
	src := stubSource{
		news: models.NewsResponse{Status: models.StatusOK, Items: []models.FeedItem{
			{Title: "Missile strike", Source: "BBC", Level: models.LevelCritical},
		}},
		records:  markets.Fallback(),
		fallback: true,
	}
	pub := &stubPublisher{}

	runOnce(context.Background(), log, src, pub, time.Minute)

	require.Len(t, pub.msgs, 2)
	require.Equal(t, models.KindNews, pub.msgs[0].key)
	require.Equal(t, models.KindMarkets, pub.msgs[1].key)

	var news models.Snapshot
	require.NoError(t, json.Unmarshal(pub.msgs[0].body, &news))
	require.NotEmpty(t, news.ID)
	require.Equal(t, models.StatusOK, news.Status)
	require.Len(t, news.Items, 1)
	require.Empty(t, news.Markets)

	var mk models.Snapshot
	require.NoError(t, json.Unmarshal(pub.msgs[1].body, &mk))
	require.Equal(t, models.StatusFallback, mk.Status)
	require.Len(t, mk.Markets, 8)
	require.NotEqual(t, news.ID, mk.ID)

	require.Equal(t, "status", pub.msgs[1].headers[1].Key)
	require.Equal(t, models.StatusFallback, string(pub.msgs[1].headers[1].Value))
}

func TestRunOnceContinuesAfterPublishFailure(t *testing.T) {
	log := logger.Discard()
	pub := &stubPublisher{failOn: models.KindNews}

	runOnce(context.Background(), log, stubSource{news: models.NewsResponse{Status: models.StatusFallback}}, pub, time.Minute)

	require.Len(t, pub.msgs, 1)
	require.Equal(t, models.KindMarkets, pub.msgs[0].key)
}

func TestMarketsSnapshotStatus(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	snap := marketsSnapshot(nil, false, now)
	require.Equal(t, models.StatusOK, snap.Status)
	require.Equal(t, time.UTC, snap.GeneratedAt.Location())
}
