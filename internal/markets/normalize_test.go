package markets_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/DeafMist/intel-feed/internal/markets"
	"github.com/DeafMist/intel-feed/internal/models"
	"github.com/stretchr/testify/require"
)

func TestRelevant(t *testing.T) {
	require.True(t, markets.Relevant("Will the Fed cut rates?"))
	require.True(t, markets.Relevant("NATO summit outcome"))
	require.False(t, markets.Relevant("Best pizza topping poll"))
	require.False(t, markets.Relevant(""))
}

func TestParseArrayCatalog(t *testing.T) {
	body := `[
		{"id": "1", "question": "Will the Fed cut rates?", "outcomePrices": "[\"0.3\",\"0.7\"]", "volume": "1200.5", "slug": "fed-cut"},
		{"id": "2", "question": "Best pizza topping poll", "outcomePrices": "[\"0.1\",\"0.9\"]"},
		{"id": "3", "slug": "no-question"},
		{"condition_id": "0xabc", "question": "China Taiwan invasion in 2026?", "volumeNum": 4500, "market_slug": "china-taiwan"}
	]`

	got, err := markets.Parse([]byte(body))
	require.NoError(t, err)
	require.Equal(t, []models.MarketRecord{
		{ID: "1", Question: "Will the Fed cut rates?", OutcomePrices: `["0.3","0.7"]`, Volume: "1200.5", Slug: "fed-cut"},
		{ID: "0xabc", Question: "China Taiwan invasion in 2026?", OutcomePrices: markets.DefaultOutcomePrices, Volume: "4500", Slug: "china-taiwan"},
	}, got)
}

func TestParseWrappedCatalog(t *testing.T) {
	for _, key := range []string{"data", "markets"} {
		t.Run(key, func(t *testing.T) {
			body := fmt.Sprintf(`{%q: [{"id": 7, "question": "Iran nuclear deal?", "outcomePrices": ["0.2", "0.8"], "volume": 99}]}`, key)
			got, err := markets.Parse([]byte(body))
			require.NoError(t, err)
			require.Len(t, got, 1)
			require.Equal(t, "7", got[0].ID)
			require.Equal(t, `["0.2","0.8"]`, got[0].OutcomePrices)
			require.Equal(t, "99", got[0].Volume)
			require.Equal(t, "", got[0].Slug)
		})
	}
}

func TestParseWrappedNullFallsThrough(t *testing.T) {
	body := `{"data": null, "markets": [{"id": "m1", "question": "Syria ceasefire holds?"}]}`

	got, err := markets.Parse([]byte(body))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "m1", got[0].ID)
}

func TestParseUnexpectedShapes(t *testing.T) {
	got, err := markets.Parse([]byte(`{"error": "rate limited"}`))
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = markets.Parse([]byte(`<html>blocked</html>`))
	require.ErrorIs(t, err, markets.ErrUnexpectedShape)

	_, err = markets.Parse(nil)
	require.ErrorIs(t, err, markets.ErrUnexpectedShape)

	_, err = markets.Parse([]byte(`[1, 2, 3]`))
	require.Error(t, err)
}

func TestNormalizeDefaults(t *testing.T) {
	body := `[
		{"id": "a", "question": "War in 2026?"},
		{"id": "b", "question": "Trump wins?", "outcomePrices": "[\"0.5\"]", "volume": "lots"},
		{"id": "c", "question": "Korea talks?", "outcomePrices": "[\"yes\",\"no\"]", "volume": null}
	]`

	got, err := markets.Parse([]byte(body))
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, rec := range got {
		require.Equal(t, markets.DefaultOutcomePrices, rec.OutcomePrices)
		require.Equal(t, "0", rec.Volume)

		var prices []string
		require.NoError(t, json.Unmarshal([]byte(rec.OutcomePrices), &prices))
		require.Len(t, prices, 2)
	}
}

func TestNormalizeRejectsNonFiniteAndOutOfRange(t *testing.T) {
	body := `[
		{"id": "a", "question": "Gaza truce?", "outcomePrices": "[\"NaN\",\"0.5\"]", "volume": "NaN"},
		{"id": "b", "question": "Gaza truce?", "outcomePrices": "[\"Inf\",\"-Inf\"]", "volume": "infinity"},
		{"id": "c", "question": "Gaza truce?", "outcomePrices": "[\"3\",\"0.2\"]", "volume": "+Inf"},
		{"id": "d", "question": "Gaza truce?", "outcomePrices": "[\"-0.1\",\"1.1\"]", "volume": "-inf"},
		{"id": "e", "question": "Gaza truce?", "outcomePrices": "[\"0\",\"1\"]", "volume": "12"}
	]`

	got, err := markets.Parse([]byte(body))
	require.NoError(t, err)
	require.Len(t, got, 5)
	for _, rec := range got[:4] {
		require.Equal(t, markets.DefaultOutcomePrices, rec.OutcomePrices, rec.ID)
		require.Equal(t, "0", rec.Volume, rec.ID)
	}
	require.Equal(t, `["0","1"]`, got[4].OutcomePrices)
	require.Equal(t, "12", got[4].Volume)
}

func TestNormalizeCapsAndKeepsOrder(t *testing.T) {
	entries := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		entries = append(entries, fmt.Sprintf(`{"id": "%d", "question": "Election round %d?"}`, i, i))
	}
	body := "[" + strings.Join(entries, ",") + "]"

	got, err := markets.Parse([]byte(body))
	require.NoError(t, err)
	require.Len(t, got, markets.MaxRecords)
	for i, rec := range got {
		require.Equal(t, fmt.Sprint(i), rec.ID)
	}
}

func TestFallbackIsStaticCopy(t *testing.T) {
	first := markets.Fallback()
	require.Len(t, first, 8)
	require.Equal(t, "f1", first[0].ID)
	require.Equal(t, "who-will-trump-nominate-as-fed-chair", first[7].Slug)

	first[0].ID = "mutated"
	require.Equal(t, "f1", markets.Fallback()[0].ID)
}
