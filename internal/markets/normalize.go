package markets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/DeafMist/intel-feed/internal/models"
)

// MaxRecords caps the filtered catalog.
const MaxRecords = 20

// DefaultOutcomePrices is used when upstream prices are missing or malformed.
const DefaultOutcomePrices = `["0.5","0.5"]`

// ErrUnexpectedShape reports a catalog that is neither an array nor an
// object wrapping one under a known key.
var ErrUnexpectedShape = errors.New("unexpected catalog shape")

// Keywords selects geopolitically relevant questions.
var Keywords = []string{
	"russia", "ukraine", "china", "taiwan", "iran", "israel", "war", "trump",
	"biden", "fed", "recession", "ceasefire", "gaza", "nato", "nuclear",
	"military", "election", "tariff", "korea", "syria", "lebanon", "hamas",
	"hezbollah",
}

var wrapperKeys = []string{"data", "markets"}

// Entry is one upstream catalog object; fields stay raw because providers
// disagree on their types.
type Entry map[string]json.RawMessage

// DecodeCatalog reads the upstream payload into raw entries.
func DecodeCatalog(body []byte) ([]Entry, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrUnexpectedShape
	}

	switch body[0] {
	case '[':
		var list []Entry
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decode catalog array: %w", err)
		}
		return list, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("decode catalog object: %w", err)
		}
		for _, key := range wrapperKeys {
			raw, ok := wrapper[key]
			if !ok {
				continue
			}
			var list []Entry
			// A null wrapper value falls through to the next key.
			if err := json.Unmarshal(raw, &list); err != nil || list == nil {
				continue
			}
			return list, nil
		}
		return nil, nil
	default:
		return nil, ErrUnexpectedShape
	}
}

// Relevant reports whether question mentions any keyword.
func Relevant(question string) bool {
	q := strings.ToLower(question)
	return lo.SomeBy(Keywords, func(k string) bool {
		return strings.Contains(q, k)
	})
}

// Normalize filters entries by keyword and maps them to MarketRecord,
// keeping upstream order and at most MaxRecords results.
func Normalize(entries []Entry) []models.MarketRecord {
	relevant := lo.Filter(entries, func(e Entry, _ int) bool {
		q := e.str("question")
		return q != "" && Relevant(q)
	})
	if len(relevant) > MaxRecords {
		relevant = relevant[:MaxRecords]
	}

	return lo.Map(relevant, func(e Entry, _ int) models.MarketRecord {
		return models.MarketRecord{
			ID:            e.str("id", "condition_id"),
			Question:      e.str("question"),
			OutcomePrices: e.outcomePrices(),
			Volume:        e.volume(),
			Slug:          e.str("slug", "market_slug"),
		}
	})
}

// Parse decodes and normalizes a catalog payload in one step.
func Parse(body []byte) ([]models.MarketRecord, error) {
	entries, err := DecodeCatalog(body)
	if err != nil {
		return nil, err
	}
	return Normalize(entries), nil
}

// str returns the first non-empty value among keys, rendering numbers as
// text.
func (e Entry) str(keys ...string) string {
	for _, key := range keys {
		raw, ok := e[key]
		if !ok {
			continue
		}
		if s, ok := scalar(raw); ok && s != "" {
			return s
		}
	}
	return ""
}

func (e Entry) volume() string {
	for _, key := range []string{"volume", "volumeNum"} {
		raw, ok := e[key]
		if !ok {
			continue
		}
		s, ok := scalar(raw)
		if !ok || s == "" {
			continue
		}
		if _, ok := finite(s); ok {
			return s
		}
	}
	return "0"
}

func (e Entry) outcomePrices() string {
	raw, ok := e["outcomePrices"]
	if !ok {
		return DefaultOutcomePrices
	}

	// Gamma encodes the array as a JSON string; older endpoints send it raw.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = json.RawMessage(encoded)
	}

	var values []json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil || len(values) != 2 {
		return DefaultOutcomePrices
	}

	prices := make([]string, 0, 2)
	for _, v := range values {
		s, ok := scalar(v)
		if !ok {
			return DefaultOutcomePrices
		}
		if p, ok := finite(s); !ok || p < 0 || p > 1 {
			return DefaultOutcomePrices
		}
		prices = append(prices, s)
	}

	out, err := json.Marshal(prices)
	if err != nil {
		return DefaultOutcomePrices
	}
	return string(out)
}

// finite parses s as a number, rejecting NaN and infinities.
func finite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// scalar renders a JSON string or number as text.
func scalar(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return formatNumber(n), true
	}
	return "", false
}

func formatNumber(n json.Number) string {
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.String()
}
