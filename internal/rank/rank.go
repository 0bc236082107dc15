package rank

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/DeafMist/intel-feed/internal/models"
	"github.com/DeafMist/intel-feed/internal/processing"
)

const (
	// KeyLength is how many leading runes of a title identify a story.
	KeyLength = 50
	// MaxItems caps the merged feed.
	MaxItems = 25
)

type dated struct {
	item models.FeedItem
	ts   time.Time
}

// Merge concatenates per-source lists in the given order, sorts newest first,
// drops near-duplicate titles and caps the result at limit. Items with
// unparseable dates sort as oldest; equal dates keep their merge order.
func Merge(lists [][]models.FeedItem, limit int) []models.FeedItem {
	var all []dated
	for _, list := range lists {
		for _, it := range list {
			all = append(all, dated{item: it, ts: processing.ParseDate(it.Date)})
		}
	}

	slices.SortStableFunc(all, func(a, b dated) int {
		return b.ts.Compare(a.ts)
	})

	unique := lo.UniqBy(all, func(d dated) string {
		return Key(d.item.Title)
	})

	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}

	return lo.Map(unique, func(d dated, _ int) models.FeedItem {
		return d.item
	})
}

// Key is the dedup key of a title.
func Key(title string) string {
	runes := []rune(title)
	if len(runes) > KeyLength {
		runes = runes[:KeyLength]
	}
	return string(runes)
}
