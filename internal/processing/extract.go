package processing

import (
	"regexp"
	"strings"

	"github.com/DeafMist/intel-feed/internal/models"
)

// The scanner works on raw text rather than a parsed tree: each block and
// field is the shortest match between its markers, so a broken block never
// prevents the ones after it from being read.
var (
	itemRegex        = regexp.MustCompile(`(?is)<item(?:\s[^>]*)?>(.*?)</item>`)
	titleRegex       = fieldRegex("title")
	linkRegex        = fieldRegex("link")
	pubDateRegex     = fieldRegex("pubDate")
	descriptionRegex = fieldRegex("description")
)

func fieldRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<` + name + `(?:\s[^>]*)?>\s*(?:<!\[CDATA\[)?(.*?)(?:\]\]>)?\s*</` + name + `>`)
}

// RawItem holds the text fields found in one item block. Missing fields are
// empty strings.
type RawItem struct {
	Title       string
	Link        string
	PubDate     string
	Description string
}

// ScanItems returns every item block of doc in document order.
func ScanItems(doc string) []RawItem {
	blocks := itemRegex.FindAllStringSubmatch(doc, -1)
	if len(blocks) == 0 {
		return nil
	}

	items := make([]RawItem, 0, len(blocks))
	for _, block := range blocks {
		body := block[1]
		items = append(items, RawItem{
			Title:       firstMatch(titleRegex, body),
			Link:        firstMatch(linkRegex, body),
			PubDate:     firstMatch(pubDateRegex, body),
			Description: firstMatch(descriptionRegex, body),
		})
	}
	return items
}

// ExtractItems scans doc and builds classified feed items tagged with source.
// Blocks without a usable title are skipped.
func ExtractItems(doc, source string) []models.FeedItem {
	raw := ScanItems(doc)
	if len(raw) == 0 {
		return nil
	}

	items := make([]models.FeedItem, 0, len(raw))
	for _, r := range raw {
		title := CleanTitle(r.Title)
		if title == "" {
			continue
		}
		items = append(items, models.FeedItem{
			Title:  title,
			Link:   r.Link,
			Date:   r.PubDate,
			Source: source,
			Level:  Classify(title + " " + CleanText(r.Description)),
		})
	}
	return items
}

func firstMatch(re *regexp.Regexp, body string) string {
	m := re.FindStringSubmatch(body)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
