package dedupe

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/DeafMist/intel-feed/internal/rank"
)

// HeadlineKey hashes the dedup prefix of a title so alerts for the same story
// collapse across snapshots and sources.
func HeadlineKey(title string) string {
	s := sha1.Sum([]byte(strings.ToLower(rank.Key(strings.TrimSpace(title)))))
	return hex.EncodeToString(s[:])
}
