package processing

import (
	"regexp"
	"strings"

	"github.com/DeafMist/intel-feed/internal/models"
)

type tier struct {
	level models.Level
	terms *regexp.Regexp
}

// Tiers are evaluated in order; the first tier with a matching term wins.
// Terms are stems matched anywhere in the lower-cased text.
var tiers = []tier{
	{models.LevelCritical, termsRegex(
		"kill", "dead", "attack", "strike", "bomb", "explo", "war", "missile",
		"casualt", "death", "terror", "massacre", "assault", "shooting",
	)},
	{models.LevelElevated, termsRegex(
		"military", "troops", "conflict", "tension", "crisis", "nuclear",
		"weapon", "invasion", "sanctions", "drone",
	)},
	{models.LevelWarning, termsRegex(
		"protest", "warning", "threat", "security", "arrest", "emergency", "evacuat",
	)},
}

func termsRegex(terms ...string) *regexp.Regexp {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

// Classify maps free text to a severity tier.
func Classify(text string) models.Level {
	lower := strings.ToLower(text)
	for _, t := range tiers {
		if t.terms.MatchString(lower) {
			return t.level
		}
	}
	return models.LevelNormal
}
