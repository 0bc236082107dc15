package processing

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength caps cleaned titles, counted in runes.
const MaxTitleLength = 200

var (
	tagRegex   = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// StripTags removes anything that looks like a markup tag.
func StripTags(input string) string {
	return tagRegex.ReplaceAllString(input, "")
}

// CleanText strips tags, then decodes entities and squeezes whitespace.
// Escaped brackets survive as literal text.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	text := html.UnescapeString(StripTags(input))
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CleanTitle turns a raw title into display text. It is idempotent on
// plain text without markup.
func CleanTitle(raw string) string {
	return Truncate(CleanText(raw), MaxTitleLength)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n]))
}
