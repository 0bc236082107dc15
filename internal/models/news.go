package models

// Level is the severity tier assigned to a headline.
type Level string

const (
	LevelNormal   Level = "normal"
	LevelWarning  Level = "warning"
	LevelElevated Level = "elevated"
	LevelCritical Level = "critical"
)

// Response status markers for the news endpoint.
const (
	StatusOK       = "ok"
	StatusFallback = "fallback"
)

// Source is a static upstream descriptor.
type Source struct {
	URL  string
	Code string
}

// FeedItem is one normalized headline. Link and Date are always serialized,
// even when empty.
type FeedItem struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Date   string `json:"date"`
	Source string `json:"src"`
	Level  Level  `json:"level"`
}

// NewsResponse is the body of the news aggregation endpoint.
type NewsResponse struct {
	Status string     `json:"status"`
	Items  []FeedItem `json:"items"`
}
