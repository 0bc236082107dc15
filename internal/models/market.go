package models

// MarketRecord is the canonical prediction-market entry served to clients.
// OutcomePrices holds a JSON-encoded array of two decimal strings.
type MarketRecord struct {
	ID            string `json:"id"`
	Question      string `json:"question"`
	OutcomePrices string `json:"outcomePrices"`
	Volume        string `json:"volume"`
	Slug          string `json:"slug"`
}
