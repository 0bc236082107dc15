package markets

import "github.com/DeafMist/intel-feed/internal/models"

// fallbackCatalog is served when every live endpoint fails. Slugs point at
// real event pages verified in January 2026.
var fallbackCatalog = []models.MarketRecord{
	{ID: "f1", Question: "Russia x Ukraine ceasefire by March 31, 2026?", OutcomePrices: `["0.13","0.87"]`, Volume: "9000000", Slug: "russia-x-ukraine-ceasefire-by-march-31-2026"},
	{ID: "f2", Question: "Russia x Ukraine ceasefire by end of 2026?", OutcomePrices: `["0.42","0.58"]`, Volume: "7000000", Slug: "russia-x-ukraine-ceasefire-before-2027"},
	{ID: "f3", Question: "Gaza or Ukraine ceasefire first?", OutcomePrices: `["0.65","0.35"]`, Volume: "2500000", Slug: "israel-x-hamas-or-russia-x-ukraine-ceasefire-first"},
	{ID: "f4", Question: `Will Trump establish a Gaza "Board of Peace" in 2025?`, OutcomePrices: `["0.08","0.92"]`, Volume: "462000", Slug: "will-trump-establish-a-gaza-board-of-peace-in-2025"},
	{ID: "f5", Question: "How much tariff revenue will US raise in 2025?", OutcomePrices: `["0.45","0.55"]`, Volume: "5200000", Slug: "how-much-revenue-will-the-us-raise-from-tariffs-in-2025"},
	{ID: "f6", Question: "Will Trump impose large tariffs in first 6 months?", OutcomePrices: `["0.72","0.28"]`, Volume: "3100000", Slug: "will-trump-impose-large-tariffs-in-first-6-months"},
	{ID: "f7", Question: "Fed decision in January?", OutcomePrices: `["0.96","0.04"]`, Volume: "414000000", Slug: "fed-interest-rates-january-2025"},
	{ID: "f8", Question: "Who will Trump nominate as Fed Chair?", OutcomePrices: `["0.61","0.39"]`, Volume: "214000000", Slug: "who-will-trump-nominate-as-fed-chair"},
}

// Fallback returns a copy of the static catalog.
func Fallback() []models.MarketRecord {
	out := make([]models.MarketRecord, len(fallbackCatalog))
	copy(out, fallbackCatalog)
	return out
}
