package signals

import "context"

// MarketSource provides quote plus news-feed sentiment for a listed ticker.
type MarketSource interface {
	MarketSentiment(ctx context.Context, ticker string) (*MarketSentiment, error)
}

// NewsSource provides recent headlines with keyword sentiment for a company name.
type NewsSource interface {
	NewsSentiment(ctx context.Context, companyName string) (*NewsSentiment, error)
}

// EconomySource provides current macro indicators.
type EconomySource interface {
	EconomicContext(ctx context.Context) (*EconomicContext, error)
}
