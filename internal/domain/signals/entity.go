package signals

// Status of a provider bundle: complete when every source answered, partial
// when at least one degraded, failed when nothing came back.
type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusFailed   Status = "failed"
)

// Quote is a point-in-time market quote.
type Quote struct {
	Price         float64 `json:"price"`
	ChangePercent string  `json:"change_percent"`
	Volume        int64   `json:"volume"`
}

// MarketSentiment aggregates quote data with news-feed sentiment scoring.
type MarketSentiment struct {
	Quote          Quote    `json:"stock_data"`
	Overall        string   `json:"overall_sentiment"` // bullish | bearish | neutral
	SentimentScore float64  `json:"sentiment_score"`
	ArticleCount   int      `json:"article_count"`
	KeyThemes      []string `json:"key_themes,omitempty"`
	MarketSignals  []string `json:"market_signals,omitempty"`
}

// Headline is one news item about the company.
type Headline struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source"`
	Published   string `json:"published"`
}

// NewsSentiment is the keyword-scored view of recent coverage.
type NewsSentiment struct {
	Overall          string     `json:"overall_sentiment"` // positive | negative | neutral
	LayoffIndicators bool       `json:"layoff_indicators"`
	HiringIndicators bool       `json:"hiring_indicators"`
	PositiveSignals  int        `json:"positive_signals"`
	NegativeSignals  int        `json:"negative_signals"`
	LayoffMentions   int        `json:"layoff_mentions"`
	ArticlesFound    int        `json:"articles_found"`
	Headlines        []Headline `json:"headlines,omitempty"`
}

// EconomicContext carries the macro indicators the analyst grades against.
type EconomicContext struct {
	UnemploymentRate float64 `json:"unemployment_rate"`
	AvgHourlyWage    float64 `json:"avg_hourly_wage,omitempty"`
	AvgAnnualSalary  float64 `json:"avg_annual_salary"`
}

// Bundle is everything the providers produced for one request. Individual
// source failures degrade the bundle instead of failing the request; the
// errors are kept for the prompt and the logs.
type Bundle struct {
	Status  Status           `json:"status"`
	Market  *MarketSentiment `json:"market,omitempty"`
	News    *NewsSentiment   `json:"news,omitempty"`
	Economy *EconomicContext `json:"economy,omitempty"`
	Errors  []string         `json:"errors,omitempty"`
}
