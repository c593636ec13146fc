package company

import "time"

// FreshnessWindow is how long a cached report is served as-is before the
// orchestrator regenerates it. Expired rows are never deleted; they stay
// readable as a degraded fallback.
const FreshnessWindow = 24 * time.Hour

// Sentinel tickers used in place of a real symbol.
const (
	TickerPrivate = "PRIVATE"
	TickerUnknown = "UNKNOWN"
)

// DisplayPrivate is what the front end shows instead of the PRIVATE sentinel.
const DisplayPrivate = "Not Publicly Traded"

// FinancialData holds the optional structured metrics extracted from the
// analyst output. Every field is nullable; a missing metric stays nil.
type FinancialData struct {
	Revenue      *float64 `json:"revenue,omitempty"`
	MarketCap    *float64 `json:"market_cap,omitempty"`
	ProfitMargin *float64 `json:"profit_margin,omitempty"`
	Employees    *int64   `json:"employees,omitempty"`
}

// Report is the persisted unit of the analysis cache, keyed by Ticker
// (the cache key: a real symbol for listed companies, a name slug otherwise).
type Report struct {
	Ticker        string         `json:"ticker"`
	Company       string         `json:"company"`
	DisplayTicker string         `json:"display_ticker"`
	Score         int            `json:"score"`
	Grade         string         `json:"grade"`
	Financial     *FinancialData `json:"financialData"`
	Analysis      string         `json:"detailedAnalysis"`
	TranscriptURL string         `json:"transcript_url,omitempty"`
	CreatedAt     time.Time      `json:"timestamp"`
	ExpiresAt     int64          `json:"expiresAt"` // epoch seconds, informational only
}

// Summary is the lightweight dashboard row.
type Summary struct {
	Ticker    string    `json:"ticker"`
	Company   string    `json:"company"`
	Score     int       `json:"score"`
	Grade     string    `json:"grade"`
	Timestamp time.Time `json:"timestamp"`
}

// ResolutionStatus enum
type ResolutionStatus string

const (
	ResolutionFound    ResolutionStatus = "found"
	ResolutionNotFound ResolutionStatus = "not_found"
)

// Resolution is the ephemeral output of the identifier resolver. It is never
// persisted; the orchestrator only uses it to pick a cache key and to decide
// whether the input maps to a real company at all.
type Resolution struct {
	Status       ResolutionStatus `json:"status"`
	OfficialName string           `json:"official_name"`
	Ticker       string           `json:"ticker"`
	Confidence   string           `json:"confidence"` // "high" or "low"
}
