package parse

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/growtheory/reportcard/internal/domain/company"
)

// Fallback values when nothing in the text is recognizable. Callers treat a
// result carrying these as a hard resolution failure and must not cache it.
const (
	FallbackName  = "Unknown Company"
	FallbackScore = 75
)

// Result is the best-effort structured view of one generated analysis.
type Result struct {
	OfficialName string
	Ticker       string
	Score        int
	Grade        string
	Financial    *company.FinancialData
	Narrative    string
}

var (
	metaBlockRe  = regexp.MustCompile("(?s)```json\\s*(\\{[^`]*\\})\\s*```")
	analyzingRe  = regexp.MustCompile(`(?i)Analyzing\s+(.+?)\s+\(([^)]+)\)`)
	assessmentRe = regexp.MustCompile(`(?i)Overall Assessment:\s*(\d+(?:\.\d+)?)\s*/\s*10`)
	notPublicRe  = regexp.MustCompile(`(?i)not\s+publicly\s+traded`)
	resolutionRe = regexp.MustCompile(`(?s)\{[^{}]*"status"[^{}]*\}`)
)

// Parse extracts structured fields from raw analyst output. It never fails:
// it degrades from the fenced metadata block, to pattern matching on the
// prose, to fixed fallback values.
func Parse(raw string) Result {
	if r, ok := parseMetadataBlock(raw); ok {
		return r
	}
	if r, ok := parsePatterns(raw); ok {
		return r
	}
	return Result{
		OfficialName: FallbackName,
		Ticker:       company.TickerUnknown,
		Score:        FallbackScore,
		Grade:        company.GradeForScore(FallbackScore),
		Narrative:    raw,
	}
}

// parseMetadataBlock handles the primary tier: a single fenced json block with
// the required keys, everything after it being the narrative.
func parseMetadataBlock(raw string) (Result, bool) {
	loc := metaBlockRe.FindStringSubmatchIndex(raw)
	if loc == nil {
		return Result{}, false
	}
	blob := raw[loc[2]:loc[3]]

	var meta struct {
		OfficialName *string  `json:"official_name"`
		Ticker       *string  `json:"ticker"`
		Score        *float64 `json:"score"`
		Grade        *string  `json:"grade"`
		Financial    *struct {
			Revenue      *float64 `json:"revenue"`
			MarketCap    *float64 `json:"market_cap"`
			ProfitMargin *float64 `json:"profit_margin"`
			Employees    *int64   `json:"employees"`
		} `json:"financial_data"`
	}
	if err := json.Unmarshal([]byte(blob), &meta); err != nil {
		return Result{}, false
	}
	if meta.OfficialName == nil || meta.Ticker == nil || meta.Score == nil || meta.Grade == nil {
		return Result{}, false
	}

	r := Result{
		OfficialName: strings.TrimSpace(*meta.OfficialName),
		Ticker:       strings.TrimSpace(*meta.Ticker),
		Score:        int(*meta.Score),
		Grade:        strings.TrimSpace(*meta.Grade),
		Narrative:    strings.TrimSpace(raw[loc[1]:]),
	}
	if meta.Financial != nil {
		r.Financial = &company.FinancialData{
			Revenue:      meta.Financial.Revenue,
			MarketCap:    meta.Financial.MarketCap,
			ProfitMargin: meta.Financial.ProfitMargin,
			Employees:    meta.Financial.Employees,
		}
	}
	return r, true
}

// parsePatterns is the fallback tier: pull the company out of an
// "Analyzing <name> (<ticker>)" opener and the score out of an
// "Overall Assessment: N/10" line.
func parsePatterns(raw string) (Result, bool) {
	m := analyzingRe.FindStringSubmatch(raw)
	if m == nil {
		return Result{}, false
	}
	name := strings.TrimSpace(m[1])
	ticker := strings.TrimSpace(m[2])
	if notPublicRe.MatchString(ticker) {
		ticker = company.TickerPrivate
	} else {
		ticker = strings.ToUpper(ticker)
	}

	score := FallbackScore
	if sm := assessmentRe.FindStringSubmatch(raw); sm != nil {
		if v, err := strconv.ParseFloat(sm[1], 64); err == nil {
			// Scaled as-is: an out-of-range "12/10" becomes 120. Known
			// looseness, kept to match observed behaviour.
			score = int(math.Round(v * 10))
		}
	}

	return Result{
		OfficialName: name,
		Ticker:       ticker,
		Score:        score,
		Grade:        company.GradeForScore(score),
		Narrative:    strings.TrimSpace(raw),
	}, true
}

// Resolution extracts the resolver's JSON verdict from its response text.
// The resolver is told to emit bare JSON, but models wrap things in prose
// often enough that the object is fished out with a regex first.
func Resolution(raw string) (*company.Resolution, error) {
	blob := raw
	if m := resolutionRe.FindString(raw); m != "" {
		blob = m
	}
	var res company.Resolution
	if err := json.Unmarshal([]byte(blob), &res); err != nil {
		return nil, err
	}
	res.OfficialName = strings.TrimSpace(res.OfficialName)
	res.Ticker = strings.ToUpper(strings.TrimSpace(res.Ticker))
	return &res, nil
}
