package analysis

import (
	"context"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/growtheory/reportcard/internal/application"
	appsignals "github.com/growtheory/reportcard/internal/application/signals"
	domai "github.com/growtheory/reportcard/internal/domain/ai"
	"github.com/growtheory/reportcard/internal/domain/company"
	"github.com/growtheory/reportcard/internal/domain/faults"
	domsignals "github.com/growtheory/reportcard/internal/domain/signals"
	"github.com/growtheory/reportcard/internal/infra/ai/parse"
	"github.com/growtheory/reportcard/internal/infra/ai/prompt"
)

// dashboardLimit caps the recent-reports listing.
const dashboardLimit = 20

// notIdentifiedRe catches the analyst declining to make something up.
var notIdentifiedRe = regexp.MustCompile(`(?i)(could not|cannot)\s+identify`)

// Service implements the analysis pipeline: resolve the input, gather
// provider signals, generate the write-up, parse it, and serve it through the
// cache. Safe for concurrent use; all state lives in the injected ports.
type Service struct {
	Repo        company.Repository
	Generator   domai.Generator
	Signals     *appsignals.Service     // optional
	Transcripts company.TranscriptStore // optional
	Faults      faults.Repository       // optional
	Clock       application.Clock
	Freshness   time.Duration // zero means company.FreshnessWindow
	HitDelay    time.Duration // optional fixed sleep on cache hits
	Log         zerolog.Logger
}

// Result is one analysis response. Cached reports carry their age; a stale
// report only appears here when regeneration failed and the old row was the
// best we had.
type Result struct {
	Cached        bool    `json:"cached"`
	CacheAgeHours float64 `json:"cache_age_hours,omitempty"`
	Stale         bool    `json:"stale,omitempty"`
	*company.Report
}

// Analyze handles one request end to end.
func (s *Service) Analyze(ctx context.Context, input string) (*Result, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, company.ErrEmptyInput
	}
	log := s.Log.With().Str("input", input).Logger()

	res, err := s.resolve(ctx, input)
	if err != nil {
		// Resolver is also a generation call; its failure can still be
		// answered from a stale row keyed on the raw input.
		if fb := s.staleFallback(ctx, company.CacheKey("", input)); fb != nil {
			log.Warn().Err(err).Msg("resolver failed, serving stale report")
			return fb, nil
		}
		s.recordFault(ctx, input, "", "resolve", err.Error())
		return nil, err
	}
	if res.Status != company.ResolutionFound || res.OfficialName == "" {
		s.recordFault(ctx, input, "", "resolve", "resolver returned not_found")
		return nil, &company.NotFoundError{Input: input}
	}
	log.Info().Str("company", res.OfficialName).Str("ticker", res.Ticker).Str("confidence", res.Confidence).Msg("resolved")

	var bundle *domsignals.Bundle
	if s.Signals != nil {
		bundle = s.Signals.Gather(ctx, res.OfficialName, res.Ticker)
	}

	text, err := s.Generator.Generate(ctx, prompt.AnalystSystemPrompt(), prompt.AnalystUserPrompt(res.OfficialName, bundle))
	if err != nil {
		key := company.CacheKey(res.Ticker, res.OfficialName)
		if fb := s.staleFallback(ctx, key); fb != nil {
			log.Warn().Err(err).Str("key", key).Msg("generation failed, serving stale report")
			return fb, nil
		}
		s.recordFault(ctx, input, key, "generate", err.Error())
		return nil, err
	}

	if notIdentifiedRe.MatchString(text) {
		s.recordFault(ctx, input, "", "generate", "analyst could not identify company")
		return nil, &company.NotFoundError{Input: input}
	}

	parsed := parse.Parse(text)
	if parsed.OfficialName == parse.FallbackName || parsed.Ticker == company.TickerUnknown {
		// Ultimate-fallback sentinels are a resolution failure; never cache them.
		s.recordFault(ctx, input, "", "parse", "parser fell through to sentinel values")
		return nil, &company.NotFoundError{Input: input}
	}

	key := company.CacheKey(parsed.Ticker, parsed.OfficialName)
	if key == "" {
		s.recordFault(ctx, input, "", "key", "empty cache key for "+parsed.OfficialName)
		return nil, &company.NotFoundError{Input: input}
	}

	now := s.Clock.Now()
	if cached, gerr := s.Repo.Get(ctx, key); gerr != nil {
		// Storage errors never fail the request.
		log.Error().Err(gerr).Str("key", key).Msg("cache read failed")
	} else if cached != nil {
		if age := now.Sub(cached.CreatedAt); age < s.freshness() {
			if s.HitDelay > 0 {
				// Evens out perceived latency between hits and misses.
				time.Sleep(s.HitDelay)
			}
			log.Info().Str("key", key).Float64("age_hours", age.Hours()).Msg("cache hit")
			return &Result{Cached: true, CacheAgeHours: roundHours(age), Report: cached}, nil
		}
	}

	grade := parsed.Grade
	if grade == "" {
		grade = company.GradeForScore(parsed.Score)
	}
	rep := &company.Report{
		Ticker:        key,
		Company:       parsed.OfficialName,
		DisplayTicker: displayTicker(parsed.Ticker),
		Score:         parsed.Score,
		Grade:         grade,
		Financial:     parsed.Financial,
		Analysis:      parsed.Narrative,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.freshness()).Unix(),
	}

	if s.Transcripts != nil {
		if url, terr := s.Transcripts.SaveTranscript(ctx, key, text); terr != nil {
			log.Warn().Err(terr).Str("key", key).Msg("transcript archive failed")
		} else {
			rep.TranscriptURL = url
		}
	}

	if serr := s.Repo.Save(ctx, rep); serr != nil {
		// Last-writer-wins cache; a failed write just means a re-miss later.
		log.Error().Err(serr).Str("key", key).Msg("cache write failed")
	}

	log.Info().Str("key", key).Int("score", rep.Score).Str("grade", rep.Grade).Msg("analysis generated")
	return &Result{Cached: false, Report: rep}, nil
}

// Dashboard lists the most recent successful reports.
func (s *Service) Dashboard(ctx context.Context) ([]*company.Summary, error) {
	return s.Repo.Recent(ctx, dashboardLimit)
}

// Report is the exact-key lookup behind GET /report. Stale rows are returned
// as-is; the endpoint is a read of what the cache holds, not a regeneration.
func (s *Service) Report(ctx context.Context, ticker string) (*company.Report, error) {
	key := strings.ToUpper(strings.TrimSpace(ticker))
	if key == "" {
		return nil, company.ErrEmptyInput
	}
	rep, err := s.Repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, &company.NotFoundError{Input: ticker}
	}
	return rep, nil
}

// Failures lists recent analysis faults for operators.
func (s *Service) Failures(ctx context.Context, limit int) ([]*faults.Fault, error) {
	if s.Faults == nil {
		return nil, nil
	}
	return s.Faults.Recent(ctx, limit)
}

// resolve asks the generator to identify the company. Unparseable resolver
// output is treated the same as an explicit not_found.
func (s *Service) resolve(ctx context.Context, input string) (*company.Resolution, error) {
	text, err := s.Generator.Generate(ctx, prompt.ResolverSystemPrompt(), prompt.ResolverUserPrompt(input))
	if err != nil {
		return nil, err
	}
	res, perr := parse.Resolution(text)
	if perr != nil {
		return &company.Resolution{Status: company.ResolutionNotFound}, nil
	}
	return res, nil
}

// staleFallback serves whatever the cache holds for key, any age, when
// regeneration is off the table.
func (s *Service) staleFallback(ctx context.Context, key string) *Result {
	if key == "" {
		return nil
	}
	rep, err := s.Repo.Get(ctx, key)
	if err != nil || rep == nil {
		return nil
	}
	age := s.Clock.Now().Sub(rep.CreatedAt)
	return &Result{
		Cached:        true,
		Stale:         age >= s.freshness(),
		CacheAgeHours: roundHours(age),
		Report:        rep,
	}
}

func (s *Service) recordFault(ctx context.Context, input, key, stage, message string) {
	if s.Faults == nil {
		return
	}
	f := &faults.Fault{
		Input:     input,
		CacheKey:  key,
		Stage:     stage,
		Message:   message,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Faults.Save(ctx, f); err != nil {
		s.Log.Warn().Err(err).Str("stage", stage).Msg("fault record failed")
	}
}

func (s *Service) freshness() time.Duration {
	if s.Freshness > 0 {
		return s.Freshness
	}
	return company.FreshnessWindow
}

func displayTicker(ticker string) string {
	if strings.EqualFold(ticker, company.TickerPrivate) {
		return company.DisplayPrivate
	}
	return strings.ToUpper(ticker)
}

func roundHours(age time.Duration) float64 {
	return math.Round(age.Hours()*100) / 100
}
