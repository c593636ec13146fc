package signals

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	domain "github.com/growtheory/reportcard/internal/domain/signals"
)

// Defaults used when the economy source fails; a dead macro feed should never
// block an analysis.
const (
	defaultUnemploymentRate = 4.0
	defaultAnnualSalary     = 75000
)

// Service fans out to the configured data providers and folds their results
// into one Bundle. Any source may be nil (not configured) or fail; both
// degrade the bundle instead of the request.
type Service struct {
	Market  domain.MarketSource
	News    domain.NewsSource
	Economy domain.EconomySource
	Log     zerolog.Logger
}

// Gather collects provider signals for a resolved company. The market source
// is only consulted for real tickers; sentiment feeds have nothing useful on
// private-company slugs.
func (s *Service) Gather(ctx context.Context, officialName, ticker string) *domain.Bundle {
	bundle := &domain.Bundle{Status: domain.StatusComplete}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		attempted int
		failed    int
	)
	fail := func(msg string) {
		mu.Lock()
		bundle.Errors = append(bundle.Errors, msg)
		failed++
		mu.Unlock()
	}

	if s.Market != nil && isRealTicker(ticker) {
		attempted++
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := s.Market.MarketSentiment(ctx, ticker)
			if err != nil {
				s.Log.Warn().Err(err).Str("ticker", ticker).Msg("market source failed")
				fail("market: " + err.Error())
				return
			}
			mu.Lock()
			bundle.Market = m
			mu.Unlock()
		}()
	}

	if s.News != nil {
		attempted++
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := s.News.NewsSentiment(ctx, officialName)
			if err != nil {
				s.Log.Warn().Err(err).Str("company", officialName).Msg("news source failed")
				fail("news: " + err.Error())
				return
			}
			mu.Lock()
			bundle.News = n
			mu.Unlock()
		}()
	}

	if s.Economy != nil {
		attempted++
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := s.Economy.EconomicContext(ctx)
			if err != nil {
				s.Log.Warn().Err(err).Msg("economy source failed, using defaults")
				fail("economy: " + err.Error())
				e = &domain.EconomicContext{
					UnemploymentRate: defaultUnemploymentRate,
					AvgAnnualSalary:  defaultAnnualSalary,
				}
			}
			mu.Lock()
			bundle.Economy = e
			mu.Unlock()
		}()
	}

	wg.Wait()

	switch {
	case attempted == 0 || failed == 0:
		bundle.Status = domain.StatusComplete
	case failed == attempted:
		bundle.Status = domain.StatusFailed
	default:
		bundle.Status = domain.StatusPartial
	}
	return bundle
}

func isRealTicker(ticker string) bool {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	return t != "" && t != "PRIVATE" && t != "UNKNOWN" && t != "N/A"
}
