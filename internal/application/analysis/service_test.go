package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/growtheory/reportcard/internal/domain/ai"
	"github.com/growtheory/reportcard/internal/domain/company"
	"github.com/growtheory/reportcard/internal/domain/faults"
)

type fakeRepo struct {
	rows    map[string]*company.Report
	saved   []*company.Report
	saveErr error
	getErr  error
	recent  []*company.Summary
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]*company.Report)}
}

func (f *fakeRepo) Get(ctx context.Context, key string) (*company.Report, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.rows[key], nil
}

func (f *fakeRepo) Save(ctx context.Context, r *company.Report) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, r)
	f.rows[r.Ticker] = r
	return nil
}

func (f *fakeRepo) Recent(ctx context.Context, limit int) ([]*company.Summary, error) {
	return f.recent, nil
}

type genResponse struct {
	text string
	err  error
}

type fakeGenerator struct {
	responses []genResponse
	calls     int
}

func (g *fakeGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	if g.calls >= len(g.responses) {
		return "", errors.New("unexpected generation call")
	}
	r := g.responses[g.calls]
	g.calls++
	return r.text, r.err
}

type fakeFaults struct {
	saved []*faults.Fault
}

func (f *fakeFaults) Save(ctx context.Context, fault *faults.Fault) error {
	f.saved = append(f.saved, fault)
	return nil
}

func (f *fakeFaults) Recent(ctx context.Context, limit int) ([]*faults.Fault, error) {
	return f.saved, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func resolverFound(name, ticker string) genResponse {
	return genResponse{text: fmt.Sprintf(`{"status": "found", "official_name": %q, "ticker": %q, "confidence": "high"}`, name, ticker)}
}

func analystReport(name, ticker string, score int, grade string) genResponse {
	text := fmt.Sprintf("```json\n{\"official_name\": %q, \"ticker\": %q, \"score\": %d, \"grade\": %q}\n```\n\nNarrative for %s.", name, ticker, score, grade, name)
	return genResponse{text: text}
}

func newService(repo *fakeRepo, gen *fakeGenerator, fr *fakeFaults) *Service {
	svc := &Service{
		Repo:      repo,
		Generator: gen,
		Clock:     fixedClock{t: testNow},
		Log:       zerolog.Nop(),
	}
	if fr != nil {
		svc.Faults = fr
	}
	return svc
}

func TestAnalyzeEmptyInput(t *testing.T) {
	gen := &fakeGenerator{}
	svc := newService(newFakeRepo(), gen, nil)

	_, err := svc.Analyze(context.Background(), "   ")

	assert.ErrorIs(t, err, company.ErrEmptyInput)
	assert.Zero(t, gen.calls, "no generation call should happen for empty input")
}

func TestAnalyzeMissGeneratesAndCaches(t *testing.T) {
	repo := newFakeRepo()
	gen := &fakeGenerator{responses: []genResponse{
		resolverFound("Google LLC", "GOOGL"),
		analystReport("Google LLC", "GOOGL", 88, "A"),
	}}
	svc := newService(repo, gen, nil)

	res, err := svc.Analyze(context.Background(), "Gogle")

	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, "GOOGL", res.Ticker)
	assert.Equal(t, "Google LLC", res.Company)
	assert.Equal(t, "GOOGL", res.DisplayTicker)
	assert.Equal(t, 88, res.Score)
	assert.Equal(t, "A", res.Grade)
	assert.Equal(t, testNow, res.CreatedAt)
	assert.Equal(t, testNow.Add(24*time.Hour).Unix(), res.ExpiresAt)

	require.Len(t, repo.saved, 1)
	assert.Equal(t, "GOOGL", repo.saved[0].Ticker)
}

func TestAnalyzeFreshHit(t *testing.T) {
	repo := newFakeRepo()
	repo.rows["GOOGL"] = &company.Report{
		Ticker:    "GOOGL",
		Company:   "Google LLC",
		Score:     91,
		Grade:     "A+",
		CreatedAt: testNow.Add(-2 * time.Hour),
	}
	gen := &fakeGenerator{responses: []genResponse{
		resolverFound("Google LLC", "GOOGL"),
		analystReport("Google LLC", "GOOGL", 70, "B"),
	}}
	svc := newService(repo, gen, nil)

	res, err := svc.Analyze(context.Background(), "google inc")

	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.False(t, res.Stale)
	assert.InDelta(t, 2.0, res.CacheAgeHours, 0.01)
	// Cached row wins over the freshly generated one.
	assert.Equal(t, 91, res.Score)
	assert.Empty(t, repo.saved, "a fresh hit must not overwrite the row")
}

func TestAnalyzeExpiredRowRegenerates(t *testing.T) {
	repo := newFakeRepo()
	repo.rows["GOOGL"] = &company.Report{
		Ticker:    "GOOGL",
		Company:   "Google LLC",
		Score:     91,
		CreatedAt: testNow.Add(-25 * time.Hour),
	}
	gen := &fakeGenerator{responses: []genResponse{
		resolverFound("Google LLC", "GOOGL"),
		analystReport("Google LLC", "GOOGL", 82, "A-"),
	}}
	svc := newService(repo, gen, nil)

	res, err := svc.Analyze(context.Background(), "Google")

	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 82, res.Score)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, 82, repo.rows["GOOGL"].Score, "expired row gets replaced")
}

func TestAnalyzeGenerationFailureServesStale(t *testing.T) {
	repo := newFakeRepo()
	repo.rows["GOOGL"] = &company.Report{
		Ticker:    "GOOGL",
		Company:   "Google LLC",
		Score:     91,
		CreatedAt: testNow.Add(-30 * time.Hour),
	}
	gen := &fakeGenerator{responses: []genResponse{
		resolverFound("Google LLC", "GOOGL"),
		{err: domai.ErrQuotaExceeded},
	}}
	svc := newService(repo, gen, nil)

	res, err := svc.Analyze(context.Background(), "Google")

	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.True(t, res.Stale)
	assert.InDelta(t, 30.0, res.CacheAgeHours, 0.01)
	assert.Equal(t, 91, res.Score)
}

func TestAnalyzeGenerationFailureNoCacheFails(t *testing.T) {
	fr := &fakeFaults{}
	gen := &fakeGenerator{responses: []genResponse{
		resolverFound("Google LLC", "GOOGL"),
		{err: domai.ErrQuotaExceeded},
	}}
	svc := newService(newFakeRepo(), gen, fr)

	_, err := svc.Analyze(context.Background(), "Google")

	assert.ErrorIs(t, err, domai.ErrQuotaExceeded)
	require.Len(t, fr.saved, 1)
	assert.Equal(t, "generate", fr.saved[0].Stage)
}

func TestAnalyzeSaveFailureIsNonFatal(t *testing.T) {
	repo := newFakeRepo()
	repo.saveErr = errors.New("table gone")
	gen := &fakeGenerator{responses: []genResponse{
		resolverFound("Google LLC", "GOOGL"),
		analystReport("Google LLC", "GOOGL", 88, "A"),
	}}
	svc := newService(repo, gen, nil)

	res, err := svc.Analyze(context.Background(), "Google")

	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 88, res.Score)
}

func TestAnalyzeResolverNotFound(t *testing.T) {
	fr := &fakeFaults{}
	gen := &fakeGenerator{responses: []genResponse{
		{text: `{"status": "not_found", "official_name": "", "ticker": "", "confidence": "low"}`},
	}}
	svc := newService(newFakeRepo(), gen, fr)

	_, err := svc.Analyze(context.Background(), "asdfghjkl")

	assert.ErrorIs(t, err, company.ErrNotFound)
	assert.Contains(t, err.Error(), "asdfghjkl")
	require.Len(t, fr.saved, 1)
	assert.Equal(t, "resolve", fr.saved[0].Stage)
}

func TestAnalyzeAnalystDeclines(t *testing.T) {
	gen := &fakeGenerator{responses: []genResponse{
		resolverFound("Mystery Holdings", "PRIVATE"),
		{text: "I'm sorry, I could not identify this company with confidence."},
	}}
	svc := newService(newFakeRepo(), gen, nil)

	_, err := svc.Analyze(context.Background(), "Mystery Holdings")

	assert.ErrorIs(t, err, company.ErrNotFound)
}

func TestAnalyzeSentinelParseIsNotCached(t *testing.T) {
	repo := newFakeRepo()
	gen := &fakeGenerator{responses: []genResponse{
		resolverFound("Something", "SMTH"),
		{text: "completely unstructured rambling"},
	}}
	svc := newService(repo, gen, nil)

	_, err := svc.Analyze(context.Background(), "Something")

	assert.ErrorIs(t, err, company.ErrNotFound)
	assert.Empty(t, repo.saved)
}

func TestAnalyzePrivateCompanyDisplayTicker(t *testing.T) {
	repo := newFakeRepo()
	gen := &fakeGenerator{responses: []genResponse{
		resolverFound("Boston Consulting Group", "PRIVATE"),
		analystReport("Boston Consulting Group", "PRIVATE", 77, "B+"),
	}}
	svc := newService(repo, gen, nil)

	res, err := svc.Analyze(context.Background(), "BCG")

	require.NoError(t, err)
	assert.Equal(t, "BOSTON_CONSULTING_GROUP", res.Ticker)
	assert.Equal(t, company.DisplayPrivate, res.DisplayTicker)
}

func TestReportLookup(t *testing.T) {
	repo := newFakeRepo()
	repo.rows["AAPL"] = &company.Report{Ticker: "AAPL", Company: "Apple Inc."}
	svc := newService(repo, &fakeGenerator{}, nil)

	rep, err := svc.Report(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", rep.Company)

	_, err = svc.Report(context.Background(), "MSFT")
	assert.ErrorIs(t, err, company.ErrNotFound)

	_, err = svc.Report(context.Background(), "")
	assert.ErrorIs(t, err, company.ErrEmptyInput)
}

func TestDashboard(t *testing.T) {
	repo := newFakeRepo()
	repo.recent = []*company.Summary{{Ticker: "AAPL", Score: 92, Grade: "A+"}}
	svc := newService(repo, &fakeGenerator{}, nil)

	list, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "AAPL", list[0].Ticker)
}
