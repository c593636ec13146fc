package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalysis "github.com/growtheory/reportcard/internal/application/analysis"
	domai "github.com/growtheory/reportcard/internal/domain/ai"
	"github.com/growtheory/reportcard/internal/domain/company"
)

type stubRepo struct {
	rows map[string]*company.Report
}

func (s *stubRepo) Get(ctx context.Context, key string) (*company.Report, error) {
	return s.rows[key], nil
}

func (s *stubRepo) Save(ctx context.Context, r *company.Report) error {
	s.rows[r.Ticker] = r
	return nil
}

func (s *stubRepo) Recent(ctx context.Context, limit int) ([]*company.Summary, error) {
	var out []*company.Summary
	for _, r := range s.rows {
		out = append(out, &company.Summary{Ticker: r.Ticker, Company: r.Company, Score: r.Score, Grade: r.Grade, Timestamp: r.CreatedAt})
	}
	return out, nil
}

type stubGenerator struct {
	responses []string
	err       error
	calls     int
}

func (s *stubGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.calls >= len(s.responses) {
		return "", domai.ErrTimeout
	}
	text := s.responses[s.calls]
	s.calls++
	return text, nil
}

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

func newTestServer(repo *stubRepo, gen *stubGenerator) http.Handler {
	svc := &appanalysis.Service{
		Repo:      repo,
		Generator: gen,
		Clock:     stubClock{},
		Log:       zerolog.Nop(),
	}
	return NewRouter(svc, Options{Log: zerolog.Nop()})
}

const analystText = "```json\n{\"official_name\": \"Apple Inc.\", \"ticker\": \"AAPL\", \"score\": 92, \"grade\": \"A+\"}\n```\n\nSolid fundamentals."

const resolverText = `{"status": "found", "official_name": "Apple Inc.", "ticker": "AAPL", "confidence": "high"}`

func TestAnalyzeEndpoint(t *testing.T) {
	repo := &stubRepo{rows: map[string]*company.Report{}}
	h := newTestServer(repo, &stubGenerator{responses: []string{resolverText, analystText}})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"company": "apple"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Cached bool   `json:"cached"`
		Ticker string `json:"ticker"`
		Score  int    `json:"score"`
		Grade  string `json:"grade"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Cached)
	assert.Equal(t, "AAPL", body.Ticker)
	assert.Equal(t, 92, body.Score)
	assert.Equal(t, "A+", body.Grade)

	assert.Contains(t, repo.rows, "AAPL")
}

func TestAnalyzeEndpointBadJSON(t *testing.T) {
	h := newTestServer(&stubRepo{rows: map[string]*company.Report{}}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpointEmptyCompany(t *testing.T) {
	gen := &stubGenerator{}
	h := newTestServer(&stubRepo{rows: map[string]*company.Report{}}, gen)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"company": "  "}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, gen.calls)
}

func TestAnalyzeEndpointNotFound(t *testing.T) {
	gen := &stubGenerator{responses: []string{`{"status": "not_found", "official_name": "", "ticker": "", "confidence": "low"}`}}
	h := newTestServer(&stubRepo{rows: map[string]*company.Report{}}, gen)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"company": "zzzzzz"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "zzzzzz")
}

func TestAnalyzeEndpointQuotaExceeded(t *testing.T) {
	h := newTestServer(&stubRepo{rows: map[string]*company.Report{}}, &stubGenerator{err: domai.ErrQuotaExceeded})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"company": "apple"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestReportEndpoint(t *testing.T) {
	repo := &stubRepo{rows: map[string]*company.Report{
		"AAPL": {Ticker: "AAPL", Company: "Apple Inc.", Score: 92, Grade: "A+"},
	}}
	h := newTestServer(repo, &stubGenerator{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report?ticker=aapl", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var rep company.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, "Apple Inc.", rep.Company)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report?ticker=MSFT", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/report", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	repo := &stubRepo{rows: map[string]*company.Report{
		"AAPL": {Ticker: "AAPL", Company: "Apple Inc.", Score: 92, Grade: "A+"},
	}}
	h := newTestServer(repo, &stubGenerator{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Companies []company.Summary `json:"companies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Companies, 1)
	assert.Equal(t, "AAPL", body.Companies[0].Ticker)
}

func TestDashboardEndpointEmpty(t *testing.T) {
	h := newTestServer(&stubRepo{rows: map[string]*company.Report{}}, &stubGenerator{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"companies": []}`, rec.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	h := newTestServer(&stubRepo{rows: map[string]*company.Report{}}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	req.Header.Set("Origin", "https://reportcard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(&stubRepo{rows: map[string]*company.Report{}}, &stubGenerator{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
