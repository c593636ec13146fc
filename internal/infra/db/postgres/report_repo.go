package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	domain "github.com/growtheory/reportcard/internal/domain/company"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save inserts or updates a report keyed by ticker
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	const q = `
INSERT INTO company_cache
  (ticker, company, display_ticker, score, grade, financial_json, analysis, transcript_url, created_at, expires_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (ticker) DO UPDATE SET
  company=EXCLUDED.company,
  display_ticker=EXCLUDED.display_ticker,
  score=EXCLUDED.score,
  grade=EXCLUDED.grade,
  financial_json=EXCLUDED.financial_json,
  analysis=EXCLUDED.analysis,
  transcript_url=EXCLUDED.transcript_url,
  created_at=EXCLUDED.created_at,
  expires_at=EXCLUDED.expires_at;
`
	created := rep.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		rep.Ticker, stringOrDash(rep.Company), stringOrDash(rep.DisplayTicker), rep.Score, rep.Grade,
		marshalFinancial(rep.Financial), rep.Analysis, rep.TranscriptURL, created, rep.ExpiresAt)
	return err
}

func (r *ReportRepository) Get(ctx context.Context, key string) (*domain.Report, error) {
	const q = `
SELECT ticker, company, display_ticker, score, grade, financial_json, analysis, transcript_url, created_at, expires_at
FROM company_cache
WHERE ticker=$1;`
	row := r.db.QueryRowContext(ctx, q, key)

	var rep domain.Report
	var financial string
	var created time.Time
	err := row.Scan(&rep.Ticker, &rep.Company, &rep.DisplayTicker, &rep.Score, &rep.Grade,
		&financial, &rep.Analysis, &rep.TranscriptURL, &created, &rep.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rep.Financial = unmarshalFinancial(financial)
	rep.CreatedAt = created
	return &rep, nil
}

// Recent returns dashboard summaries ordered by created_at desc
func (r *ReportRepository) Recent(ctx context.Context, limit int) ([]*domain.Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT ticker, company, score, grade, created_at
FROM company_cache
ORDER BY created_at DESC, ticker ASC
LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Summary
	for rows.Next() {
		var s domain.Summary
		var created time.Time
		if err := rows.Scan(&s.Ticker, &s.Company, &s.Score, &s.Grade, &created); err != nil {
			return nil, err
		}
		s.Timestamp = created
		out = append(out, &s)
	}
	return out, rows.Err()
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func marshalFinancial(f *domain.FinancialData) string {
	b, err := json.Marshal(f)
	if err != nil {
		return "null"
	}
	return string(b)
}

func unmarshalFinancial(s string) *domain.FinancialData {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil
	}
	var f domain.FinancialData
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return nil
	}
	return &f
}
