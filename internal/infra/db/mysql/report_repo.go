package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/growtheory/reportcard/internal/domain/company"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save upserts a report keyed by ticker. Last writer wins: concurrent misses
// for the same company may both land here and that is acceptable.
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	const q = `
INSERT INTO company_cache
  (ticker, company, display_ticker, score, grade, financial_json, analysis, transcript_url, created_at, expires_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  company=VALUES(company), display_ticker=VALUES(display_ticker), score=VALUES(score),
  grade=VALUES(grade), financial_json=VALUES(financial_json), analysis=VALUES(analysis),
  transcript_url=VALUES(transcript_url), created_at=VALUES(created_at), expires_at=VALUES(expires_at);
`
	created := rep.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		rep.Ticker,
		stringOrDash(rep.Company),
		stringOrDash(rep.DisplayTicker),
		rep.Score,
		rep.Grade,
		marshalFinancial(rep.Financial),
		rep.Analysis,
		rep.TranscriptURL,
		created,
		rep.ExpiresAt,
	)
	return err
}

// Get returns the cached report for a key, or (nil, nil) when absent.
// Expired rows are returned as-is; freshness is the caller's call.
func (r *ReportRepository) Get(ctx context.Context, key string) (*domain.Report, error) {
	const q = `
SELECT ticker, company, display_ticker, score, grade, financial_json, analysis, transcript_url, created_at, expires_at
FROM company_cache
WHERE ticker=?;
`
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
LIMIT ?;
`
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
