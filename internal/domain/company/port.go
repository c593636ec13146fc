package company

import "context"

// Repository port for the cache store. Get returns (nil, nil) when the key is
// absent. The store never evicts: freshness is the caller's job, and rows past
// their window stay readable as a degraded fallback.
type Repository interface {
	Get(ctx context.Context, key string) (*Report, error)
	Save(ctx context.Context, r *Report) error
	Recent(ctx context.Context, limit int) ([]*Summary, error)
}

// TranscriptStore port for archiving the raw generated text alongside the
// parsed report. Failures here must never fail a request.
type TranscriptStore interface {
	SaveTranscript(ctx context.Context, key, text string) (string, error)
}
