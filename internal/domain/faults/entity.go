package faults

import "time"

// Fault is a persisted record of a failed analysis attempt. Kept out of the
// cache table so the dashboard only ever lists successful reports.
type Fault struct {
	ID          int64     `json:"id"`
	Input       string    `json:"input"`
	CacheKey    string    `json:"cache_key,omitempty"`
	Stage       string    `json:"stage"` // resolve | generate | parse | key
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
