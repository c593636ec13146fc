package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrTimeout indicates the generation call exceeded its configured bound.
// Retryable; the caller may serve a stale cached report instead.
var ErrTimeout = errors.New("ai generation timed out")
