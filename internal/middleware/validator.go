package middleware

import (
	"fmt"
	"strings"
)

// Input validation and sanitization utilities

// maxCompanyInputLen bounds what we forward to the resolver prompt.
const maxCompanyInputLen = 200

// ValidateCompanyInput checks the free-text company field from the analyze
// request. The deeper normalization happens later in the pipeline; this only
// rejects what would be abusive to send to a generation call.
func ValidateCompanyInput(input string) error {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fmt.Errorf("company name is required")
	}
	if len(trimmed) > maxCompanyInputLen {
		return fmt.Errorf("company name too long (max %d characters)", maxCompanyInputLen)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
