package company

import "strings"

// corporateSuffixes are trailing tokens stripped from name slugs. "CO" is
// deliberately not in the set.
var corporateSuffixes = map[string]bool{
	"INC":         true,
	"LLC":         true,
	"LTD":         true,
	"CORP":        true,
	"CORPORATION": true,
	"COMPANY":     true,
}

var sentinelTickers = map[string]bool{
	TickerPrivate: true,
	TickerUnknown: true,
	"N/A":         true,
}

// CacheKey derives the canonical cache key for a company. Listed companies
// key on their uppercased ticker; private or unresolved companies key on a
// slug of the official name. An empty result means resolution failed and the
// caller must not use it as a key.
func CacheKey(ticker, officialName string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t != "" && !sentinelTickers[t] {
		return t
	}
	return nameSlug(officialName)
}

// nameSlug uppercases the name, drops everything outside [A-Z0-9 _],
// collapses separator runs to single underscores and strips one trailing
// corporate suffix token. Underscores count as separators so the slug is
// idempotent: feeding a slug back in as a name yields the same slug.
func nameSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '\t', r == '\n':
			b.WriteRune(' ')
		}
	}
	tokens := strings.Fields(b.String())
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) > 1 && corporateSuffixes[tokens[len(tokens)-1]] {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, "_")
}
