package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeyRealTicker(t *testing.T) {
	assert.Equal(t, "MSFT", CacheKey("msft", "Microsoft Corporation"))
	assert.Equal(t, "AAPL", CacheKey(" AAPL ", "Apple Inc."))
}

func TestCacheKeySentinelTickersFallToNameSlug(t *testing.T) {
	assert.Equal(t, "BOSTON_CONSULTING_GROUP", CacheKey("PRIVATE", "Boston Consulting Group"))
	assert.Equal(t, "STRIPE", CacheKey("UNKNOWN", "Stripe, Inc."))
	assert.Equal(t, "CARGILL", CacheKey("N/A", "Cargill"))
	assert.Equal(t, "DELOITTE", CacheKey("", "Deloitte"))
}

func TestCacheKeySuffixStripping(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"ABC Co., Inc.", "ABC_CO"},
		{"Acme Corp", "ACME"},
		{"Acme Corporation", "ACME"},
		{"Widgets LLC", "WIDGETS"},
		{"Holdings Ltd", "HOLDINGS"},
		{"The Walt Disney Company", "THE_WALT_DISNEY"},
		// A lone suffix token is the whole name, keep it.
		{"Inc", "INC"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CacheKey("PRIVATE", tc.name), "name %q", tc.name)
	}
}

func TestCacheKeyDropsPunctuationAndCollapsesSpaces(t *testing.T) {
	assert.Equal(t, "ATT", CacheKey("", "AT&T"))
	assert.Equal(t, "BEN_JERRYS", CacheKey("", "Ben & Jerry's"))
	assert.Equal(t, "A_B", CacheKey("", "  a    b  "))
}

func TestCacheKeyIdempotent(t *testing.T) {
	inputs := []string{"Boston Consulting Group", "ABC Co., Inc.", "Ben & Jerry's", "The Walt Disney Company"}
	for _, in := range inputs {
		once := CacheKey("PRIVATE", in)
		assert.Equal(t, once, CacheKey("PRIVATE", once), "slug of %q not stable", in)
	}
}

func TestCacheKeyEmpty(t *testing.T) {
	assert.Equal(t, "", CacheKey("", ""))
	assert.Equal(t, "", CacheKey("PRIVATE", "!!!"))
}
