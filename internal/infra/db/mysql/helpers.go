package mysql

import (
	"encoding/json"
	"strings"

	"github.com/growtheory/reportcard/internal/domain/company"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// marshalFinancial encodes optional financial data for storage. A nil record
// becomes the JSON literal "null" so the column always holds valid JSON.
func marshalFinancial(f *company.FinancialData) string {
	b, err := json.Marshal(f)
	if err != nil {
		return "null"
	}
	return string(b)
}

// unmarshalFinancial is the inverse; empty or "null" payloads come back nil.
func unmarshalFinancial(s string) *company.FinancialData {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil
	}
	var f company.FinancialData
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return nil
	}
	return &f
}
