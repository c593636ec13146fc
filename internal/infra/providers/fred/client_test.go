package fred

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEconomicContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("series_id") {
		case seriesUnemployment:
			fmt.Fprint(w, `{"observations": [{"value": "4.12"}]}`)
		case seriesHourlyWage:
			fmt.Fprint(w, `{"observations": [{"value": "35.61"}]}`)
		default:
			http.Error(w, "unknown series", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := NewWithBaseURL("test-key", srv.URL)
	e, err := c.EconomicContext(context.Background())

	require.NoError(t, err)
	assert.InDelta(t, 4.1, e.UnemploymentRate, 0.001)
	assert.InDelta(t, 35.61, e.AvgHourlyWage, 0.001)
	assert.InDelta(t, 74069, e.AvgAnnualSalary, 0.5)
}

func TestEconomicContextNoObservations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"observations": []}`)
	}))
	defer srv.Close()

	c := NewWithBaseURL("test-key", srv.URL)
	_, err := c.EconomicContext(context.Background())

	assert.Error(t, err)
}
