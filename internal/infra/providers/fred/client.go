package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/growtheory/reportcard/internal/domain/signals"
)

const defaultBaseURL = "https://api.stlouisfed.org/fred/series/observations"

// FRED series: civilian unemployment rate and average private hourly earnings.
const (
	seriesUnemployment = "UNRATE"
	seriesHourlyWage   = "CES0500000003"
)

// hoursPerYear converts an hourly wage to an annual salary (40h x 52 weeks).
const hoursPerYear = 2080

type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func New(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
	}
}

// NewWithBaseURL is used by tests to point the client at a stub server.
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = baseURL
	return c
}

// EconomicContext returns the latest macro indicators. Callers fall back to
// fixed defaults when this errors; the request itself never fails on macro data.
func (c *Client) EconomicContext(ctx context.Context) (*signals.EconomicContext, error) {
	unemployment, err := c.latest(ctx, seriesUnemployment)
	if err != nil {
		return nil, fmt.Errorf("fred %s: %w", seriesUnemployment, err)
	}
	hourly, err := c.latest(ctx, seriesHourlyWage)
	if err != nil {
		return nil, fmt.Errorf("fred %s: %w", seriesHourlyWage, err)
	}
	return &signals.EconomicContext{
		UnemploymentRate: math.Round(unemployment*10) / 10,
		AvgHourlyWage:    math.Round(hourly*100) / 100,
		AvgAnnualSalary:  math.Round(hourly * hoursPerYear),
	}, nil
}

func (c *Client) latest(ctx context.Context, series string) (float64, error) {
	params := url.Values{
		"series_id":  {series},
		"api_key":    {c.apiKey},
		"file_type":  {"json"},
		"limit":      {"1"},
		"sort_order": {"desc"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Observations []struct {
			Value string `json:"value"`
		} `json:"observations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	if len(body.Observations) == 0 {
		return 0, fmt.Errorf("no observations for %s", series)
	}
	v, err := strconv.ParseFloat(body.Observations[0].Value, 64)
	if err != nil {
		return 0, fmt.Errorf("bad observation value %q", body.Observations[0].Value)
	}
	return v, nil
}
