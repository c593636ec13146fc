package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/growtheory/reportcard/internal/domain/signals"
)

const defaultBaseURL = "https://newsapi.org/v2"

// lookback window for coverage; older articles say little about today's risk.
const lookbackDays = 30

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

type everythingResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// NewsSentiment fetches the ten most relevant articles from the last 30 days
// and scores them with the keyword heuristic.
func (c *Client) NewsSentiment(ctx context.Context, companyName string) (*signals.NewsSentiment, error) {
	params := url.Values{
		"q":        {companyName},
		"from":     {time.Now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")},
		"language": {"en"},
		"sortBy":   {"relevancy"},
		"pageSize": {"10"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi status %d", resp.StatusCode)
	}

	var body everythingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status != "ok" || len(body.Articles) == 0 {
		return nil, fmt.Errorf("no news found for %s", companyName)
	}

	headlines := make([]signals.Headline, 0, len(body.Articles))
	for _, a := range body.Articles {
		headlines = append(headlines, signals.Headline{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source.Name,
			Published:   a.PublishedAt,
		})
		if len(headlines) == 10 {
			break
		}
	}

	out := ScoreHeadlines(headlines)
	out.ArticlesFound = len(headlines)
	// top five only; the rest just feed the counters
	if len(headlines) > 5 {
		headlines = headlines[:5]
	}
	out.Headlines = headlines
	return out, nil
}
