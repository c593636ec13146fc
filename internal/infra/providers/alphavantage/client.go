package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/growtheory/reportcard/internal/domain/signals"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

// relevanceFloor filters out articles that merely mention the ticker.
const relevanceFloor = 0.3

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

type globalQuote struct {
	GlobalQuote struct {
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

type newsFeed struct {
	Feed []struct {
		Title  string `json:"title"`
		Topics []struct {
			Topic string `json:"topic"`
		} `json:"topics"`
		TickerSentiment []struct {
			Score     string `json:"ticker_sentiment_score"`
			Relevance string `json:"relevance_score"`
		} `json:"ticker_sentiment"`
	} `json:"feed"`
}

// MarketSentiment combines a quote with sentiment scored from the news feed.
func (c *Client) MarketSentiment(ctx context.Context, ticker string) (*signals.MarketSentiment, error) {
	var quote globalQuote
	if err := c.get(ctx, url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {ticker}}, &quote); err != nil {
		return nil, fmt.Errorf("alphavantage quote: %w", err)
	}
	var feed newsFeed
	if err := c.get(ctx, url.Values{"function": {"NEWS_SENTIMENT"}, "tickers": {ticker}, "limit": {"10"}}, &feed); err != nil {
		return nil, fmt.Errorf("alphavantage news: %w", err)
	}

	var scores []float64
	articles := feed.Feed
	if len(articles) > 10 {
		articles = articles[:10]
	}
	for _, a := range articles {
		for _, ts := range a.TickerSentiment {
			if parseNum(ts.Relevance) > relevanceFloor {
				scores = append(scores, parseNum(ts.Score))
			}
		}
	}
	var avg float64
	for _, s := range scores {
		avg += s
	}
	if len(scores) > 0 {
		avg /= float64(len(scores))
	}

	label := "neutral"
	if avg > 0.15 {
		label = "bullish"
	} else if avg < -0.15 {
		label = "bearish"
	}

	seen := map[string]bool{}
	var themes []string
	for _, a := range feed.Feed {
		for _, t := range a.Topics {
			if t.Topic != "" && !seen[t.Topic] && len(themes) < 5 {
				seen[t.Topic] = true
				themes = append(themes, t.Topic)
			}
		}
	}

	change := parseNum(strings.TrimPrefix(strings.TrimSuffix(quote.GlobalQuote.ChangePercent, "%"), "+"))
	var marketSignals []string
	if change > 3 {
		marketSignals = append(marketSignals, "strong_upward_momentum")
	}
	if change < -3 {
		marketSignals = append(marketSignals, "significant_decline")
	}
	if avg > 0.2 {
		marketSignals = append(marketSignals, "positive_news_sentiment")
	}
	if avg < -0.2 {
		marketSignals = append(marketSignals, "negative_news_sentiment")
	}

	volume, _ := strconv.ParseInt(quote.GlobalQuote.Volume, 10, 64)
	return &signals.MarketSentiment{
		Quote: signals.Quote{
			Price:         parseNum(quote.GlobalQuote.Price),
			ChangePercent: quote.GlobalQuote.ChangePercent,
			Volume:        volume,
		},
		Overall:        label,
		SentimentScore: round3(avg),
		ArticleCount:   len(feed.Feed),
		KeyThemes:      themes,
		MarketSignals:  marketSignals,
	}, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func parseNum(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
