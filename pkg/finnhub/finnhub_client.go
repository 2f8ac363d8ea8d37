// Package finnhub is a minimal client for the Finnhub quote endpoint.
// Multiple API keys can be configured; a rate-limited key rotates to the
// next one instead of failing the request.
package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

const DefaultBaseUrl = "https://finnhub.io/api/v1"

type Client struct {
	HttpClient *http.Client
	ApiKeys    []string
	BaseUrl    string
}

func NewClient(apiKeys []string) (*Client, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one finnhub api key is required")
	}
	return &Client{
		HttpClient: http.DefaultClient,
		ApiKeys:    apiKeys,
		BaseUrl:    DefaultBaseUrl,
	}, nil
}

// quote is the finnhub /quote payload; C is the current price.
type quote struct {
	Current       float64 `json:"c"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Error         string  `json:"error"`
}

// Quote fetches the current price for a symbol, rotating API keys on 429.
func (c Client) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	var lastErr error
	for i, apiKey := range c.ApiKeys {
		price, err := c.quoteWithKey(ctx, symbol, apiKey)
		if err == nil {
			return price, nil
		}
		lastErr = err
		if !isRateLimited(err) || i == len(c.ApiKeys)-1 {
			break
		}
	}
	return decimal.Zero, lastErr
}

func (c Client) quoteWithKey(ctx context.Context, symbol, apiKey string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf(
		"%s/quote?symbol=%s&token=%s",
		c.BaseUrl,
		url.QueryEscape(symbol),
		url.QueryEscape(apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to construct quote request: %w", err)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return decimal.Zero, rateLimitError{symbol: symbol}
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("quote request for %s returned status %d", symbol, resp.StatusCode)
	}

	var q quote
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode quote for %s: %w", symbol, err)
	}
	if q.Error != "" {
		return decimal.Zero, fmt.Errorf("quote api error for %s: %s", symbol, q.Error)
	}
	// finnhub reports unknown symbols as a zero quote rather than an error
	if q.Current == 0 {
		return decimal.Zero, fmt.Errorf("no price data for symbol %s", symbol)
	}

	return decimal.NewFromFloat(q.Current), nil
}

type rateLimitError struct {
	symbol string
}

func (e rateLimitError) Error() string {
	return fmt.Sprintf("rate limited fetching quote for %s", e.symbol)
}

func isRateLimited(err error) bool {
	_, ok := err.(rateLimitError)
	return ok
}
