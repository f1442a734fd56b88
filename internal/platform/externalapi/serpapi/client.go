// Package serpapi provides a client for SerpAPI's Google Finance engine.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"stock_analysis/internal/platform/externalapi"
)

// DefaultBaseURL is the SerpAPI search endpoint.
const DefaultBaseURL = "https://serpapi.com/search"

const provider = "serpapi"

// Config holds configuration for the SerpAPI client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// LoadConfig loads SerpAPI configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("SERPAPI_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		APIKey:  os.Getenv("SERPAPI_API_KEY"),
		BaseURL: base,
		Timeout: 10 * time.Second,
	}
}

// Client queries the google_finance engine.
type Client struct {
	cfg    Config
	client *http.Client
}

// NewClient creates a Client.
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// GoogleFinance returns the raw search response for query (e.g. "GOOGL:NASDAQ").
func (c *Client) GoogleFinance(ctx context.Context, query string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("engine", "google_finance")
	q.Set("q", query)
	q.Set("api_key", c.cfg.APIKey)

	u := fmt.Sprintf("%s?%s", c.cfg.BaseURL, q.Encode())
	return externalapi.GetJSON(ctx, c.client, provider, u)
}
