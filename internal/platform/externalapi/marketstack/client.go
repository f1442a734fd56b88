// Package marketstack provides a client for the Marketstack API.
package marketstack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	analysisusecase "stock_analysis/internal/feature/analysis/usecase"
	reportentity "stock_analysis/internal/feature/reports/domain/entity"
	"stock_analysis/internal/platform/externalapi"
	"stock_analysis/internal/platform/externalapi/marketstack/dto"
)

// DefaultBaseURL is the Marketstack v1 API root.
const DefaultBaseURL = "https://api.marketstack.com/v1"

const provider = "marketstack"

// Config holds configuration for the Marketstack client.
type Config struct {
	AccessKey string
	BaseURL   string
	Timeout   time.Duration
}

// LoadConfig loads Marketstack configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("MARKETSTACK_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return Config{
		AccessKey: os.Getenv("MARKETSTACK_API_KEY"),
		BaseURL:   base,
		Timeout:   10 * time.Second,
	}
}

// Client fetches ticker listings used for the market movers tables.
type Client struct {
	cfg    Config
	client *http.Client
}

var _ analysisusecase.MoversRepository = (*Client)(nil)

// NewClient creates a Client.
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// GetMarketMovers returns the rows of /tickers. A response without a data key is
// reported as reportentity.ErrUnavailable.
func (c *Client) GetMarketMovers(ctx context.Context) ([]reportentity.Record, error) {
	q := url.Values{}
	q.Set("access_key", c.cfg.AccessKey)
	u := fmt.Sprintf("%s/tickers?%s", c.cfg.BaseURL, q.Encode())

	body, err := externalapi.GetJSON(ctx, c.client, provider, u)
	if err != nil {
		return nil, err
	}

	var res dto.TickersResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode tickers: %w", err)
	}
	if res.Error != nil {
		return nil, fmt.Errorf("%w: marketstack %s: %s", reportentity.ErrUnavailable, res.Error.Code, res.Error.Message)
	}
	if res.Data == nil {
		return nil, reportentity.ErrUnavailable
	}
	return res.Data, nil
}
