// Package di provides dependency injection factories for creating application components.
package di

import (
	"stock_analysis/internal/platform/externalapi/alphavantage"
	"stock_analysis/internal/platform/externalapi/marketstack"
	"stock_analysis/internal/platform/externalapi/serpapi"
	infrahttp "stock_analysis/internal/platform/http"
)

// NewAlphaVantage creates an Alpha Vantage client configured from the environment.
func NewAlphaVantage() *alphavantage.Client {
	cfg := alphavantage.LoadConfig()
	return alphavantage.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}

// NewSerpAPI creates a SerpAPI client configured from the environment.
func NewSerpAPI() *serpapi.Client {
	cfg := serpapi.LoadConfig()
	return serpapi.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}

// NewMarketstack creates a Marketstack client, or nil when no access key is configured.
func NewMarketstack() *marketstack.Client {
	cfg := marketstack.LoadConfig()
	if cfg.AccessKey == "" {
		return nil
	}
	return marketstack.NewClient(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
}
