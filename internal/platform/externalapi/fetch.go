// Package externalapi holds the HTTP plumbing shared by the market data provider clients.
package externalapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"stock_analysis/internal/platform/metrics"
)

// maxBodyBytes caps provider responses; full intraday payloads are a few MB.
const maxBodyBytes = 32 << 20

// secretParams are query parameters scrubbed from URLs that end up in errors.
var secretParams = []string{"apikey", "api_key", "access_key"}

// HTTPError is returned when a provider answers with status >= 400.
type HTTPError struct {
	Provider   string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s http %d", e.Provider, e.StatusCode)
}

// GetJSON performs a GET request and returns the raw body.
// Transport errors and HTTP errors are returned as-is (with credentials redacted);
// the caller decides what an empty or unexpected body means.
func GetJSON(ctx context.Context, client *http.Client, provider, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, redact(err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(provider, "error").Inc()
		return nil, redact(err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "provider", provider, "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		metrics.UpstreamRequests.WithLabelValues(provider, "error").Inc()
		return nil, &HTTPError{Provider: provider, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(provider, "error").Inc()
		return nil, fmt.Errorf("%s: read body: %w", provider, redact(err))
	}
	metrics.UpstreamRequests.WithLabelValues(provider, "ok").Inc()
	return body, nil
}

// RedactURL removes credentials from a URL string.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = RedactURL(ue.URL)
	}
	return err
}
