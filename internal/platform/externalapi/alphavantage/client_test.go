package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportentity "stock_analysis/internal/feature/reports/domain/entity"
	"stock_analysis/internal/platform/externalapi"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: server.URL + "/query", Timeout: 10 * time.Second}, server.Client())
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	cfg := Config{APIKey: "test-key", BaseURL: "https://api.test.com/query", Timeout: 10 * time.Second}
	c := NewClient(cfg, &http.Client{})

	require.NotNil(t, c)
	assert.Equal(t, cfg, c.cfg)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "k")
	t.Setenv("ALPHA_VANTAGE_BASE_URL", "")

	cfg := LoadConfig()

	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestClient_GetIntraday_Success(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "TIME_SERIES_INTRADAY", q.Get("function"))
		assert.Equal(t, "IBM", q.Get("symbol"))
		assert.Equal(t, "5min", q.Get("interval"))
		assert.Equal(t, "full", q.Get("outputsize"))
		assert.Equal(t, "test-key", q.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"Meta Data": {"2. Symbol": "IBM", "4. Interval": "5min"},
			"Time Series (5min)": {
				"2024-01-02 19:55:00": {"1. open": "161.50", "2. high": "161.60", "3. low": "161.40", "4. close": "161.55", "5. volume": "1200"},
				"2024-01-02 19:50:00": {"1. open": "161.45", "2. high": "161.55", "3. low": "161.30", "4. close": "161.50", "5. volume": "900"}
			}
		}`))
	})

	rows, err := c.GetIntraday(context.Background(), "IBM", "5min")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	// プロバイダの並び順（新しい順）を保持する
	assert.Equal(t, "2024-01-02 19:55:00", rows[0].Timestamp)
	assert.Equal(t, "161.55", rows[0].Fields["4. close"])
	assert.Equal(t, "2024-01-02 19:50:00", rows[1].Timestamp)
}

func TestClient_GetIntraday_MissingKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr error
		wantLen int
	}{
		{name: "empty object yields empty series", body: `{}`, wantLen: 0},
		{name: "error message", body: `{"Error Message": "Invalid API call."}`, wantErr: ErrProviderMessage},
		{name: "rate limit note", body: `{"Note": "Thank you for using Alpha Vantage!"}`, wantErr: ErrProviderMessage},
		{name: "information", body: `{"Information": "premium endpoint"}`, wantErr: ErrProviderMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			rows, err := c.GetIntraday(context.Background(), "IBM", "5min")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rows)
			assert.Len(t, rows, tt.wantLen)
		})
	}
}

func TestClient_GetIntraday_HTTPError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.GetIntraday(context.Background(), "IBM", "5min")

	var httpErr *externalapi.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestClient_GetDaily(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY_ADJUSTED", r.URL.Query().Get("function"))
		_, _ = w.Write([]byte(`{"Time Series (Daily)": {"2024-01-02": {"4. close": "160.0", "5. adjusted close": "159.1"}}}`))
	})

	rows, err := c.GetDaily(context.Background(), "IBM")

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "159.1", rows[0].Fields["5. adjusted close"])
}

func TestClient_GetAnnualReports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantErr     error
		wantRecords int
	}{
		{
			name: "success",
			body: `{"symbol":"IBM","annualReports":[
				{"fiscalDateEnding":"2023-12-31","reportedCurrency":"USD","netIncome":"7502000000"},
				{"fiscalDateEnding":"2022-12-31","reportedCurrency":"USD","netIncome":"1640000000"}
			]}`,
			wantRecords: 2,
		},
		{name: "empty list is zero records", body: `{"symbol":"IBM","annualReports":[]}`, wantRecords: 0},
		{name: "missing key is unavailable", body: `{}`, wantErr: reportentity.ErrUnavailable},
		{name: "rate limited is unavailable", body: `{"Note":"slow down"}`, wantErr: reportentity.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "INCOME_STATEMENT", r.URL.Query().Get("function"))
				_, _ = w.Write([]byte(tt.body))
			})

			records, err := c.GetAnnualReports(context.Background(), "IBM")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, records)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, records)
			assert.Len(t, records, tt.wantRecords)
			if tt.wantRecords > 0 {
				assert.Equal(t, "fiscalDateEnding", records[0][0].Key)
			}
		})
	}
}

func TestClient_GetETFProfile(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("symbol") {
		case "QQQ":
			_, _ = w.Write([]byte(`{"net_assets":"284900000000","holdings":[{"symbol":"AAPL","weight":"0.09"}]}`))
		default:
			_, _ = w.Write([]byte(`{"Information":"rate limited"}`))
		}
	})

	profile, err := c.GetETFProfile(context.Background(), "QQQ")
	require.NoError(t, err)
	assert.Contains(t, string(profile), "net_assets")

	_, err = c.GetETFProfile(context.Background(), "XXX")
	assert.True(t, errors.Is(err, ErrProviderMessage))
}
