package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	analysisentity "stock_analysis/internal/feature/analysis/domain/entity"
	analysisusecase "stock_analysis/internal/feature/analysis/usecase"
	reportentity "stock_analysis/internal/feature/reports/domain/entity"
	"stock_analysis/internal/platform/externalapi"
	"stock_analysis/internal/platform/externalapi/alphavantage/dto"
)

const provider = "alphavantage"

// ErrProviderMessage はAlpha Vantageがエラー・レート制限メッセージを返した場合のエラーです。
var ErrProviderMessage = errors.New("alphavantage returned a message instead of data")

// Client はAlpha Vantage APIから時系列・財務データを取得するMarketRepository実装です。
type Client struct {
	cfg    Config
	client *http.Client
}

// ClientがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ analysisusecase.MarketRepository = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// GetIntraday は日中足（outputsize=full）を取得し、プロバイダの並び順のまま返します。
// 時系列キーが存在しない場合は空のスライスを返します。
func (c *Client) GetIntraday(ctx context.Context, symbol, interval string) ([]analysisentity.RawObservation, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_INTRADAY")
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", "full")

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	return decodeSeries(body, fmt.Sprintf("Time Series (%s)", interval))
}

// GetDaily は日足（TIME_SERIES_DAILY_ADJUSTED）を取得します。
func (c *Client) GetDaily(ctx context.Context, symbol string) ([]analysisentity.RawObservation, error) {
	body, err := c.DailyAdjustedRaw(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return decodeSeries(body, "Time Series (Daily)")
}

// DailyAdjustedRaw は TIME_SERIES_DAILY_ADJUSTED のレスポンスをそのまま返します。
func (c *Client) DailyAdjustedRaw(ctx context.Context, symbol string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY_ADJUSTED")
	q.Set("symbol", symbol)
	return c.get(ctx, q)
}

// GetAnnualReports は INCOME_STATEMENT の年次レポートを返します。
// annualReports キーが無い場合は reportentity.ErrUnavailable を返します。
func (c *Client) GetAnnualReports(ctx context.Context, symbol string) ([]reportentity.Record, error) {
	q := url.Values{}
	q.Set("function", "INCOME_STATEMENT")
	q.Set("symbol", symbol)

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}

	var res dto.IncomeStatementResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode income statement: %w", err)
	}
	if res.AnnualReports == nil {
		if msg := res.Message(); msg != "" {
			return nil, fmt.Errorf("%w: %s", reportentity.ErrUnavailable, msg)
		}
		return nil, reportentity.ErrUnavailable
	}
	return res.AnnualReports, nil
}

// GetETFProfile は ETF_PROFILE のレスポンスをそのまま返します。ETFでない銘柄では {} になります。
func (c *Client) GetETFProfile(ctx context.Context, symbol string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("function", "ETF_PROFILE")
	q.Set("symbol", symbol)

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	var n dto.Notice
	if err := json.Unmarshal(body, &n); err == nil && n.Message() != "" {
		return nil, fmt.Errorf("%w: %s", ErrProviderMessage, n.Message())
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, q url.Values) ([]byte, error) {
	q.Set("apikey", c.cfg.APIKey)
	u := fmt.Sprintf("%s?%s", c.cfg.BaseURL, q.Encode())
	return externalapi.GetJSON(ctx, c.client, provider, u)
}

func decodeSeries(body []byte, key string) ([]analysisentity.RawObservation, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}

	raw, ok := top[key]
	if !ok {
		var n dto.Notice
		_ = json.Unmarshal(body, &n)
		if msg := n.Message(); msg != "" {
			return nil, fmt.Errorf("%w: %s", ErrProviderMessage, msg)
		}
		return []analysisentity.RawObservation{}, nil
	}

	var series dto.OrderedSeries
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return series, nil
}
