// Package dto はAlpha Vantage APIのレスポンス型を定義します。
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"stock_analysis/internal/feature/analysis/domain/entity"
	reportentity "stock_analysis/internal/feature/reports/domain/entity"
)

// Notice はエラー・レート制限時にAlpha Vantageが返すメッセージ項目です。
// 正常時は全て空です。
type Notice struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

// Message は最初の非空メッセージを返します。
func (n Notice) Message() string {
	switch {
	case n.ErrorMessage != "":
		return n.ErrorMessage
	case n.Note != "":
		return n.Note
	default:
		return n.Information
	}
}

// OrderedSeries は "Time Series (...)" オブジェクトをキー順を保ったまま保持します。
type OrderedSeries []entity.RawObservation

// UnmarshalJSON はタイムスタンプの出現順を保持してデコードします。
// 値の型が想定と異なる行もそのまま残し、検証は正規化処理に任せます。
func (s *OrderedSeries) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("time series: expected object, got %v", tok)
	}

	out := OrderedSeries{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		ts, ok := tok.(string)
		if !ok {
			return fmt.Errorf("time series: expected timestamp key, got %v", tok)
		}
		var row any
		if err := dec.Decode(&row); err != nil {
			return fmt.Errorf("time series %q: %w", ts, err)
		}
		out = append(out, entity.RawObservation{Timestamp: ts, Fields: rowFields(row)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// rowFields は1行分の値を文字列にします。数値はそのまま、
// null・真偽値・入れ子はJSON表現になり、数値として解釈できないため正規化で除外されます。
func rowFields(v any) map[string]string {
	obj, ok := v.(map[string]any)
	if !ok {
		return map[string]string{}
	}
	fields := make(map[string]string, len(obj))
	for k, val := range obj {
		switch t := val.(type) {
		case string:
			fields[k] = t
		case json.Number:
			fields[k] = t.String()
		default:
			b, _ := json.Marshal(t)
			fields[k] = string(b)
		}
	}
	return fields
}

// IncomeStatementResponse は INCOME_STATEMENT のレスポンスです。
// AnnualReports が nil の場合はキー自体が存在しなかったことを示します。
type IncomeStatementResponse struct {
	Notice
	Symbol           string                `json:"symbol"`
	AnnualReports    []reportentity.Record `json:"annualReports"`
	QuarterlyReports []reportentity.Record `json:"quarterlyReports"`
}
