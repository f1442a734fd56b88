// Package dto defines the JSON bodies of the analysis endpoint.
package dto

import "github.com/guregu/null/v6"

// AnalysisResponse is the body of GET /analysis/:symbol.
type AnalysisResponse struct {
	Symbol   string        `json:"symbol"`
	Interval string        `json:"interval"`
	Columns  []string      `json:"columns"`
	Rows     []AnalysisRow `json:"rows"`
}

// AnalysisRow is one observation with its indicator values. Undefined values encode as null.
type AnalysisRow struct {
	Time       string                `json:"time"`
	Open       float64               `json:"open"`
	High       float64               `json:"high"`
	Low        float64               `json:"low"`
	Close      float64               `json:"close"`
	Volume     float64               `json:"volume"`
	Indicators map[string]null.Float `json:"indicators"`
}
