// Package dto defines Marketstack response payloads.
package dto

import reportentity "stock_analysis/internal/feature/reports/domain/entity"

// TickersResponse is the body of GET /tickers.
type TickersResponse struct {
	Pagination *Pagination           `json:"pagination"`
	Data       []reportentity.Record `json:"data"`
	Error      *ErrorBody            `json:"error"`
}

// Pagination describes the page returned.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
	Total  int `json:"total"`
}

// ErrorBody is returned instead of data on failure.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
