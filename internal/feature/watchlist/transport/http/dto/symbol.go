// Package dto defines data transfer objects for the watchlist HTTP API.
package dto

// SymbolItem represents a symbol in the API response.
type SymbolItem struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// AddSymbolRequest is the body of POST /symbols.
type AddSymbolRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	SortKey  int    `json:"sort_key"`
}
