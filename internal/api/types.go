// Package api holds the JSON bodies shared by every HTTP handler.
package api

// ErrorResponse is the body returned with any non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a minimal acknowledgement body.
type StatusResponse struct {
	Status string `json:"status"`
}
