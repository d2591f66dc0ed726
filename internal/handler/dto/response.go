// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// Response is the standard success envelope. Data is always present,
// null when an endpoint has nothing to return.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorInfo carries a stable machine-readable error code.
type ErrorInfo struct {
	Code string `json:"code"`
}

// ErrorResponse is the standard failure envelope.
type ErrorResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Error   ErrorInfo `json:"error"`
}
