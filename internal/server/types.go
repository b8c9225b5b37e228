// Package server provides the HTTP server for the shorts API.
// It includes handlers, middleware, routes, and DTOs separated from domain types.
package server

// RenderResponse is returned instead of the video when it was published to S3.
type RenderResponse struct {
	// VideoURL is the S3 URL of the output video.
	VideoURL string `json:"video_url"`
	// Clips is the number of clips in the video.
	Clips int `json:"clips"`
	// DurationSec is the length of the video in seconds.
	DurationSec float64 `json:"duration_sec"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
