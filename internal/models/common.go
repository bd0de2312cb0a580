package models

// ErrorResponse is a standardized error response for API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// StatusResponse acknowledges a request that returns no resource.
type StatusResponse struct {
	Message string `json:"message"`
}
