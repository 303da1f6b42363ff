package dto

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// APIResponse is the envelope used by every endpoint: exactly one of
// Data or Error is set.
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// PagedResponse wraps a page of results. HasMore is true when the page
// came back full, so another page may exist.
type PagedResponse struct {
	Items   interface{} `json:"items"`
	Page    int         `json:"page"`
	HasMore bool        `json:"hasMore"`
}
