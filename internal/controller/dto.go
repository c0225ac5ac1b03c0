package controller

// AckResponse acknowledges a notification that passed authentication and
// structural validation.
type AckResponse struct {
	Received bool `json:"received"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}
