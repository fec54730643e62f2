package types

// SuccessEnvelope is the uniform wrapper for successful JSON responses.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Details are only populated for
// codes whose metadata allows exposing them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError for JSON serialization.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
