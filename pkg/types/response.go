package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public face of a failed request. RequestID echoes the
// X-Request-Id header so operators can find the matching log lines.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
