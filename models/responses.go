package models

// ErrorResponse is the body of every non-2xx response.
// Fields is set only for validation failures and maps a request field
// to the reason it was rejected.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
