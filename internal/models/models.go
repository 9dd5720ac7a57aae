package models

// ProcessResult represents the server's response to a successful /process call
type ProcessResult struct {
	Currency         string   `json:"currency"`
	Divisor          int      `json:"divisor"`
	HasRandomization bool     `json:"hasRandomization"`
	Results          []string `json:"results"`
}

// APIError represents the server's error payload on a non-200 response
type APIError struct {
	Error string `json:"error"`
}

// ProcessOptions carries the client-side options forwarded as query parameters.
// Divisor is a pointer so an unset value produces no query parameter at all;
// the boolean flags are only encoded when true.
type ProcessOptions struct {
	Divisor     *int
	NoPennies   bool
	HalfDollars bool
}
