// Package api provides the HTTP client for the cash register server.
package api

import (
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"

	"github.com/jtdman/CashRegister/internal/models"
)

// UnknownErrorMessage is reported when a failed response carries no usable
// error field.
const UnknownErrorMessage = "Unknown error"

// ErrUnavailable indicates the server failed its health probe. Callers wrap
// it with the server URL and the hint shown to the user.
var ErrUnavailable = errors.New("API server not available")

// IsUnavailableError checks if an error means the server failed its health
// probe rather than rejecting a submitted request.
func IsUnavailableError(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// ServerError indicates the server rejected a processing request.
// Message carries the server-supplied error text shown to the user.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// newServerError builds a ServerError from a non-200 response. The server
// reports failures as a JSON object with an "error" field; anything else
// falls back to UnknownErrorMessage.
func newServerError(resp *nethttp.Response) *ServerError {
	message := UnknownErrorMessage

	if body, err := io.ReadAll(resp.Body); err == nil {
		var apiErr models.APIError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			message = apiErr.Error
		}
	}

	return &ServerError{
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}

// IsServerError checks if an error is a server-reported processing failure.
//
// Usage:
//
//	result, err := client.ProcessTransactions(...)
//	if api.IsServerError(err) {
//	    // The server answered and rejected the request
//	}
func IsServerError(err error) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr)
}
