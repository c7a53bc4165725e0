package ninja

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error response from the NinjaRMM API.
type APIError struct {
	StatusCode int    `json:"statusCode"           yaml:"statusCode"`
	ResultCode string `json:"resultCode,omitempty" yaml:"resultCode,omitempty"`
	Message    string `json:"errorMessage"         yaml:"errorMessage"`
	IncidentID string `json:"incidentId,omitempty" yaml:"incidentId,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status: %d)", e.StatusCode)
	}

	return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
}

// AuthError represents a failure to obtain or refresh an access token.
type AuthError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Message, e.Err)
	}

	return "authentication failed: " + e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Common static errors that can be wrapped with context.
var (
	ErrNoMoreItems              = errors.New("no more items")
	ErrConfigRequired           = errors.New("config is required")
	ErrAPIEndpointRequired      = errors.New("API endpoint is required")
	ErrNoHostInURL              = errors.New("no host specified in URL")
	ErrNoCredentials            = errors.New("no credentials configured")
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
)

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}

	return false
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}

	return false
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusForbidden
	}

	return false
}

// IsRateLimited checks if the error is a rate limit error.
func IsRateLimited(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}

	return false
}

// ParseAPIError builds an APIError from a non-2xx response body. The API
// returns either {"resultCode", "errorMessage", "incidentId"} or a bare
// {"error", "error_description"} object depending on the failure.
func ParseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	if len(body) == 0 {
		return apiErr
	}

	var payload struct {
		ResultCode       string `json:"resultCode"`
		ErrorMessage     string `json:"errorMessage"`
		IncidentID       string `json:"incidentId"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}

	err := json.Unmarshal(body, &payload)
	if err != nil {
		apiErr.Message = string(body)

		return apiErr
	}

	apiErr.ResultCode = payload.ResultCode
	apiErr.IncidentID = payload.IncidentID

	switch {
	case payload.ErrorMessage != "":
		apiErr.Message = payload.ErrorMessage
	case payload.Error != "" && payload.ErrorDescription != "":
		apiErr.Message = payload.Error + ": " + payload.ErrorDescription
	case payload.Error != "":
		apiErr.Message = payload.Error
	default:
		apiErr.Message = string(body)
	}

	return apiErr
}
