package client

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("erp api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("erp api: %s (%d): %s", e.Code, e.Status, e.Message)
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newAPIError reads the service error envelope, falling back to the status
// text when the body is not one.
func newAPIError(resp *Response) *APIError {
	apiErr := &APIError{Status: resp.Status}
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body, &env); err == nil && env.Error.Code != "" {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		return apiErr
	}
	apiErr.Message = http.StatusText(resp.Status)
	return apiErr
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
