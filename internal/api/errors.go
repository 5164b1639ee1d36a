package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx response.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError means the server could not be reached or the exchange broke off.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("cannot reach %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// errorPayload is the structured body servers send with a failure.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Method: method, Path: path, Status: status}
	var p errorPayload
	if json.Unmarshal(body, &p) == nil {
		e.Message = strings.TrimSpace(p.Error)
		if e.Message == "" {
			e.Message = strings.TrimSpace(p.Message)
		}
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP error, status %d", status)
	}
	return e
}
