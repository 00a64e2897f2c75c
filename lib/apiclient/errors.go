// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from the task board API. The
// server puts its user-facing message in a top-level "detail" field;
// Detail is empty when the response body was absent or not JSON.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Detail is the server's error description, used verbatim as the
	// user-facing message when present.
	Detail string
}

func (err *APIError) Error() string {
	if err.Detail == "" {
		return fmt.Sprintf("apiclient: HTTP %d", err.StatusCode)
	}
	return fmt.Sprintf("apiclient: HTTP %d: %s", err.StatusCode, err.Detail)
}

// UserMessage extracts the text to show the user for an error: the
// server's detail when the error is an APIError with one, a generic
// status line for a detail-less APIError, and err.Error() otherwise.
func UserMessage(err error) string {
	var apiError *APIError
	if errors.As(err, &apiError) {
		if apiError.Detail != "" {
			return apiError.Detail
		}
		return fmt.Sprintf("Request failed (HTTP %d).", apiError.StatusCode)
	}
	return err.Error()
}

// IsAuthExpired reports whether err is a 401 response.
func IsAuthExpired(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 response.
func IsForbidden(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}
