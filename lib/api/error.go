// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error represents a non-2xx response from the platform API. The
// platform returns structured JSON error bodies with a stable machine
// code and a human-readable message.
type Error struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Code is the platform's stable error code, e.g. "not_found" or
	// "quota_exceeded". Empty when the response body was not in the
	// standard error format.
	Code string

	// Message is the human-readable error description.
	Message string
}

func (err *Error) Error() string {
	if err.Code != "" {
		return fmt.Sprintf("api: HTTP %d (%s): %s", err.StatusCode, err.Code, err.Message)
	}
	return fmt.Sprintf("api: HTTP %d: %s", err.StatusCode, err.Message)
}

// IsNotFound reports whether err is a platform API 404 response.
func IsNotFound(err error) bool {
	var apiError *Error
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is a platform API 409 response, such
// as creating a deployment whose name is already taken.
func IsConflict(err error) bool {
	var apiError *Error
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusConflict
}

// IsUnauthorized reports whether err is a platform API 401 response,
// meaning the stored token is missing, expired, or revoked.
func IsUnauthorized(err error) bool {
	var apiError *Error
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusUnauthorized
}

// parseError builds an [*Error] from a non-2xx status code and
// response body. Bodies outside the standard error format (HTML error
// pages, empty bodies) degrade to the raw text or the status text.
func parseError(statusCode int, body []byte) *Error {
	apiError := &Error{StatusCode: statusCode}

	var wireError struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Message != "" {
		apiError.Code = wireError.Code
		apiError.Message = wireError.Message
		return apiError
	}

	apiError.Message = strings.TrimSpace(string(body))
	if apiError.Message == "" {
		apiError.Message = http.StatusText(statusCode)
	}
	return apiError
}
