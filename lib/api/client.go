// Copyright 2026 The Altus Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/altus-cloud/altus/lib/version"
)

// maxResponseSize bounds API response body reads: 64 MiB. Chunk
// downloads are the largest legitimate responses and stay far below
// this; the limit only guards against a pathological server.
const maxResponseSize int64 = 64 << 20

// defaultTimeout bounds each API call when the configuration does not
// override it.
const defaultTimeout = 30 * time.Second

// Config holds configuration for creating a platform API [Client].
type Config struct {
	// BaseURL is the workspace's API base URL, e.g.
	// "https://acme.altus.dev". Required.
	BaseURL string

	// Token is the bearer token proving the operator's identity.
	// Required.
	Token string

	// Timeout bounds each API call. Defaults to 30 seconds.
	Timeout time.Duration

	// HTTPClient overrides the underlying HTTP client. Defaults to a
	// client with the configured timeout.
	HTTPClient *http.Client
}

// Client is a typed HTTP client for the Altus platform API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	userAgent  string
}

// New creates a platform API client from the given configuration.
// Returns an error when the base URL is missing or not an HTTP(S)
// URL, or the token is empty.
func New(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return nil, fmt.Errorf("api: base URL %q must use http or https", baseURL)
	}
	if config.Token == "" {
		return nil, fmt.Errorf("api: token is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		httpClient: httpClient,
		userAgent:  version.UserAgent(),
	}, nil
}

// NewForTesting creates a Client with a custom transport and no
// timeout. Tests use this to redirect requests to an httptest.Server
// or a canned RoundTripper.
func NewForTesting(transport http.RoundTripper) *Client {
	return &Client{
		baseURL:    "http://altus.test",
		token:      "test-token",
		httpClient: &http.Client{Transport: transport},
		userAgent:  version.UserAgent(),
	}
}

// BaseURL returns the workspace API base URL this client talks to.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// do executes one authenticated request and returns the response
// body. The path is relative to the base URL. A non-nil body is sent
// with the given content type; JSON bodies come pre-encoded from the
// typed helpers. Non-2xx responses decode into [*Error].
func (client *Client) do(ctx context.Context, method, path, contentType string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+client.token)
	request.Header.Set("User-Agent", client.userAgent)
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", contentType)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("api: reading response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, parseError(response.StatusCode, responseBody)
	}
	return responseBody, nil
}

// get executes a GET request and decodes the JSON response into
// result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	body, err := client.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return decode(body, result)
}

// post executes a POST request with a JSON body and decodes the JSON
// response into result. Pass nil for requests or responses without a
// body.
func (client *Client) post(ctx context.Context, path string, requestBody any, result any) error {
	var encoded []byte
	if requestBody != nil {
		var err error
		encoded, err = json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("api: encoding request body: %w", err)
		}
	}
	body, err := client.do(ctx, http.MethodPost, path, "application/json", encoded)
	if err != nil {
		return err
	}
	if result != nil {
		return decode(body, result)
	}
	return nil
}

// put executes a PUT request with a JSON body.
func (client *Client) put(ctx context.Context, path string, requestBody any) error {
	encoded, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("api: encoding request body: %w", err)
	}
	_, err = client.do(ctx, http.MethodPut, path, "application/json", encoded)
	return err
}

// delete executes a DELETE request.
func (client *Client) delete(ctx context.Context, path string) error {
	_, err := client.do(ctx, http.MethodDelete, path, "", nil)
	return err
}

// decode unmarshals a JSON response body into result with a helpful
// error on malformed payloads.
func decode(body []byte, result any) error {
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("api: parsing response: %w", err)
	}
	return nil
}
