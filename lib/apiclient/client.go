// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

// Package apiclient is the typed JSON-over-HTTP client for the task
// board API. Every authenticated request carries a bearer token; any
// 401 response fires the client's auth-expiry hook exactly once, which
// the application uses for a global sign-out. There are no automatic
// retries: every failure is surfaced and the user re-initiates the
// action explicitly.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/Crabbercat/PBL4-Task-manager/lib/clock"
)

// maxErrorBody caps how much of an error response body is read when
// extracting the detail message.
const maxErrorBody = 64 * 1024

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root URL for API requests, including the version
	// prefix (e.g. "https://board.example.com/api/v1"). Required.
	BaseURL string

	// Token is the bearer token for authenticated requests. Leave
	// empty for a client that only performs Login.
	Token string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock provides time operations. Defaults to clock.Real().
	// Inject clock.Fake() in tests for deterministic behavior.
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger

	// OnAuthExpired runs at most once, the first time any request
	// returns 401. The application hooks the global sign-out here.
	OnAuthExpired func()
}

// Client is a typed task board API client with structured error
// handling and a single-shot authentication-expiry hook.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger

	authExpired     func()
	authExpiredOnce sync.Once
}

// NewClient creates an API client from the given configuration.
// Returns an error if the base URL is missing or not absolute.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("apiclient: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("apiclient: BaseURL must be absolute (got %q)", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:     baseURL,
		token:       config.Token,
		httpClient:  httpClient,
		clock:       clk,
		logger:      logger,
		authExpired: config.OnAuthExpired,
	}, nil
}

// do executes an API request. The path is relative to the base URL
// (e.g. "/tasks/"). For non-GET requests the body is JSON-encoded from
// the provided value (pass nil for no body). Returns the raw response
// body; on non-2xx responses, returns an *APIError.
func (client *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	fullURL := client.baseURL + path

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("apiclient: creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if client.token != "" {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}

	started := client.clock.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, fullURL, err)
	}
	defer response.Body.Close()

	client.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"duration", client.clock.Now().Sub(started))

	if response.StatusCode == http.StatusUnauthorized {
		client.expireAuth()
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, parseAPIError(response)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: reading response body: %w", err)
	}
	return body, nil
}

// expireAuth fires the auth-expiry hook. Later 401s are still errors
// for their callers but the hook runs only once per client; a burst of
// concurrent requests failing together must not trigger a sign-out
// stampede.
func (client *Client) expireAuth() {
	client.authExpiredOnce.Do(func() {
		client.logger.Warn("authentication expired")
		if client.authExpired != nil {
			client.authExpired()
		}
	})
}

// get is a convenience method for GET requests that decode a JSON
// response into result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	body, err := client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, result)
}

// post is a convenience method for POST requests. result may be nil
// when the response body is not needed.
func (client *Client) post(ctx context.Context, path string, requestBody any, result any) error {
	body, err := client.do(ctx, http.MethodPost, path, requestBody)
	if err != nil {
		return err
	}
	if result != nil {
		return json.Unmarshal(body, result)
	}
	return nil
}

// put is a convenience method for PUT requests. result may be nil.
func (client *Client) put(ctx context.Context, path string, requestBody any, result any) error {
	body, err := client.do(ctx, http.MethodPut, path, requestBody)
	if err != nil {
		return err
	}
	if result != nil {
		return json.Unmarshal(body, result)
	}
	return nil
}

// delete is a convenience method for DELETE requests.
func (client *Client) delete(ctx context.Context, path string) error {
	_, err := client.do(ctx, http.MethodDelete, path, nil)
	return err
}

// parseAPIError reads an API error from an HTTP response. The server
// reports errors as {"detail": "..."}; a body that is not JSON of that
// shape degrades to an empty detail rather than a parse failure.
func parseAPIError(response *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
	return parseAPIErrorFromBody(response.StatusCode, body)
}

func parseAPIErrorFromBody(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}
	var wireError struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &wireError) == nil {
		apiError.Detail = wireError.Detail
	}
	return apiError
}
