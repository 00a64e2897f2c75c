// Copyright 2026 The PBL4 Task Manager Authors
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Crabbercat/PBL4-Task-manager/lib/schema"
)

// Credentials is the server's response to a successful login.
type Credentials struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

// Login exchanges a username and password for a bearer token. The
// endpoint speaks the OAuth2 password form encoding, not JSON, and
// needs no prior authentication.
func (client *Client) Login(ctx context.Context, username, password string) (Credentials, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		client.baseURL+"/login/", strings.NewReader(form.Encode()))
	if err != nil {
		return Credentials{}, fmt.Errorf("apiclient: creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return Credentials{}, fmt.Errorf("apiclient: login: %w", err)
	}
	defer response.Body.Close()

	// A failed login is a plain error, not an expired session; the
	// auth-expiry hook stays quiet here.
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return Credentials{}, parseAPIError(response)
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return Credentials{}, fmt.Errorf("apiclient: reading login response: %w", err)
	}
	var credentials Credentials
	if err := json.Unmarshal(body, &credentials); err != nil {
		return Credentials{}, fmt.Errorf("apiclient: decoding login response: %w", err)
	}
	return credentials, nil
}

// CurrentUser returns the authenticated user's profile.
func (client *Client) CurrentUser(ctx context.Context) (schema.User, error) {
	var user schema.User
	if err := client.get(ctx, "/me/", &user); err != nil {
		return schema.User{}, err
	}
	return user, nil
}

// SearchUsers looks up users by name fragment, for the assignee and
// member pickers. An empty query lists all visible users.
func (client *Client) SearchUsers(ctx context.Context, query string) ([]schema.User, error) {
	path := "/users/"
	if query != "" {
		path += "?search=" + url.QueryEscape(query)
	}
	var users []schema.User
	if err := client.get(ctx, path, &users); err != nil {
		return nil, err
	}
	return users, nil
}
