// Package apiclient is the Go client the dashboard uses to talk to the
// backend REST API.
package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIClient handles all communication with the backend API.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client

	accessToken string
}

// New creates a new client for interacting with the backend.
func New(baseURL string) *APIClient {
	return &APIClient{
		BaseURL:    baseURL,
		HttpClient: &http.Client{},
	}
}

// SetToken installs the bearer access token used on authenticated calls.
func (c *APIClient) SetToken(accessToken string) {
	c.accessToken = accessToken
}

// do is the single, unified helper for making API requests.
func (c *APIClient) do(method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	return resp, nil
}

// decode drains the response into out, mapping non-2xx statuses to the
// server's error message.
func decode(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("%s", apiErr.Message)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
