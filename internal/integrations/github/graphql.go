// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-04
// Last Modified: 2026-03-06

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const graphQLEndpoint = "https://api.github.com/graphql"

// GraphQLClient provides access to GitHub's GraphQL API.
// Every request goes through withRetry.
type GraphQLClient struct {
	httpClient *http.Client
	endpoint   string
	retry      RetryConfig
}

// NewGraphQLClient creates a new GraphQL client. The http client is expected
// to carry authentication (see NewClient).
func NewGraphQLClient(httpClient *http.Client) *GraphQLClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GraphQLClient{
		httpClient: httpClient,
		endpoint:   graphQLEndpoint,
		retry:      DefaultRetryConfig(),
	}
}

// WithEndpoint sets a custom GraphQL endpoint (GitHub Enterprise or tests).
func (c *GraphQLClient) WithEndpoint(endpoint string) *GraphQLClient {
	c.endpoint = endpoint
	return c
}

// WithRetryConfig overrides the retry policy.
func (c *GraphQLClient) WithRetryConfig(cfg RetryConfig) *GraphQLClient {
	c.retry = cfg
	return c
}

// APIError is a non-200 HTTP response from the GraphQL endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GraphQL request failed with status %d: %s", e.StatusCode, e.Message)
}

// GraphQLError is a 200 response that carries GraphQL errors.
// Types holds each error's "type" (e.g. NOT_FOUND, FORBIDDEN), empty when absent.
type GraphQLError struct {
	Messages []string
	Types    []string
}

func (e *GraphQLError) Error() string {
	return "GraphQL error: " + strings.Join(e.Messages, "; ")
}

// NotFound reports whether every error is a NOT_FOUND resolution failure.
func (e *GraphQLError) NotFound() bool {
	if len(e.Types) == 0 {
		return false
	}
	for _, t := range e.Types {
		if t != "NOT_FOUND" {
			return false
		}
	}
	return true
}

// graphQLRequest represents a GraphQL request payload.
type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphQLResponse represents a GraphQL response.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// Query runs a query or mutation and decodes the response data into out.
// label names the call in retry logs.
func (c *GraphQLClient) Query(ctx context.Context, label, query string, variables map[string]interface{}, out interface{}) error {
	data, err := withRetry(ctx, c.retry, label, func() (json.RawMessage, error) {
		return c.execute(ctx, query, variables)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: failed to parse response: %w", label, err)
	}
	return nil
}

// execute sends a GraphQL query/mutation and returns the response data.
func (c *GraphQLClient) execute(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error) {
	reqBody := graphQLRequest{
		Query:     query,
		Variables: variables,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		gqlErr := &GraphQLError{}
		for _, e := range gqlResp.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
			gqlErr.Types = append(gqlErr.Types, e.Type)
		}
		return nil, gqlErr
	}

	return gqlResp.Data, nil
}

// errorMessage prefers the JSON "message" field GitHub returns on errors.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}

	// Truncate response body to avoid leaking sensitive data in logs
	truncated := string(body)
	if len(truncated) > 200 {
		truncated = truncated[:200] + "..."
	}
	return truncated
}
