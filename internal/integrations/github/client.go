// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-03-06

package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"
)

const defaultAPIURL = "https://api.github.com"

// Client wraps the GitHub API client.
// Every call goes through withRetry.
type Client struct {
	client  *github.Client
	graphql *GraphQLClient
	retry   RetryConfig
}

// GraphQL returns the GraphQL client sharing this client's transport.
func (c *Client) GraphQL() *GraphQLClient {
	return c.graphql
}

// WithEndpoints points the client at a GitHub Enterprise Server instance.
// Empty values keep the github.com defaults.
func (c *Client) WithEndpoints(apiURL, graphQLURL string) (*Client, error) {
	if apiURL != "" && strings.TrimSuffix(apiURL, "/") != defaultAPIURL {
		enterprise, err := c.client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid API URL %q: %w", apiURL, err)
		}
		c.client = enterprise
	}
	if graphQLURL != "" && c.graphql != nil {
		c.graphql.WithEndpoint(graphQLURL)
	}
	return c, nil
}

// WithRetryConfig overrides the retry policy for REST and GraphQL calls.
func (c *Client) WithRetryConfig(cfg RetryConfig) *Client {
	c.retry = cfg
	if c.graphql != nil {
		c.graphql.WithRetryConfig(cfg)
	}
	return c
}

// GetIssue fetches issue details.
func (c *Client) GetIssue(ctx context.Context, org, repo string, number int) (*github.Issue, error) {
	issue, err := withRetry(ctx, c.retry, "getIssue", func() (*github.Issue, error) {
		issue, _, err := c.client.Issues.Get(ctx, org, repo, number)
		return issue, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue: %w", err)
	}

	return issue, nil
}

// CreateComment posts a comment on an issue or pull request.
func (c *Client) CreateComment(ctx context.Context, org, repo string, number int, body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("comment body cannot be empty")
	}

	comment := &github.IssueComment{
		Body: github.String(body),
	}
	err := retryDo(ctx, c.retry, "createComment", func() error {
		_, _, err := c.client.Issues.CreateComment(ctx, org, repo, number, comment)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// AddLabels adds labels to an issue or pull request.
func (c *Client) AddLabels(ctx context.Context, org, repo string, number int, labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("labels cannot be empty")
	}

	err := retryDo(ctx, c.retry, "addLabels", func() error {
		_, _, err := c.client.Issues.AddLabelsToIssue(ctx, org, repo, number, labels)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add labels: %w", err)
	}
	return nil
}

// RemoveLabel removes a single label from an issue or pull request.
// A 404 is returned as-is so callers can treat it as already removed (see IsNotFound).
func (c *Client) RemoveLabel(ctx context.Context, org, repo string, number int, label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("label cannot be empty")
	}

	err := retryDo(ctx, c.retry, "removeLabel", func() error {
		_, err := c.client.Issues.RemoveLabelForIssue(ctx, org, repo, number, label)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to remove label %q: %w", label, err)
	}
	return nil
}

// AddAssignees adds assignees to an issue.
// A 422 means GitHub refused the assignee (see IsUnassignable).
func (c *Client) AddAssignees(ctx context.Context, org, repo string, number int, assignees []string) error {
	if len(assignees) == 0 {
		return fmt.Errorf("assignees cannot be empty")
	}

	err := retryDo(ctx, c.retry, "addAssignees", func() error {
		_, _, err := c.client.Issues.AddAssignees(ctx, org, repo, number, assignees)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}
	return nil
}

// GetFileContent fetches a file from a repository at the given ref.
func (c *Client) GetFileContent(ctx context.Context, org, repo, path, ref string) ([]byte, error) {
	opts := &github.RepositoryContentGetOptions{Ref: ref}

	file, err := withRetry(ctx, c.retry, "getContents", func() (*github.RepositoryContent, error) {
		file, _, _, err := c.client.Repositories.GetContents(ctx, org, repo, path, opts)
		return file, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s/%s/%s@%s: %w", org, repo, path, ref, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s in %s/%s is a directory, not a file", path, org, repo)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return []byte(content), nil
}
