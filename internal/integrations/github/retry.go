// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-03
// Last Modified: 2026-03-06

package github

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v60/github"
)

// RetryConfig holds configuration for rate-limit retries.
type RetryConfig struct {
	MaxAttempts int           // Total attempts including the first call (default: 3)
	BaseDelay   time.Duration // Delay before the first retry, doubled each time (default: 1s)
}

// DefaultRetryConfig returns the retry policy used for every GitHub call.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
	}
}

// newBackOff builds a deterministic exponential schedule: base, 2*base, 4*base...
// BackOff implementations are stateful, so each call gets a fresh one.
func (c RetryConfig) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.BaseDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = c.BaseDelay << uint(c.MaxAttempts)
	bo.MaxElapsedTime = 0

	retries := c.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries)), ctx)
}

// withRetry executes fn, retrying only when GitHub reports a rate limit.
// Any other error is returned immediately. When attempts are exhausted the
// last error is returned unchanged.
func withRetry[T any](ctx context.Context, cfg RetryConfig, label string, fn func() (T, error)) (T, error) {
	var result T
	attempt := 0

	operation := func() error {
		attempt++
		r, err := fn()
		if err != nil {
			if !IsRateLimit(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = r
		return nil
	}

	notify := func(err error, delay time.Duration) {
		log.Printf("[github] %s hit rate limit. Retrying in %s (attempt %d)", label, delay, attempt)
	}

	if err := backoff.RetryNotify(operation, cfg.newBackOff(ctx), notify); err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// retryDo is withRetry for calls that only return an error.
func retryDo(ctx context.Context, cfg RetryConfig, label string, fn func() error) error {
	_, err := withRetry(ctx, cfg, label, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// IsRateLimit reports whether err is a 403 response whose message mentions a
// rate limit. Other 403 responses are permission problems and are not retried.
func IsRateLimit(err error) bool {
	code, message, ok := statusOf(err)
	if !ok || code != http.StatusForbidden {
		return false
	}
	return strings.Contains(strings.ToLower(message), "rate limit")
}

// IsUnassignable reports whether GitHub rejected an assignee (422 Validation Failed).
func IsUnassignable(err error) bool {
	code, _, ok := statusOf(err)
	return ok && code == http.StatusUnprocessableEntity
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	code, _, ok := statusOf(err)
	return ok && code == http.StatusNotFound
}

// statusOf extracts the HTTP status and message from the error types returned
// by go-github and the GraphQL client.
func statusOf(err error) (int, string, bool) {
	if err == nil {
		return 0, "", false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, apiErr.Message, true
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return responseCode(abuseErr.Response), abuseErr.Message, true
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return responseCode(rateErr.Response), rateErr.Message, true
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		return responseCode(respErr.Response), respErr.Message, true
	}

	return 0, "", false
}

func responseCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
