// Package transport provides HTTP round trippers for outbound API calls.
package transport

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// RateLimitedTransport retries requests that are rejected with 429, honoring
// the Retry-After header. It is used for the completion provider's HTTP
// client; GitHub calls are throttled proactively by the gh package instead.
type RateLimitedTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func WithRateLimiting(base http.RoundTripper, logger *slog.Logger) *RateLimitedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RateLimitedTransport{base: base, logger: logger}
}

func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Preserve the original request body for retries
	var bodyBytes []byte
	if req.Body != nil {
		var err error
		bodyBytes, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		if err := req.Body.Close(); err != nil {
			return nil, fmt.Errorf("failed to close request body: %w", err)
		}
	}

	for {
		if bodyBytes != nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return resp, err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := parseRetryAfter(resp.Header.Get("retry-after"))
			if waitDuration > 0 {
				if err := resp.Body.Close(); err != nil {
					return nil, fmt.Errorf("failed to close response body: %w", err)
				}

				if t.logger != nil {
					t.logger.Warn("rate limited by provider, waiting", "wait", waitDuration)
				}
				select {
				case <-req.Context().Done():
					return nil, req.Context().Err()
				case <-time.After(waitDuration):
					continue
				}
			}
		}

		return resp, err
	}
}

func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if retryTime, err := time.Parse(time.RFC1123, value); err == nil {
		return time.Until(retryTime)
	}
	return 0
}
