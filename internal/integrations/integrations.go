// Package integrations dispatches workflow integration steps to external
// systems over HTTP. Dispatch is deliberately generic: each step carries its
// own endpoint configuration, and the payload is the document's extracted
// data plus execution metadata. Transient failures are retried with
// exponential backoff.
package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultMethod   = http.MethodPost
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
	defaultTimeout  = 30 * time.Second
)

// Errors returned by the dispatcher.
var (
	ErrMissingURL = errors.New("integration config is missing a url")
	ErrExhausted  = errors.New("integration dispatch failed after all attempts")
)

// Endpoint is the per-step dispatch configuration stored on an integration
// step's integration_config.
type Endpoint struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
}

// Result reports the outcome of a dispatch.
type Result struct {
	System     string `json:"system"`
	Success    bool   `json:"success"`
	Attempts   int    `json:"attempts"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Dispatcher sends integration payloads over HTTP.
type Dispatcher struct {
	client   *http.Client
	logger   *slog.Logger
	attempts int
	backoff  time.Duration
}

// New creates a Dispatcher with default retry policy.
func New(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   logger.With("system", "integrations"),
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
	}
}

// Dispatch delivers the payload to the endpoint described by config, retrying
// transient failures. The returned Result is populated even on error.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	system string,
	config json.RawMessage,
	payload any,
) (*Result, error) {
	result := &Result{System: system}

	var endpoint Endpoint
	if len(config) > 0 {
		if err := json.Unmarshal(config, &endpoint); err != nil {
			result.Error = err.Error()
			return result, fmt.Errorf("decode integration config for %s: %w", system, err)
		}
	}

	if strings.TrimSpace(endpoint.URL) == "" {
		result.Error = ErrMissingURL.Error()
		return result, ErrMissingURL
	}

	if endpoint.Method == "" {
		endpoint.Method = defaultMethod
	}

	body, err := json.Marshal(payload)
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("encode integration payload for %s: %w", system, err)
	}

	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		result.Attempts = attempt

		if attempt > 1 {
			if err := sleep(ctx, d.backoff*(1<<(attempt-2))); err != nil {
				result.Error = err.Error()
				return result, err
			}
		}

		status, err := d.send(ctx, endpoint, body)
		result.StatusCode = status

		if err == nil {
			result.Success = true
			d.logger.Info("integration dispatched",
				"system", system,
				"url", endpoint.URL,
				"attempts", attempt,
				"status", status,
			)
			return result, nil
		}

		lastErr = err
		d.logger.Warn("integration attempt failed",
			"system", system,
			"url", endpoint.URL,
			"attempt", attempt,
			"error", err,
		)

		if !retryable(status) {
			break
		}
	}

	result.Error = lastErr.Error()
	return result, fmt.Errorf("%w: %s: %s", ErrExhausted, system, lastErr)
}

func (d *Dispatcher) send(ctx context.Context, endpoint Endpoint, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, endpoint.Method, endpoint.URL, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range endpoint.Headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, nil
	}

	return resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
}

// retryable reports whether another attempt could succeed. Network errors
// (status 0) and server errors are retryable; client errors are not.
func retryable(status int) bool {
	return status == 0 || status >= 500
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
