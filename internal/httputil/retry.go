// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP retry helper used by the E-utilities client.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/pdiddy/pubmed-papers/pkg/types"
)

const (
	defaultAttempts = 3
	defaultDelay    = 2 * time.Second
)

// StatusError reports a response whose status was not 2xx.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %s", e.Status)
}

// Attempts returns the effective number of tries for cfg.
func Attempts(cfg types.RetryConfig) int {
	if cfg.Attempts <= 0 {
		return defaultAttempts
	}
	return cfg.Attempts
}

func delay(cfg types.RetryConfig) time.Duration {
	if cfg.Delay <= 0 {
		return defaultDelay
	}
	return cfg.Delay
}

// DoWithRetry executes req and retries on transport errors and non-2xx
// responses. Attempts are separated by a fixed delay (cfg.Delay, default 2 s)
// and capped at cfg.Attempts (default 3) in total.
//
// A 2xx response is returned unread. Failed responses are drained and closed
// before the next attempt. After the last attempt the final error is returned;
// for a bad status it wraps a *StatusError. If ctx is cancelled during a wait
// the function returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, cfg types.RetryConfig, logger *zap.Logger) (*http.Response, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	attempts := Attempts(cfg)
	wait := delay(cfg)

	var lastErr error
	for attempt := 1; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		switch {
		case err != nil:
			lastErr = redactURL(err)
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		default:
			return resp, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		logger.Warn("request failed",
			zap.String("endpoint", req.URL.Host+req.URL.Path),
			zap.Int("attempt", attempt),
			zap.Int("attempts", attempts),
			zap.Error(lastErr))

		if attempt >= attempts {
			return nil, errors.Wrapf(lastErr, "giving up after %d attempts", attempts)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// redactURL drops the query string from a *url.Error so credentials sent as
// parameters (api_key, email) never reach logs or error messages.
func redactURL(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	if u, perr := url.Parse(ue.URL); perr == nil {
		u.RawQuery = ""
		u.User = nil
		ue.URL = u.String()
	} else {
		ue.URL = ""
	}
	return err
}
