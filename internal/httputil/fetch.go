// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the resilient HTTP fetcher shared by every
// network-facing component: retry with exponential backoff, 429 Retry-After
// handling, and a streaming download with partial-content recovery.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// BackoffUnit scales all backoff and Retry-After sleeps. Tests override
// this to avoid real delays.
var BackoffUnit = time.Second

// ErrUnavailable indicates the resource could not be fetched after
// exhausting the retry budget, or the server rejected the request. Callers
// treat it as "no data from this source" and continue with other sources.
var ErrUnavailable = errors.New("resource unavailable")

const (
	defaultMaxRetries    = 3
	defaultBackoffFactor = 1.5
	defaultTimeout       = 30 * time.Second
)

// FetchConfig holds per-call retry tunables. Zero values select the
// documented defaults: 3 retries, backoff factor 1.5, 30 s timeout.
type FetchConfig struct {
	MaxRetries    int
	BackoffFactor float64
	Timeout       time.Duration
}

func (c FetchConfig) withDefaults() FetchConfig {
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.BackoffFactor < 1 {
		c.BackoffFactor = defaultBackoffFactor
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// Fetcher executes HTTP requests against one external API with retries and
// rate-limit awareness. Limit, when set, is the process-wide quota tracker
// for that API: exceeded quota makes every call return ErrUnavailable
// without touching the network.
type Fetcher struct {
	Client *http.Client
	Limit  *RateLimit
	Log    zerolog.Logger
}

// Fetch executes the request and returns the response body. Transport
// errors and status >= 500 are retried up to MaxRetries attempts, sleeping
// BackoffFactor^attempt units between attempts. HTTP 429 honors a
// Retry-After header when present, falling back to the exponential
// schedule. Other 4xx statuses fail immediately. Exhausting retries yields
// ErrUnavailable, never a panic or fatal condition.
func (f *Fetcher) Fetch(ctx context.Context, method, url string, header http.Header, body []byte, cfg FetchConfig) ([]byte, error) {
	cfg = cfg.withDefaults()

	if f.Limit != nil && f.Limit.Exceeded() {
		f.Log.Warn().Str("url", url).Msg("skipping request, rate limit exceeded")
		return nil, fmt.Errorf("rate limit exceeded: %w", ErrUnavailable)
	}

	lastStatus := 0
	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		data, status, err := f.attempt(ctx, method, url, header, body, cfg.Timeout)
		lastStatus = status

		switch {
		case err == nil && status == http.StatusOK:
			return data, nil

		case err != nil:
			f.Log.Warn().Err(err).Str("url", url).Msg("request error")

		case status == http.StatusTooManyRequests:
			if delay, ok := retryAfter(data); ok {
				f.Log.Warn().Str("url", url).Dur("wait", delay).Msg("rate limited")
				if err := sleep(ctx, delay); err != nil {
					return nil, err
				}
				continue
			}

		case status >= 400 && status < 500:
			// Client errors are not transient.
			f.Log.Error().Int("status", status).Str("url", url).Msg("client error")
			return nil, fmt.Errorf("HTTP %d from %s: %w", status, url, ErrUnavailable)

		default:
			f.Log.Warn().Int("status", status).Str("url", url).Msg("server error, retrying")
		}

		delay := backoffDelay(attempt, cfg.BackoffFactor)
		f.Log.Debug().Dur("wait", delay).Int("attempt", attempt+1).Int("max", cfg.MaxRetries).Msg("backing off")
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	if lastStatus == http.StatusTooManyRequests && f.Limit != nil {
		f.Limit.MarkExceeded()
	}
	f.Log.Error().Str("url", url).Int("retries", cfg.MaxRetries).Msg("retries exhausted")
	return nil, fmt.Errorf("failed after %d retries: %s: %w", cfg.MaxRetries, url, ErrUnavailable)
}

// GetJSON fetches url with GET and decodes the JSON response into v.
func (f *Fetcher) GetJSON(ctx context.Context, url string, header http.Header, v any, cfg FetchConfig) error {
	data, err := f.Fetch(ctx, http.MethodGet, url, header, nil, cfg)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing response from %s: %w", url, err)
	}
	return nil
}

// attempt issues a single request bounded by timeout. On a non-200 status
// the returned data holds the Retry-After header value when the status is
// 429, so the caller can honor it.
func (f *Fetcher) attempt(ctx context.Context, method, url string, header http.Header, body []byte, timeout time.Duration) ([]byte, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, url, rdr)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if f.Limit != nil {
		f.Limit.Update(resp.Header)
		if r := f.Limit.Remaining(); r < 10 {
			f.Log.Warn().Int("remaining", r).Msg("API rate limit low")
		}
	}

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return []byte(resp.Header.Get("Retry-After")), resp.StatusCode, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading body: %w", err)
	}
	return data, resp.StatusCode, nil
}

// retryAfter converts a 429 Retry-After value into a sleep duration. A
// missing or malformed header falls back to the exponential schedule via
// ok=false.
func retryAfter(headerValue []byte) (time.Duration, bool) {
	secs, err := strconv.Atoi(string(bytes.TrimSpace(headerValue)))
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * BackoffUnit, true
}

// backoffDelay returns factor^attempt units.
func backoffDelay(attempt int, factor float64) time.Duration {
	return time.Duration(math.Pow(factor, float64(attempt)) * float64(BackoffUnit))
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
