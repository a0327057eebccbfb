// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"strconv"
	"sync"
)

// defaultQuota is the assumed per-hour quota before any response has
// reported actual headers.
const defaultQuota = 200

// RateLimit tracks one remote API's remaining quota and exceeded flag.
// One instance exists per external API for the process lifetime; it is
// updated from every response and consulted before every request. Safe for
// concurrent use. The check is advisory: concurrent callers may race past
// it just before the flag flips, which is an accepted bounded over-run.
type RateLimit struct {
	mu        sync.Mutex
	remaining int
	resetAt   string
	exceeded  bool
}

// NewRateLimit returns a tracker with the default quota.
func NewRateLimit() *RateLimit {
	return &RateLimit{remaining: defaultQuota}
}

// Update records quota information from response headers.
func (r *RateLimit) Update(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v := h.Get("X-Ratelimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.remaining = n
		}
	}
	if v := h.Get("X-Ratelimit-Reset"); v != "" {
		r.resetAt = v
	}
}

// Remaining returns the last reported quota.
func (r *RateLimit) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Exceeded reports whether the API's limit has been marked exhausted.
func (r *RateLimit) Exceeded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exceeded
}

// MarkExceeded flags the API as exhausted. Never reset except by process
// restart.
func (r *RateLimit) MarkExceeded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exceeded = true
}
