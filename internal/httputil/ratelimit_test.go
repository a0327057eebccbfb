// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitUpdate(t *testing.T) {
	rl := NewRateLimit()
	assert.Equal(t, defaultQuota, rl.Remaining())

	h := http.Header{}
	h.Set("X-Ratelimit-Remaining", "7")
	h.Set("X-Ratelimit-Reset", "1714000000")
	rl.Update(h)
	assert.Equal(t, 7, rl.Remaining())
}

func TestRateLimitIgnoresMalformedHeaders(t *testing.T) {
	rl := NewRateLimit()
	h := http.Header{}
	h.Set("X-Ratelimit-Remaining", "not-a-number")
	rl.Update(h)
	assert.Equal(t, defaultQuota, rl.Remaining())
}

func TestRateLimitExceededIsSticky(t *testing.T) {
	rl := NewRateLimit()
	assert.False(t, rl.Exceeded())
	rl.MarkExceeded()
	assert.True(t, rl.Exceeded())

	// Updates never clear the flag.
	h := http.Header{}
	h.Set("X-Ratelimit-Remaining", "100")
	rl.Update(h)
	assert.True(t, rl.Exceeded())
}

func TestRateLimitConcurrentAccess(t *testing.T) {
	rl := NewRateLimit()
	h := http.Header{}
	h.Set("X-Ratelimit-Remaining", "5")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rl.Update(h)
			rl.Exceeded()
			rl.Remaining()
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, rl.Remaining())
}
