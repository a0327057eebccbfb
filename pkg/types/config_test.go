// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Search.MaxRetries)
	assert.Equal(t, 1.5, cfg.Search.BackoffFactor)
	assert.Equal(t, 3, cfg.Search.MaxPapers)
	assert.True(t, cfg.Search.OpenAccessOnly)
	assert.True(t, cfg.Search.PublicOnly)
	assert.Greater(t, cfg.Download.Timeout, cfg.Search.Timeout,
		"full-text downloads get a longer timeout than metadata calls")
}

func TestValidateRejectsBadEmail(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.Email = "not-an-email"
	assert.Error(t, cfg.Validate())
}

func TestValidateAllowsEmptyEmail(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.Email = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsNegativeRetries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Download.MaxRetries = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsSubUnitBackoff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.BackoffFactor = 0.5
	assert.Error(t, cfg.Validate())
}
