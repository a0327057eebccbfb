// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// HTTPConfig holds shared HTTP settings used by every network-facing stage.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "paperbites/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the retry budget for transient failures (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" validate:"gte=0"`

	// BackoffFactor is the exponential backoff base: the fetcher sleeps
	// BackoffFactor^attempt seconds between attempts (default 1.5).
	BackoffFactor float64 `json:"backoff_factor" yaml:"backoff_factor" validate:"omitempty,gte=1"`
}

// SearchConfig holds settings for the discovery stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxPapers is the default result cap for a search (default 3).
	MaxPapers int `json:"max_papers" yaml:"max_papers" validate:"gte=0"`

	// Email is the contact address sent to polite-pool catalogs
	// (OpenAlex mailto, Unpaywall, CrossRef).
	Email string `json:"email" yaml:"email" validate:"omitempty,email"`

	// SemanticScholarAPIKey is an optional key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// OpenAccessOnly controls DOI enrichment and open-access overlay.
	OpenAccessOnly bool `json:"open_access_only" yaml:"open_access_only"`

	// PublicOnly filters out records whose license verdict is false.
	PublicOnly bool `json:"public_only" yaml:"public_only"`
}

// DownloadConfig holds settings for full-text downloads.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// PapersDir is the base directory for downloads
	// (contains raw/, metadata/).
	PapersDir string `json:"papers_dir" yaml:"papers_dir"`
}

// CatalogConfig holds settings for the discovered-paper catalog.
type CatalogConfig struct {
	// Path is the SQLite database file (default "papers/catalog.db").
	Path string `json:"path" yaml:"path"`
}

// Config groups all stage configurations.
type Config struct {
	Search   SearchConfig   `json:"search" yaml:"search"`
	Download DownloadConfig `json:"download" yaml:"download"`
	Catalog  CatalogConfig  `json:"catalog" yaml:"catalog"`

	// LogLevel is the zerolog level name (default "info").
	LogLevel string `json:"log_level" yaml:"log_level"`

	// LogFormat selects "json" or "console" output (default "console").
	LogFormat string `json:"log_format" yaml:"log_format"`
}

// DefaultConfig returns the documented defaults: 3 retries, backoff factor
// 1.5, 30 s metadata timeout, 60 s download timeout.
func DefaultConfig() Config {
	return Config{
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:       30 * time.Second,
				UserAgent:     "paperbites/0.1",
				MaxRetries:    3,
				BackoffFactor: 1.5,
			},
			MaxPapers:      3,
			OpenAccessOnly: true,
			PublicOnly:     true,
		},
		Download: DownloadConfig{
			HTTPConfig: HTTPConfig{
				Timeout:       60 * time.Second,
				UserAgent:     "paperbites/0.1",
				MaxRetries:    3,
				BackoffFactor: 1.5,
			},
			PapersDir: "papers",
		},
		Catalog: CatalogConfig{
			Path: "papers/catalog.db",
		},
		LogLevel:  "info",
		LogFormat: "console",
	}
}

var validate = validator.New()

// Validate checks field constraints on the full configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
