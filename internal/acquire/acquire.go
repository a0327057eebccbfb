// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/rimshaTest/PaperBites/internal/httputil"
	"github.com/rimshaTest/PaperBites/pkg/types"
)

const (
	rawDir      = "raw"
	metadataDir = "metadata"
)

// Downloader fetches a record's full text to disk and writes a YAML
// metadata sidecar next to it.
type Downloader struct {
	Fetch *httputil.Fetcher
	Cfg   types.DownloadConfig
}

func NewDownloader(client *http.Client, cfg types.DownloadConfig, log zerolog.Logger) *Downloader {
	return &Downloader{
		Fetch: &httputil.Fetcher{
			Client: client,
			Log:    log.With().Str("component", "download").Logger(),
		},
		Cfg: cfg,
	}
}

// DownloadPaper fetches the record's URL into PapersDir/raw/<slug>.pdf and
// writes PapersDir/metadata/<slug>.yaml. An already-present PDF is not
// re-downloaded. Returns the PDF path.
func (d *Downloader) DownloadPaper(ctx context.Context, paper *types.PaperRecord) (string, error) {
	if paper.URL == "" {
		return "", fmt.Errorf("no URL for paper %q", paper.ID)
	}

	slug := Slug(paper.ID)
	pdfPath := filepath.Join(d.Cfg.PapersDir, rawDir, slug+".pdf")
	metaPath := filepath.Join(d.Cfg.PapersDir, metadataDir, slug+".yaml")

	if _, err := os.Stat(pdfPath); err == nil {
		d.Fetch.Log.Info().Str("path", pdfPath).Msg("already downloaded, skipping")
		return pdfPath, nil
	}

	cfg := httputil.FetchConfig{
		MaxRetries:    d.Cfg.MaxRetries,
		BackoffFactor: d.Cfg.BackoffFactor,
		Timeout:       d.Cfg.Timeout,
	}
	if err := d.Fetch.DownloadFile(ctx, paper.URL, pdfPath, cfg); err != nil {
		return "", fmt.Errorf("downloading %s: %w", slug, err)
	}

	if err := writeMetadata(paper, metaPath); err != nil {
		return "", fmt.Errorf("writing metadata for %s: %w", slug, err)
	}
	return pdfPath, nil
}

// Slug returns a filesystem-safe filename stem for a paper identifier
// (DOIs contain slashes).
func Slug(id string) string {
	return strings.NewReplacer("/", "-", ":", "-").Replace(id)
}

// writeMetadata writes the record to a YAML sidecar.
func writeMetadata(paper *types.PaperRecord, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}
	data, err := yaml.Marshal(paper)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
