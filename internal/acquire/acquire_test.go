// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/rimshaTest/PaperBites/pkg/types"
)

func testDownloadCfg(dir string) types.DownloadConfig {
	return types.DownloadConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:       5 * time.Second,
			UserAgent:     "paperbites-test/0.1",
			MaxRetries:    1,
			BackoffFactor: 1.5,
		},
		PapersDir: dir,
	}
}

func TestDownloadPaper(t *testing.T) {
	content := []byte("%PDF-1.4 fake body")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(content)
	}))
	defer ts.Close()

	dir := t.TempDir()
	d := NewDownloader(ts.Client(), testDownloadCfg(dir), zerolog.Nop())

	paper := &types.PaperRecord{
		ID:      "10.1109/5.771073",
		Title:   "An Open Access Paper",
		Authors: []string{"Marie Curie"},
		URL:     ts.URL + "/paper.pdf",
		Source:  "Unpaywall",
		DOI:     "10.1109/5.771073",
		License: "cc-by",
	}

	pdfPath, err := d.DownloadPaper(context.Background(), paper)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "raw", "10.1109-5.771073.pdf"), pdfPath)

	got, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	metaPath := filepath.Join(dir, "metadata", "10.1109-5.771073.yaml")
	data, err := os.ReadFile(metaPath)
	require.NoError(t, err)

	var meta types.PaperRecord
	require.NoError(t, yaml.Unmarshal(data, &meta))
	assert.Equal(t, paper.Title, meta.Title)
	assert.Equal(t, paper.DOI, meta.DOI)
	assert.Equal(t, paper.License, meta.License)
}

func TestDownloadPaperSkipsExisting(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Write([]byte("pdf"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "raw", "2301.12345.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(pdfPath), 0o755))
	require.NoError(t, os.WriteFile(pdfPath, []byte("existing"), 0o644))

	d := NewDownloader(ts.Client(), testDownloadCfg(dir), zerolog.Nop())
	paper := &types.PaperRecord{ID: "2301.12345", URL: ts.URL + "/paper.pdf"}

	got, err := d.DownloadPaper(context.Background(), paper)
	require.NoError(t, err)
	assert.Equal(t, pdfPath, got)
	assert.Equal(t, int32(0), calls.Load(), "existing file must not be re-fetched")

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("existing"), data)
}

func TestDownloadPaperNoURL(t *testing.T) {
	d := NewDownloader(http.DefaultClient, testDownloadCfg(t.TempDir()), zerolog.Nop())
	_, err := d.DownloadPaper(context.Background(), &types.PaperRecord{ID: "2301.12345"})
	require.Error(t, err)
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2301.12345", "2301.12345"},
		{"10.1109/5.771073", "10.1109-5.771073"},
		{"https://doi.org/10.1/x", "https---doi.org-10.1-x"},
		{"W2741809807", "W2741809807"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Slug(tc.in))
	}
}
