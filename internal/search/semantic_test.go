// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSemanticJSON = `{
  "total": 2,
  "data": [
    {
      "paperId": "abc123",
      "title": "Graph Attention Networks",
      "abstract": "We present graph attention networks.",
      "year": 2018,
      "authors": [{"authorId": "a1", "name": "Petar V."}],
      "openAccessPdf": {"url": "https://example.org/gat.pdf"},
      "externalIds": {"DOI": "10.5555/gat", "ArXiv": "1710.10903"}
    },
    {
      "paperId": "def456",
      "title": "Paywalled Paper",
      "year": 2020,
      "authors": [{"authorId": "a2", "name": "Someone Else"}],
      "externalIds": {}
    }
  ]
}`

func newTestSemantic(ts *httptest.Server) *SemanticScholarSource {
	cfg := testSearchCfg()
	cfg.SemanticScholarAPIKey = "test-key"
	return NewSemanticScholarSource(ts.Client(), cfg, zerolog.Nop())
}

func TestSemanticScholarSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "graph attention", r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Write([]byte(sampleSemanticJSON))
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	papers, err := newTestSemantic(ts).Search(context.Background(), "graph attention", 5)
	require.NoError(t, err)

	// The paper without an openAccessPdf location is dropped silently.
	require.Len(t, papers, 1)

	p := papers[0]
	assert.Equal(t, "SS-abc123", p.ID)
	assert.Equal(t, "Graph Attention Networks", p.Title)
	assert.Equal(t, "https://example.org/gat.pdf", p.URL)
	assert.Equal(t, "10.5555/gat", p.DOI)
	assert.Equal(t, "open access", p.License)
	assert.True(t, p.CanDisplayPublicly)
	assert.Equal(t, []string{"Petar V."}, p.Authors)
	assert.Equal(t, "2018", p.Published)
	assert.Equal(t, "Semantic Scholar", p.Source)
}

func TestSemanticScholarGetByID(t *testing.T) {
	const body = `{
		"paperId": "abc123",
		"title": "Graph Attention Networks",
		"openAccessPdf": {"url": "https://example.org/gat.pdf"},
		"externalIds": {"DOI": "10.5555/gat"}
	}`
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/abc123", r.URL.Path)
		w.Write([]byte(body))
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	p, err := newTestSemantic(ts).GetByID(context.Background(), "abc123")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "SS-abc123", p.ID)
}

func TestSemanticScholarGetByIDNoOpenAccessPdf(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"paperId": "def456", "title": "Paywalled Paper"}`))
	}))
	defer ts.Close()

	old := semanticAPIBase
	semanticAPIBase = ts.URL
	defer func() { semanticAPIBase = old }()

	p, err := newTestSemantic(ts).GetByID(context.Background(), "def456")
	require.NoError(t, err)
	assert.Nil(t, p)
}
