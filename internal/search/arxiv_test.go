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

const sampleArxivAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Attention Is All You Need, Revisited</title>
    <summary>  We revisit the transformer architecture.  </summary>
    <published>2023-01-17T12:00:00Z</published>
    <author><name>Jane Doe</name></author>
    <author><name>John Roe</name></author>
    <link title="pdf" href="http://arxiv.org/pdf/2301.07041v1" rel="related"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2302.00001v2</id>
    <title>Second Paper</title>
    <summary>Another abstract.</summary>
    <published>2023-02-01T00:00:00Z</published>
    <author><name>Ada Lovelace</name></author>
  </entry>
</feed>`

func newTestArxiv(ts *httptest.Server) *ArxivSource {
	return NewArxivSource(ts.Client(), testSearchCfg(), zerolog.Nop())
}

func TestArxivSearch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "search_query=all%3Atransformers")
		w.Write([]byte(sampleArxivAtom))
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	papers, err := newTestArxiv(ts).Search(context.Background(), "transformers", 5)
	require.NoError(t, err)
	require.Len(t, papers, 2)

	p := papers[0]
	assert.Equal(t, "2301.07041v1", p.ID)
	assert.Equal(t, "Attention Is All You Need, Revisited", p.Title)
	assert.Equal(t, "We revisit the transformer architecture.", p.Summary)
	assert.Equal(t, []string{"Jane Doe", "John Roe"}, p.Authors)
	assert.Equal(t, "http://arxiv.org/pdf/2301.07041v1", p.URL)
	assert.Equal(t, "arXiv", p.Source)
	assert.Equal(t, "2023-01-17", p.Published)

	// No explicit license link: the arXiv default applies and is displayable.
	assert.Equal(t, "arXiv", p.License)
	assert.True(t, p.CanDisplayPublicly)

	// Entry without a pdf link falls back to the arxiv.org PDF endpoint.
	assert.Equal(t, arxivPDFBase+"2302.00001v2", papers[1].URL)
}

func TestArxivGetByID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "id_list=2301.07041")
		w.Write([]byte(sampleArxivAtom))
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	p, err := newTestArxiv(ts).GetByID(context.Background(), "2301.07041")
	require.NoError(t, err)
	require.NotNil(t, p)
	// The record keeps the identifier the caller asked for.
	assert.Equal(t, "2301.07041", p.ID)
}

func TestArxivGetByIDNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	p, err := newTestArxiv(ts).GetByID(context.Background(), "9999.99999")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestArxivSearchServerDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	_, err := newTestArxiv(ts).Search(context.Background(), "anything", 5)
	assert.Error(t, err)
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041v1"},
		{"https://arxiv.org/abs/2301.07041", "2301.07041"},
		{"no-abs-segment", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractArxivID(tt.in))
	}
}
