// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rimshaTest/PaperBites/internal/httputil"
	"github.com/rimshaTest/PaperBites/internal/license"
	"github.com/rimshaTest/PaperBites/pkg/types"
)

// Base URLs for the arXiv API. Declared as vars so tests can substitute
// httptest servers.
var (
	arxivAPIBase = "https://export.arxiv.org/api/query"
	arxivPDFBase = "https://arxiv.org/pdf/"
)

// ArxivSource queries the arXiv Atom API.
type ArxivSource struct {
	Fetch *httputil.Fetcher
	Cfg   types.SearchConfig
}

// NewArxivSource builds the source with its own process-wide rate limit
// tracker.
func NewArxivSource(client *http.Client, cfg types.SearchConfig, log zerolog.Logger) *ArxivSource {
	return &ArxivSource{
		Fetch: &httputil.Fetcher{
			Client: client,
			Limit:  httputil.NewRateLimit(),
			Log:    log.With().Str("source", "arXiv").Logger(),
		},
		Cfg: cfg,
	}
}

// Name returns the catalog tag.
func (s *ArxivSource) Name() string { return "arXiv" }

// Search queries arXiv sorted by relevance.
func (s *ArxivSource) Search(ctx context.Context, query string, limit int) ([]types.PaperRecord, error) {
	reqURL := fmt.Sprintf("%s?search_query=all:%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, url.QueryEscape(query), limit)

	feed, err := s.fetchFeed(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var results []types.PaperRecord
	for _, entry := range feed.Entries {
		if p := entryToRecord(entry); p != nil {
			results = append(results, *p)
		}
	}
	return results, nil
}

// GetByID looks up a single arXiv ID. A nil record with nil error means
// the paper was not found.
func (s *ArxivSource) GetByID(ctx context.Context, arxivID string) (*types.PaperRecord, error) {
	reqURL := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, url.QueryEscape(arxivID))

	feed, err := s.fetchFeed(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	if len(feed.Entries) == 0 {
		return nil, nil
	}

	p := entryToRecord(feed.Entries[0])
	if p == nil {
		return nil, nil
	}
	p.ID = arxivID
	return p, nil
}

func (s *ArxivSource) fetchFeed(ctx context.Context, reqURL string) (*arxivFeed, error) {
	header := http.Header{"User-Agent": {s.Cfg.UserAgent}}
	data, err := s.Fetch.Fetch(ctx, http.MethodGet, reqURL, header, nil, fetchCfg(s.Cfg.HTTPConfig))
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}
	return &feed, nil
}

// entryToRecord maps one Atom entry to a PaperRecord. Entries with no
// usable ID are dropped. The default arXiv submission license permits
// redistribution, so an entry without an explicit license link is tagged
// with the literal "arXiv".
func entryToRecord(entry arxivEntry) *types.PaperRecord {
	id := extractArxivID(entry.ID)
	if id == "" {
		return nil
	}

	lic := "arXiv"
	pdfURL := ""
	for _, l := range entry.Links {
		switch l.Title {
		case "pdf":
			pdfURL = l.Href
		case "license":
			lic = l.Href
		}
	}
	if pdfURL == "" {
		pdfURL = arxivPDFBase + id
	}

	p := &types.PaperRecord{
		ID:                 id,
		Title:              strings.TrimSpace(entry.Title),
		Summary:            strings.TrimSpace(entry.Summary),
		URL:                pdfURL,
		Source:             "arXiv",
		DOI:                entry.DOI,
		License:            lic,
		CanDisplayPublicly: license.IsPubliclyDisplayable(lic),
	}

	for _, a := range entry.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}

	// Atom timestamps are RFC3339; keep the date part only.
	if len(entry.Published) >= 10 {
		p.Published = entry.Published[:10]
	}
	return p
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	DOI       string        `xml:"doi"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Title string `xml:"title,attr"`
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
}

// extractArxivID pulls the versioned arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041v1").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	return idURL[idx+len(prefix):]
}
