// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/rimshaTest/PaperBites/internal/httputil"
	"github.com/rimshaTest/PaperBites/internal/license"
	"github.com/rimshaTest/PaperBites/pkg/types"
)

// semanticAPIBase is the Semantic Scholar graph API paper endpoint.
// Declared as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper"

const semanticFields = "title,authors,abstract,url,openAccessPdf,year,venue,publicationTypes,journal,externalIds"

// SemanticScholarSource queries the Semantic Scholar graph API. Only papers
// with an openAccessPdf location are surfaced.
type SemanticScholarSource struct {
	Fetch *httputil.Fetcher
	Cfg   types.SearchConfig
}

func NewSemanticScholarSource(client *http.Client, cfg types.SearchConfig, log zerolog.Logger) *SemanticScholarSource {
	return &SemanticScholarSource{
		Fetch: &httputil.Fetcher{
			Client: client,
			Limit:  httputil.NewRateLimit(),
			Log:    log.With().Str("source", "Semantic Scholar").Logger(),
		},
		Cfg: cfg,
	}
}

// Name returns the catalog tag.
func (s *SemanticScholarSource) Name() string { return "Semantic Scholar" }

// Search queries the paper search endpoint.
func (s *SemanticScholarSource) Search(ctx context.Context, query string, limit int) ([]types.PaperRecord, error) {
	params := url.Values{
		"query":  {query},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}

	var sr semanticResponse
	if err := s.get(ctx, semanticAPIBase+"/search?"+params.Encode(), &sr); err != nil {
		return nil, err
	}

	var results []types.PaperRecord
	for _, paper := range sr.Data {
		if p := paperToRecord(paper); p != nil {
			results = append(results, *p)
		}
	}
	return results, nil
}

// GetByID looks up a single paper by its bare Semantic Scholar ID (without
// the "SS-" qualifier). A nil record with nil error means not found or no
// open-access PDF.
func (s *SemanticScholarSource) GetByID(ctx context.Context, paperID string) (*types.PaperRecord, error) {
	reqURL := semanticAPIBase + "/" + url.PathEscape(paperID) + "?fields=" + semanticFields

	var paper semanticPaper
	if err := s.get(ctx, reqURL, &paper); err != nil {
		return nil, err
	}
	return paperToRecord(paper), nil
}

func (s *SemanticScholarSource) get(ctx context.Context, reqURL string, v any) error {
	header := http.Header{
		"User-Agent": {s.Cfg.UserAgent},
		"Accept":     {"application/json"},
	}
	if s.Cfg.SemanticScholarAPIKey != "" {
		header.Set("x-api-key", s.Cfg.SemanticScholarAPIKey)
	}
	if err := s.Fetch.GetJSON(ctx, reqURL, header, v, fetchCfg(s.Cfg.HTTPConfig)); err != nil {
		return fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	return nil
}

// paperToRecord maps one paper to a PaperRecord. Papers without an
// open-access PDF are dropped silently. The openAccessPdf location implies
// OA status, so the conservative "open access" stand-in license applies.
func paperToRecord(paper semanticPaper) *types.PaperRecord {
	if paper.OpenAccessPdf.URL == "" {
		return nil
	}

	title := paper.Title
	if title == "" {
		title = types.UnknownTitle
	}

	const lic = "open access"
	p := &types.PaperRecord{
		ID:                 "SS-" + paper.PaperID,
		Title:              title,
		Summary:            paper.Abstract,
		URL:                paper.OpenAccessPdf.URL,
		Source:             "Semantic Scholar",
		DOI:                paper.ExternalIDs.DOI,
		License:            lic,
		CanDisplayPublicly: license.IsPubliclyDisplayable(lic),
	}

	for _, a := range paper.Authors {
		if a.Name != "" {
			p.Authors = append(p.Authors, a.Name)
		}
	}

	if paper.Year > 0 {
		p.Published = strconv.Itoa(paper.Year)
	}
	return p
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string              `json:"paperId"`
	Title         string              `json:"title"`
	Abstract      string              `json:"abstract"`
	Year          int                 `json:"year"`
	Authors       []semanticAuthor    `json:"authors"`
	OpenAccessPdf semanticOpenAccess  `json:"openAccessPdf"`
	ExternalIDs   semanticExternalIDs `json:"externalIds"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticOpenAccess struct {
	URL string `json:"url"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
