// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rimshaTest/PaperBites/internal/httputil"
	"github.com/rimshaTest/PaperBites/internal/license"
	"github.com/rimshaTest/PaperBites/pkg/types"
)

// openAlexAPIBase is the OpenAlex Works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// OpenAlexSource queries the OpenAlex Works API, restricted to open-access
// works.
type OpenAlexSource struct {
	Fetch *httputil.Fetcher
	Cfg   types.SearchConfig
}

func NewOpenAlexSource(client *http.Client, cfg types.SearchConfig, log zerolog.Logger) *OpenAlexSource {
	return &OpenAlexSource{
		Fetch: &httputil.Fetcher{
			Client: client,
			Limit:  httputil.NewRateLimit(),
			Log:    log.With().Str("source", "OpenAlex").Logger(),
		},
		Cfg: cfg,
	}
}

// Name returns the catalog tag.
func (s *OpenAlexSource) Name() string { return "OpenAlex" }

// Search queries OpenAlex with the is_oa filter and the polite-pool mailto
// parameter.
func (s *OpenAlexSource) Search(ctx context.Context, query string, limit int) ([]types.PaperRecord, error) {
	params := url.Values{
		"search":   {query},
		"filter":   {"is_oa:true"},
		"per_page": {fmt.Sprintf("%d", limit)},
	}
	if s.Cfg.Email != "" {
		params.Set("mailto", s.Cfg.Email)
	}

	var oar openAlexResponse
	if err := s.get(ctx, openAlexAPIBase+"?"+params.Encode(), &oar); err != nil {
		return nil, err
	}

	var results []types.PaperRecord
	for _, work := range oar.Results {
		if p := s.workToRecord(work); p != nil {
			results = append(results, *p)
		}
	}
	return results, nil
}

// GetByID looks up a single OpenAlex work ID ("W..."). A nil record with
// nil error means not found or not open access.
func (s *OpenAlexSource) GetByID(ctx context.Context, workID string) (*types.PaperRecord, error) {
	reqURL := openAlexAPIBase + "/" + url.PathEscape(workID)
	if s.Cfg.Email != "" {
		reqURL += "?mailto=" + url.QueryEscape(s.Cfg.Email)
	}

	var work openAlexWork
	if err := s.get(ctx, reqURL, &work); err != nil {
		return nil, err
	}
	return s.workToRecord(work), nil
}

func (s *OpenAlexSource) get(ctx context.Context, reqURL string, v any) error {
	header := http.Header{"User-Agent": {s.Cfg.UserAgent}}
	if err := s.Fetch.GetJSON(ctx, reqURL, header, v, fetchCfg(s.Cfg.HTTPConfig)); err != nil {
		return fmt.Errorf("OpenAlex API request: %w", err)
	}
	return nil
}

// workToRecord maps one work to a PaperRecord. Works that are not open
// access or offer no full-text location are dropped silently.
func (s *OpenAlexSource) workToRecord(work openAlexWork) *types.PaperRecord {
	if !work.OpenAccess.IsOA {
		return nil
	}

	// Prefer a PDF-shaped location; fall back to the landing page.
	pdfURL := ""
	for _, loc := range work.OpenAccess.OALocations {
		if loc.URLForPDF != "" {
			pdfURL = loc.URLForPDF
			break
		}
	}
	if pdfURL == "" {
		pdfURL = work.OpenAccess.OAURL
	}
	if pdfURL == "" {
		return nil
	}

	lic := "open access"
	for _, loc := range work.OpenAccess.OALocations {
		if loc.License != "" {
			lic = loc.License
			break
		}
	}

	title := work.Title
	if title == "" {
		title = types.UnknownTitle
	}

	p := &types.PaperRecord{
		ID:                 strings.TrimPrefix(work.ID, "https://openalex.org/"),
		Title:              title,
		Summary:            reconstructAbstract(work.AbstractInvertedIndex),
		URL:                pdfURL,
		Source:             "OpenAlex",
		DOI:                strings.TrimPrefix(work.DOI, "https://doi.org/"),
		License:            lic,
		CanDisplayPublicly: license.IsPubliclyDisplayable(lic),
		Published:          work.PublicationDate,
	}

	for _, authorship := range work.Authorships {
		if authorship.Author.DisplayName != "" {
			p.Authors = append(p.Authors, authorship.Author.DisplayName)
		}
	}
	return p
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to the positions where it
// appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationDate       string               `json:"publication_date"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA        bool               `json:"is_oa"`
	OAStatus    string             `json:"oa_status"`
	OAURL       string             `json:"oa_url"`
	OALocations []openAlexLocation `json:"oa_locations"`
}

type openAlexLocation struct {
	URL       string `json:"url"`
	URLForPDF string `json:"url_for_pdf"`
	License   string `json:"license"`
}
