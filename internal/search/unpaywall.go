// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rimshaTest/PaperBites/internal/httputil"
	"github.com/rimshaTest/PaperBites/internal/license"
	"github.com/rimshaTest/PaperBites/pkg/types"
)

// unpaywallAPIBase is the Unpaywall DOI resolution endpoint. Declared as a
// var so tests can substitute an httptest server.
var unpaywallAPIBase = "https://api.unpaywall.org/v2"

// UnpaywallSource resolves a DOI to its open-access status and best
// full-text location. The API requires a contact email on every request.
type UnpaywallSource struct {
	Fetch *httputil.Fetcher
	Cfg   types.SearchConfig
}

func NewUnpaywallSource(client *http.Client, cfg types.SearchConfig, log zerolog.Logger) *UnpaywallSource {
	return &UnpaywallSource{
		Fetch: &httputil.Fetcher{
			Client: client,
			Limit:  httputil.NewRateLimit(),
			Log:    log.With().Str("source", "Unpaywall").Logger(),
		},
		Cfg: cfg,
	}
}

// GetByDOI resolves a DOI. A nil record with nil error means the paper is
// not open access or has no usable full-text location, a normal filtering
// outcome.
func (s *UnpaywallSource) GetByDOI(ctx context.Context, doi string) (*types.PaperRecord, error) {
	if doi == "" {
		return nil, nil
	}

	reqURL := fmt.Sprintf("%s/%s?email=%s", unpaywallAPIBase, doi, url.QueryEscape(s.Cfg.Email))

	var resp unpaywallResponse
	header := http.Header{"User-Agent": {s.Cfg.UserAgent}}
	if err := s.Fetch.GetJSON(ctx, reqURL, header, &resp, fetchCfg(s.Cfg.HTTPConfig)); err != nil {
		return nil, fmt.Errorf("Unpaywall API request: %w", err)
	}

	// Absence of the flag is "not open access", not an error.
	if !resp.IsOA || resp.BestOALocation == nil {
		return nil, nil
	}

	pdfURL := resp.BestOALocation.URLForPDF
	if pdfURL == "" {
		pdfURL = resp.BestOALocation.URL
	}
	if pdfURL == "" {
		return nil, nil
	}

	lic := resp.BestOALocation.License
	if lic == "" {
		// The catalog confirmed OA status without naming a license.
		lic = "open access"
	}

	title := resp.Title
	if title == "" {
		title = types.UnknownTitle
	}

	p := &types.PaperRecord{
		ID:                 doi,
		Title:              title,
		URL:                pdfURL,
		Source:             "Unpaywall",
		DOI:                doi,
		License:            lic,
		CanDisplayPublicly: license.IsPubliclyDisplayable(lic),
		Published:          resp.PublishedDate,
	}

	for _, a := range resp.ZAuthors {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	return p, nil
}

// Unpaywall API JSON structures.
type unpaywallResponse struct {
	Title          string             `json:"title"`
	IsOA           bool               `json:"is_oa"`
	PublishedDate  string             `json:"published_date"`
	BestOALocation *unpaywallLocation `json:"best_oa_location"`
	ZAuthors       []unpaywallAuthor  `json:"z_authors"`
}

type unpaywallLocation struct {
	URL       string `json:"url"`
	URLForPDF string `json:"url_for_pdf"`
	License   string `json:"license"`
}

type unpaywallAuthor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}
