// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rimshaTest/PaperBites/internal/httputil"
	"github.com/rimshaTest/PaperBites/pkg/types"
)

// crossrefAPIBase is the CrossRef works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// doiPattern extracts a DOI from free text or a URL.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[-._;()/:A-Za-z0-9]+`)

// CrossRefFinder backfills missing DOIs from paper titles. It is strictly
// opportunistic: lookups are throttled to one every ten seconds, and when
// the limiter has no token the lookup is skipped rather than queued, so the
// backfill never adds unbounded latency to an aggregation.
type CrossRefFinder struct {
	Fetch   *httputil.Fetcher
	Cfg     types.SearchConfig
	limiter *rate.Limiter
}

func NewCrossRefFinder(client *http.Client, cfg types.SearchConfig, log zerolog.Logger) *CrossRefFinder {
	return &CrossRefFinder{
		Fetch: &httputil.Fetcher{
			Client: client,
			Limit:  httputil.NewRateLimit(),
			Log:    log.With().Str("source", "CrossRef").Logger(),
		},
		Cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 1),
	}
}

// FindDOI looks the title up on CrossRef and returns the best match's DOI.
// Every failure mode collapses to ok=false.
func (f *CrossRefFinder) FindDOI(ctx context.Context, title string) (string, bool) {
	if title == "" || !f.limiter.Allow() {
		return "", false
	}

	params := url.Values{
		"query.title": {title},
		"rows":        {"1"},
	}
	if f.Cfg.Email != "" {
		params.Set("mailto", f.Cfg.Email)
	}

	var resp crossrefResponse
	header := http.Header{"User-Agent": {f.Cfg.UserAgent}}
	if err := f.Fetch.GetJSON(ctx, crossrefAPIBase+"?"+params.Encode(), header, &resp, fetchCfg(f.Cfg.HTTPConfig)); err != nil {
		f.Fetch.Log.Debug().Err(err).Str("title", title).Msg("DOI backfill failed")
		return "", false
	}

	if len(resp.Message.Items) == 0 {
		return "", false
	}

	doi := doiPattern.FindString(resp.Message.Items[0].DOI)
	if doi == "" {
		return "", false
	}
	return doi, true
}

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefItem `json:"items"`
}

type crossrefItem struct {
	DOI string `json:"DOI"`
}
