// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the external paper catalogs and merges their
// results into one deduplicated, policy-checked candidate list.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rimshaTest/PaperBites/internal/httputil"
	"github.com/rimshaTest/PaperBites/pkg/types"
)

// defaultQuery is used when the caller supplies an empty query.
const defaultQuery = "machine learning"

// Source searches a single catalog. Each source (arXiv, OpenAlex, Semantic
// Scholar) implements this interface; failures degrade to an empty slice
// plus an error the aggregator absorbs, never a fatal condition.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.PaperRecord, error)
}

// OpenAccessResolver resolves a DOI to its open-access record. A nil record
// with nil error means "not open access", a normal outcome.
type OpenAccessResolver interface {
	GetByDOI(ctx context.Context, doi string) (*types.PaperRecord, error)
}

// DOIFinder locates a DOI for a paper title on a best-effort basis.
// Failures of any kind collapse to ok=false and never propagate.
type DOIFinder interface {
	FindDOI(ctx context.Context, title string) (doi string, ok bool)
}

// Aggregator fans a query out to all configured sources and produces the
// final candidate list. OpenAccess and Finder are optional enrichment
// capabilities.
type Aggregator struct {
	Sources    []Source
	OpenAccess OpenAccessResolver
	Finder     DOIFinder
	Log        zerolog.Logger
}

// SearchPapers queries every source concurrently, optionally enriches
// candidates with DOI and open-access information, filters by the public
// display verdict, deduplicates by DOI then lowercase title, and truncates
// to maxPapers. An empty list is a valid, non-error outcome.
func (a *Aggregator) SearchPapers(ctx context.Context, query string, maxPapers int, openAccessOnly, publicOnly bool) ([]types.PaperRecord, error) {
	if len(a.Sources) == 0 {
		return nil, fmt.Errorf("no search sources configured")
	}
	if query == "" {
		a.Log.Info().Msg("no search query provided, using default query")
		query = defaultQuery
	}
	if maxPapers <= 0 {
		maxPapers = 3
	}

	// Over-fetch per source to survive later filtering.
	perSource := maxPapers
	if perSource < 2 {
		perSource = 2
	}

	type sourceResult struct {
		records []types.PaperRecord
		err     error
		name    string
	}

	ch := make(chan sourceResult, len(a.Sources))
	var wg sync.WaitGroup

	for _, s := range a.Sources {
		wg.Add(1)
		go func(s Source) {
			defer wg.Done()
			records, err := s.Search(ctx, query, perSource)
			ch <- sourceResult{records: records, err: err, name: s.Name()}
		}(s)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.PaperRecord
	for sr := range ch {
		if sr.err != nil {
			a.Log.Warn().Str("source", sr.name).Err(sr.err).Msg("source failed")
			continue
		}
		a.Log.Debug().Str("source", sr.name).Int("count", len(sr.records)).Msg("source results")
		all = append(all, sr.records...)
	}

	if openAccessOnly {
		all = a.enrich(ctx, all)
	}

	var kept []types.PaperRecord
	for _, p := range all {
		if p.URL == "" {
			continue
		}
		if publicOnly && !p.CanDisplayPublicly {
			continue
		}
		kept = append(kept, p)
	}

	unique := deduplicate(kept)

	if len(unique) > maxPapers {
		unique = unique[:maxPapers]
	}

	a.Log.Info().Str("query", query).Int("count", len(unique)).Msg("search complete")
	return unique, nil
}

// enrich backfills missing DOIs and overlays the open-access verdict for
// every candidate with a DOI. Both steps are best-effort: a failed lookup
// keeps the candidate unmodified rather than dropping it.
func (a *Aggregator) enrich(ctx context.Context, papers []types.PaperRecord) []types.PaperRecord {
	for i := range papers {
		if papers[i].DOI == "" && a.Finder != nil {
			if doi, ok := a.Finder.FindDOI(ctx, papers[i].Title); ok {
				papers[i].DOI = doi
			}
		}

		if papers[i].DOI == "" || a.OpenAccess == nil {
			continue
		}
		oa, err := a.OpenAccess.GetByDOI(ctx, papers[i].DOI)
		if err != nil || oa == nil {
			continue
		}
		papers[i].License = oa.License
		papers[i].CanDisplayPublicly = oa.CanDisplayPublicly
		if oa.URL != "" {
			papers[i].URL = oa.URL
		}
	}
	return papers
}

// deduplicate drops candidates whose DOI or lowercase title was already
// seen. First occurrence wins; traversal order is the fan-out concatenation
// order.
func deduplicate(papers []types.PaperRecord) []types.PaperRecord {
	seenDOIs := make(map[string]bool)
	seenTitles := make(map[string]bool)
	var unique []types.PaperRecord

	for _, p := range papers {
		title := strings.ToLower(p.Title)

		if p.DOI != "" && seenDOIs[p.DOI] {
			continue
		}
		if seenTitles[title] {
			continue
		}

		if p.DOI != "" {
			seenDOIs[p.DOI] = true
		}
		seenTitles[title] = true
		unique = append(unique, p)
	}
	return unique
}

// fetchCfg maps shared HTTP settings onto the fetcher's per-call tunables.
func fetchCfg(h types.HTTPConfig) httputil.FetchConfig {
	return httputil.FetchConfig{
		MaxRetries:    h.MaxRetries,
		BackoffFactor: h.BackoffFactor,
		Timeout:       h.Timeout,
	}
}
