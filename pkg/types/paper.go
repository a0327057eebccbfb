// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperbites discovery
// engine: the canonical PaperRecord and the per-stage configuration structs.
package types

// UnknownTitle is the sentinel title assigned when a catalog returns no title.
const UnknownTitle = "Unknown Title"

// PaperRecord is the canonical unit of output from discovery. A record is
// never mutated after an adapter returns it; the aggregator may discard a
// record but not alter its license verdict.
type PaperRecord struct {
	// ID is a source-qualified identifier: arXiv ID, "SS-"-prefixed
	// Semantic Scholar ID, OpenAlex ID ("W..."), or a bare DOI.
	ID string `json:"id" yaml:"id"`

	// Title is the display title; UnknownTitle when absent upstream.
	Title string `json:"title" yaml:"title"`

	// Authors lists author display names in source order; may be empty.
	Authors []string `json:"authors" yaml:"authors"`

	// Summary is the original abstract text, when available.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// URL is the best-known full-text location (PDF preferred, landing
	// page fallback). A record with no URL is not actionable and is
	// dropped before leaving the adapters.
	URL string `json:"url" yaml:"url"`

	// Source identifies the catalog that produced the record
	// (e.g. "arXiv", "OpenAlex", "Semantic Scholar", "Unpaywall").
	// Diagnostic only.
	Source string `json:"source" yaml:"source"`

	// DOI is the normalized DOI when known; the primary dedup key.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// License is the raw license string or URL as reported by the source.
	License string `json:"license" yaml:"license"`

	// CanDisplayPublicly is the classifier's verdict on License. Downstream
	// consumers must honor it before making content public.
	CanDisplayPublicly bool `json:"can_display_publicly" yaml:"can_display_publicly"`

	// Published is the publication date as reported by the source; the
	// format varies per catalog and is advisory only.
	Published string `json:"published,omitempty" yaml:"published,omitempty"`
}
