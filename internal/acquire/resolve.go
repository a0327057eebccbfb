// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire resolves opaque paper identifiers to records and
// downloads full texts with metadata sidecars.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rimshaTest/PaperBites/pkg/types"
)

// ErrUnrecognizedID reports an identifier whose format matches no known
// catalog. This is a caller input mistake, distinct from ErrNotFound.
var ErrUnrecognizedID = errors.New("unrecognized paper ID format")

// ErrNotFound reports that the identifier's format was recognized but the
// lookup produced no usable record, whether because the catalog has no such
// paper, the paper is not open access, or the catalog was unreachable.
var ErrNotFound = errors.New("paper not found")

// IdentifierType classifies an input identifier.
type IdentifierType int

const (
	TypeUnknown IdentifierType = iota
	TypeArxiv
	TypeDOI
	TypeSemanticScholar
	TypeOpenAlex
)

func (t IdentifierType) String() string {
	switch t {
	case TypeArxiv:
		return "arxiv"
	case TypeDOI:
		return "doi"
	case TypeSemanticScholar:
		return "semantic_scholar"
	case TypeOpenAlex:
		return "openalex"
	default:
		return "unknown"
	}
}

// arxivPattern matches arXiv IDs: "2301.12345", "2301.12345v2".
var arxivPattern = regexp.MustCompile(`^\d{4}\.\d{4,5}(?:v\d+)?$`)

// Classify determines the identifier type and returns the normalized form.
// For Semantic Scholar it strips the "SS-" qualifier.
func Classify(identifier string) (IdentifierType, string) {
	identifier = strings.TrimSpace(identifier)

	switch {
	case arxivPattern.MatchString(identifier):
		return TypeArxiv, identifier
	case strings.HasPrefix(identifier, "10."):
		return TypeDOI, identifier
	case strings.HasPrefix(identifier, "SS-"):
		return TypeSemanticScholar, strings.TrimPrefix(identifier, "SS-")
	case strings.HasPrefix(identifier, "W"):
		return TypeOpenAlex, identifier
	default:
		return TypeUnknown, identifier
	}
}

// IDLookup fetches a single record by its catalog-native identifier.
type IDLookup interface {
	GetByID(ctx context.Context, id string) (*types.PaperRecord, error)
}

// DOILookup resolves a DOI to its open-access record.
type DOILookup interface {
	GetByDOI(ctx context.Context, doi string) (*types.PaperRecord, error)
}

// Resolver dispatches identifier lookups to the matching source adapter.
type Resolver struct {
	Arxiv           IDLookup
	OpenAlex        IDLookup
	SemanticScholar IDLookup
	Unpaywall       DOILookup
	Log             zerolog.Logger
}

// GetPaperByID resolves one identifier to a PaperRecord. An unrecognized
// format yields ErrUnrecognizedID; a recognized format whose lookup fails
// for any reason yields ErrNotFound.
func (r *Resolver) GetPaperByID(ctx context.Context, paperID string) (*types.PaperRecord, error) {
	idType, normalized := Classify(paperID)

	var (
		record *types.PaperRecord
		err    error
	)
	switch idType {
	case TypeArxiv:
		record, err = r.Arxiv.GetByID(ctx, normalized)
	case TypeDOI:
		record, err = r.Unpaywall.GetByDOI(ctx, normalized)
	case TypeSemanticScholar:
		record, err = r.SemanticScholar.GetByID(ctx, normalized)
	case TypeOpenAlex:
		record, err = r.OpenAlex.GetByID(ctx, normalized)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedID, paperID)
	}

	if err != nil {
		r.Log.Warn().Str("id", paperID).Str("type", idType.String()).Err(err).Msg("lookup failed")
		return nil, fmt.Errorf("looking up %q: %w", paperID, ErrNotFound)
	}
	if record == nil || record.URL == "" {
		return nil, fmt.Errorf("looking up %q: %w", paperID, ErrNotFound)
	}
	return record, nil
}
