// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rimshaTest/PaperBites/pkg/types"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(papers []types.PaperRecord, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return
	}

	fmt.Fprintf(w, "%-24s  %-54s  %-20s  %-7s  %s\n",
		"ID", "Title", "Authors", "Public", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 118))

	for _, p := range papers {
		title := p.Title
		if len(title) > 54 {
			title = title[:51] + "..."
		}
		id := p.ID
		if len(id) > 24 {
			id = id[:21] + "..."
		}
		public := "no"
		if p.CanDisplayPublicly {
			public = "yes"
		}
		fmt.Fprintf(w, "%-24s  %-54s  %-20s  %-7s  %s\n",
			id, title, formatAuthors(p.Authors), public, p.Source)
	}

	fmt.Fprintf(w, "\n%d papers\n", len(papers))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(papers []types.PaperRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
