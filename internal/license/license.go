// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package license classifies license strings into a public-display verdict.
// It is the compliance boundary for the whole engine: every record's
// can_display_publicly flag is derived here and nowhere else. The package
// does no I/O and holds no state, so classification is deterministic.
package license

import (
	"fmt"
	"strings"
)

// publicDisplayLicenses are license substrings that permit public display.
var publicDisplayLicenses = []string{
	// Creative Commons licenses.
	"cc-by",
	"cc by",
	"cc-by-sa",
	"cc by sa",
	"cc0",
	"cc zero",
	"creative commons",

	// Public domain.
	"public domain",

	// Open access specific.
	"open access",

	// arXiv default license.
	"arxiv",

	// Apache and MIT licenses.
	"apache",
	"mit license",
}

// publicDisplayLicenseURLs are license URL fragments that permit public display.
var publicDisplayLicenseURLs = []string{
	"creativecommons.org/licenses/by/",
	"creativecommons.org/licenses/by-sa/",
	"creativecommons.org/publicdomain/zero/",
	// Non-commercial use is acceptable for educational presentation.
	"creativecommons.org/licenses/by-nc/",
	"arxiv.org/licenses/",
}

// restrictedLicenses never permit public display. Checked before the
// allow-lists and short-circuits.
var restrictedLicenses = []string{
	"all rights reserved",
	"copyright",
}

// IsPubliclyDisplayable reports whether a license string or URL permits
// public re-presentation of the paper's content. Empty input and anything
// matching neither list fail closed.
func IsPubliclyDisplayable(licenseInfo string) bool {
	if licenseInfo == "" {
		return false
	}

	lower := strings.ToLower(licenseInfo)

	for _, restricted := range restrictedLicenses {
		if strings.Contains(lower, restricted) {
			return false
		}
	}

	for _, allowed := range publicDisplayLicenses {
		if strings.Contains(lower, allowed) {
			return true
		}
	}

	for _, allowedURL := range publicDisplayLicenseURLs {
		if strings.Contains(lower, allowedURL) {
			return true
		}
	}

	// URL-shaped input: Creative Commons licenses allow public display
	// except the most restrictive variant (BY-NC-ND).
	if strings.HasPrefix(lower, "http") && strings.Contains(lower, "creativecommons.org") {
		if !strings.Contains(lower, "by-nc-nd") {
			return true
		}
	}

	return false
}

// Attribution returns the human-readable attribution sentence for the
// detected license family. Cosmetic only; never affects the verdict.
func Attribution(licenseInfo string) string {
	if licenseInfo == "" {
		return "License information unavailable"
	}

	lower := strings.ToLower(licenseInfo)

	if strings.Contains(lower, "creativecommons.org") ||
		strings.Contains(lower, "cc-by") || strings.Contains(lower, "cc by") {
		return "This content is licensed under a Creative Commons license which requires attribution to the original author(s)."
	}

	if strings.Contains(lower, "public domain") || strings.Contains(lower, "cc0") {
		return "This content is in the public domain."
	}

	if strings.Contains(lower, "arxiv") {
		return "This content is distributed under the arXiv.org license, which allows redistribution with proper attribution."
	}

	return fmt.Sprintf("This content is licensed under: %s", licenseInfo)
}
