// Package normalize provides the canonical text transforms used to compare,
// deduplicate, and learn from merchant names. Hebrew and Latin scripts are
// treated uniformly.
package normalize

import (
	"regexp"
	"strings"
)

// UnknownBusiness is the sentinel returned when normalization strips a name
// down to nothing. It keeps the normalized name usable as a join key.
const UnknownBusiness = "unknown"

var (
	cardNumberRe  = regexp.MustCompile(`\d{4}[-\s]*\d{4}[-\s]*\d{4}[-\s]*\d{4}`)
	dateFragment  = regexp.MustCompile(`\d{2}[/\-]\d{2}`)
	symbolRe      = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
	maxNormPasses = 4
)

// BusinessName canonicalizes a raw merchant string: lower-case, strip
// card-number-like digit groups and dd/mm date fragments, replace symbols
// with spaces, and collapse whitespace. An empty or fully-stripped input
// maps to UnknownBusiness.
//
// The transform is idempotent: replacing symbols can expose a digit run that
// only then matches the card-number pattern, so the passes repeat until the
// string stops changing.
func BusinessName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))

	for i := 0; i < maxNormPasses; i++ {
		next := normalizeOnce(normalized)
		if next == normalized {
			break
		}
		normalized = next
	}

	if normalized == "" {
		return UnknownBusiness
	}
	return normalized
}

func normalizeOnce(s string) string {
	s = cardNumberRe.ReplaceAllString(s, "")
	s = dateFragment.ReplaceAllString(s, "")
	s = symbolRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
