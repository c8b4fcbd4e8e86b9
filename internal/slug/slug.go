// Package slug derives URL-safe identifiers from free-text titles.
package slug

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	separators   = regexp.MustCompile(`[-\s]+`)
)

// Make converts an arbitrary title into a URL-safe slug: transliterate to
// ASCII, lowercase, strip everything except word characters, whitespace and
// hyphens, then collapse runs of whitespace/hyphens into single hyphens.
// Distinct titles can produce the same slug ("Go Talks!" and "go talks"),
// so callers that need uniqueness must dedupe at insert time.
func Make(title string) string {
	s := unidecode.Unidecode(title)
	s = strings.ToLower(s)
	s = invalidChars.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
