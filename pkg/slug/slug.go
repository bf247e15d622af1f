package slug

import (
	"regexp"
	"strings"
)

// Whitespace runs collapse to a single hyphen so "Go  Lang" and "Go Lang"
// resolve to the same slug.
var whitespaceRegex = regexp.MustCompile(`\s+`)

// Make derives the canonical lookup key for a display name:
// lower-cased, every whitespace run replaced by one hyphen.
// Pure and total - defined for every string, including "".
func Make(name string) string {
	return strings.ToLower(whitespaceRegex.ReplaceAllString(name, "-"))
}
