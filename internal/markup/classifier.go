package markup

import (
	"strings"
	"unicode"
)

// IsCanonical reports whether content already holds canonical markup, that is
// whether its first non-whitespace character opens a tag. Canonical payloads
// are returned untouched by Normalize.
func IsCanonical(content string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(content, unicode.IsSpace), "<")
}
