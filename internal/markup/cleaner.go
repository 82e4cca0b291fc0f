package markup

import (
	"regexp"
	"strings"
)

var emptyParagraphPattern = regexp.MustCompile(`<p>[\s\p{Z}]*</p>\n?`)

// Clean removes every paragraph whose content is empty or whitespace-only,
// together with the line break that followed it, and trims the result.
func Clean(content string) string {
	return strings.TrimSpace(emptyParagraphPattern.ReplaceAllString(content, ""))
}
