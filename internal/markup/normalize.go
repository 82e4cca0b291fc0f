package markup

import "regexp"

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Normalize converts raw article content into canonical markup. Content that
// already looks canonical is returned byte for byte. Malformed markers degrade
// to literal text; Normalize never fails and keeps no state between calls.
func Normalize(raw string) string {
	if IsCanonical(raw) {
		return raw
	}

	content := normalizeLineEndings(raw)
	content = TranslateInline(content)
	content = Structure(content)
	return Clean(content)
}

// Pipeline adapts Normalize to interfaces.Normalizer so services can accept an
// injected implementation.
type Pipeline struct{}

// Normalize satisfies interfaces.Normalizer.
func (Pipeline) Normalize(raw string) string {
	return Normalize(raw)
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
