package articles

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// NormalizeSlug trims value and rewrites it with the default go-slug rules
// unless it is already a valid slug.
func NormalizeSlug(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrSlugRequired
	}
	if slug.IsValid(trimmed) {
		return trimmed, nil
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" || !slug.IsValid(normalized) {
		return "", ErrSlugInvalid
	}
	return normalized, nil
}
