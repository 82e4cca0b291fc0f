package interfaces

import "context"

// Normalizer converts a raw article payload into canonical block markup.
// Implementations must be safe for concurrent use and must return canonical
// input unchanged.
type Normalizer interface {
	Normalize(raw string) string
}

// ContentFetcher returns the stored payload for a slug. A missing slug is
// reported as an error; callers must not normalize anything in that case.
type ContentFetcher interface {
	Fetch(ctx context.Context, slug string) (string, error)
}

// ContentStore persists canonical markup under the slug it was fetched with.
type ContentStore interface {
	StoreCanonical(ctx context.Context, slug, canonical string) error
}
