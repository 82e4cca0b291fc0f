// Package identity derives stable identifiers from natural keys so the same
// article gets the same ID in every storage backend.
package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-richtext"

// UUID hashes key into a UUID with go-hashid. Blank keys map to uuid.Nil.
// Callers prefix keys by entity type so different entities cannot collide.
func UUID(key string) uuid.UUID {
	key = strings.TrimSpace(key)
	if key == "" {
		return uuid.Nil
	}
	id, err := hashid.NewUUID(key, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || id == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key))
	}
	return id
}

// ArticleUUID is the ID of the article stored under locale and slug.
func ArticleUUID(locale, slug string) uuid.UUID {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return uuid.Nil
	}
	return UUID(namespace + ":article:" + strings.ToLower(strings.TrimSpace(locale)) + ":" + slug)
}

// ImportRunUUID identifies one import of a source directory at a given
// content checksum, so re-running an unchanged import reports the same run.
func ImportRunUUID(directory, checksum string) uuid.UUID {
	return UUID(namespace + ":import:" + strings.TrimSpace(directory) + ":" + strings.TrimSpace(checksum))
}
