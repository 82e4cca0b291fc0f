// Package articles stores article payloads by slug and runs them through the
// markup normalization pipeline.
package articles

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Format records which representation an article body is stored in.
type Format string

const (
	// FormatLegacy marks articles whose Source has not been normalized yet.
	FormatLegacy Format = "legacy"
	// FormatCanonical marks articles whose Body holds canonical markup.
	FormatCanonical Format = "canonical"
)

// Article is one stored article. Source keeps the payload as it was ingested;
// Body holds canonical markup once the article has been normalized or saved
// by the editor.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a" json:"-" yaml:"-"`

	ID           uuid.UUID      `bun:",pk,type:uuid"                                 json:"id"           yaml:"id"`
	Slug         string         `bun:"slug,notnull,unique"                           json:"slug"         yaml:"slug"`
	Locale       string         `bun:"locale,notnull"                                json:"locale"       yaml:"locale"`
	Title        string         `bun:"title,notnull"                                 json:"title"        yaml:"title"`
	Summary      string         `bun:"summary"                                       json:"summary,omitempty"       yaml:"summary,omitempty"`
	Source       string         `bun:"source"                                        json:"source,omitempty"        yaml:"source,omitempty"`
	Body         string         `bun:"body"                                          json:"body,omitempty"          yaml:"body,omitempty"`
	Format       Format         `bun:"format,notnull"                                json:"format"       yaml:"format"`
	Checksum     string         `bun:"checksum"                                      json:"checksum,omitempty"      yaml:"checksum,omitempty"`
	Metadata     map[string]any `bun:"metadata,type:jsonb"                           json:"metadata,omitempty"      yaml:"metadata,omitempty"`
	NormalizedAt *time.Time     `bun:"normalized_at,nullzero"                        json:"normalized_at,omitempty" yaml:"normalized_at,omitempty"`
	CreatedAt    time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"   yaml:"created_at"`
	UpdatedAt    time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"   yaml:"updated_at"`
}

// MetadataRevision is the metadata key holding the revision of the input an
// article was last ingested from.
const MetadataRevision = "source_checksum"

// SameRevision reports whether the article already holds the payload with
// checksum at revision. An empty revision compares the payload checksum only.
func (a *Article) SameRevision(checksum, revision string) bool {
	if a == nil || a.Checksum != checksum {
		return false
	}
	if revision == "" {
		return true
	}
	stored, _ := a.Metadata[MetadataRevision].(string)
	return stored == revision
}

// Payload returns what the fetch collaborator hands to the pipeline: the
// canonical body once there is one, the ingested source otherwise.
func (a *Article) Payload() string {
	if a == nil {
		return ""
	}
	if a.Format == FormatCanonical {
		return a.Body
	}
	return a.Source
}

// IsCanonical reports whether the article body is already canonical markup.
func (a *Article) IsCanonical() bool {
	return a != nil && a.Format == FormatCanonical
}

func cloneArticle(src *Article) *Article {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Metadata = maps.Clone(src.Metadata)
	if src.NormalizedAt != nil {
		ts := *src.NormalizedAt
		copied.NormalizedAt = &ts
	}
	return &copied
}

var (
	ErrSlugRequired     = errors.New("articles: slug is required")
	ErrSlugInvalid      = errors.New("articles: slug contains invalid characters")
	ErrSlugExists       = errors.New("articles: slug already exists")
	ErrBodyNotCanonical = errors.New("articles: body is not canonical markup")
	ErrSourceRequired   = errors.New("articles: source is required")
)

// NotFoundError is returned when no article exists for a key.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err, or any error it wraps, is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// SlugError pairs a slug with the error raised while processing it.
type SlugError struct {
	Slug string `json:"slug" yaml:"slug"`
	Err  error  `json:"-"    yaml:"-"`
}

func (e SlugError) Error() string {
	return fmt.Sprintf("%s: %v", e.Slug, e.Err)
}

func (e SlugError) Unwrap() error {
	return e.Err
}
