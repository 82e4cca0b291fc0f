package legacy

import (
	"bytes"
	"fmt"
	"maps"
	"strings"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block at the top of a legacy file. Unknown keys
// land in Custom.
type FrontMatter struct {
	Slug    string         `yaml:"slug"    toml:"slug"    json:"slug"`
	Title   string         `yaml:"title"   toml:"title"   json:"title"`
	Locale  string         `yaml:"locale"  toml:"locale"  json:"locale"`
	Summary string         `yaml:"summary" toml:"summary" json:"summary"`
	Tags    []string       `yaml:"tags"    toml:"tags"    json:"tags"`
	Custom  map[string]any `yaml:",inline" toml:"-"       json:"-"`
}

var utf8BOM = []byte("\ufeff")

// ParseFrontMatter splits source into front matter and body. Files without a
// front matter block return a zero FrontMatter and the whole input as body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(bytes.TrimPrefix(source, utf8BOM)), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("legacy: parse front matter: %w", err)
	}
	meta.Slug = strings.TrimSpace(meta.Slug)
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Locale = strings.TrimSpace(meta.Locale)
	return meta, body, nil
}

// Fields returns the front matter as a JSON-compatible map, omitting empty
// well-known keys. Nested maps decoded by the YAML parser are converted to
// string-keyed maps.
func (fm FrontMatter) Fields() map[string]any {
	out := make(map[string]any, len(fm.Custom)+5)
	for key, value := range fm.Custom {
		out[key] = jsonCompatible(value)
	}
	for key, value := range map[string]string{
		"slug":    fm.Slug,
		"title":   fm.Title,
		"locale":  fm.Locale,
		"summary": fm.Summary,
	} {
		if value != "" {
			out[key] = value
		}
	}
	if len(fm.Tags) > 0 {
		tags := make([]any, len(fm.Tags))
		for i, tag := range fm.Tags {
			tags[i] = tag
		}
		out["tags"] = tags
	}
	return out
}

// Metadata is what gets stored on the article: tags and custom keys. Slug,
// title and locale have their own columns.
func (fm FrontMatter) Metadata() map[string]any {
	fields := fm.Fields()
	for _, key := range []string{"slug", "title", "locale"} {
		delete(fields, key)
	}
	if len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

func jsonCompatible(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[fmt.Sprint(key)] = jsonCompatible(inner)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[key] = jsonCompatible(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = jsonCompatible(inner)
		}
		return out
	default:
		return v
	}
}
