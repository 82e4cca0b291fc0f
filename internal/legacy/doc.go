// Package legacy imports article payloads exported by the legacy content
// system. Each file is a plain text body with optional front matter (YAML,
// TOML or JSON) naming its slug, title, locale and tags. Bodies are ingested
// as-is; normalization happens in the articles package.
package legacy
