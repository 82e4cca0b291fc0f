package legacy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-richtext/internal/articles"
)

// DefaultPatterns are the file globs considered legacy exports.
var DefaultPatterns = []string{"*.txt", "*.md"}

// LoaderConfig configures discovery of legacy files.
type LoaderConfig struct {
	// Patterns are matched against file base names. Defaults to DefaultPatterns.
	Patterns []string
	// Recursive walks sub-directories.
	Recursive bool
}

// Document is one parsed legacy file.
type Document struct {
	Path        string
	Slug        string
	Locale      string
	Title       string
	Source      string
	FrontMatter FrontMatter
	Checksum    string
	Modified    time.Time
}

// Loader reads legacy files from a filesystem.
type Loader struct {
	fs        fs.FS
	patterns  []string
	recursive bool
}

// NewLoader builds a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	patterns := make([]string, 0, len(cfg.Patterns))
	for _, pattern := range cfg.Patterns {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	if len(patterns) == 0 {
		patterns = append(patterns, DefaultPatterns...)
	}
	return &Loader{
		fs:        filesystem,
		patterns:  patterns,
		recursive: cfg.Recursive,
	}
}

// Discover lists matching files under dir, sorted by path.
func (l *Loader) Discover(ctx context.Context, dir string) ([]string, error) {
	root := cleanDir(dir)
	var paths []string
	err := fs.WalkDir(l.fs, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if l.matches(d.Name()) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("legacy loader walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadFile reads and parses the file at p. The slug comes from front matter,
// falling back to the path relative to dir with separators turned into
// dashes.
func (l *Loader) LoadFile(ctx context.Context, dir, p string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, p)
	if err != nil {
		return nil, fmt.Errorf("legacy loader read %s: %w", p, err)
	}
	info, err := fs.Stat(l.fs, p)
	if err != nil {
		return nil, fmt.Errorf("legacy loader stat %s: %w", p, err)
	}

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	if err := ValidateFrontMatter(fm); err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	candidate := fm.Slug
	if candidate == "" {
		candidate = slugFromPath(cleanDir(dir), p)
	}
	slug, err := articles.NormalizeSlug(candidate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}

	sum := sha256.Sum256(data)
	return &Document{
		Path:        p,
		Slug:        slug,
		Locale:      fm.Locale,
		Title:       fm.Title,
		Source:      string(body),
		FrontMatter: fm,
		Checksum:    hex.EncodeToString(sum[:]),
		Modified:    info.ModTime(),
	}, nil
}

func (l *Loader) matches(name string) bool {
	for _, pattern := range l.patterns {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func cleanDir(dir string) string {
	dir = strings.Trim(path.Clean("/"+strings.TrimSpace(dir)), "/")
	if dir == "" {
		return "."
	}
	return dir
}

func slugFromPath(root, p string) string {
	rel := p
	if root != "." {
		rel = strings.TrimPrefix(p, root+"/")
	}
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return strings.ReplaceAll(rel, "/", "-")
}
