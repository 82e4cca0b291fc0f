package legacy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-richtext/internal/articles"
	"github.com/goliatone/go-richtext/internal/identity"
	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

var ErrArticleServiceRequired = errors.New("legacy importer: article service is required")

// ArticleService is the part of the articles service the importer writes
// through.
type ArticleService interface {
	Get(ctx context.Context, slug string) (*articles.Article, error)
	Ingest(ctx context.Context, req articles.IngestRequest) (*articles.IngestResult, error)
	Normalize(ctx context.Context, slug string) (*articles.Article, error)
}

// ImportOptions controls a single import run.
type ImportOptions struct {
	// DryRun reports what would change without writing.
	DryRun bool
	// Normalize converts every imported legacy body right after ingest.
	Normalize bool
}

// FileError is a per-file failure. Failures never abort the run.
type FileError struct {
	Path string
	Slug string
	Err  error
}

func (e FileError) Error() string {
	if e.Slug != "" {
		return fmt.Sprintf("%s (%s): %v", e.Path, e.Slug, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// ImportResult summarises an import run. Slug lists follow file order.
type ImportResult struct {
	RunID      uuid.UUID
	Directory  string
	Created    []string
	Updated    []string
	Unchanged  []string
	Normalized []string
	Errors     []FileError
	DryRun     bool
	Duration   time.Duration
}

// Total is the number of files processed, failed ones included.
func (r *ImportResult) Total() int {
	return len(r.Created) + len(r.Updated) + len(r.Unchanged) + len(r.Errors)
}

// Importer loads legacy files and ingests them as articles.
type Importer struct {
	loader  *Loader
	service ArticleService
	logger  interfaces.Logger
	now     func() time.Time
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithImporterLogger sets the logger used for run and per-file events.
func WithImporterLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithImporterClock overrides the clock used for durations.
func WithImporterClock(now func() time.Time) ImporterOption {
	return func(i *Importer) {
		if now != nil {
			i.now = now
		}
	}
}

// NewImporter builds an Importer reading from filesystem.
func NewImporter(filesystem fs.FS, service ArticleService, cfg LoaderConfig, opts ...ImporterOption) *Importer {
	importer := &Importer{
		loader:  NewLoader(filesystem, cfg),
		service: service,
		logger:  logging.NoOp(),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(importer)
		}
	}
	return importer
}

// ImportDirectory ingests every matching file under dir. Only discovery
// failures and cancellation return an error; bad files are collected in
// ImportResult.Errors.
func (i *Importer) ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error) {
	if i.service == nil {
		return nil, ErrArticleServiceRequired
	}
	started := i.now()

	paths, err := i.loader.Discover(ctx, dir)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Directory: cleanDir(dir), DryRun: opts.DryRun}
	runHash := sha256.New()
	logger := logging.WithSourceContext(i.logger.WithContext(ctx), result.Directory, "import")
	logger.Info("legacy.import.started", "files", len(paths), "dry_run", opts.DryRun)

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := i.loader.LoadFile(ctx, dir, p)
		if err != nil {
			logger.Warn("legacy.import.file_failed", "path", p, "error", err)
			result.Errors = append(result.Errors, FileError{Path: p, Err: err})
			continue
		}
		runHash.Write([]byte(doc.Path + ":" + doc.Checksum + "\n"))

		if err := i.importDocument(ctx, doc, opts, result); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("legacy.import.file_failed", "path", p, "slug", doc.Slug, "error", err)
			result.Errors = append(result.Errors, FileError{Path: p, Slug: doc.Slug, Err: err})
		}
	}

	result.RunID = identity.ImportRunUUID(result.Directory, hex.EncodeToString(runHash.Sum(nil)))
	result.Duration = i.now().Sub(started)
	logger.Info("legacy.import.completed",
		"run_id", result.RunID.String(),
		"created", len(result.Created),
		"updated", len(result.Updated),
		"unchanged", len(result.Unchanged),
		"normalized", len(result.Normalized),
		"failed", len(result.Errors),
		"duration", result.Duration,
	)
	return result, nil
}

func (i *Importer) importDocument(ctx context.Context, doc *Document, opts ImportOptions, result *ImportResult) error {
	if opts.DryRun {
		return i.planDocument(ctx, doc, result)
	}

	ingested, err := i.service.Ingest(ctx, articles.IngestRequest{
		Slug:     doc.Slug,
		Locale:   doc.Locale,
		Title:    doc.Title,
		Summary:  doc.FrontMatter.Summary,
		Source:   doc.Source,
		Metadata: documentMetadata(doc),
		Revision: doc.Checksum,
	})
	if err != nil {
		return err
	}
	switch ingested.Action {
	case articles.IngestCreated:
		result.Created = append(result.Created, doc.Slug)
	case articles.IngestUpdated:
		result.Updated = append(result.Updated, doc.Slug)
	default:
		result.Unchanged = append(result.Unchanged, doc.Slug)
	}

	if !opts.Normalize || ingested.Article == nil || ingested.Article.IsCanonical() {
		return nil
	}
	if _, err := i.service.Normalize(ctx, doc.Slug); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	result.Normalized = append(result.Normalized, doc.Slug)
	return nil
}

func (i *Importer) planDocument(ctx context.Context, doc *Document, result *ImportResult) error {
	existing, err := i.service.Get(ctx, doc.Slug)
	switch {
	case articles.IsNotFound(err):
		result.Created = append(result.Created, doc.Slug)
	case err != nil:
		return err
	case existing.SameRevision(articles.Checksum(doc.Source), doc.Checksum):
		result.Unchanged = append(result.Unchanged, doc.Slug)
	default:
		result.Updated = append(result.Updated, doc.Slug)
	}
	return nil
}

func documentMetadata(doc *Document) map[string]any {
	metadata := doc.FrontMatter.Metadata()
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["source_path"] = doc.Path
	metadata[articles.MetadataRevision] = doc.Checksum
	return metadata
}
