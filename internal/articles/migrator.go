package articles

import (
	"cmp"
	"context"
	"runtime"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-richtext/internal/logging"
	"github.com/goliatone/go-richtext/pkg/interfaces"
)

// Worker bounds for Migrator.Run.
const (
	MinMigrationWorkers = 1
	MaxMigrationWorkers = 16
)

// MigrateOptions tunes a migration run.
type MigrateOptions struct {
	// Workers caps concurrent normalizations. Zero picks GOMAXPROCS.
	Workers int
	// DryRun lists the articles that would be normalized without writing.
	DryRun bool
	// Slugs restricts the run to these articles. Empty means all.
	Slugs []string
}

// MigrationResult summarizes a run. Slice contents are sorted by slug.
type MigrationResult struct {
	Normalized []string      `json:"normalized" yaml:"normalized"`
	Skipped    []string      `json:"skipped"    yaml:"skipped"`
	Failed     []SlugError   `json:"failed"     yaml:"failed"`
	DryRun     bool          `json:"dry_run"    yaml:"dry_run"`
	Duration   time.Duration `json:"duration"   yaml:"duration"`
}

// Migrator normalizes every legacy article in storage.
type Migrator struct {
	service Service
	logger  interfaces.Logger
	now     func() time.Time
}

// MigratorOption configures a Migrator.
type MigratorOption func(*Migrator)

// WithMigratorLogger sets the logger for run events.
func WithMigratorLogger(logger interfaces.Logger) MigratorOption {
	return func(m *Migrator) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMigratorClock overrides the clock used to time runs.
func WithMigratorClock(clock func() time.Time) MigratorOption {
	return func(m *Migrator) {
		if clock != nil {
			m.now = clock
		}
	}
}

// NewMigrator returns a Migrator driving service.
func NewMigrator(service Service, opts ...MigratorOption) *Migrator {
	m := &Migrator{
		service: service,
		logger:  logging.ArticlesLogger(nil),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run normalizes legacy articles with bounded concurrency. Articles that are
// already canonical are skipped. A failure on one article is recorded in the
// result and does not stop the others; cancelling ctx does.
func (m *Migrator) Run(ctx context.Context, opts MigrateOptions) (*MigrationResult, error) {
	started := m.now()
	result := &MigrationResult{DryRun: opts.DryRun}

	candidates, err := m.candidates(ctx, opts.Slugs, result)
	if err != nil {
		return nil, err
	}

	workers := clampWorkers(opts.Workers)
	logger := logging.WithFields(m.logger.WithContext(ctx), map[string]any{
		"action":  "migrate",
		"workers": workers,
		"dry_run": opts.DryRun,
	})
	logger.Info("migration.started", "candidates", len(candidates))

	if opts.DryRun {
		result.Normalized = candidates
	} else {
		err = m.normalizeAll(ctx, candidates, workers, result)
	}

	slices.Sort(result.Normalized)
	slices.Sort(result.Skipped)
	slices.SortFunc(result.Failed, func(a, b SlugError) int { return cmp.Compare(a.Slug, b.Slug) })
	result.Duration = m.now().Sub(started)

	logger.Info("migration.finished",
		"normalized", len(result.Normalized),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed),
		"duration", result.Duration,
	)
	return result, err
}

func (m *Migrator) candidates(ctx context.Context, only []string, result *MigrationResult) ([]string, error) {
	var wanted map[string]bool
	if len(only) > 0 {
		wanted = make(map[string]bool, len(only))
		for _, slug := range only {
			key, err := NormalizeSlug(slug)
			if err != nil {
				result.Failed = append(result.Failed, SlugError{Slug: slug, Err: err})
				continue
			}
			wanted[key] = false
		}
	}

	records, err := m.service.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, record := range records {
		if wanted != nil {
			if _, ok := wanted[record.Slug]; !ok {
				continue
			}
			wanted[record.Slug] = true
		}
		if record.IsCanonical() {
			result.Skipped = append(result.Skipped, record.Slug)
			continue
		}
		out = append(out, record.Slug)
	}

	for slug, seen := range wanted {
		if !seen {
			result.Failed = append(result.Failed, SlugError{
				Slug: slug,
				Err:  &NotFoundError{Resource: "article", Key: slug},
			})
		}
	}
	return out, nil
}

func (m *Migrator) normalizeAll(ctx context.Context, slugs []string, workers int, result *MigrationResult) error {
	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for _, slug := range slugs {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			_, err := m.service.Normalize(groupCtx, slug)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				m.logger.Warn("migration.article_failed", "slug", slug, "error", err)
				result.Failed = append(result.Failed, SlugError{Slug: slug, Err: err})
				return nil
			}
			result.Normalized = append(result.Normalized, slug)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func clampWorkers(n int) int {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return max(MinMigrationWorkers, min(n, MaxMigrationWorkers))
}
