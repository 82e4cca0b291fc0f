package articlescmd

import (
	"context"
	"errors"
	"os"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-richtext/internal/articles"
	"github.com/goliatone/go-richtext/internal/legacy"
	"github.com/goliatone/go-richtext/pkg/testsupport"
)

func seededService(t *testing.T, sources map[string]string) articles.Service {
	t.Helper()
	svc := articles.NewService(articles.NewMemoryRepository())
	for slug, source := range sources {
		if _, err := svc.Ingest(context.Background(), articles.IngestRequest{Slug: slug, Source: source}); err != nil {
			t.Fatalf("seed %s: %v", slug, err)
		}
	}
	return svc
}

func TestNormalizeArticleHandler(t *testing.T) {
	svc := seededService(t, map[string]string{"dosage": "## Dosage\nTake **one**."})

	var observed *articles.Article
	handler := NewNormalizeArticleHandler(svc, nil, func(a *articles.Article) { observed = a })

	if err := handler.Execute(context.Background(), NormalizeArticleCommand{Slug: " dosage "}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if observed == nil || observed.Body != "<h2>Dosage</h2>\n<p>Take <strong>one</strong>.</p>" {
		t.Fatalf("unexpected observed article %+v", observed)
	}
}

func TestNormalizeArticleHandlerMissingArticle(t *testing.T) {
	handler := NewNormalizeArticleHandler(seededService(t, nil), nil, nil)

	err := handler.Execute(context.Background(), NormalizeArticleCommand{Slug: "missing"})
	if !articles.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestNormalizeArticleHandlerValidation(t *testing.T) {
	handler := NewNormalizeArticleHandler(seededService(t, nil), nil, nil)

	err := handler.Execute(context.Background(), NormalizeArticleCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

type stubRunner struct {
	calls  []articles.MigrateOptions
	result *articles.MigrationResult
	err    error
}

func (s *stubRunner) Run(_ context.Context, opts articles.MigrateOptions) (*articles.MigrationResult, error) {
	s.calls = append(s.calls, opts)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestMigrateArticlesHandlerForwardsOptions(t *testing.T) {
	runner := &stubRunner{result: &articles.MigrationResult{
		Normalized: []string{"a"},
		Failed:     []articles.SlugError{{Slug: "b", Err: errors.New("boom")}},
	}}
	var observed *articles.MigrationResult
	handler := NewMigrateArticlesHandler(runner, nil, FeatureGates{}, func(r *articles.MigrationResult) { observed = r })

	msg := MigrateArticlesCommand{Workers: 4, DryRun: true, Slugs: []string{"a", "b"}}
	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := []articles.MigrateOptions{{Workers: 4, DryRun: true, Slugs: []string{"a", "b"}}}
	if diff := cmp.Diff(want, runner.calls); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if observed != runner.result {
		t.Fatal("expected observer to receive the run result")
	}
}

func TestMigrateArticlesHandlerRespectsFeatureGate(t *testing.T) {
	runner := &stubRunner{result: &articles.MigrationResult{}}
	gates := FeatureGates{MigrationEnabled: func() bool { return false }}
	handler := NewMigrateArticlesHandler(runner, nil, gates, nil)

	err := handler.Execute(context.Background(), MigrateArticlesCommand{})
	if !errors.Is(err, ErrMigrationDisabled) {
		t.Fatalf("expected ErrMigrationDisabled, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Fatal("expected runner not to be invoked")
	}
}

func TestMigrateArticlesHandlerCron(t *testing.T) {
	svc := seededService(t, map[string]string{"a": "Alpha", "b": "Beta"})
	migrator := articles.NewMigrator(svc)
	handler := NewMigrateArticlesHandler(migrator, nil, FeatureGates{}, nil)

	if got := handler.CronOptions().Expression; got != "@hourly" {
		t.Fatalf("expected default hourly schedule, got %q", got)
	}
	handler.SetCron("@every 10m", MigrateArticlesCommand{Slugs: []string{"a"}})
	if got := handler.CronOptions().Expression; got != "@every 10m" {
		t.Fatalf("expected overridden schedule, got %q", got)
	}

	if err := handler.CronHandler()(); err != nil {
		t.Fatalf("cron run: %v", err)
	}
	a, err := svc.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	b, err := svc.Get(context.Background(), "b")
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if !a.IsCanonical() || b.IsCanonical() {
		t.Fatalf("expected only a to be migrated, got a=%s b=%s", a.Format, b.Format)
	}
}

func TestImportLegacyHandler(t *testing.T) {
	root := testsupport.WriteTree(t, map[string]string{
		"export/a.txt": "Alpha",
		"export/b.txt": "- one\n- two",
	})
	svc := seededService(t, nil)
	importer := legacy.NewImporter(os.DirFS(root), svc, legacy.LoaderConfig{})

	var observed *legacy.ImportResult
	handler := NewImportLegacyHandler(importer, nil, FeatureGates{}, func(r *legacy.ImportResult) { observed = r })

	if err := handler.Execute(context.Background(), ImportLegacyCommand{Directory: "export", Normalize: true}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if observed == nil {
		t.Fatal("expected observer to receive the import result")
	}
	if diff := cmp.Diff([]string{"a", "b"}, observed.Normalized); diff != "" {
		t.Fatalf("normalized mismatch (-want +got):\n%s", diff)
	}
	b, err := svc.Get(context.Background(), "b")
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if b.Body != "<ul><li><p>one</p></li><li><p>two</p></li></ul>" {
		t.Fatalf("unexpected body %q", b.Body)
	}
}

func TestImportLegacyHandlerRespectsFeatureGate(t *testing.T) {
	gates := FeatureGates{LegacyImportEnabled: func() bool { return false }}
	handler := NewImportLegacyHandler(legacy.NewImporter(os.DirFS(t.TempDir()), seededService(t, nil), legacy.LoaderConfig{}), nil, gates, nil)

	err := handler.Execute(context.Background(), ImportLegacyCommand{Directory: "."})
	if !errors.Is(err, ErrLegacyImportDisabled) {
		t.Fatalf("expected ErrLegacyImportDisabled, got %v", err)
	}
}
