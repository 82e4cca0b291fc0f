package legacy_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-richtext/internal/articles"
	"github.com/goliatone/go-richtext/internal/legacy"
	"github.com/goliatone/go-richtext/pkg/testsupport"
)

var exportTree = map[string]string{
	"export/dosage.txt":        "---\nslug: dosage\ntitle: Dosage\ntags: [health]\n---\n## Dosage\n- one tablet\n- with water",
	"export/welcome.txt":       "Welcome **reader**",
	"export/already.txt":       "<p>Already canonical</p>",
	"export/broken.txt":        "---\nlocale: spanish\n---\nHola",
	"export/nested/deeper.txt": "Nested",
}

func newImporter(t *testing.T, root string, cfg legacy.LoaderConfig) (*legacy.Importer, articles.Service) {
	t.Helper()
	svc := articles.NewService(articles.NewMemoryRepository())
	return legacy.NewImporter(os.DirFS(root), svc, cfg), svc
}

func TestImportDirectoryCreatesArticles(t *testing.T) {
	root := testsupport.WriteTree(t, exportTree)
	importer, svc := newImporter(t, root, legacy.LoaderConfig{})
	ctx := context.Background()

	result, err := importer.ImportDirectory(ctx, "export", legacy.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if diff := cmp.Diff([]string{"already", "dosage", "welcome"}, result.Created); diff != "" {
		t.Fatalf("created mismatch (-want +got):\n%s", diff)
	}
	if len(result.Errors) != 1 || result.Errors[0].Path != "export/broken.txt" {
		t.Fatalf("expected broken.txt to fail, got %+v", result.Errors)
	}
	if !errors.Is(result.Errors[0], legacy.ErrMetadataInvalid) {
		t.Fatalf("expected metadata error, got %v", result.Errors[0].Err)
	}
	if result.Total() != 4 {
		t.Fatalf("expected 4 files processed, got %d", result.Total())
	}

	dosage, err := svc.Get(ctx, "dosage")
	if err != nil {
		t.Fatalf("get dosage: %v", err)
	}
	if dosage.Title != "Dosage" || dosage.Format != articles.FormatLegacy {
		t.Fatalf("unexpected dosage article %+v", dosage)
	}
	if dosage.Metadata["source_path"] != "export/dosage.txt" {
		t.Fatalf("expected source path metadata, got %#v", dosage.Metadata)
	}
	if diff := cmp.Diff([]any{"health"}, dosage.Metadata["tags"]); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}

	already, err := svc.Get(ctx, "already")
	if err != nil {
		t.Fatalf("get already: %v", err)
	}
	if !already.IsCanonical() || already.Body != "<p>Already canonical</p>" {
		t.Fatalf("expected canonical payload stored as body, got %+v", already)
	}
}

func TestImportDirectoryIsRepeatable(t *testing.T) {
	root := testsupport.WriteTree(t, map[string]string{
		"a.txt": "Alpha",
		"b.txt": "Beta",
	})
	importer, _ := newImporter(t, root, legacy.LoaderConfig{})
	ctx := context.Background()

	first, err := importer.ImportDirectory(ctx, ".", legacy.ImportOptions{})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	second, err := importer.ImportDirectory(ctx, ".", legacy.ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(second.Created) != 0 || len(second.Updated) != 0 {
		t.Fatalf("expected nothing to change, got %+v", second)
	}
	if diff := cmp.Diff([]string{"a", "b"}, second.Unchanged); diff != "" {
		t.Fatalf("unchanged mismatch (-want +got):\n%s", diff)
	}
	if first.RunID != second.RunID {
		t.Fatalf("expected identical run ids for identical input, got %s and %s", first.RunID, second.RunID)
	}

	if err := os.WriteFile(filepath.Join(root, "b.txt"), []byte("Beta, revised"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	third, err := importer.ImportDirectory(ctx, ".", legacy.ImportOptions{})
	if err != nil {
		t.Fatalf("third import: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, third.Updated); diff != "" {
		t.Fatalf("updated mismatch (-want +got):\n%s", diff)
	}
	if third.RunID == first.RunID {
		t.Fatal("expected a new run id once the content changed")
	}
}

func TestImportDirectoryAppliesFrontMatterChanges(t *testing.T) {
	root := testsupport.WriteTree(t, map[string]string{
		"guide.txt": "---\ntitle: Guide\nsummary: First summary\n---\nBody text",
	})
	importer, svc := newImporter(t, root, legacy.LoaderConfig{})
	ctx := context.Background()

	if _, err := importer.ImportDirectory(ctx, ".", legacy.ImportOptions{}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	guide, err := svc.Get(ctx, "guide")
	if err != nil {
		t.Fatalf("get guide: %v", err)
	}
	if guide.Summary != "First summary" {
		t.Fatalf("expected front matter summary, got %q", guide.Summary)
	}

	revised := "---\ntitle: Guide v2\nsummary: Second summary\ntags: [docs]\n---\nBody text"
	if err := os.WriteFile(filepath.Join(root, "guide.txt"), []byte(revised), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	plan, err := importer.ImportDirectory(ctx, ".", legacy.ImportOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if diff := cmp.Diff([]string{"guide"}, plan.Updated); diff != "" {
		t.Fatalf("planned updates mismatch (-want +got):\n%s", diff)
	}

	result, err := importer.ImportDirectory(ctx, ".", legacy.ImportOptions{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if diff := cmp.Diff([]string{"guide"}, result.Updated); diff != "" {
		t.Fatalf("updated mismatch (-want +got):\n%s", diff)
	}

	guide, err = svc.Get(ctx, "guide")
	if err != nil {
		t.Fatalf("get guide: %v", err)
	}
	if guide.Title != "Guide v2" || guide.Summary != "Second summary" {
		t.Fatalf("expected front matter changes applied, got title=%q summary=%q", guide.Title, guide.Summary)
	}
	if diff := cmp.Diff([]any{"docs"}, guide.Metadata["tags"]); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestImportDirectoryNormalizes(t *testing.T) {
	root := testsupport.WriteTree(t, exportTree)
	importer, svc := newImporter(t, root, legacy.LoaderConfig{Recursive: true})
	ctx := context.Background()

	result, err := importer.ImportDirectory(ctx, "export", legacy.ImportOptions{Normalize: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if diff := cmp.Diff([]string{"dosage", "nested-deeper", "welcome"}, result.Normalized, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("normalized mismatch (-want +got):\n%s", diff)
	}

	dosage, err := svc.Get(ctx, "dosage")
	if err != nil {
		t.Fatalf("get dosage: %v", err)
	}
	want := "<h2>Dosage</h2>\n<ul><li><p>one tablet</p></li><li><p>with water</p></li></ul>"
	if dosage.Body != want || !dosage.IsCanonical() {
		t.Fatalf("unexpected normalized body %q", dosage.Body)
	}
}

func TestImportDirectoryDryRun(t *testing.T) {
	root := testsupport.WriteTree(t, map[string]string{
		"keep.txt": "Keep",
		"edit.txt": "Edited",
		"new.txt":  "New",
	})
	importer, svc := newImporter(t, root, legacy.LoaderConfig{})
	ctx := context.Background()

	for slug, source := range map[string]string{"keep": "Keep", "edit": "Original"} {
		req := articles.IngestRequest{Slug: slug, Source: source, Revision: articles.Checksum(source)}
		if _, err := svc.Ingest(ctx, req); err != nil {
			t.Fatalf("seed %s: %v", slug, err)
		}
	}

	result, err := importer.ImportDirectory(ctx, ".", legacy.ImportOptions{DryRun: true, Normalize: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	got := struct{ Created, Updated, Unchanged, Normalized []string }{
		result.Created, result.Updated, result.Unchanged, result.Normalized,
	}
	want := struct{ Created, Updated, Unchanged, Normalized []string }{
		Created:   []string{"new"},
		Updated:   []string{"edit"},
		Unchanged: []string{"keep"},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("dry run plan mismatch (-want +got):\n%s", diff)
	}
	if !result.DryRun {
		t.Fatal("expected result to be flagged as dry run")
	}

	if _, err := svc.Get(ctx, "new"); !articles.IsNotFound(err) {
		t.Fatalf("dry run must not create articles, got %v", err)
	}
	edit, err := svc.Get(ctx, "edit")
	if err != nil {
		t.Fatalf("get edit: %v", err)
	}
	if edit.Source != "Original" {
		t.Fatalf("dry run must not update articles, got %q", edit.Source)
	}
}

func TestImportDirectoryCancellation(t *testing.T) {
	root := testsupport.WriteTree(t, map[string]string{"a.txt": "Alpha"})
	importer, _ := newImporter(t, root, legacy.LoaderConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := importer.ImportDirectory(ctx, ".", legacy.ImportOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestImportDirectoryRequiresService(t *testing.T) {
	importer := legacy.NewImporter(os.DirFS(t.TempDir()), nil, legacy.LoaderConfig{})
	if _, err := importer.ImportDirectory(context.Background(), ".", legacy.ImportOptions{}); !errors.Is(err, legacy.ErrArticleServiceRequired) {
		t.Fatalf("expected ErrArticleServiceRequired, got %v", err)
	}
}

func TestImportDirectoryReportsDuration(t *testing.T) {
	root := testsupport.WriteTree(t, map[string]string{"a.txt": "Alpha"})
	svc := articles.NewService(articles.NewMemoryRepository())
	ticks := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 2, 0, time.UTC),
	}
	importer := legacy.NewImporter(os.DirFS(root), svc, legacy.LoaderConfig{}, legacy.WithImporterClock(func() time.Time {
		now := ticks[0]
		if len(ticks) > 1 {
			ticks = ticks[1:]
		}
		return now
	}))

	result, err := importer.ImportDirectory(context.Background(), ".", legacy.ImportOptions{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Duration != 2*time.Second {
		t.Fatalf("expected 2s duration, got %s", result.Duration)
	}
}
