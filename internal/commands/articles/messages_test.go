package articlescmd

import "testing"

func TestMessageTypes(t *testing.T) {
	if got := (NormalizeArticleCommand{}).Type(); got != "richtext.articles.normalize" {
		t.Fatalf("unexpected normalize type %q", got)
	}
	if got := (MigrateArticlesCommand{}).Type(); got != "richtext.articles.migrate" {
		t.Fatalf("unexpected migrate type %q", got)
	}
	if got := (ImportLegacyCommand{}).Type(); got != "richtext.legacy.import" {
		t.Fatalf("unexpected import type %q", got)
	}
}

func TestMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		msg     interface{ Validate() error }
		wantErr bool
	}{
		{name: "normalize ok", msg: NormalizeArticleCommand{Slug: "dosage"}},
		{name: "normalize blank slug", msg: NormalizeArticleCommand{Slug: "  "}, wantErr: true},
		{name: "migrate defaults", msg: MigrateArticlesCommand{}},
		{name: "migrate bounded workers", msg: MigrateArticlesCommand{Workers: 16, Slugs: []string{"a"}}},
		{name: "migrate too many workers", msg: MigrateArticlesCommand{Workers: 17}, wantErr: true},
		{name: "migrate negative workers", msg: MigrateArticlesCommand{Workers: -1}, wantErr: true},
		{name: "migrate blank slug", msg: MigrateArticlesCommand{Slugs: []string{"a", " "}}, wantErr: true},
		{name: "import ok", msg: ImportLegacyCommand{Directory: "export"}},
		{name: "import missing directory", msg: ImportLegacyCommand{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
