package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	a := UUID("go-richtext:article:en:intro")
	b := UUID("  go-richtext:article:en:intro ")
	if a == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if a != b {
		t.Fatalf("expected surrounding whitespace to be ignored: %s != %s", a, b)
	}
	if UUID("") != uuid.Nil {
		t.Fatal("expected nil uuid for blank key")
	}
}

func TestArticleUUID(t *testing.T) {
	if ArticleUUID("EN", " Intro ") != ArticleUUID("en", "intro") {
		t.Fatal("expected locale and slug to be case-folded")
	}
	if ArticleUUID("en", "intro") == ArticleUUID("es", "intro") {
		t.Fatal("expected locales to produce distinct ids")
	}
	if ArticleUUID("en", "intro") == ArticleUUID("en", "outro") {
		t.Fatal("expected slugs to produce distinct ids")
	}
	if ArticleUUID("en", " ") != uuid.Nil {
		t.Fatal("expected nil uuid for blank slug")
	}
}

func TestImportRunUUIDSeparatesNamespaces(t *testing.T) {
	if ImportRunUUID("docs", "abc") == ArticleUUID("docs", "abc") {
		t.Fatal("expected import run ids not to collide with article ids")
	}
}
