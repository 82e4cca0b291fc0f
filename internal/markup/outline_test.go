package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOutline(t *testing.T) {
	canonical := Normalize("## Dosage guide\nTake **one** tablet.\n\n- with water\n- after meals\n1. morning\n2. evening\n\n### Notes\nAsk a [pharmacist](/help).")

	blocks, err := Outline(canonical)
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}

	want := []Block{
		{Kind: BlockHeading2, Text: "Dosage guide"},
		{Kind: BlockParagraph, Text: "Take one tablet."},
		{Kind: BlockUnorderedList, Items: []string{"with water", "after meals"}},
		{Kind: BlockOrderedList, Items: []string{"morning", "evening"}},
		{Kind: BlockHeading3, Text: "Notes"},
		{Kind: BlockParagraph, Text: "Ask a pharmacist."},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Fatalf("Outline mismatch (-want +got):\n%s", diff)
	}

	if got := FirstHeading(blocks); got != "Dosage guide" {
		t.Fatalf("FirstHeading = %q", got)
	}
	if got := FirstParagraph(blocks); got != "Take one tablet." {
		t.Fatalf("FirstParagraph = %q", got)
	}
}

func TestOutlineSkipsNonCanonicalElements(t *testing.T) {
	blocks, err := Outline("<div>ignored</div><p>kept</p><table><tr><td>x</td></tr></table>")
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	want := []Block{{Kind: BlockParagraph, Text: "kept"}}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Fatalf("Outline mismatch (-want +got):\n%s", diff)
	}
}

func TestOutlineEmpty(t *testing.T) {
	blocks, err := Outline("")
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("expected no blocks, got %#v", blocks)
	}
	if FirstHeading(blocks) != "" || FirstParagraph(blocks) != "" {
		t.Fatal("expected empty helpers on empty outline")
	}
}

func TestBlockKindPredicates(t *testing.T) {
	for _, kind := range []BlockKind{BlockHeading1, BlockHeading2, BlockHeading3, BlockHeading6} {
		if !kind.IsHeading() || kind.IsList() {
			t.Fatalf("expected %s to be a heading", kind)
		}
	}
	for _, kind := range []BlockKind{BlockUnorderedList, BlockOrderedList} {
		if !kind.IsList() || kind.IsHeading() {
			t.Fatalf("expected %s to be a list", kind)
		}
	}
	if BlockParagraph.IsHeading() || BlockParagraph.IsList() || BlockKind("hr").IsHeading() {
		t.Fatal("unexpected predicate result for paragraph or hr")
	}
}
