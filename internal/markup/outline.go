package markup

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// BlockKind names a top-level canonical element.
type BlockKind string

const (
	BlockHeading1      BlockKind = "h1"
	BlockHeading2      BlockKind = "h2"
	BlockHeading3      BlockKind = "h3"
	BlockHeading4      BlockKind = "h4"
	BlockHeading5      BlockKind = "h5"
	BlockHeading6      BlockKind = "h6"
	BlockParagraph     BlockKind = "p"
	BlockUnorderedList BlockKind = "ul"
	BlockOrderedList   BlockKind = "ol"
)

// IsHeading reports whether the kind is one of h1..h6.
func (k BlockKind) IsHeading() bool {
	return len(k) == 2 && k[0] == 'h' && k[1] >= '1' && k[1] <= '6'
}

// IsList reports whether the kind is an ordered or unordered list.
func (k BlockKind) IsList() bool {
	return k == BlockUnorderedList || k == BlockOrderedList
}

// Block is one top-level element of canonical markup with its flattened text.
// Lists carry one entry per item in Items and leave Text empty.
type Block struct {
	Kind  BlockKind `json:"kind"            yaml:"kind"`
	Text  string    `json:"text,omitempty"  yaml:"text,omitempty"`
	Items []string  `json:"items,omitempty" yaml:"items,omitempty"`
}

var (
	topLevelSelector = cascadia.MustCompile(
		"body > h1, body > h2, body > h3, body > h4, body > h5, body > h6, body > p, body > ul, body > ol",
	)
	listItemSelector = cascadia.MustCompile("li")
)

// Outline decodes canonical markup into its flat sequence of top-level blocks.
// Elements outside the canonical block set are skipped.
func Outline(canonical string) ([]Block, error) {
	doc, err := html.Parse(strings.NewReader(canonical))
	if err != nil {
		return nil, fmt.Errorf("markup outline: %w", err)
	}

	nodes := topLevelSelector.MatchAll(doc)
	blocks := make([]Block, 0, len(nodes))
	for _, node := range nodes {
		block := Block{Kind: BlockKind(node.Data)}
		if block.Kind.IsList() {
			for _, item := range listItemSelector.MatchAll(node) {
				block.Items = append(block.Items, textContent(item))
			}
		} else {
			block.Text = textContent(node)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// FirstHeading returns the text of the first heading block, or "".
func FirstHeading(blocks []Block) string {
	for _, block := range blocks {
		if block.Kind.IsHeading() && block.Text != "" {
			return block.Text
		}
	}
	return ""
}

// FirstParagraph returns the text of the first non-empty paragraph, or "".
func FirstParagraph(blocks []Block) string {
	for _, block := range blocks {
		if block.Kind == BlockParagraph && block.Text != "" {
			return block.Text
		}
	}
	return ""
}

func textContent(node *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.Join(strings.Fields(b.String()), " ")
}
