package markup

import (
	"regexp"
	"strings"
)

var (
	numberedItemPattern = regexp.MustCompile(`^[0-9]+\. `)
	blockTagPattern     = regexp.MustCompile(`^<h[1-6][\s>]`)
)

// ListState tracks which list, if any, is open while lines are structured.
type ListState uint8

const (
	NoList ListState = iota
	InUnorderedList
	InOrderedList
)

// String renders the state name used in logs and test output.
func (s ListState) String() string {
	switch s {
	case InUnorderedList:
		return "unordered"
	case InOrderedList:
		return "ordered"
	default:
		return "none"
	}
}

func (s ListState) openTag() string {
	switch s {
	case InUnorderedList:
		return "<ul>"
	case InOrderedList:
		return "<ol>"
	default:
		return ""
	}
}

func (s ListState) closeTag() string {
	switch s {
	case InUnorderedList:
		return "</ul>"
	case InOrderedList:
		return "</ol>"
	default:
		return ""
	}
}

// LineKind is the structural class of a translated line.
type LineKind uint8

const (
	LineBlank LineKind = iota
	LineBullet
	LineNumbered
	LineBlockTag
	LineText
)

// String renders the kind name used in test output.
func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineBullet:
		return "bullet"
	case LineNumbered:
		return "numbered"
	case LineBlockTag:
		return "block_tag"
	default:
		return "text"
	}
}

// Line is a trimmed, classified line. For list items Text excludes the marker.
type Line struct {
	Kind LineKind
	Text string
}

// ClassifyLine trims raw and decides how the structurer treats it.
func ClassifyLine(raw string) Line {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return Line{Kind: LineBlank}
	case strings.HasPrefix(trimmed, "- "):
		return Line{Kind: LineBullet, Text: trimmed[2:]}
	}
	if marker := numberedItemPattern.FindString(trimmed); marker != "" {
		return Line{Kind: LineNumbered, Text: trimmed[len(marker):]}
	}
	if blockTagPattern.MatchString(trimmed) {
		return Line{Kind: LineBlockTag, Text: trimmed}
	}
	return Line{Kind: LineText, Text: trimmed}
}

// Step is the structurer's transition function. It returns the next list state
// and the fragments to append to the output, in order.
//
// Only blank lines and list-type switches close a list; headings and plain
// text pass through without touching the current state.
func Step(state ListState, line Line) (ListState, []string) {
	switch line.Kind {
	case LineBlank:
		if state == NoList {
			return NoList, nil
		}
		return NoList, []string{state.closeTag() + "\n"}
	case LineBullet:
		return enterList(state, InUnorderedList, line.Text)
	case LineNumbered:
		return enterList(state, InOrderedList, line.Text)
	case LineBlockTag:
		return state, []string{line.Text + "\n"}
	default:
		return state, []string{wrapParagraph(line.Text) + "\n"}
	}
}

// Flush closes the list left open at end of input. The final close carries no
// trailing line break.
func Flush(state ListState) string {
	return state.closeTag()
}

// Structure groups translated content into paragraphs and lists, one line at
// a time, without lookahead.
func Structure(content string) string {
	var out strings.Builder
	out.Grow(len(content) + len(content)/4)

	state := NoList
	for _, raw := range strings.Split(content, "\n") {
		var fragments []string
		state, fragments = Step(state, ClassifyLine(raw))
		for _, fragment := range fragments {
			out.WriteString(fragment)
		}
	}
	out.WriteString(Flush(state))
	return out.String()
}

func enterList(state, target ListState, text string) (ListState, []string) {
	fragments := make([]string, 0, 3)
	if state != target {
		if state != NoList {
			fragments = append(fragments, state.closeTag()+"\n")
		}
		fragments = append(fragments, target.openTag())
	}
	fragments = append(fragments, "<li><p>"+text+"</p></li>")
	return target, fragments
}

func wrapParagraph(text string) string {
	if strings.HasPrefix(text, "<p>") && strings.HasSuffix(text, "</p>") {
		return text
	}
	return "<p>" + text + "</p>"
}
