package markup

import (
	"github.com/dlclark/regexp2"
)

// Rule is a single whole-text rewrite applied by the inline translator. Each
// rule replaces every non-overlapping match, scanning left to right once.
type Rule struct {
	Name        string
	pattern     *regexp2.Regexp
	replacement string
}

func newRule(name, expr, replacement string) Rule {
	return Rule{
		Name:        name,
		pattern:     regexp2.MustCompile(expr, regexp2.Multiline),
		replacement: replacement,
	}
}

// Apply runs the rule over content. A rule that cannot be evaluated leaves the
// content as it was.
func (r Rule) Apply(content string) string {
	if r.pattern == nil {
		return content
	}
	out, err := r.pattern.Replace(content, r.replacement, -1, -1)
	if err != nil {
		return content
	}
	return out
}

// Order matters: strong must consume "**" pairs before emphasis looks at
// single asterisks, and emphasis ignores any asterisk touching another one.
// Like the other rules, a link never spans a line break.
var inlineRules = []Rule{
	newRule("heading2", `^## (.+)$`, "<h2>$1</h2>"),
	newRule("heading3", `^### (.+)$`, "<h3>$1</h3>"),
	newRule("strong", `\*\*(.+?)\*\*`, "<strong>$1</strong>"),
	newRule("emphasis", `(?<!\*)\*(?!\*)(.+?)(?<!\*)\*(?!\*)`, "<em>$1</em>"),
	newRule("link", `\[([^\]\n]+)\]\(([^)\n]+)\)`, `<a href="$2">$1</a>`),
}

// InlineRules returns the ordered rule set used by TranslateInline.
func InlineRules() []Rule {
	return append([]Rule(nil), inlineRules...)
}

// TranslateInline applies every inline rule, in order, to the whole content.
// Unmatched markers stay literal.
func TranslateInline(content string) string {
	for _, rule := range inlineRules {
		content = rule.Apply(content)
	}
	return content
}
