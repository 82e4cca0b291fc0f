// Package markup converts legacy article bodies written with lightweight
// markers (##, **, *, -, 1., [label](url)) into the canonical block markup
// stored by the articles module and loaded by the rich-text editor.
//
// The pipeline runs leaves-first: IsCanonical decides whether the payload
// needs work at all, TranslateInline applies the ordered inline rules,
// Structure groups lines into paragraphs and lists and Clean drops empty
// paragraphs. Normalize chains the four steps and never fails.
package markup
