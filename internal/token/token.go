package token

import (
	"strings"

	"strsym/internal/source"
)

// Token is one committed alternative of the region classifier.
type Token struct {
	Kind   Kind
	Region Region
	Span   source.Span
	Text   string
	// Content is the raw literal interior (escapes preserved), LiteralRef only.
	Content string
	// Label is the generated symbol name when the literal was interned.
	Label string
}

// IsInterned reports whether the literal was replaced by a label.
func (t Token) IsInterned() bool {
	return t.Kind == LiteralRef && t.Label != ""
}

// IsComment reports whether the token is a block or line comment.
func (t Token) IsComment() bool {
	return t.Region == RegionBlockComment || t.Region == RegionLineComment
}

// Output returns the text that replaces the token in the transformed unit.
// Interned literals become a bare identifier, everything else is copied.
func (t Token) Output() string {
	if t.IsInterned() {
		return t.Label
	}
	return t.Text
}

// Join concatenates the source text of tokens.
func Join(tokens []Token) string {
	var b strings.Builder
	for i := range tokens {
		b.WriteString(tokens[i].Text)
	}
	return b.String()
}
