package emit

import (
	"bytes"
	"errors"
	"fmt"

	"strsym/internal/symtab"
	"strsym/internal/token"
)

// ErrUndefinedLabel is returned by Restore for a token whose label is missing
// from the table.
var ErrUndefinedLabel = errors.New("undefined label")

type Options struct {
	// Header prepends a one-line comment with the number of symbols.
	Header bool
}

// Render writes the definitions of table in table order followed by every
// token's output text.
func Render(table *symtab.Table, tokens []token.Token, opts Options) []byte {
	var buf bytes.Buffer
	buf.Grow(estimate(table, tokens))
	if opts.Header {
		fmt.Fprintf(&buf, "/* generated by strsym; %d symbols */\n", table.Len())
	}
	WriteDefinitions(&buf, table)
	for i := range tokens {
		buf.WriteString(tokens[i].Output())
	}
	return buf.Bytes()
}

// WriteDefinitions writes one two-line definition per entry:
//
//	#define LABEL \
//	"content"
func WriteDefinitions(buf *bytes.Buffer, table *symtab.Table) {
	for _, e := range table.Entries() {
		buf.WriteString("#define ")
		buf.WriteString(e.Label)
		buf.WriteString(" \\\n\"")
		buf.WriteString(e.Content)
		buf.WriteString("\"\n")
	}
}

// Restore reverses Render's substitutions: every interned token is looked up
// in table by its label and written back as a quoted literal. The result
// equals the source text only when no label was redefined, so an overwrite
// collision shows up as a difference.
func Restore(table *symtab.Table, tokens []token.Token) ([]byte, error) {
	var buf bytes.Buffer
	for i := range tokens {
		tok := &tokens[i]
		if !tok.IsInterned() {
			buf.WriteString(tok.Text)
			continue
		}
		content, ok := table.Lookup(tok.Output())
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedLabel, tok.Label)
		}
		buf.WriteByte('"')
		buf.WriteString(content)
		buf.WriteByte('"')
	}
	return buf.Bytes(), nil
}

func estimate(table *symtab.Table, tokens []token.Token) int {
	n := 0
	for _, e := range table.Entries() {
		n += len(e.Label) + len(e.Content) + 14
	}
	for i := range tokens {
		n += len(tokens[i].Output())
	}
	return n
}
