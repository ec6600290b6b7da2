package lexer

import (
	"bytes"

	"strsym/internal/diag"
	"strsym/internal/token"
)

// scanBlockComment matches "/*" through the first "*/". Comments do not nest.
// An unterminated comment runs to the end of input.
func (lx *Lexer) scanBlockComment() (token.Token, bool) {
	if !lx.cursor.HasPrefix("/*") {
		return token.Token{}, false
	}
	start := lx.cursor.Mark()
	lx.cursor.Advance(2)

	end := bytes.Index(lx.cursor.Rest(), []byte("*/"))
	if end < 0 {
		lx.cursor.Advance(len(lx.cursor.Rest()))
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnterminatedBlockComment, diag.SevInfo, sp, "unterminated block comment runs to end of input")
		return lx.verbatim(start, token.RegionBlockComment), true
	}
	lx.cursor.Advance(end + 2)
	return lx.verbatim(start, token.RegionBlockComment), true
}

// scanLineComment matches "//" up to, not including, the line terminator.
func (lx *Lexer) scanLineComment() (token.Token, bool) {
	if !lx.cursor.HasPrefix("//") {
		return token.Token{}, false
	}
	start := lx.cursor.Mark()
	lx.cursor.Advance(2)
	for !lx.cursor.EOF() && !lx.cursor.AtEOL() {
		lx.cursor.Bump()
	}
	return lx.verbatim(start, token.RegionLineComment), true
}
