package lexer

import (
	"strsym/internal/diag"
	"strsym/internal/source"
	"strsym/internal/token"
)

type literalFailure uint8

const (
	literalOK literalFailure = iota
	literalEOF
	literalNewline
)

// scanLiteralInterior consumes bytes after an opening '"' until an unescaped
// '"'. A backslash takes the next byte, whatever it is, into the literal.
// An unescaped '\n' or '\r' ends the attempt. On success the cursor is left
// after the closing quote and the raw interior is returned.
func (lx *Lexer) scanLiteralInterior() ([]byte, literalFailure) {
	from := lx.cursor.Off
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			interior := lx.file.Content[from:lx.cursor.Off]
			lx.cursor.Bump()
			return interior, literalOK
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				return nil, literalEOF
			}
			lx.cursor.Bump()
		case '\n', '\r':
			return nil, literalNewline
		default:
			lx.cursor.Bump()
		}
	}
	return nil, literalEOF
}

// scanString matches a complete double-quoted literal and passes its content
// to the interner. When the literal is malformed the cursor is restored to the
// opening quote and false is returned, so the quote falls through to the
// single-byte alternative.
func (lx *Lexer) scanString() (token.Token, bool) {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat('"') {
		return token.Token{}, false
	}

	interior, failure := lx.scanLiteralInterior()
	if failure != literalOK {
		sp := lx.cursor.SpanFrom(start)
		lx.cursor.Reset(start)
		lx.reportMalformed(sp, failure)
		return token.Token{}, false
	}

	sp := lx.cursor.SpanFrom(start)
	content := string(interior)
	tok := token.Token{
		Kind:    token.LiteralRef,
		Region:  token.RegionString,
		Span:    sp,
		Text:    lx.text(sp),
		Content: content,
	}
	if lx.opts.Interner != nil {
		tok.Label = lx.opts.Interner.Intern(content, sp)
	}
	return tok, true
}

func (lx *Lexer) reportMalformed(sp source.Span, failure literalFailure) {
	sev := diag.SevError
	if lx.opts.Mode == LiteralLenient {
		sev = diag.SevWarning
	}
	msg := "unterminated string literal"
	if failure == literalNewline {
		msg = "newline in string literal"
	}
	if lx.opts.Mode == LiteralLenient {
		msg += "; quote kept as an ordinary character"
	}
	lx.report(diag.LexMalformedLiteral, sev, sp, msg)
}
