package lexer

import (
	"strsym/internal/source"
	"strsym/internal/token"
)

// Lexer classifies lexical regions of C-like text. At every position it tries,
// in order, a block comment, a line comment, a directive, a string literal and
// finally a single byte, committing to the first alternative that matches.
type Lexer struct {
	file            *source.File
	cursor          Cursor
	opts            Options
	extraDirectives []string
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:            file,
		cursor:          NewCursor(file),
		opts:            opts,
		extraDirectives: extraDirectives(opts.ExtraDirectives),
	}
}

// Next returns the next committed token. After the input is exhausted it
// always returns an EOF token.
func (lx *Lexer) Next() token.Token {
	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
		}
	}

	// Альтернативы различаются первым байтом, поэтому порядок проверки
	// совпадает с порядком приоритетов грамматики.
	switch lx.cursor.Peek() {
	case '/':
		if tok, ok := lx.scanBlockComment(); ok {
			return tok
		}
		if tok, ok := lx.scanLineComment(); ok {
			return tok
		}
	case '#':
		if tok, ok := lx.scanDirective(); ok {
			return tok
		}
	case '"':
		if tok, ok := lx.scanString(); ok {
			return tok
		}
	}
	return lx.scanByte()
}

// All drains the lexer and returns every token except the final EOF.
func (lx *Lexer) All() []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// Classify is a shortcut for New(file, opts).All().
func Classify(file *source.File, opts Options) []token.Token {
	return New(file, opts).All()
}

func (lx *Lexer) scanByte() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	return lx.verbatim(start, token.RegionByte)
}

func (lx *Lexer) verbatim(start Mark, region token.Region) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind:   token.Verbatim,
		Region: region,
		Span:   sp,
		Text:   lx.text(sp),
	}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
