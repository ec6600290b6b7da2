package lexer

import (
	"fmt"
	"strings"

	"strsym/internal/diag"
	"strsym/internal/source"
)

// LiteralMode selects what happens to a '"' that does not open a well-formed literal.
type LiteralMode uint8

const (
	// LiteralStrict reports an error; the driver then refuses to emit output.
	LiteralStrict LiteralMode = iota
	// LiteralLenient reports a warning and keeps the quote as an ordinary byte.
	LiteralLenient
)

func (m LiteralMode) String() string {
	if m == LiteralLenient {
		return "lenient"
	}
	return "strict"
}

// ParseLiteralMode converts a config or flag value to a LiteralMode.
func ParseLiteralMode(s string) (LiteralMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return LiteralStrict, nil
	case "lenient":
		return LiteralLenient, nil
	default:
		return LiteralStrict, fmt.Errorf("invalid literal mode: %q (expected: strict|lenient)", s)
	}
}

// Interner decides the fate of a well-formed literal. It returns the label
// that replaces the literal, or "" to keep the literal inline.
type Interner interface {
	Intern(content string, span source.Span) string
}

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда диагностики теряются, сканирование продолжается
	Interner Interner      // nil keeps every literal inline
	Mode     LiteralMode
	// ExtraDirectives extends the built-in directive keywords (without '#').
	ExtraDirectives []string
}

func (lx *Lexer) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, sev, sp, msg, nil)
	}
}
