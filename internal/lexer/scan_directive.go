package lexer

import (
	"strsym/internal/token"
)

func extraDirectives(extra []string) []string {
	var set []string
	for _, kw := range extra {
		if kw == "" {
			continue
		}
		set = append(set, kw)
	}
	return set
}

// scanDirective matches '#' + keyword and everything up to the first line
// terminator not preceded by '\'. Escaped terminators belong to the directive;
// the final terminator does not.
func (lx *Lexer) scanDirective() (token.Token, bool) {
	rest := lx.cursor.Rest()
	if len(rest) < 2 || rest[0] != '#' {
		return token.Token{}, false
	}
	n := token.MatchDirective(rest[1:], lx.extraDirectives)
	if n == 0 {
		return token.Token{}, false
	}

	start := lx.cursor.Mark()
	lx.cursor.Advance(1 + n)
	for !lx.cursor.EOF() {
		if lx.cursor.AtEOL() {
			break
		}
		if lx.cursor.Peek() == '\\' {
			lx.cursor.Bump()
			// "\\\n" или "\\\r\n": продолжение директивы
			if w := lx.cursor.EOLWidth(); w > 0 {
				lx.cursor.Advance(w)
			}
			continue
		}
		lx.cursor.Bump()
	}
	return lx.verbatim(start, token.RegionDirective), true
}
