package token

// directives lists the recognized preprocessor keywords without '#'.
// Longer keywords precede their prefixes so the first match is the longest.
var directives = []string{
	"define",
	"error",
	"warning",
	"undef",
	"ifdef",
	"ifndef",
	"if",
	"else",
	"elif",
	"endif",
	"pragma",
}

// MatchDirective reports the length of the directive keyword src starts with
// (after the '#'), or 0. Built-in keywords match as plain prefixes, so
// "#elifdef" is an "#elif" line. Keywords from extra must not run into an
// identifier byte.
func MatchDirective(src []byte, extra []string) int {
	for _, kw := range directives {
		if hasKeyword(src, kw) {
			return len(kw)
		}
	}
	for _, kw := range extra {
		if kw == "" || !hasKeyword(src, kw) {
			continue
		}
		if len(src) > len(kw) && isIdentByte(src[len(kw)]) {
			continue
		}
		return len(kw)
	}
	return 0
}

func hasKeyword(src []byte, kw string) bool {
	return len(src) >= len(kw) && string(src[:len(kw)]) == kw
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
