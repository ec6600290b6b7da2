package symtab

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DeriveLabel maps literal content to prefix + uppercase word characters.
// ASCII letters are uppercased, digits and '_' are kept, and every other rune
// becomes '_'. Each byte of invalid UTF-8 becomes its own '_'.
func DeriveLabel(prefix, content string, fold bool) string {
	if fold {
		content = foldUnicode(content)
	}
	var b strings.Builder
	b.Grow(len(prefix) + len(content))
	b.WriteString(prefix)
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRuneInString(content[i:])
		i += size
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// foldUnicode decomposes content (NFKD) and drops combining marks, so that
// "café" folds to "cafe". Invalid UTF-8 is passed through untouched.
func foldUnicode(content string) string {
	if !utf8.ValidString(content) {
		return content
	}
	decomposed := norm.NFKD.String(content)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ContentLength is the length used against the threshold: runes of the raw
// interior, with every invalid byte counted as one.
func ContentLength(content string) int {
	return utf8.RuneCountInString(content)
}

// IsIdentifier reports whether s is a valid C identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
