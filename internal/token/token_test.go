package token_test

import (
	"testing"

	"strsym/internal/source"
	"strsym/internal/token"
)

func TestOutput(t *testing.T) {
	inline := token.Token{Kind: token.LiteralRef, Region: token.RegionString, Span: source.Span{Start: 0, End: 4}, Text: `"ab"`, Content: "ab"}
	if inline.IsInterned() {
		t.Fatal("literal without label must not be interned")
	}
	if inline.Output() != `"ab"` {
		t.Errorf("inline literal output = %q", inline.Output())
	}

	ref := token.Token{Kind: token.LiteralRef, Region: token.RegionString, Text: `"abcd"`, Content: "abcd", Label: "STRSYM_ABCD"}
	if !ref.IsInterned() || ref.Output() != "STRSYM_ABCD" {
		t.Errorf("interned literal output = %q", ref.Output())
	}

	// Label на Verbatim игнорируется
	v := token.Token{Kind: token.Verbatim, Region: token.RegionByte, Text: "x", Label: "BOGUS"}
	if v.Output() != "x" {
		t.Errorf("verbatim output = %q", v.Output())
	}
}

func TestJoinAndKinds(t *testing.T) {
	toks := []token.Token{
		{Kind: token.Verbatim, Region: token.RegionLineComment, Text: "// c"},
		{Kind: token.Verbatim, Region: token.RegionByte, Text: "\n"},
		{Kind: token.LiteralRef, Region: token.RegionString, Text: `"s"`, Content: "s"},
	}
	if got := token.Join(toks); got != "// c\n\"s\"" {
		t.Errorf("Join() = %q", got)
	}
	if !toks[0].IsComment() || toks[1].IsComment() {
		t.Error("IsComment() mismatch")
	}
	if token.LiteralRef.String() != "LiteralRef" || token.RegionDirective.String() != "directive" {
		t.Error("String() mismatch")
	}
}
