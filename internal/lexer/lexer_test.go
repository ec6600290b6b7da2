package lexer_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"strsym/internal/diag"
	"strsym/internal/lexer"
	"strsym/internal/source"
	"strsym/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
	})
}

func (r *testReporter) count(sev diag.Severity) int {
	n := 0
	for _, d := range r.diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// mapInterner интернирует всё, что длиннее порога, под меткой L<n>.
type mapInterner struct {
	min    int
	labels map[string]string
	calls  []string
}

func (m *mapInterner) Intern(content string, _ source.Span) string {
	m.calls = append(m.calls, content)
	if len(content) < m.min {
		return ""
	}
	if m.labels == nil {
		m.labels = make(map[string]string)
	}
	if l, ok := m.labels[content]; ok {
		return l
	}
	l := fmt.Sprintf("L%d", len(m.labels)+1)
	m.labels[content] = l
	return l
}

func classify(t *testing.T, input string, opts lexer.Options) ([]token.Token, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.c", []byte(input)))
	rep := &testReporter{}
	if opts.Reporter == nil {
		opts.Reporter = rep
	}
	return lexer.Classify(file, opts), rep
}

type piece struct {
	Region string
	Text   string
}

func pieces(tokens []token.Token) []piece {
	out := make([]piece, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, piece{Region: tok.Region.String(), Text: tok.Text})
	}
	return out
}

// merged склеивает соседние одиночные байты, чтобы ожидания были читаемыми.
func merged(tokens []token.Token) []piece {
	var out []piece
	for _, p := range pieces(tokens) {
		if p.Region == "byte" && len(out) > 0 && out[len(out)-1].Region == "byte" {
			out[len(out)-1].Text += p.Text
			continue
		}
		out = append(out, p)
	}
	return out
}

func TestClassifyRegions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []piece
	}{
		{
			name:  "block comment hides quotes",
			input: `a /* "not a literal" */ b`,
			want: []piece{
				{"byte", "a "},
				{"block-comment", `/* "not a literal" */`},
				{"byte", " b"},
			},
		},
		{
			name:  "block comments do not nest",
			input: "/* a /* b */ c */",
			want: []piece{
				{"block-comment", "/* a /* b */"},
				{"byte", " c */"},
			},
		},
		{
			name:  "line comment excludes terminator",
			input: "x // \"q\"\r\ny",
			want: []piece{
				{"byte", "x "},
				{"line-comment", `// "q"`},
				{"byte", "\r\ny"},
			},
		},
		{
			name:  "directive with continuation",
			input: "#define MSG \\\n  \"hello\"\nint x;",
			want: []piece{
				{"directive", "#define MSG \\\n  \"hello\""},
				{"byte", "\nint x;"},
			},
		},
		{
			name:  "directive with crlf continuation",
			input: "#define A \\\r\n 1\r\nz",
			want: []piece{
				{"directive", "#define A \\\r\n 1"},
				{"byte", "\r\nz"},
			},
		},
		{
			name:  "include is not a directive",
			input: `#include "stdio.h"`,
			want: []piece{
				{"byte", "#include "},
				{"string", `"stdio.h"`},
			},
		},
		{
			name:  "keyword is a prefix",
			input: "#iffy",
			want:  []piece{{"directive", "#iffy"}},
		},
		{
			name:  "elifdef keeps its literal",
			input: "#elifdef FOO \"abcdef\"\n",
			want: []piece{
				{"directive", `#elifdef FOO "abcdef"`},
				{"byte", "\n"},
			},
		},
		{
			name:  "directive to end of input",
			input: "#pragma once",
			want:  []piece{{"directive", "#pragma once"}},
		},
		{
			name:  "escaped quote stays inside literal",
			input: `s = "a\"b";`,
			want: []piece{
				{"byte", "s = "},
				{"string", `"a\"b"`},
				{"byte", ";"},
			},
		},
		{
			name:  "empty literal",
			input: `""`,
			want:  []piece{{"string", `""`}},
		},
		{
			name:  "single slash is a byte",
			input: "a/b",
			want:  []piece{{"byte", "a/b"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, _ := classify(t, tt.input, lexer.Options{})
			if diff := cmp.Diff(tt.want, merged(tokens)); diff != "" {
				t.Errorf("regions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"int main() { return 0; }\n",
		"/* unterminated",
		"\"unterminated",
		"\"line\nbreak\"",
		"#define X \\\n\"abc\"\n// c \"d\"\r\nputs(\"hi\\n\");",
		"\xff\xfe\"\xc3\xa9t\xc3\xa9\"",
		"\"trailing backslash\\",
	}
	for _, in := range inputs {
		tokens, _ := classify(t, in, lexer.Options{Mode: lexer.LiteralLenient})
		if got := token.Join(tokens); got != in {
			t.Errorf("Join(Classify(%q)) = %q", in, got)
		}
		var prev uint32
		for _, tok := range tokens {
			if tok.Span.Start != prev || tok.Span.End <= tok.Span.Start {
				t.Fatalf("tokens of %q are not contiguous at %s", in, tok.Span)
			}
			prev = tok.Span.End
		}
	}
}

func TestLiteralContentAndLabels(t *testing.T) {
	in := &mapInterner{min: 4}
	tokens, _ := classify(t, `f("hi", "hello", "hello", "a\\n");`, lexer.Options{Interner: in})

	var got [][3]string
	for _, tok := range tokens {
		if tok.Kind != token.LiteralRef {
			continue
		}
		got = append(got, [3]string{tok.Text, tok.Content, tok.Label})
	}
	want := [][3]string{
		{`"hi"`, "hi", ""},
		{`"hello"`, "hello", "L1"},
		{`"hello"`, "hello", "L1"},
		{`"a\\n"`, `a\\n`, "L2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("literals mismatch (-want +got):\n%s", diff)
	}
	if len(in.calls) != 4 {
		t.Errorf("interner called %d times, want 4", len(in.calls))
	}
}

func TestLiteralsInsideCommentsAreNotInterned(t *testing.T) {
	in := &mapInterner{min: 0}
	classify(t, "/* \"one\" */ // \"two\"\n#error \"three\"\n", lexer.Options{Interner: in})
	if len(in.calls) != 0 {
		t.Errorf("interner saw %q, want nothing", in.calls)
	}
}

func TestMalformedLiteralStrict(t *testing.T) {
	tokens, rep := classify(t, "x = \"abc\ny;", lexer.Options{})
	if rep.count(diag.SevError) != 1 {
		t.Fatalf("want one error, got %+v", rep.diagnostics)
	}
	d := rep.diagnostics[0]
	if d.Code != diag.LexMalformedLiteral {
		t.Errorf("code = %s, want %s", d.Code.ID(), diag.LexMalformedLiteral.ID())
	}
	if d.Message != "newline in string literal" {
		t.Errorf("message = %q", d.Message)
	}
	if d.Primary.Start != 4 {
		t.Errorf("primary starts at %d, want 4", d.Primary.Start)
	}
	// кавычка уходит как обычный байт, сканирование продолжается
	if tokens[4].Region != token.RegionByte || tokens[4].Text != `"` {
		t.Errorf("token 4 = %+v, want the quote as a byte", tokens[4])
	}
	for _, tok := range tokens {
		if tok.Kind == token.LiteralRef {
			t.Errorf("unexpected literal %q", tok.Text)
		}
	}
}

func TestMalformedLiteralLenient(t *testing.T) {
	_, rep := classify(t, `say("oops`, lexer.Options{Mode: lexer.LiteralLenient})
	if rep.count(diag.SevError) != 0 || rep.count(diag.SevWarning) != 1 {
		t.Fatalf("want exactly one warning, got %+v", rep.diagnostics)
	}
	if got := rep.diagnostics[0].Message; got != "unterminated string literal; quote kept as an ordinary character" {
		t.Errorf("message = %q", got)
	}
}

func TestQuoteAfterFailureStartsNewLiteral(t *testing.T) {
	// первая кавычка не закрыта до конца строки, вторая открывает литерал на следующей
	tokens, _ := classify(t, "\"a\n\"bcde\"", lexer.Options{Mode: lexer.LiteralLenient})
	want := []piece{
		{"byte", "\"a\n"},
		{"string", `"bcde"`},
	}
	if diff := cmp.Diff(want, merged(tokens)); diff != "" {
		t.Errorf("regions mismatch (-want +got):\n%s", diff)
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	tokens, rep := classify(t, "a /* \"x\"", lexer.Options{})
	last := tokens[len(tokens)-1]
	if last.Region != token.RegionBlockComment || last.Text != "/* \"x\"" {
		t.Errorf("last token = %+v", last)
	}
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnterminatedBlockComment {
		t.Errorf("diagnostics = %+v", rep.diagnostics)
	}
	if rep.diagnostics[0].Severity != diag.SevInfo {
		t.Errorf("severity = %s, want INFO", rep.diagnostics[0].Severity)
	}
}

func TestExtraDirectives(t *testing.T) {
	opts := lexer.Options{ExtraDirectives: []string{"include"}}
	tokens, _ := classify(t, "#include \"stdio.h\"\n", opts)
	if tokens[0].Region != token.RegionDirective || tokens[0].Text != `#include "stdio.h"` {
		t.Errorf("first token = %+v", tokens[0])
	}
}

func TestNextReturnsEOFRepeatedly(t *testing.T) {
	fs := source.NewFileSet()
	lx := lexer.New(fs.Get(fs.AddVirtual("test.c", []byte("a"))), lexer.Options{})
	if tok := lx.Next(); tok.Kind != token.Verbatim {
		t.Fatalf("first token kind = %s", tok.Kind)
	}
	for range 3 {
		if tok := lx.Next(); tok.Kind != token.EOF || !tok.Span.Empty() {
			t.Fatalf("want empty EOF, got %+v", tok)
		}
	}
}

func TestParseLiteralMode(t *testing.T) {
	for in, want := range map[string]lexer.LiteralMode{
		"":        lexer.LiteralStrict,
		"strict":  lexer.LiteralStrict,
		"Lenient": lexer.LiteralLenient,
	} {
		got, err := lexer.ParseLiteralMode(in)
		if err != nil || got != want {
			t.Errorf("ParseLiteralMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := lexer.ParseLiteralMode("loose"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
