package diag

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"strsym/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	unit := fs.Add("/workspace/src/unit.c", []byte("a\nb\n"))
	stdin := fs.AddVirtual("<stdin>", []byte("x\n"))

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SymLabelCollision,
			Message:  "label collides\nwith earlier literal",
			Primary:  source.Span{File: unit, Start: 2, End: 3},
			Notes: []Note{
				{Span: source.Span{File: unit, Start: 0, End: 1}, Msg: "first literal here"},
			},
		},
		{
			Severity: SevError,
			Code:     LexMalformedLiteral,
			Message:  "unterminated string literal",
			Primary:  source.Span{File: unit, Start: 0, End: 1},
		},
		{
			Severity: SevInfo,
			Code:     IOInfo,
			Message:  "read from standard input",
			Primary:  source.Span{File: stdin},
		},
	}

	// заметка идёт сразу за своей диагностикой, а не сортируется отдельно
	want := "<stdin>:1:1: info IO4000: read from standard input\n" +
		"src/unit.c:1:1: error LEX1001: unterminated string literal\n" +
		"src/unit.c:2:1: warning SYM2001: label collides with earlier literal\n" +
		"  src/unit.c:1:1: note: first literal here"
	if diff := cmp.Diff(want, FormatShort(diags, fs, true)); diff != "" {
		t.Errorf("short format mismatch (-want +got):\n%s", diff)
	}

	want = "<stdin>:1:1: info IO4000: read from standard input\n" +
		"src/unit.c:1:1: error LEX1001: unterminated string literal\n" +
		"src/unit.c:2:1: warning SYM2001: label collides with earlier literal"
	if diff := cmp.Diff(want, FormatShort(diags, fs, false)); diff != "" {
		t.Errorf("short format without notes mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatShortEmpty(t *testing.T) {
	if got := FormatShort(nil, source.NewFileSet(), true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	unknown := []Diagnostic{{Severity: SevError, Code: LexMalformedLiteral, Primary: source.Span{File: 7}}}
	if got := FormatShort(unknown, source.NewFileSet(), true); got != "" {
		t.Fatalf("diagnostics of unknown files are skipped, got %q", got)
	}
}
