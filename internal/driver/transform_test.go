package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"strsym/internal/diag"
	"strsym/internal/emit"
	"strsym/internal/trace"
)

func writeUnit(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTransformReferenceExample(t *testing.T) {
	res, err := TransformSource(context.Background(), "ex.c", []byte(`const char *s = "abcdefg";`+"\n"+`char *t = "ab";`+"\n"), DefaultOptions())
	if err != nil {
		t.Fatalf("TransformSource: %v", err)
	}
	want := "#define STRSYM_ABCDEFG \\\n\"abcdefg\"\nconst char *s = STRSYM_ABCDEFG;\nchar *t = \"ab\";\n"
	if string(res.Output) != want {
		t.Errorf("output:\n%s\nwant:\n%s", res.Output, want)
	}
	if res.Table.Len() != 1 {
		t.Errorf("table len = %d", res.Table.Len())
	}
	if got, err := emit.Restore(res.Table, res.Tokens); err != nil || string(got) != string(res.File.Content) {
		t.Errorf("Restore = %q, %v", got, err)
	}
}

func TestTransformDirectivePrefixPassesThrough(t *testing.T) {
	src := "#elifdef FOO \"abcdef\"\n#elifndef BAR \"ghijkl\"\n"
	res, err := TransformSource(context.Background(), "c23.c", []byte(src), DefaultOptions())
	if err != nil {
		t.Fatalf("TransformSource: %v", err)
	}
	if string(res.Output) != src {
		t.Errorf("output = %q, want the input unchanged", res.Output)
	}
	if res.Table.Len() != 0 {
		t.Errorf("table len = %d, want 0", res.Table.Len())
	}
}

func TestTransformStrictAbortsWithoutOutput(t *testing.T) {
	res, err := TransformSource(context.Background(), "bad.c", []byte("puts(\"open\n\"and more\");\n"), DefaultOptions())
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("err = %v, want ErrDiagnostics", err)
	}
	if res == nil || res.Output != nil {
		t.Fatalf("strict failure must return diagnostics and no output, got %+v", res)
	}
	if res.Bag.Count(diag.SevError) != 1 {
		t.Errorf("diagnostics = %+v", res.Bag.Items())
	}
}

func TestTransformLenientSucceeds(t *testing.T) {
	opts := DefaultOptions()
	opts.Config.Scan.LiteralMode = "lenient"
	res, err := TransformSource(context.Background(), "bad.c", []byte("puts(\"open\n"), opts)
	if err != nil {
		t.Fatalf("lenient run failed: %v", err)
	}
	if string(res.Output) != "puts(\"open\n" {
		t.Errorf("output = %q", res.Output)
	}
	if !res.Bag.HasWarnings() {
		t.Error("expected a warning")
	}
}

func TestTransformCollisionErrorPolicy(t *testing.T) {
	opts := DefaultOptions()
	opts.Config.Symbols.Collision = "error"
	_, err := TransformSource(context.Background(), "c.c", []byte(`a("x-yz"); b("x yz");`), opts)
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("err = %v, want ErrDiagnostics", err)
	}
}

func TestTransformMissingFile(t *testing.T) {
	_, err := Transform(context.Background(), filepath.Join(t.TempDir(), "absent.c"), DefaultOptions())
	if !errors.Is(err, ErrInputUnavailable) {
		t.Fatalf("err = %v, want ErrInputUnavailable", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v should keep the underlying cause", err)
	}
}

func TestTransformReader(t *testing.T) {
	res, err := TransformReader(context.Background(), StdinName, strings.NewReader(`x = "from stdin";`), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(res.Output), "x = STRSYM_FROM_STDIN;") {
		t.Errorf("output = %q", res.Output)
	}
	if res.File.Path != StdinName {
		t.Errorf("path = %q", res.File.Path)
	}
}

func TestTokenizeKeepsTokensOnErrors(t *testing.T) {
	path := writeUnit(t, t.TempDir(), "bad.c", "a = \"open\nb;\n")
	res, err := Tokenize(context.Background(), path, DefaultOptions())
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(res.Tokens) == 0 || res.Output != nil || !res.Bag.HasErrors() {
		t.Errorf("unexpected result: tokens=%d output=%q errors=%v", len(res.Tokens), res.Output, res.Bag.HasErrors())
	}
}

func TestTransformTimingsAndTrace(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	opts := DefaultOptions()
	opts.EnableTimings = true

	res, err := TransformSource(ctx, "t.c", []byte(`f("literal one");`), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Timing == nil || len(res.Timing.Phases) != 2 {
		t.Fatalf("timing = %+v, want scan and assemble phases", res.Timing)
	}
	if res.Bag.Count(diag.SevInfo) != 1 || res.Bag.Items()[0].Code != diag.ObsTimings {
		t.Errorf("diagnostics = %+v", res.Bag.Items())
	}

	label := res.Table.Entries()[0].Label
	var got []string
	for _, ev := range ring.Snapshot() {
		if ev.Unit != "t.c" {
			t.Errorf("event %s %s attributed to %q", ev.Kind, ev.Name, ev.Unit)
		}
		got = append(got, ev.Kind.String()+" "+ev.Name+ev.Label)
	}
	want := []string{
		"begin transform",
		"begin scan",
		"literal scan" + label,
		"end scan",
		"begin assemble",
		"end assemble",
		"end transform",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trace events (-want +got):\n%s", diff)
	}

	snap := ring.Snapshot()
	end := snap[len(snap)-1]
	wantStats := &trace.Stats{Tokens: len(res.Tokens), Literals: 1, Interned: 1, Symbols: 1, Bytes: len(res.Output)}
	if diff := cmp.Diff(wantStats, end.Stats); diff != "" {
		t.Errorf("unit stats (-want +got):\n%s", diff)
	}
}

func TestTransformTracesDiagnostics(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelError)
	ctx := trace.WithTracer(context.Background(), ring)

	_, err := TransformSource(ctx, "bad.c", []byte("x;\nputs(\"open\n"), DefaultOptions())
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("err = %v, want ErrDiagnostics", err)
	}
	if diff := cmp.Diff([]string{"bad.c"}, ring.FailedUnits()); diff != "" {
		t.Errorf("failed units (-want +got):\n%s", diff)
	}

	// на уровне error остаются только диагностика и концы упавших спанов
	var got []string
	for _, ev := range ring.Snapshot() {
		got = append(got, ev.Kind.String()+" "+ev.Name)
	}
	if diff := cmp.Diff([]string{"diagnostic transform", "end scan", "end transform"}, got); diff != "" {
		t.Fatalf("trace events (-want +got):\n%s", diff)
	}
	d := ring.Snapshot()[0]
	if d.Code != diag.LexMalformedLiteral.ID() || d.Severity != "ERROR" || d.Pos != (trace.Pos{Line: 2, Col: 6}) || d.Unit != "bad.c" {
		t.Errorf("diagnostic event = %+v", d)
	}
	if end := ring.Snapshot()[2]; end.Stats == nil || end.Stats.Errors != 1 {
		t.Errorf("end event = %+v", end)
	}
}

func TestTransformSuppressesRepeatedCollisions(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	opts := DefaultOptions()
	opts.Config.Symbols.Collision = "error"

	res, err := TransformSource(ctx, "c.c", []byte(`a("x-yz"); b("x yz"); c("x yz");`), opts)
	if !errors.Is(err, ErrDiagnostics) {
		t.Fatalf("err = %v, want ErrDiagnostics", err)
	}
	if n := res.Bag.Count(diag.SevError); n != 1 {
		t.Errorf("got %d collision errors, want 1: %+v", n, res.Bag.Items())
	}
	var note string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindEnd && ev.Name == "scan" {
			note = ev.Detail
		}
	}
	if note != "1 repeated diagnostics suppressed" {
		t.Errorf("scan note = %q", note)
	}
}

func TestLoadFailureIsTraced(t *testing.T) {
	ring := trace.NewRingTracer(16, trace.LevelPhase)
	ctx := trace.WithTracer(context.Background(), ring)
	missing := filepath.Join(t.TempDir(), "absent.c")

	if _, err := Transform(ctx, missing, DefaultOptions()); !errors.Is(err, ErrInputUnavailable) {
		t.Fatalf("err = %v, want ErrInputUnavailable", err)
	}
	if diff := cmp.Diff([]string{missing}, ring.FailedUnits()); diff != "" {
		t.Errorf("failed units (-want +got):\n%s", diff)
	}
}

func TestTransformUsesCache(t *testing.T) {
	cache, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Cache = cache
	opts.Config.Symbols.Collision = "overwrite"
	src := []byte(`a("x-yz"); b("x yz");`)

	first, err := TransformSource(context.Background(), "c.c", src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first run cannot be cached")
	}
	second, err := TransformSource(context.Background(), "c.c", src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || second.Tokens != nil {
		t.Fatalf("second run: cached=%v tokens=%d", second.Cached, len(second.Tokens))
	}
	if string(second.Output) != string(first.Output) {
		t.Errorf("cached output differs:\n%s\nvs\n%s", second.Output, first.Output)
	}
	if second.Bag.Count(diag.SevWarning) != 1 {
		t.Errorf("cached diagnostics = %+v", second.Bag.Items())
	}
	if second.Table.Len() != first.Table.Len() {
		t.Errorf("cached table len = %d, want %d", second.Table.Len(), first.Table.Len())
	}

	// другой префикс: другой ключ
	opts.Config.Symbols.Prefix = "OTHER_"
	third, err := TransformSource(context.Background(), "c.c", src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Error("a configuration change must miss the cache")
	}
}

func TestWriteOutputReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.c")
	if err := WriteOutput(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := WriteOutput(path, []byte("second")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "second" {
		t.Fatalf("read back %q, %v", data, err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}
