package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"strsym/internal/diag"
	"strsym/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	content := []byte("char *s = \"unterminated string\n")
	fileID := fs.Add("/home/user/project/src/test.c", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexMalformedLiteral,
		source.Span{File: fileID, Start: 10, End: 11},
		"newline in string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.c:1:11"},
		{"Relative path", PathModeRelative, "src/test.c:1:11"},
		{"Basename only", PathModeBasename, "test.c:1:11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR LEX1001: newline in string literal") {
				t.Errorf("Expected header, got:\n%s", output)
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Short path - as is", "test.c", "test.c"},
		{"Long absolute path - basename", "/very/long/absolute/path/to/some/nested/directory/file.c", "file.c:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileID := fs.Add(tt.path, []byte("int x = 42;\n"))

			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.SymInvalidIdentifier,
				source.Span{File: fileID, Start: 8, End: 10}, "Test warning"))

			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
			output := buf.String()

			if !strings.HasPrefix(output, tt.expected) {
				t.Errorf("Expected output to start with %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

// Виртуальный юнит не имеет пути на диске: имя не меняется ни в одном режиме.
func TestPathModesKeepVirtualName(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	fileID := fs.AddVirtual("<stdin>", []byte("x = \"y\";\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.SymInvalidIdentifier, source.Span{File: fileID, Start: 4, End: 7}, "w"))

	for _, mode := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		var buf bytes.Buffer
		Pretty(&buf, bag, fs, PrettyOpts{PathMode: mode})
		if !strings.HasPrefix(buf.String(), "<stdin>:1:5") {
			t.Errorf("%s: got:\n%s", mode, buf.String())
		}
	}
}

func TestPrettySnippetAndCaret(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("int a;\nputs(\"hello\");\nint b;\n")
	fileID := fs.AddVirtual("caret.c", content)

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevWarning, diag.SymInvalidIdentifier,
		source.Span{File: fileID, Start: 12, End: 19}, "bad label"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	want := strings.Join([]string{
		"caret.c:2:6: WARNING SYM2002: bad label",
		" 2 | puts(\"hello\");",
		"   |      ^~~~~~~",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("unexpected rendering:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("one\ntwo\nthree\nfour\n")
	fileID := fs.AddVirtual("ctx.c", content)

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevInfo, diag.SymLabelCollision,
		source.Span{File: fileID, Start: 8, End: 13}, "x"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})
	output := buf.String()

	for _, line := range []string{" 2 | two", " 3 | three", " 4 | four", "   | ^~~~~"} {
		if !strings.Contains(output, line) {
			t.Errorf("missing %q in:\n%s", line, output)
		}
	}
	if strings.Contains(output, "one") {
		t.Errorf("context leaked past one line:\n%s", output)
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	// "日本" занимает 4 ячейки, но 6 байт.
	content := []byte("s(\"日本\", x);\n")
	fileID := fs.AddVirtual("wide.c", content)

	bag := diag.NewBag(4)
	bag.Add(diag.New(diag.SevError, diag.LexMalformedLiteral,
		source.Span{File: fileID, Start: 12, End: 13}, "x"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	// префикс `s("日本", ` занимает 10 ячеек
	if want := "   | " + strings.Repeat(" ", 10) + "^"; lines[2] != want {
		t.Errorf("caret line = %q, want %q", lines[2], want)
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("a(\"abcd\");\nb(\"ABCD\");\n")
	fileID := fs.AddVirtual("test.c", content)

	bag := diag.NewBag(4)
	d := diag.New(diag.SevInfo, diag.SymLabelCollision,
		source.Span{File: fileID, Start: 13, End: 19}, "collision")
	d = d.WithNote(source.Span{File: fileID, Start: 2, End: 8}, "first defined here")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	if !strings.Contains(buf.String(), "note: test.c:1:3: first defined here") {
		t.Fatalf("expected note with location, got:\n%s", buf.String())
	}
}

func TestPrettyColorToggle(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("c.c", []byte("x\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.LexMalformedLiteral, source.Span{File: fileID, Start: 0, End: 1}, "m"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{Color: false})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})

	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("colored output has no escapes: %q", colored.String())
	}
}

func TestPrettyWidthClipsSource(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("w.c", []byte(strings.Repeat("x", 50)+"\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.LexMalformedLiteral, source.Span{File: fileID, Start: 0, End: 1}, "m"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Width: 10})
	if !strings.Contains(buf.String(), "| xxxxxxx...\n") {
		t.Errorf("source line not clipped:\n%s", buf.String())
	}
}
