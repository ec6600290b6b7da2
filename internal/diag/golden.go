package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"strsym/internal/source"
)

// shortLine is one diagnostic of the short format with its notes.
type shortLine struct {
	path  string
	pos   source.LineCol
	text  string
	notes []string
}

// FormatShort renders diags one per line as
//
//	path:line:col: severity CODE: message
//
// sorted by path, position and code. Notes follow their diagnostic, indented
// by two spaces. Non-virtual paths are relative to the file set's base. The
// result has no trailing newline and is empty when there is nothing to show.
// Golden tests and `--format short` use it.
func FormatShort(diags []Diagnostic, fs *source.FileSet, withNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	lines := make([]shortLine, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		path, pos, ok := locate(fs, d.Primary)
		if !ok {
			continue
		}
		line := shortLine{
			path: path,
			pos:  pos,
			text: fmt.Sprintf("%s:%d:%d: %s %s: %s", path, pos.Line, pos.Col, d.Severity.Label(), d.Code.ID(), oneLine(d.Message)),
		}
		if withNotes {
			for _, n := range d.Notes {
				npath, npos, ok := locate(fs, n.Span)
				if !ok {
					continue
				}
				line.notes = append(line.notes, fmt.Sprintf("  %s:%d:%d: note: %s", npath, npos.Line, npos.Col, oneLine(n.Msg)))
			}
		}
		lines = append(lines, line)
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			strings.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			strings.Compare(a.text, b.text),
		)
	})

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.text)
		for _, n := range l.notes {
			b.WriteByte('\n')
			b.WriteString(n)
		}
	}
	return b.String()
}

func locate(fs *source.FileSet, span source.Span) (string, source.LineCol, bool) {
	f := fs.Get(span.File)
	if f == nil {
		return "", source.LineCol{}, false
	}
	start, _ := fs.Resolve(span)
	return shortPath(f, fs.BaseDir()), start, true
}

func shortPath(f *source.File, base string) string {
	if f.IsVirtual() {
		return f.Path
	}
	rel, err := source.RelativePath(f.Path, base)
	if err != nil {
		return f.Path
	}
	return strings.TrimPrefix(filepath.ToSlash(rel), "./")
}

// oneLine folds every line break of msg into a space.
func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	return strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
}
