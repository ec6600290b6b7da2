package diagfmt

import (
	"encoding/json"
	"io"

	"strsym/internal/diag"
	"strsym/internal/source"
)

// excerptLimit caps the source excerpt of a diagnostic in bytes.
const excerptLimit = 80

// PositionJSON is a 1-based line and column.
type PositionJSON struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// LocationJSON is a span of a unit. Start and End are present only when
// positions were requested; Bytes is always the half-open byte range.
type LocationJSON struct {
	File  string        `json:"file"`
	Bytes [2]uint32     `json:"bytes"`
	Start *PositionJSON `json:"start,omitempty"`
	End   *PositionJSON `json:"end,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON is one diagnostic. Excerpt is the source text under the
// primary span, usually the offending literal.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Excerpt  string       `json:"excerpt,omitempty"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// FileDiagnosticsJSON groups the diagnostics of one unit in bag order.
type FileDiagnosticsJSON struct {
	File        string           `json:"file"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// DiagnosticsOutput is the root of `--format json`. Units appear in the order
// of their first diagnostic.
type DiagnosticsOutput struct {
	Files   []FileDiagnosticsJSON `json:"files"`
	Count   int                   `json:"count"`
	Omitted int                   `json:"omitted,omitempty"`
}

func makeLocation(span source.Span, fs *source.FileSet, mode PathMode, positions bool) LocationJSON {
	f := fs.Get(span.File)
	loc := LocationJSON{
		File:  formatPath(f, fs, mode),
		Bytes: [2]uint32{span.Start, span.End},
	}
	if positions && f != nil {
		start, end := fs.Resolve(span)
		loc.Start = &PositionJSON{Line: start.Line, Col: start.Col}
		loc.End = &PositionJSON{Line: end.Line, Col: end.Col}
	}
	return loc
}

func excerpt(span source.Span, fs *source.FileSet) string {
	f := fs.Get(span.File)
	if f == nil || span.End <= span.Start || int(span.End) > len(f.Content) {
		return ""
	}
	text := f.Slice(span)
	if len(text) > excerptLimit {
		return string(text[:excerptLimit]) + "…"
	}
	return string(text)
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}

	out := DiagnosticsOutput{
		Files:   []FileDiagnosticsJSON{},
		Count:   n,
		Omitted: len(items) - n + bag.Dropped(),
	}
	byFile := make(map[source.FileID]int)
	for i := range n {
		d := &items[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
			Excerpt:  excerpt(d.Primary, fs),
		}
		if opts.IncludeNotes || d.Code == diag.ObsTimings {
			for _, note := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				})
			}
		}

		idx, ok := byFile[d.Primary.File]
		if !ok {
			idx = len(out.Files)
			byFile[d.Primary.File] = idx
			out.Files = append(out.Files, FileDiagnosticsJSON{File: dj.Location.File})
		}
		group := &out.Files[idx]
		switch d.Severity {
		case diag.SevError:
			group.Errors++
		case diag.SevWarning:
			group.Warnings++
		}
		group.Diagnostics = append(group.Diagnostics, dj)
	}
	return out
}

// JSON writes the diagnostics of bag as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
