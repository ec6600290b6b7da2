package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"strsym/internal/diag"
	"strsym/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note            *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n",
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Col),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)

	writeSnippet(w, f, start, end, opts, p)

	if !opts.ShowNotes && d.Code != diag.ObsTimings {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		if nf == nil {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
			continue
		}
		ns, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
			p.note.Sprint("note:"),
			formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col,
			n.Msg)
	}
}

func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, p palette) {
	if len(f.Content) == 0 {
		return
	}
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	lineCount := uint32(len(f.LineIdx) + 1)
	last = min(last, lineCount)

	gutterWidth := len(fmt.Sprint(last))
	blank := strings.Repeat(" ", gutterWidth)

	for ln := first; ln <= last; ln++ {
		text := f.Line(ln)
		if ln != start.Line && text == "" {
			continue
		}
		fmt.Fprintf(w, " %s %s %s\n",
			p.gutter.Sprintf("%*d", gutterWidth, ln),
			p.gutter.Sprint("|"),
			clip(text, opts.Width))
		if ln != start.Line {
			continue
		}
		pad, marks := underline(text, start, end)
		fmt.Fprintf(w, " %s %s %s%s\n", blank, p.gutter.Sprint("|"), pad, p.caret.Sprint(marks))
	}
}

// underline строит отступ и ^~~~ под строкой text. Колонки в байтах,
// ширина считается в ячейках терминала.
func underline(text string, start, end source.LineCol) (pad, marks string) {
	from := min(int(start.Col)-1, len(text))
	to := len(text)
	if end.Line == start.Line {
		to = min(int(end.Col)-1, len(text))
	}
	to = max(to, from)

	var b strings.Builder
	for _, r := range text[:from] {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := max(runewidth.StringWidth(text[from:to]), 1)
	return b.String(), "^" + strings.Repeat("~", width-1)
}

func clip(text string, width uint8) string {
	if width == 0 || runewidth.StringWidth(text) <= int(width) {
		return text
	}
	return runewidth.Truncate(text, int(width), "...")
}
