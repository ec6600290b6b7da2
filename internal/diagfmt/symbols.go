package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"strsym/internal/source"
	"strsym/internal/symtab"
)

// SymbolJSON is one row of `strsym symbols --format json`.
type SymbolJSON struct {
	Label   string       `json:"label"`
	Content string       `json:"content"`
	Uses    int          `json:"uses"`
	First   LocationJSON `json:"first"`
}

type SymbolsOutput struct {
	Symbols []SymbolJSON `json:"symbols"`
	Count   int          `json:"count"`
}

// FormatSymbolsPretty печатает таблицу меток в порядке вывода.
func FormatSymbolsPretty(w io.Writer, table *symtab.Table, fs *source.FileSet, mode PathMode) error {
	entries := table.Entries()
	labelWidth := 0
	for _, e := range entries {
		labelWidth = max(labelWidth, len(e.Label))
	}
	for _, e := range entries {
		where := ""
		if f := fs.Get(e.First.File); f != nil {
			pos, _ := fs.Resolve(e.First)
			where = fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), pos.Line, pos.Col)
		}
		if _, err := fmt.Fprintf(w, "%-*s  %3dx  \"%s\"  %s\n", labelWidth, e.Label, e.Uses, e.Content, where); err != nil {
			return err
		}
	}
	return nil
}

func FormatSymbolsJSON(w io.Writer, table *symtab.Table, fs *source.FileSet, mode PathMode) error {
	entries := table.Entries()
	out := SymbolsOutput{Symbols: make([]SymbolJSON, 0, len(entries))}
	for _, e := range entries {
		out.Symbols = append(out.Symbols, SymbolJSON{
			Label:   e.Label,
			Content: e.Content,
			Uses:    e.Uses,
			First:   makeLocation(e.First, fs, mode, true),
		})
	}
	out.Count = len(out.Symbols)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
