package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"strsym/internal/source"
	"strsym/internal/token"
)

type TokenOutput struct {
	Kind   string      `json:"kind"`
	Region string      `json:"region"`
	Text   string      `json:"text"`
	Label  string      `json:"label,omitempty"`
	Span   source.Span `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			break
		}
		startPos, endPos := fs.Resolve(tok.Span)

		if _, err := fmt.Fprintf(w, "%3d: %-13s %-10s %q at %d:%d-%d:%d",
			i+1, tok.Region.String(), tok.Kind.String(), tok.Text,
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col); err != nil {
			return err
		}
		if tok.IsInterned() {
			fmt.Fprintf(w, " -> %s", tok.Label)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Kind == token.EOF {
			break
		}
		output = append(output, TokenOutput{
			Kind:   tok.Kind.String(),
			Region: tok.Region.String(),
			Text:   tok.Text,
			Label:  tok.Label,
			Span:   tok.Span,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
