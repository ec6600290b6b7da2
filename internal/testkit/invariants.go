package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"strsym/internal/source"
	"strsym/internal/token"
)

// CheckTokenInvariants runs the structural checks every classified token
// stream must pass:
// 1) every span belongs to sf, is non-empty and starts where the previous ended
// 2) the spans cover sf.Content exactly
// 3) Text equals the covered bytes
// 4) literals are quoted and only literals carry labels
func CheckTokenInvariants(tokens []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var off uint32
	for i, tok := range tokens {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End <= sp.Start {
			return fmt.Errorf("token %d: empty span %v", i, sp)
		}
		if sp.Start != off {
			return fmt.Errorf("token %d: span %v does not start at %d", i, sp, off)
		}
		if sp.End > lenContent {
			return fmt.Errorf("token %d: span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		if tok.Text != string(sf.Slice(sp)) {
			return fmt.Errorf("token %d: text %q differs from source %q", i, tok.Text, sf.Slice(sp))
		}
		if err := checkKind(tok); err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}
		off = sp.End
	}
	if off != lenContent {
		return fmt.Errorf("tokens cover %d of %d bytes", off, lenContent)
	}
	return nil
}

func checkKind(tok token.Token) error {
	switch tok.Kind {
	case token.LiteralRef:
		if tok.Region != token.RegionString {
			return fmt.Errorf("literal in region %s", tok.Region)
		}
		n := len(tok.Text)
		if n < 2 || tok.Text[0] != '"' || tok.Text[n-1] != '"' {
			return fmt.Errorf("literal %q is not quoted", tok.Text)
		}
		if tok.Content != tok.Text[1:n-1] {
			return fmt.Errorf("literal content %q does not match text %q", tok.Content, tok.Text)
		}
	case token.Verbatim:
		if tok.Label != "" {
			return fmt.Errorf("verbatim token %q carries label %s", tok.Text, tok.Label)
		}
		if tok.Region == token.RegionByte && len(tok.Text) != 1 {
			return fmt.Errorf("byte token %q is not one byte", tok.Text)
		}
	default:
		return fmt.Errorf("unexpected kind %s", tok.Kind)
	}
	return nil
}
