package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexMalformedLiteral         Code = 1001
	LexUnterminatedBlockComment Code = 1002

	// Интернирование литералов
	SymInfo              Code = 2000
	SymLabelCollision    Code = 2001
	SymInvalidIdentifier Code = 2002

	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOWriteError    Code = 4002

	CfgInfo    Code = 5000
	CfgInvalid Code = 5001

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexMalformedLiteral:         "Malformed string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		SymInfo:                     "Symbol information",
		SymLabelCollision:           "Label collision",
		SymInvalidIdentifier:        "Label is not a valid identifier",
		IOInfo:                      "I/O information",
		IOLoadFileError:             "I/O load file error",
		IOWriteError:                "I/O write error",
		CfgInfo:                     "Configuration information",
		CfgInvalid:                  "Invalid configuration",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsSymbol reports whether c comes from the label table (SYM range).
func (c Code) IsSymbol() bool {
	return c >= 2000 && c < 3000
}
