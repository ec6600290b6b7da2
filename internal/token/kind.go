package token

// Kind is the tag of a scanned unit.
type Kind uint8

const (
	// Invalid marks a zero Token.
	Invalid Kind = iota
	// EOF is returned by the classifier once the input is exhausted.
	// It never takes part in the output.
	EOF
	// Verbatim is emitted unchanged: a comment, a directive or one ordinary byte.
	Verbatim
	// LiteralRef is a string literal, either kept inline or replaced by a label.
	LiteralRef
)

func (k Kind) String() string {
	switch k {
	case Verbatim:
		return "Verbatim"
	case LiteralRef:
		return "LiteralRef"
	case EOF:
		return "EOF"
	default:
		return "Invalid"
	}
}

// Region records which grammar alternative matched.
type Region uint8

const (
	// RegionByte is the fallback alternative: exactly one byte.
	RegionByte Region = iota
	// RegionBlockComment is /* ... */.
	RegionBlockComment
	// RegionLineComment is // up to the end of the line.
	RegionLineComment
	// RegionDirective is a preprocessor line including escaped continuations.
	RegionDirective
	// RegionString is a double-quoted literal.
	RegionString
)

func (r Region) String() string {
	switch r {
	case RegionByte:
		return "byte"
	case RegionBlockComment:
		return "block-comment"
	case RegionLineComment:
		return "line-comment"
	case RegionDirective:
		return "directive"
	case RegionString:
		return "string"
	default:
		return "unknown"
	}
}
