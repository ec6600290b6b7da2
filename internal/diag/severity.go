package diag

// Severity orders diagnostics. Only SevError makes a unit fail; the
// collision policy and the lenient literal mode pick between SevWarning
// and SevError.
type Severity uint8

const (
	// SevInfo carries timings and cache notices.
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Label is the lowercase form used by the short and golden renderings.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}
