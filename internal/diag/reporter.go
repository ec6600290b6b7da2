package diag

import "strsym/internal/source"

// Reporter receives diagnostics from the scanner, the interner and the
// driver. Implementations: BagReporter (collects into a Bag), DedupReporter
// (drops repeats), ReporterFunc and Tee.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(code Code, sev Severity, primary source.Span, msg string, notes []Note)

func (f ReporterFunc) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	f(code, sev, primary, msg, notes)
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes,
	})
}

type tee []Reporter

func (t tee) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	for _, r := range t {
		r.Report(code, sev, primary, msg, notes)
	}
}

// Tee forwards every diagnostic to each non-nil reporter in order.
func Tee(reporters ...Reporter) Reporter {
	out := make(tee, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// Emit sends d to r. A nil r drops it.
func Emit(r Reporter, d Diagnostic) {
	if r == nil {
		return
	}
	r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
}
