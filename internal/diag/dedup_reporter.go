package diag

import "strsym/internal/source"

// dedupKey identifies "the same problem". Positional diagnostics (scanner,
// I/O) are the same when code and span match. Label diagnostics are the same
// when code and message match: the message names the label and both
// contents, and the error collision policy repeats it at every later use of
// the rejected literal.
type dedupKey struct {
	code       Code
	file       source.FileID
	start, end uint32
	msg        string
}

func keyOf(code Code, primary source.Span, msg string) dedupKey {
	if code.IsSymbol() {
		return dedupKey{code: code, file: primary.File, msg: msg}
	}
	return dedupKey{code: code, file: primary.File, start: primary.Start, end: primary.End}
}

// DedupReporter forwards the first diagnostic of each problem and counts
// the repeats. One is owned by a single unit.
type DedupReporter struct {
	next    Reporter
	seen    map[dedupKey]int
	repeats int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]int),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r == nil {
		return
	}
	key := keyOf(code, primary, msg)
	r.seen[key]++
	if r.seen[key] > 1 {
		r.repeats++
		return
	}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes)
	}
}

// Repeats returns how many diagnostics were suppressed.
func (r *DedupReporter) Repeats() int {
	if r == nil {
		return 0
	}
	return r.repeats
}
