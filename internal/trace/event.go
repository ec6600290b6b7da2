package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindBegin      Kind = iota + 1 // span opened
	KindEnd                        // span closed, carries Elapsed and Stats
	KindLiteral                    // a literal was interned
	KindDiagnostic                 // a diagnostic was reported
	KindHeartbeat                  // batch progress while units are running
)

var kindNames = [...]string{
	KindBegin:      "begin",
	KindEnd:        "end",
	KindLiteral:    "literal",
	KindDiagnostic: "diagnostic",
	KindHeartbeat:  "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope indicates the granularity of the event. Lower values are coarser.
type Scope uint8

const (
	// ScopeRun is one CLI-level run: a single unit or a whole directory.
	ScopeRun Scope = iota + 1
	// ScopePass is one phase of a unit: load, scan, assemble, write.
	ScopePass
	// ScopeUnit is one file inside a batch run.
	ScopeUnit
	// ScopeLiteral is per-literal detail.
	ScopeLiteral
)

var scopeNames = [...]string{
	ScopeRun:     "run",
	ScopePass:    "pass",
	ScopeUnit:    "unit",
	ScopeLiteral: "literal",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Stats summarizes what a unit or pass produced. It is attached to KindEnd
// events.
type Stats struct {
	Tokens   int  `json:"tokens"`
	Literals int  `json:"literals"`
	Interned int  `json:"interned"`
	Symbols  int  `json:"symbols"`
	Errors   int  `json:"errors"`
	Bytes    int  `json:"bytes,omitempty"`
	Cached   bool `json:"cached,omitempty"`
}

// Pos is a 1-based position inside Event.Unit.
type Pos struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the tracer that stores or writes the event
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string // "transform", "scan", ... or the unit path for unit spans
	Unit     string // unit path; empty for run-level events
	Detail   string
	Elapsed  time.Duration // KindEnd
	Stats    *Stats        // KindEnd, when the span recorded any
	Label    string        // KindLiteral
	Code     string        // KindDiagnostic
	Severity string        // KindDiagnostic
	Pos      Pos           // KindLiteral, KindDiagnostic
}

// Failed reports whether the event marks a unit problem: an error
// diagnostic, or a span that ended with errors.
func (ev *Event) Failed() bool {
	switch ev.Kind {
	case KindDiagnostic:
		return ev.Severity == "ERROR"
	case KindEnd:
		return ev.Stats != nil && ev.Stats.Errors > 0
	}
	return false
}
