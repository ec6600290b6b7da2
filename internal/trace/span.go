package trace

import (
	"sync/atomic"
	"time"
)

var spanIDs atomic.Uint64

// Span is one open operation. A nil *Span is valid and inert, so callers
// never check whether tracing is on.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64 // nearest visible ancestor
	visible bool   // the begin event passed the level
	scope   Scope
	name    string
	unit    string
	detail  string
	stats   *Stats
	started time.Time
}

// Begin opens a span on t as a child of parent (nil for a root span). The
// child inherits parent's unit; a unit span is attributed to its own name.
func Begin(t Tracer, parent *Span, scope Scope, name string) *Span {
	return begin(t, parent, scope, name, "")
}

// BeginFor is Begin for a span attributed to unit, such as the run span of a
// single file.
func BeginFor(t Tracer, parent *Span, scope Scope, name, unit string) *Span {
	return begin(t, parent, scope, name, unit)
}

func begin(t Tracer, parent *Span, scope Scope, name, unit string) *Span {
	if t == nil || t.Level() == LevelOff {
		return nil
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	if parent != nil {
		s.parent = parent.anchor()
		s.unit = parent.unit
	}
	if scope == ScopeUnit {
		s.unit = name
	}
	if unit != "" {
		s.unit = unit
	}
	ev := s.event(KindBegin)
	if t.Level().Allows(&ev) {
		s.visible = true
		t.Emit(&ev)
	}
	return s
}

// Child opens a span under s on the same tracer.
func (s *Span) Child(scope Scope, name string) *Span {
	if s == nil {
		return nil
	}
	return Begin(s.tracer, s, scope, name)
}

// Record attaches stats to the end event.
func (s *Span) Record(st Stats) *Span {
	if s != nil {
		s.stats = &st
	}
	return s
}

// Note sets the detail of the end event.
func (s *Span) Note(detail string) *Span {
	if s != nil {
		s.detail = detail
	}
	return s
}

// End closes the span and returns its duration.
func (s *Span) End() time.Duration {
	if s == nil {
		return 0
	}
	ev := s.event(KindEnd)
	ev.Elapsed = time.Since(s.started)
	ev.Detail = s.detail
	ev.Stats = s.stats
	if s.tracer.Level().Allows(&ev) {
		s.tracer.Emit(&ev)
	}
	return ev.Elapsed
}

// Literal records that label was handed out at pos.
func (s *Span) Literal(label string, pos Pos) {
	if s == nil {
		return
	}
	ev := s.point(KindLiteral, ScopeLiteral)
	ev.Label = label
	ev.Pos = pos
	if s.tracer.Level().Allows(&ev) {
		s.tracer.Emit(&ev)
	}
}

// Diagnostic records a reported diagnostic at pos.
func (s *Span) Diagnostic(code, severity string, pos Pos, msg string) {
	if s == nil {
		return
	}
	ev := s.point(KindDiagnostic, s.scope)
	ev.Code = code
	ev.Severity = severity
	ev.Pos = pos
	ev.Detail = msg
	if s.tracer.Level().Allows(&ev) {
		s.tracer.Emit(&ev)
	}
}

// Traces reports whether spans and points of scope opened under s are kept.
// Callers use it to skip building events nobody will see.
func (s *Span) Traces(scope Scope) bool {
	return s != nil && s.tracer.Level().maxScope() >= scope
}

// ID returns the span ID, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Unit returns the unit path the span is attributed to.
func (s *Span) Unit() string {
	if s == nil {
		return ""
	}
	return s.unit
}

func (s *Span) anchor() uint64 {
	if s.visible {
		return s.id
	}
	return s.parent
}

func (s *Span) event(kind Kind) Event {
	return Event{
		Time:     time.Now(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Unit:     s.unit,
	}
}

func (s *Span) point(kind Kind, scope Scope) Event {
	return Event{
		Time:     time.Now(),
		Kind:     kind,
		Scope:    scope,
		ParentID: s.anchor(),
		Name:     s.name,
		Unit:     s.unit,
	}
}
