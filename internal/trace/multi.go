package trace

import "errors"

// MultiTracer fans events out to several tracers (stream + ring in ModeBoth).
type MultiTracer struct {
	level   Level
	tracers []Tracer
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{level: level, tracers: tracers}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		// каждый трейсер проставляет свой Seq, поэтому отдаём копию
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *MultiTracer) Level() Level { return t.level }

func (t *MultiTracer) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

// RingOf returns the ring tracer behind t: t itself or a child of a
// MultiTracer.
func RingOf(t Tracer) (*RingTracer, bool) {
	switch tr := t.(type) {
	case *RingTracer:
		return tr, true
	case *MultiTracer:
		for _, child := range tr.tracers {
			if ring, ok := RingOf(child); ok {
				return ring, true
			}
		}
	}
	return nil, false
}
