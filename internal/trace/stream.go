package trace

import (
	"bufio"
	"io"
	"os"
	"sync"
)

// StreamTracer writes events as they arrive. Output is buffered; each event
// is flushed at once when writing to a terminal stream so that a hung run
// still shows its last events.
type StreamTracer struct {
	level  Level
	format Format

	mu     sync.Mutex
	seq    uint64
	out    *bufio.Writer
	closer io.Closer // nil for stderr/stdout and caller-owned writers
	eager  bool
}

// NewStreamTracer writes to w. When w is a file other than stdout or stderr,
// Close closes it.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{
		level:  level,
		format: format.ForPath(""),
		out:    bufio.NewWriter(w),
	}
	switch w {
	case os.Stderr, os.Stdout:
		t.eager = true
	default:
		if f, ok := w.(*os.File); ok {
			t.closer = f
		}
	}
	return t
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.Allows(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	ev.Seq = t.seq
	// трассировка не должна ронять трансформацию, ошибки записи игнорируем
	_, _ = t.out.Write(FormatEvent(ev, t.format))
	if t.eager {
		_ = t.out.Flush()
	}
}

func (t *StreamTracer) Level() Level { return t.level }

// Close flushes the buffer and closes the output file the tracer owns.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.out.Flush()
	if t.closer != nil {
		if cerr := t.closer.Close(); err == nil {
			err = cerr
		}
		t.closer = nil
	}
	return err
}
