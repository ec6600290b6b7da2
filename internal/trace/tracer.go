package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Emit must be safe for concurrent use: batch units
// run in parallel.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	// Close flushes buffered output and releases files the tracer opened.
	Close() error
}

// StorageMode determines how events are kept.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // write as they happen
	ModeRing                          // keep the last N, dump failing units on exit
	ModeBoth                          // stream + ring
)

var modeNames = map[string]StorageMode{
	"stream": ModeStream,
	"ring":   ModeRing,
	"both":   ModeBoth,
}

func (m StorageMode) String() string {
	for name, mode := range modeNames {
		if mode == m {
			return name
		}
	}
	return "unknown"
}

// ParseMode converts a flag value to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	if m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config holds tracer configuration.
type Config struct {
	Level    Level
	Mode     StorageMode
	Format   Format    // FormatAuto picks by Path extension
	Output   io.Writer // stream output; when nil Path is opened
	Path     string    // "-" or empty for stderr
	RingSize int       // 0 means DefaultRingSize
}

// DefaultRingSize is the ring capacity used when Config.RingSize is not set.
const DefaultRingSize = 4096

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = DefaultRingSize
	}
	format := cfg.Format.ForPath(cfg.Path)

	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeStream, ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream := NewStreamTracer(w, cfg.Level, format)
		if cfg.Mode == ModeStream {
			return stream, nil
		}
		return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

// openOutput returns cfg.Output, stderr, or a newly created file; the stream
// tracer closes only the latter.
func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.Path == "" || cfg.Path == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.Path) // #nosec G304 -- path comes from the --trace flag
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
