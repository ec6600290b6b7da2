package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"strsym/internal/trace"
)

// setupTracing inspects trace-related flags and initializes the tracer.
// It returns a cleanup function and an error if initialization fails.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}
	if traceOutput == "" {
		traceOutput = "-"
	}

	cfg := trace.Config{
		Level:    level,
		Mode:     mode,
		Format:   format,
		Path:     traceOutput,
		RingSize: ringSize,
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	cleanup := func() {
		if err := reportRing(cmd.ErrOrStderr(), tracer, mode, traceOutput, format); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// reportRing handles the ring of ring and both modes on exit. Ring mode
// writes the events of failing units to the trace output; both mode already
// streamed them and only names the failing units.
func reportRing(stderr io.Writer, tracer trace.Tracer, mode trace.StorageMode, path string, format trace.Format) error {
	ring, ok := trace.RingOf(tracer)
	if !ok {
		return nil
	}
	if mode == trace.ModeBoth {
		if failed := ring.FailedUnits(); len(failed) > 0 {
			fmt.Fprintf(stderr, "trace: failing units: %s\n", strings.Join(failed, ", "))
		}
		return nil
	}
	if len(ring.FailedUnits()) == 0 {
		return nil
	}

	var w io.Writer = stderr
	if path != "-" {
		f, err := os.Create(path) // #nosec G304 -- path comes from the --trace flag
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	_, err := ring.DumpFailures(w, format.ForPath(path))
	return err
}
