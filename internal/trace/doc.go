// Package trace records what a strsym run is doing.
//
// A tracer is attached to the command context. The driver opens a run span,
// a pass span for load, scan, assemble and write, and in batch mode a unit
// span per file. Pass and point events inherit the unit path of the span
// they are opened under, so interleaved output of parallel units stays
// attributable.
//
//	strsym transform --trace=- --trace-level=detail src/
//
// Besides spans the stream carries three point events: a diagnostic event
// for every reported diagnostic, a literal event per interned literal (debug
// level) and periodic heartbeats with batch progress.
//
// Implementations:
//
//   - Nop: tracing disabled
//   - StreamTracer: writes to a file or stderr as events arrive
//   - RingTracer: keeps the last N events; the CLI dumps the failing units
//   - MultiTracer: stream and ring together
//
//	ctx, span := trace.Start(ctx, trace.ScopePass, "scan")
//	defer span.Record(trace.Stats{Tokens: n}).End()
package trace
