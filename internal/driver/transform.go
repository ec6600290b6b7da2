package driver

import (
	"context"
	"fmt"
	"io"
	"os"

	"strsym/internal/diag"
	"strsym/internal/emit"
	"strsym/internal/lexer"
	"strsym/internal/observ"
	"strsym/internal/source"
	"strsym/internal/symtab"
	"strsym/internal/token"
	"strsym/internal/trace"
)

// StdinName is the display name of a unit read from standard input.
const StdinName = "<stdin>"

// Result is the outcome of one unit.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	// Tokens is nil when the result came from the cache.
	Tokens []token.Token
	Table  *symtab.Table
	Bag    *diag.Bag
	// Output is nil whenever Bag has errors.
	Output []byte
	Timing *observ.Report
	Cached bool
}

type runMode struct {
	verb   string
	emit   bool // assemble output and fail on error diagnostics
	cached bool // consult and fill opts.Cache
}

var (
	transformMode = runMode{verb: "transform", emit: true, cached: true}
	tokenizeMode  = runMode{verb: "tokenize"}
)

// Transform loads path and transforms it. A path of "-" reads standard input.
func Transform(ctx context.Context, path string, opts Options) (*Result, error) {
	if path == "-" {
		return TransformReader(ctx, StdinName, os.Stdin, opts)
	}
	return loadAndRun(ctx, path, opts, transformMode)
}

// TransformReader reads r to the end and transforms it as a unit named name.
func TransformReader(ctx context.Context, name string, r io.Reader, opts Options) (*Result, error) {
	return readAndRun(ctx, name, r, opts, transformMode)
}

// TransformSource transforms an in-memory buffer.
func TransformSource(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	ctx, span := trace.StartFor(ctx, trace.ScopeRun, transformMode.verb, name)
	defer span.End()
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return run(ctx, fs, fs.Get(id), opts, newTimer(opts), transformMode)
}

// Tokenize classifies path without assembling output. Error diagnostics are
// returned in the bag, not as an error.
func Tokenize(ctx context.Context, path string, opts Options) (*Result, error) {
	if path == "-" {
		return readAndRun(ctx, StdinName, os.Stdin, opts, tokenizeMode)
	}
	return loadAndRun(ctx, path, opts, tokenizeMode)
}

func loadAndRun(ctx context.Context, path string, opts Options, mode runMode) (*Result, error) {
	ctx, span := trace.StartFor(ctx, trace.ScopeRun, mode.verb, path)
	defer span.End()

	timer := newTimer(opts)
	fs := source.NewFileSet()
	id, err := loadPass(span, timer, func() (source.FileID, error) { return fs.Load(path) })
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}
	return run(ctx, fs, fs.Get(id), opts, timer, mode)
}

func readAndRun(ctx context.Context, name string, r io.Reader, opts Options, mode runMode) (*Result, error) {
	ctx, span := trace.StartFor(ctx, trace.ScopeRun, mode.verb, name)
	defer span.End()

	timer := newTimer(opts)
	fs := source.NewFileSet()
	id, err := loadPass(span, timer, func() (source.FileID, error) { return fs.LoadReader(name, r) })
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInputUnavailable, name, err)
	}
	return run(ctx, fs, fs.Get(id), opts, timer, mode)
}

// loadPass runs load as the "load" pass of span. A failed load marks the
// pass, so a ring trace keeps it.
func loadPass(span *trace.Span, timer *observ.Timer, load func() (source.FileID, error)) (source.FileID, error) {
	pass := span.Child(trace.ScopePass, "load")
	idx := timer.Begin("load")
	id, err := load()
	timer.End(idx, "")
	if err != nil {
		pass.Note(err.Error()).Record(trace.Stats{Errors: 1})
	}
	pass.End()
	return id, err
}

func newTimer(opts Options) *observ.Timer {
	if !opts.EnableTimings {
		return nil
	}
	return observ.NewTimer()
}

// run is the unit pipeline shared by every entry point: cache lookup, scan,
// assemble, cache fill. The span carried by ctx is the unit's span; run
// records the unit stats on it and leaves ending it to the caller.
func run(ctx context.Context, fs *source.FileSet, file *source.File, opts Options, timer *observ.Timer, mode runMode) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span := trace.SpanFromContext(ctx)

	res := &Result{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	defer func() {
		span.Record(unitStats(res))
		if timer != nil {
			report := timer.Report()
			res.Timing = &report
			appendTimingDiagnostic(res.Bag, source.Span{File: file.ID}, timingPayload{Kind: "unit", Path: file.Path, TotalMS: report.TotalMS, Phases: report.Phases})
		}
	}()

	symOpts, err := opts.Config.SymbolOptions()
	if err != nil {
		return nil, err
	}
	lexOpts, err := opts.Config.LexerOptions()
	if err != nil {
		return nil, err
	}

	var key Digest
	useCache := mode.cached && opts.Cache != nil
	if useCache {
		key = cacheKey(file.Hash, opts.Config.Fingerprint())
		if payload, ok := lookupCache(opts.Cache, key); ok {
			restoreFromPayload(res, payload, symOpts.Order)
			return res, nil
		}
	}

	dedup := diag.NewDedupReporter(diag.Tee(diag.BagReporter{Bag: res.Bag}, traceDiagnostics(span, fs)))
	symOpts.Reporter = dedup
	interner := symtab.NewInterner(symOpts)
	lexOpts.Reporter = dedup
	lexOpts.Interner = interner

	scan := span.Child(trace.ScopePass, "scan")
	idx := timer.Begin("scan")
	res.Tokens = lexer.Classify(file, lexOpts)
	res.Table = interner.Table()
	timer.End(idx, fmt.Sprintf("tokens=%d symbols=%d", len(res.Tokens), res.Table.Len()))
	traceLiterals(scan, fs, res.Tokens)
	if n := dedup.Repeats(); n > 0 {
		scan.Note(fmt.Sprintf("%d repeated diagnostics suppressed", n))
	}
	scan.Record(unitStats(res)).End()

	if !mode.emit {
		return res, nil
	}
	if res.Bag.HasErrors() {
		return res, fmt.Errorf("%s: %w", file.Path, ErrDiagnostics)
	}

	asm := span.Child(trace.ScopePass, "assemble")
	idx = timer.Begin("assemble")
	res.Output = emit.Render(res.Table, res.Tokens, opts.Config.EmitOptions())
	timer.End(idx, fmt.Sprintf("bytes=%d", len(res.Output)))
	asm.Record(trace.Stats{Symbols: res.Table.Len(), Bytes: len(res.Output)}).End()

	if useCache {
		if err := opts.Cache.Put(key, payloadFromResult(res, key)); err != nil {
			diag.Emit(dedup, diag.New(diag.SevInfo, diag.IOInfo, source.Span{File: file.ID},
				fmt.Sprintf("result cache not updated: %v", err)))
		}
	}
	return res, nil
}

// unitStats summarizes res for the trace.
func unitStats(res *Result) trace.Stats {
	st := trace.Stats{
		Tokens: len(res.Tokens),
		Errors: res.Bag.Count(diag.SevError),
		Bytes:  len(res.Output),
		Cached: res.Cached,
	}
	if res.Table != nil {
		st.Symbols = res.Table.Len()
	}
	for i := range res.Tokens {
		if res.Tokens[i].Kind != token.LiteralRef {
			continue
		}
		st.Literals++
		if res.Tokens[i].IsInterned() {
			st.Interned++
		}
	}
	return st
}

// traceDiagnostics mirrors every diagnostic of the unit into its trace.
func traceDiagnostics(span *trace.Span, fs *source.FileSet) diag.Reporter {
	if span == nil {
		return nil
	}
	return diag.ReporterFunc(func(code diag.Code, sev diag.Severity, primary source.Span, msg string, _ []diag.Note) {
		start, _ := fs.Resolve(primary)
		span.Diagnostic(code.ID(), sev.String(), trace.Pos{Line: start.Line, Col: start.Col}, msg)
	})
}

func traceLiterals(scan *trace.Span, fs *source.FileSet, tokens []token.Token) {
	if !scan.Traces(trace.ScopeLiteral) {
		return
	}
	for i := range tokens {
		if !tokens[i].IsInterned() {
			continue
		}
		start, _ := fs.Resolve(tokens[i].Span)
		scan.Literal(tokens[i].Label, trace.Pos{Line: start.Line, Col: start.Col})
	}
}
