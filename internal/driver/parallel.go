package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"strsym/internal/config"
	"strsym/internal/diag"
	"strsym/internal/observ"
	"strsym/internal/source"
	"strsym/internal/trace"
)

// UnitResult is the outcome of one file of a batch run.
type UnitResult struct {
	Path   string // relative to the batch root, slash-separated
	Result *Result
	Err    error
	// Written is the output path when Options.OutDir is set and the unit succeeded.
	Written string
}

// BatchResult collects every unit of a TransformDir call in path order.
type BatchResult struct {
	Root    string
	FileSet *source.FileSet
	Units   []UnitResult
	Timer   *observ.Timer
}

// Failed returns the number of units that produced no output.
func (b *BatchResult) Failed() int {
	n := 0
	for i := range b.Units {
		if b.Units[i].Err != nil {
			n++
		}
	}
	return n
}

// ListSourceFiles returns a sorted list of files under dir whose extension is
// selected by cfg.
func ListSourceFiles(dir string, cfg *config.Config) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && cfg.MatchesExtension(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// TransformDir transforms every matching file under dir in parallel. Unit
// failures are reported per unit; the returned error is reserved for listing
// failures and cancellation.
func TransformDir(ctx context.Context, dir string, opts Options) (*BatchResult, error) {
	ctx, batchSpan := trace.Start(ctx, trace.ScopeRun, "transform-dir")
	defer batchSpan.End()

	files, err := ListSourceFiles(dir, &opts.Config)
	if err != nil {
		batchSpan.Note(err.Error()).Record(trace.Stats{Errors: 1})
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}

	batch := &BatchResult{
		Root:    dir,
		FileSet: source.NewFileSetWithBase(dir),
		Units:   make([]UnitResult, len(files)),
	}
	if opts.EnableTimings {
		batch.Timer = observ.NewTimer()
	}
	if len(files) == 0 {
		return batch, nil
	}

	// Предзагрузка: FileSet не потокобезопасен на запись, поэтому все файлы
	// добавляются до запуска воркеров.
	fileIDs := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	loadStart := time.Now()
	for i, path := range files {
		batch.Units[i].Path = UnitPath(dir, path)
		notify(opts.Progress, Event{File: batch.Units[i].Path, Stage: StageLoad, Status: StatusQueued})
		id, loadErr := batch.FileSet.Load(path)
		if loadErr != nil {
			// пустой виртуальный файл даёт диагностике корректный путь
			id = batch.FileSet.Add(path, nil)
			loadErrs[i] = loadErr
		}
		fileIDs[i] = id
	}
	batch.Timer.Add("load", time.Since(loadStart))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	progress := newBatchProgress(len(files))
	stop := trace.StartHeartbeat(ctx, opts.Heartbeat, progress.status)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			progress.start(batch.Units[i].Path)
			defer progress.finish(batch.Units[i].Path)
			transformUnit(gctx, batch, i, fileIDs[i], loadErrs[i], opts)
			return nil
		})
	}

	err = g.Wait()
	batchSpan.Note(fmt.Sprintf("%d units", len(files))).Record(trace.Stats{Errors: batch.Failed()})
	return batch, err
}

// transformUnit fills batch.Units[i]; the index is unique per goroutine.
func transformUnit(ctx context.Context, batch *BatchResult, i int, id source.FileID, loadErr error, opts Options) {
	unit := &batch.Units[i]
	file := batch.FileSet.Get(id)
	started := time.Now()

	ctx, span := trace.Start(ctx, trace.ScopeUnit, unit.Path)
	defer span.End()

	if loadErr != nil {
		bag := diag.NewBag(opts.MaxDiagnostics)
		diag.Emit(diag.BagReporter{Bag: bag}, diag.NewError(diag.IOLoadFileError, source.Span{File: id},
			"failed to load file: "+loadErr.Error()))
		span.Diagnostic(diag.IOLoadFileError.ID(), diag.SevError.String(), trace.Pos{}, loadErr.Error())
		span.Record(trace.Stats{Errors: 1})
		unit.Result = &Result{FileSet: batch.FileSet, File: file, Bag: bag}
		unit.Err = fmt.Errorf("%w: %w", ErrInputUnavailable, loadErr)
		notify(opts.Progress, Event{File: unit.Path, Stage: StageLoad, Status: StatusError, Err: unit.Err})
		return
	}

	notify(opts.Progress, Event{File: unit.Path, Stage: StageScan, Status: StatusWorking})
	timer := newTimer(opts)
	res, err := run(ctx, batch.FileSet, file, opts, timer, transformMode)
	unit.Result = res
	unit.Err = err
	batch.Timer.Merge(timer)
	if err != nil {
		notify(opts.Progress, Event{File: unit.Path, Stage: StageScan, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return
	}

	if opts.OutDir != "" {
		notify(opts.Progress, Event{File: unit.Path, Stage: StageWrite, Status: StatusWorking})
		target := filepath.Join(opts.OutDir, filepath.FromSlash(unit.Path))
		write := span.Child(trace.ScopePass, "write").Note(target)
		werr := WriteOutput(target, res.Output)
		if werr != nil {
			diag.Emit(diag.BagReporter{Bag: res.Bag}, diag.NewError(diag.IOWriteError, source.Span{File: id},
				"failed to write output: "+werr.Error()))
			write.Diagnostic(diag.IOWriteError.ID(), diag.SevError.String(), trace.Pos{}, werr.Error())
			write.Record(trace.Stats{Errors: 1})
			span.Record(unitStats(res))
		}
		write.End()
		if werr != nil {
			unit.Err = werr
			notify(opts.Progress, Event{File: unit.Path, Stage: StageWrite, Status: StatusError, Err: werr, Elapsed: time.Since(started)})
			return
		}
		unit.Written = target
	}

	status := StatusDone
	if res.Cached {
		status = StatusCached
	}
	notify(opts.Progress, Event{File: unit.Path, Stage: StageAssemble, Status: status, Elapsed: time.Since(started), Symbols: res.Table.Len()})
}

// batchProgress feeds the trace heartbeat of a batch.
type batchProgress struct {
	total int
	done  atomic.Int64

	mu      sync.Mutex
	running map[string]struct{}
}

func newBatchProgress(total int) *batchProgress {
	return &batchProgress{total: total, running: make(map[string]struct{})}
}

func (p *batchProgress) start(path string) {
	p.mu.Lock()
	p.running[path] = struct{}{}
	p.mu.Unlock()
}

func (p *batchProgress) finish(path string) {
	p.mu.Lock()
	delete(p.running, path)
	p.mu.Unlock()
	p.done.Add(1)
}

// status renders "3/10 units; running a.c, b.c".
func (p *batchProgress) status() string {
	p.mu.Lock()
	running := make([]string, 0, len(p.running))
	for path := range p.running {
		running = append(running, path)
	}
	p.mu.Unlock()
	sort.Strings(running)

	s := fmt.Sprintf("%d/%d units", p.done.Load(), p.total)
	if len(running) > 0 {
		s += "; running " + strings.Join(running, ", ")
	}
	return s
}

// UnitPath is the slash-separated name of path inside a batch rooted at root.
// Progress events and UnitResult.Path use it.
func UnitPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
