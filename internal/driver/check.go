package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"decaf/internal/diag"
	"decaf/internal/loader"
	"decaf/internal/observ"
	"decaf/internal/pipeline"
	"decaf/internal/sema"
	"decaf/internal/source"
	"decaf/internal/trace"
)

// Options configure a check run.
type Options struct {
	MaxDiagnostics int
	// Dedup drops repeated diagnostics with the same code, span and message.
	Dedup         bool
	Jobs          int
	EnableTimings bool
	BaseDir       string
	Cache         *DiskCache
	Progress      pipeline.ProgressSink
	PhaseObserver PhaseObserver
	Bodies        sema.BodyChecker
}

// FileResult is the outcome of checking one manifest. Program and Sema are
// nil when the file was answered from the cache or failed to decode.
type FileResult struct {
	Path    string
	FileSet *source.FileSet
	FileID  source.FileID
	Program *loader.Program
	Sema    *sema.Result
	Bag     *diag.Bag
	Timer   *observ.Timer
	Cached  bool
}

// HasErrors reports whether the file produced error diagnostics.
func (r *FileResult) HasErrors() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

// CheckFile loads the manifest at path and resolves its declarations.
// Only I/O failures are returned as errors; everything else ends up in the
// result's diagnostic bag.
func CheckFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeModule, "check_file")
	span.WithExtra("path", path)
	defer span.End("")

	res := &FileResult{
		Path:    path,
		FileSet: source.NewFileSetWithBase(opts.BaseDir),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Timer:   observ.NewTimer(),
	}
	display := pipeline.DisplayPath(path, absDir(opts.BaseDir))
	stage := newStageTracker(ctx, display, opts, res.Timer)

	done := stage.begin(pipeline.StageLoad)
	fileID, err := res.FileSet.Load(path)
	if err != nil {
		done(err, "")
		return nil, fmt.Errorf("driver: load %s: %w", path, err)
	}
	res.FileID = fileID
	file := res.FileSet.Get(fileID)

	// анализ пишет всё подряд; дедупликация и лимит применяются при сборке
	// итогового мешка, поэтому в кэше лежит полный набор
	raw := diag.NewBag(0)
	reporter := diag.BagReporter{Bag: raw}

	key := CacheKey(file.Hash)
	if opts.Cache != nil {
		cached, hit, warning := restoreFromCache(ctx, opts.Cache, key, res.FileID)
		if hit {
			res.Cached = true
			res.settle(cached, opts)
			done(nil, "cached")
			pipeline.Emit(opts.Progress, pipeline.Event{File: display, Stage: pipeline.StageCache, Status: pipeline.StatusCached})
			stage.finish(res)
			return res, nil
		}
		if warning != nil {
			res.Bag.Add(*warning)
		}
	}

	prog, err := loader.Load(res.FileSet, fileID, reporter)
	if err != nil {
		// битый YAML это ошибка пользователя, а не сбой драйвера
		reporter.Report(diag.SynManifestDecode, diag.SevError, source.Span{File: fileID}, err.Error(), nil)
		res.settle(raw.Items(), opts)
		done(nil, "decode failed")
		stage.finish(res)
		return res, nil
	}
	res.Program = prog
	done(nil, fmt.Sprintf("decls=%d", len(prog.Builder.Files.Get(prog.File).Decls)))

	done = stage.begin(pipeline.StageSema)
	semaRes := sema.Check(ctx, prog.Builder, prog.File, sema.Options{
		Reporter: reporter,
		Registry: prog.Globals,
		Bodies:   opts.Bodies,
	})
	res.Sema = &semaRes
	repeats := res.settle(raw.Items(), opts)
	done(nil, fmt.Sprintf("scopes=%d repeats=%d", semaRes.Scopes.Scopes.Len(), repeats))

	if opts.Cache != nil {
		payload := &DiskPayload{
			Path:        file.Path,
			ContentHash: file.Hash,
			Decls:       len(prog.Builder.Files.Get(prog.File).Decls),
			Diagnostics: append([]diag.Diagnostic(nil), raw.Items()...),
		}
		if err := opts.Cache.Put(key, payload); err != nil {
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: fileID}, "cannot store diagnostics: "+err.Error()))
		}
	}
	stage.finish(res)
	return res, nil
}

// settle replays diagnostics in report order through the run's dedup and
// limit settings into res.Bag and returns how many repeats were dropped.
func (res *FileResult) settle(items []diag.Diagnostic, opts Options) int {
	var reporter diag.Reporter = diag.BagReporter{Bag: res.Bag}
	var dedup *diag.DedupReporter
	if opts.Dedup {
		dedup = diag.NewDedupReporter(reporter)
		reporter = dedup
	}
	for _, d := range items {
		reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
	}
	res.Bag.Sort()
	return dedup.Suppressed()
}

// restoreFromCache returns the cached diagnostics of fileID in report
// order. An unreadable entry is a miss with a warning.
func restoreFromCache(ctx context.Context, cache *DiskCache, key Digest, fileID source.FileID) ([]diag.Diagnostic, bool, *diag.Diagnostic) {
	span, _ := trace.StartSpan(ctx, trace.ScopePass, "cache_lookup")
	defer span.End("")

	var payload DiskPayload
	hit, err := cache.Get(key, &payload)
	if err != nil {
		warning := diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: fileID}, "ignoring unreadable cache entry: "+err.Error())
		return nil, false, &warning
	}
	if !hit {
		return nil, false, nil
	}
	for i := range payload.Diagnostics {
		d := &payload.Diagnostics[i]
		// file ids are per run; cached spans always refer to this file
		d.Primary.File = fileID
		for j := range d.Notes {
			d.Notes[j].Span.File = fileID
		}
	}
	span.WithExtra("diagnostics", fmt.Sprint(len(payload.Diagnostics)))
	return payload.Diagnostics, true, nil
}

// CheckDir checks every manifest under dir in parallel. Results come back
// in path order.
func CheckDir(ctx context.Context, dir string, opts Options) ([]*FileResult, error) {
	files, err := ListManifests(dir)
	if err != nil {
		return nil, err
	}
	return CheckFiles(ctx, files, opts)
}

// CheckFiles checks the given manifests in parallel, at most opts.Jobs at a
// time. The first I/O error cancels the remaining work.
func CheckFiles(ctx context.Context, files []string, opts Options) ([]*FileResult, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "check_files")
	defer span.End(fmt.Sprintf("files=%d", len(files)))

	if opts.BaseDir == "" && len(files) > 0 {
		opts.BaseDir = commonDir(files)
	}
	pipeline.EmitQueued(opts.Progress, pipeline.DisplayFiles(files, opts.BaseDir))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]*FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			res, err := CheckFile(gctx, path, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// ListManifests returns every .yaml and .yml file under dir, sorted.
func ListManifests(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("driver: walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func commonDir(files []string) string {
	dir := filepath.Dir(files[0])
	for _, f := range files[1:] {
		for !strings.HasPrefix(filepath.Dir(f)+string(filepath.Separator), dir+string(filepath.Separator)) {
			parent := filepath.Dir(dir)
			if parent == dir {
				return dir
			}
			dir = parent
		}
	}
	return dir
}

func absDir(dir string) string {
	if dir == "" {
		return ""
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// stageTracker fans one stage boundary out to the timer, the progress
// sink, the phase observer and the tracer.
type stageTracker struct {
	ctx     context.Context
	display string
	opts    Options
	timer   *observ.Timer
	started time.Time
}

func newStageTracker(ctx context.Context, display string, opts Options, timer *observ.Timer) *stageTracker {
	return &stageTracker{ctx: ctx, display: display, opts: opts, timer: timer, started: time.Now()}
}

func (s *stageTracker) begin(stage pipeline.Stage) func(err error, note string) {
	span, _ := trace.StartSpan(s.ctx, trace.ScopePass, string(stage))
	idx := s.timer.Begin(string(stage))
	start := time.Now()
	pipeline.Emit(s.opts.Progress, pipeline.Event{File: s.display, Stage: stage, Status: pipeline.StatusWorking})
	if s.opts.PhaseObserver != nil {
		s.opts.PhaseObserver(PhaseEvent{File: s.display, Stage: stage, Status: PhaseStart})
	}
	return func(err error, note string) {
		elapsed := time.Since(start)
		s.timer.End(idx, note)
		span.End(note)
		status := pipeline.StatusDone
		if err != nil {
			status = pipeline.StatusError
		}
		pipeline.Emit(s.opts.Progress, pipeline.Event{File: s.display, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
		if s.opts.PhaseObserver != nil {
			s.opts.PhaseObserver(PhaseEvent{File: s.display, Stage: stage, Status: PhaseEnd, Elapsed: elapsed, Note: note, Err: err})
		}
	}
}

// finish reports the file as done and, when enabled, records its timings
// as an informational diagnostic.
func (s *stageTracker) finish(res *FileResult) {
	status := pipeline.StatusDone
	if res.Cached {
		status = pipeline.StatusCached
	} else if res.HasErrors() {
		status = pipeline.StatusError
	}
	pipeline.Emit(s.opts.Progress, pipeline.Event{File: s.display, Status: status, Elapsed: time.Since(s.started)})
	if s.opts.EnableTimings {
		report := res.Timer.Report()
		appendTimingDiagnostic(res.Bag, res.FileID, timingPayload{
			Kind:    "file",
			Path:    s.display,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}
}
