// Package scan walks directory trees for Python virtual environments,
// classifies what it finds, and removes what the caller selects.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/venvsweep/venvsweep/internal/python"
	"github.com/venvsweep/venvsweep/internal/venv"
)

// Sentinel errors for scan failures. Only the root is fatal; everything
// below it degrades to a Diagnostic.
var (
	ErrRootNotFound    = errors.New("scan root does not exist")
	ErrRootNotReadable = errors.New("scan root is not readable")
)

// maxDefaultWorkers caps probe parallelism when the caller does not choose.
// Each unit of work forks a Python process, so CPU count is the ceiling
// that matters, not I/O concurrency.
const maxDefaultWorkers = 8

// Options configures one scan.
type Options struct {
	Root         string        // directory tree to search
	SystemArch   string        // canonical host architecture family
	ProbeTimeout time.Duration // per-interpreter budget, python.DefaultTimeout when zero
	Workers      int           // probe parallelism, derived from CPU count when zero
	Exclude      []string      // directory basenames never entered
	ListPackages bool          // also ask pip for installed packages
}

// Result is one completed scan.
type Result struct {
	Records []venv.Record // every discovered environment, sorted by path
	Skipped []Diagnostic  // nodes the walker could not traverse
}

// Filter returns the records at least minAgeDays old. Zero keeps
// everything; an environment exactly minAgeDays old passes.
func (r *Result) Filter(minAgeDays int) []venv.Record {
	if minAgeDays <= 0 {
		return r.Records
	}
	var out []venv.Record
	for _, rec := range r.Records {
		if int(rec.AgeDays) >= minAgeDays {
			out = append(out, rec)
		}
	}
	return out
}

// Unhealthy returns every broken or incompatible record regardless of age.
func (r *Result) Unhealthy() []venv.Record {
	var out []venv.Record
	for _, rec := range r.Records {
		if !rec.Healthy() {
			out = append(out, rec)
		}
	}
	return out
}

// Scanner discovers and classifies environments under a root.
type Scanner struct {
	opts Options
}

// New creates a Scanner. Unset option fields get their defaults at Run time.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Run walks the tree, probes every discovered environment through a worker
// pool, and returns the records sorted by path. The walk and the probes
// overlap; record order is restored at the end so output stays stable
// across runs.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	workers := s.opts.Workers
	if workers <= 0 {
		workers = defaultWorkers()
	}
	slog.Debug("starting scan", "root", root, "workers", workers)

	candidates := make(chan venv.Env, workers)
	results := make(chan venv.Record, workers)

	w := newWalker(s.opts.Exclude, candidates)
	rootID, err := fileID(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRootNotReadable, err)
	}
	w.firstVisit(rootID)

	go func() {
		w.walk(ctx, root)
		close(candidates)
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for env := range candidates {
				select {
				case results <- s.classify(ctx, env, start):
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var records []venv.Record
	for rec := range results {
		records = append(records, rec)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	slog.Debug("scan complete",
		"root", root,
		"environments", len(records),
		"skipped", len(w.diags),
		"elapsed", time.Since(start))
	return &Result{Records: records, Skipped: w.diags}, nil
}

// classify fills in a Record for one discovered environment. Inspection
// problems short of a dead interpreter become notes, not failures.
func (s *Scanner) classify(ctx context.Context, env venv.Env, scanStart time.Time) venv.Record {
	rec := venv.Record{
		Path:       env.Root,
		SystemArch: s.opts.SystemArch,
	}
	rec.SizeBytes, rec.Notes = venv.DirSize(env.Root)

	if info, err := os.Stat(env.Root); err == nil {
		rec.AgeDays = venv.AgeDays(info.ModTime(), scanStart)
	} else {
		rec.Notes = append(rec.Notes, fmt.Sprintf("age: %v", err))
	}

	if cfg, err := venv.ReadVenvConfig(env.Root); err == nil {
		rec.PythonVersion = cfg.Version
		rec.BaseHome = cfg.Home
	} else {
		rec.Notes = append(rec.Notes, fmt.Sprintf("pyvenv.cfg: %v", err))
	}

	interp := python.Interpreter{Path: env.Interpreter, Timeout: s.opts.ProbeTimeout}
	raw, err := interp.Probe(ctx)
	alive := err == nil
	archMatch := false
	if alive {
		rec.PythonArch, _ = venv.Normalize(raw)
		archMatch = venv.Compare(raw, s.opts.SystemArch)
	} else {
		rec.Notes = append(rec.Notes, fmt.Sprintf("probe: %v", err))
	}
	rec.Status = venv.DeriveStatus(alive, archMatch)

	if s.opts.ListPackages && alive {
		pkgs, err := interp.Packages(ctx)
		if err != nil {
			rec.PackagesErr = true
			rec.Notes = append(rec.Notes, fmt.Sprintf("packages: %v", err))
		} else {
			rec.Packages = pkgs
		}
	}

	slog.Debug("classified environment",
		"path", rec.Path, "status", rec.Status, "python_arch", rec.PythonArch)
	return rec
}

// checkRoot validates the one path whose failure aborts the scan.
func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return fmt.Errorf("%w: %v", ErrRootNotReadable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}
	f, err := os.Open(root) //nolint:gosec // G304: root is the user's requested scan target
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRootNotReadable, err)
	}
	_ = f.Close()
	return nil
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > maxDefaultWorkers {
		return maxDefaultWorkers
	}
	return n
}
