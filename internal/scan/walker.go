package scan

// ABOUTME: Depth-first directory traversal that yields virtual environments
// ABOUTME: as leaves and survives unreadable subtrees and symlink cycles.

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/venvsweep/venvsweep/internal/venv"
)

// Diagnostic records a node the walker had to skip. Skips are never fatal;
// only the scan root itself gets that treatment.
type Diagnostic struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// walker performs the depth-first traversal, emitting identified
// environments and collecting skip diagnostics. It runs in a single
// goroutine; classification happens downstream.
type walker struct {
	exclude map[string]struct{}
	out     chan<- venv.Env
	visited map[string]struct{} // fileID set, collapses symlink cycles
	diags   []Diagnostic
}

func newWalker(exclude []string, out chan<- venv.Env) *walker {
	ex := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		ex[name] = struct{}{}
	}
	return &walker{
		exclude: ex,
		out:     out,
		visited: make(map[string]struct{}),
	}
}

// walk visits dir, emits it when it is an environment, and otherwise
// recurses into child directories. Environments are leaves: whatever sits
// inside one is that environment's business, not the walk's.
func (w *walker) walk(ctx context.Context, dir string) {
	if ctx.Err() != nil {
		return
	}
	if env, ok := venv.Identify(dir); ok {
		select {
		case w.out <- env:
		case <-ctx.Done():
		}
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.skip(dir, err)
		return
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		name := entry.Name()
		if _, excluded := w.exclude[name]; excluded {
			continue
		}
		child := filepath.Join(dir, name)
		isDir := entry.IsDir()
		if !isDir && entry.Type()&fs.ModeSymlink != 0 {
			// Directory symlinks are followed; each physical target
			// still gets walked at most once via the visited set.
			info, err := os.Stat(child)
			if err != nil || !info.IsDir() {
				continue
			}
			isDir = true
		}
		if !isDir {
			continue
		}
		id, err := fileID(child)
		if err != nil {
			w.skip(child, err)
			continue
		}
		if !w.firstVisit(id) {
			slog.Debug("already visited", "path", child)
			continue
		}
		w.walk(ctx, child)
	}
}

// skip records a node that could not be traversed. Everything below it is
// out of scope for this scan.
func (w *walker) skip(path string, err error) {
	w.diags = append(w.diags, Diagnostic{Path: path, Reason: err.Error()})
	slog.Debug("skipping unreadable node", "path", path, "error", err)
}

// firstVisit marks id as visited and reports whether this was the first time.
func (w *walker) firstVisit(id string) bool {
	if _, seen := w.visited[id]; seen {
		return false
	}
	w.visited[id] = struct{}{}
	return true
}
