package scan

// ABOUTME: Guarded recursive deletion of scanned environments.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/venvsweep/venvsweep/internal/python"
	"github.com/venvsweep/venvsweep/internal/venv"
)

// dangerousDirs are paths removal refuses outright, whatever the scan root
// was. EvalSymlinks has already run when these are consulted.
var dangerousDirs = map[string]bool{
	"/":             true,
	"/usr":          true,
	"/etc":          true,
	"/var":          true,
	"/boot":         true,
	"/bin":          true,
	"/sbin":         true,
	"/lib":          true,
	"/home":         true,
	"/root":         true,
	"/System":       true,
	"/Library":      true,
	"/Applications": true,
}

// DeletionError wraps a single failed removal. One failure never stops the
// rest of the batch.
type DeletionError struct {
	Path string
	Err  error
}

func (e *DeletionError) Error() string { return fmt.Sprintf("remove %s: %v", e.Path, e.Err) }
func (e *DeletionError) Unwrap() error { return e.Err }

// Remover deletes environment directories one at a time. Targets must sit
// strictly inside the scan root, must still identify as environments at
// deletion time, and the same physical directory is removed at most once
// however many links point at it.
type Remover struct {
	root         string // resolved scan root, the only allowed prefix
	systemArch   string
	probeTimeout time.Duration
	removed      map[string]bool // resolved targets already handled
}

// NewRemover resolves the scan root that bounds every removal.
func NewRemover(root, systemArch string, probeTimeout time.Duration) (*Remover, error) {
	resolved, err := filepath.EvalSymlinks(filepath.Clean(root))
	if err != nil {
		return nil, fmt.Errorf("resolve removal root: %w", err)
	}
	return &Remover{
		root:         resolved,
		systemArch:   systemArch,
		probeTimeout: probeTimeout,
		removed:      make(map[string]bool),
	}, nil
}

// Remove deletes one recorded environment. With requireUnhealthy set the
// environment is probed again first, and one that has become healthy since
// the scan is left alone. Returns nil when the directory was already
// removed through an alias of the same physical path.
func (r *Remover) Remove(ctx context.Context, rec venv.Record, requireUnhealthy bool) error {
	if r.removed[filepath.Clean(rec.Path)] {
		return nil
	}
	target, err := filepath.EvalSymlinks(filepath.Clean(rec.Path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &DeletionError{Path: rec.Path, Err: errors.New("vanished since the scan")}
		}
		return &DeletionError{Path: rec.Path, Err: err}
	}
	if r.removed[target] {
		slog.Debug("already removed via another path", "path", rec.Path, "target", target)
		return nil
	}
	if err := r.guard(target); err != nil {
		return &DeletionError{Path: rec.Path, Err: err}
	}

	// The tree may have changed between scan and delete; check again that
	// this is still a virtual environment before destroying it.
	env, ok := venv.Identify(target)
	if !ok {
		return &DeletionError{Path: rec.Path, Err: errors.New("no longer identifies as a virtual environment")}
	}
	if requireUnhealthy && r.probeStatus(ctx, env) == venv.StatusValid {
		return &DeletionError{Path: rec.Path, Err: errors.New("healthy again, refusing to remove")}
	}

	if err := os.RemoveAll(target); err != nil {
		return &DeletionError{Path: rec.Path, Err: err}
	}
	r.removed[target] = true
	r.removed[filepath.Clean(rec.Path)] = true
	slog.Info("removed environment", "path", rec.Path, "size_bytes", rec.SizeBytes)
	return nil
}

// guard fails closed on anything outside the scan root and on system
// directories that are never removal targets no matter what the root was.
func (r *Remover) guard(target string) error {
	if dangerousDirs[target] {
		return fmt.Errorf("%s is a system directory", target)
	}
	if home, err := os.UserHomeDir(); err == nil && target == home {
		return errors.New("refusing to remove the home directory")
	}
	if !isSubpath(target, r.root) {
		return fmt.Errorf("%s is outside scan root %s", target, r.root)
	}
	return nil
}

// isSubpath reports whether target sits strictly inside prefix. Equality
// fails: the scan root itself is never a removal target. Both paths must
// already be cleaned and resolved.
func isSubpath(target, prefix string) bool {
	sep := string(filepath.Separator)
	if !strings.HasSuffix(prefix, sep) {
		prefix += sep
	}
	return strings.HasPrefix(target, prefix)
}

// probeStatus reruns the health check that classified the record.
func (r *Remover) probeStatus(ctx context.Context, env venv.Env) venv.Status {
	interp := python.Interpreter{Path: env.Interpreter, Timeout: r.probeTimeout}
	raw, err := interp.Probe(ctx)
	if err != nil {
		return venv.StatusBroken
	}
	return venv.DeriveStatus(true, venv.Compare(raw, r.systemArch))
}
