// Package python shells out to CPython interpreters to probe health,
// architecture, and installed packages.
// ABOUTME: Every call runs the environment's own interpreter under a hard timeout.
package python

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/venvsweep/venvsweep/internal/venv"
)

// DefaultTimeout bounds a single interpreter invocation. A wedged
// interpreter must never stall the whole scan.
const DefaultTimeout = 5 * time.Second

// archProbe prints the architecture the interpreter itself runs as, which
// can differ from the kernel's under emulation or Rosetta.
const archProbe = "import platform; print(platform.machine())"

// ErrProbeTimeout reports an interpreter that did not answer in time.
var ErrProbeTimeout = errors.New("interpreter did not respond before the timeout")

// Interpreter is a handle on one environment's Python binary.
type Interpreter struct {
	Path    string        // interpreter path inside the environment, unresolved
	Timeout time.Duration // per-invocation budget, DefaultTimeout when zero
}

// Probe runs the interpreter and returns the machine string it reports.
// Any failure at all (cannot start, non-zero exit, timeout, empty output)
// means the environment is unusable and comes back as an error.
func (i Interpreter) Probe(ctx context.Context) (string, error) {
	out, err := i.run(ctx, "-c", archProbe)
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", errors.New("interpreter printed no architecture")
	}
	return out, nil
}

// Packages lists the environment's installed distributions through pip's
// JSON output. Invoking pip through the environment's own interpreter path
// is what scopes the listing to the environment's site-packages.
func (i Interpreter) Packages(ctx context.Context) ([]venv.Package, error) {
	out, err := i.run(ctx, "-m", "pip", "list", "--format", "json", "--disable-pip-version-check")
	if err != nil {
		return nil, err
	}
	var rows []venv.Package
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		return nil, fmt.Errorf("parse pip list output: %w", err)
	}
	return rows, nil
}

// run executes the interpreter with a hard deadline and returns trimmed
// stdout. Stderr is folded into the error.
func (i Interpreter) run(ctx context.Context, args ...string) (string, error) {
	timeout := i.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, i.Path, args...) //nolint:gosec // G204: path was discovered inside the tree being scanned
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Give a killed interpreter a moment to flush before Wait gives up.
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%w after %s", ErrProbeTimeout, timeout)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, lastLine(msg))
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// lastLine pulls the exception summary out of a Python traceback; the
// final stderr line is the one that names the error.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
