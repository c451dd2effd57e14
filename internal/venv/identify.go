package venv

// ABOUTME: Decides whether a directory is a Python virtual environment root.

import (
	"os"
	"path/filepath"
)

// interpreterCandidates are the conventional interpreter locations inside an
// environment, in probe order. POSIX layouts come first.
var interpreterCandidates = []string{
	filepath.Join("bin", "python"),
	filepath.Join("Scripts", "python.exe"),
}

// Env is a directory identified as a virtual environment root.
type Env struct {
	Root        string // environment directory
	Interpreter string // interpreter path inside the environment, unresolved
}

// Identify reports whether dir is a virtual environment root. All three
// markers must be present: a readable pyvenv.cfg file at the top level, an
// interpreter in a conventional location, and a site-packages directory.
// Anything less is an ordinary directory and traversal continues into it.
func Identify(dir string) (Env, bool) {
	if !isReadableFile(filepath.Join(dir, "pyvenv.cfg")) {
		return Env{}, false
	}
	interp, ok := findInterpreter(dir)
	if !ok {
		return Env{}, false
	}
	if !hasSitePackages(dir) {
		return Env{}, false
	}
	return Env{Root: dir, Interpreter: interp}, true
}

// isReadableFile requires an openable regular file. A marker this process
// cannot read makes the directory an ordinary directory, not an error.
func isReadableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the scanned tree
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// findInterpreter returns the first interpreter candidate present in dir.
// The path is returned unresolved: executing the environment's own
// interpreter path is what makes Python pick up the adjacent pyvenv.cfg,
// so pip reports the environment's packages and not the base
// installation's. A dangling symlink still counts as present; probing it
// later fails and the environment classifies as broken rather than
// disappearing from the report.
func findInterpreter(dir string) (string, bool) {
	for _, rel := range interpreterCandidates {
		path := filepath.Join(dir, rel)
		if _, err := os.Lstat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// hasSitePackages checks the library layouts produced by CPython and PyPy
// on both POSIX (lib/python3.12/site-packages) and Windows
// (Lib/site-packages) installs.
func hasSitePackages(dir string) bool {
	for _, p := range []string{
		filepath.Join(dir, "Lib", "site-packages"),
		filepath.Join(dir, "lib", "site-packages"),
	} {
		if isDir(p) {
			return true
		}
	}
	matches, err := filepath.Glob(filepath.Join(dir, "lib", "*", "site-packages"))
	if err != nil {
		return false
	}
	for _, m := range matches {
		if isDir(m) {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
