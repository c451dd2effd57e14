//go:build windows

package scan

import (
	"fmt"
	"path/filepath"
	"strings"
)

// fileID returns a stable identity for the directory behind path. Windows
// has no usable inode numbers through the portable APIs, so the resolved
// path stands in; NTFS paths compare case-insensitively.
func fileID(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return strings.ToLower(resolved), nil
}
