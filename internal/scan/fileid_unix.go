//go:build !windows

package scan

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// fileID returns a stable identity for the directory behind path, following
// symlinks, so that bind mounts and link cycles collapse onto one visit.
func fileID(path string) (string, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return fmt.Sprintf("%d:%d", st.Dev, st.Ino), nil
}
