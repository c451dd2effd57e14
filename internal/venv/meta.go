package venv

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"
)

// DirSize totals the regular files under root. Symlinks are never followed,
// so a link escaping the environment can neither inflate the total nor loop
// the walk. Unreadable entries are skipped and come back as notes.
func DirSize(root string) (uint64, []string) {
	var total uint64
	var notes []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			notes = append(notes, fmt.Sprintf("size: skipped %s: %v", path, err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			notes = append(notes, fmt.Sprintf("size: skipped %s: %v", path, err))
			return nil
		}
		total += uint64(info.Size())
		return nil
	})
	return total, notes
}

// AgeDays converts the gap between mtime and now into whole days, clamped
// at zero so a future timestamp reads as fresh instead of wrapping.
func AgeDays(mtime, now time.Time) uint32 {
	if !mtime.Before(now) {
		return 0
	}
	return uint32(now.Sub(mtime).Hours() / 24)
}
