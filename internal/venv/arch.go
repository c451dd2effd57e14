package venv

// ABOUTME: CPU architecture normalization and comparison. Alias families fold
// ABOUTME: together; anything outside the table fails closed.

import (
	"context"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// archFamilies maps machine identifiers, as reported by Python's
// platform.machine() or by the kernel, to a canonical family name.
// Keys are lowercase; Normalize folds before lookup.
var archFamilies = map[string]string{
	// 64-bit Intel/AMD
	"x86_64": "x86_64",
	"amd64":  "x86_64",
	"x64":    "x86_64",

	// 64-bit ARM
	"arm64":   "arm64",
	"aarch64": "arm64",

	// 32-bit Intel
	"i386": "x86",
	"i486": "x86",
	"i586": "x86",
	"i686": "x86",
	"x86":  "x86",
	"386":  "x86",

	// 32-bit ARM (Raspberry Pi and friends)
	"arm":    "arm",
	"armv6l": "arm",
	"armv7l": "arm",
	"armv8l": "arm",

	// the rest map one-to-one
	"riscv64":     "riscv64",
	"ppc64":       "ppc64",
	"ppc64le":     "ppc64le",
	"s390x":       "s390x",
	"loong64":     "loong64",
	"loongarch64": "loong64",
	"mips64":      "mips64",
	"mips64le":    "mips64le",
}

// Normalize folds s to its canonical architecture family. Unknown values
// come back trimmed and lowercased with known == false.
func Normalize(s string) (family string, known bool) {
	folded := strings.ToLower(strings.TrimSpace(s))
	if fam, ok := archFamilies[folded]; ok {
		return fam, true
	}
	return folded, false
}

// Compare reports whether two machine identifiers belong to the same known
// architecture family. Identifiers outside the alias table never match
// anything, including themselves.
func Compare(pythonArch, systemArch string) bool {
	pf, pok := Normalize(pythonArch)
	sf, sok := Normalize(systemArch)
	return pok && sok && pf == sf
}

// hostInfo is a variable so tests can fake the platform lookup.
var hostInfo = host.InfoWithContext

// HostArch returns the canonical architecture family of the machine running
// the scan. The kernel's reported value wins when it normalizes to a known
// family; otherwise the Go runtime's GOARCH decides.
func HostArch(ctx context.Context) string {
	if info, err := hostInfo(ctx); err == nil {
		if fam, ok := Normalize(info.KernelArch); ok {
			return fam
		}
	}
	fam, _ := Normalize(runtime.GOARCH)
	return fam
}
