package venv

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		known bool
	}{
		{"x86_64 canonical", "x86_64", "x86_64", true},
		{"amd64 alias", "amd64", "x86_64", true},
		{"x64 alias", "x64", "x86_64", true},
		{"uppercase folds", "AMD64", "x86_64", true},
		{"surrounding space", "  x86_64\n", "x86_64", true},
		{"aarch64 alias", "aarch64", "arm64", true},
		{"arm64 canonical", "arm64", "arm64", true},
		{"i686 alias", "i686", "x86", true},
		{"go 386 alias", "386", "x86", true},
		{"armv7l alias", "armv7l", "arm", true},
		{"riscv64", "riscv64", "riscv64", true},
		{"ppc64le distinct from ppc64", "ppc64le", "ppc64le", true},
		{"loongarch64 alias", "loongarch64", "loong64", true},
		{"unknown passes through folded", "SPARC64", "sparc64", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fam, known := Normalize(tt.in)
			assert.Equal(t, tt.want, fam)
			assert.Equal(t, tt.known, known)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		python string
		system string
		want   bool
	}{
		{"same alias family", "x86_64", "amd64", true},
		{"arm aliases", "aarch64", "arm64", true},
		{"case insensitive", "X86_64", "amd64", true},
		{"different families", "x86_64", "arm64", false},
		{"32 vs 64 bit intel", "i686", "x86_64", false},
		{"endianness matters", "ppc64", "ppc64le", false},
		{"unknown never matches itself", "sparc64", "sparc64", false},
		{"unknown vs known", "sparc64", "x86_64", false},
		{"empty strings", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.python, tt.system))
		})
	}
}

func TestHostArch_KernelArchWins(t *testing.T) {
	orig := hostInfo
	defer func() { hostInfo = orig }()
	hostInfo = func(_ context.Context) (*host.InfoStat, error) {
		return &host.InfoStat{KernelArch: "aarch64"}, nil
	}

	assert.Equal(t, "arm64", HostArch(context.Background()))
}

func TestHostArch_FallsBackWhenKernelUnknown(t *testing.T) {
	orig := hostInfo
	defer func() { hostInfo = orig }()
	hostInfo = func(_ context.Context) (*host.InfoStat, error) {
		return &host.InfoStat{KernelArch: "vax"}, nil
	}

	want, _ := Normalize(runtime.GOARCH)
	assert.Equal(t, want, HostArch(context.Background()))
}

func TestHostArch_FallsBackOnLookupError(t *testing.T) {
	orig := hostInfo
	defer func() { hostInfo = orig }()
	hostInfo = func(_ context.Context) (*host.InfoStat, error) {
		return nil, errors.New("host info unavailable")
	}

	want, _ := Normalize(runtime.GOARCH)
	assert.Equal(t, want, HostArch(context.Background()))
}
