// Package testutil builds the native kernels used by cgo tests.
package testutil

import (
	_ "embed"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

//go:embed testdata/add_kernels.c
var addKernelsSource []byte

// Symbols exported by the test kernel library
const (
	SymbolAdd          = "add_kernel_wrapper"
	SymbolIgnoreIn2    = "add_ignore_in2"
	SymbolNoop         = "add_noop"
	SymbolOverrun      = "add_overrun"
	SymbolClobberInput = "add_clobber_input"
	SymbolHang         = "add_hang"
)

// HangDuration is how long the add_hang kernel blocks before returning
const HangDuration = time.Second

// BuildTestKernelLibrary compiles the test add kernels into a shared library
// under a temporary directory, skipping the test when no C compiler is found
func BuildTestKernelLibrary(tb testing.TB) string {
	tb.Helper()

	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	if _, err := exec.LookPath(cc); err != nil {
		tb.Skipf("no C compiler available (%s): %v", cc, err)
	}

	dir := tb.TempDir()
	src := filepath.Join(dir, "add_kernels.c")
	if err := os.WriteFile(src, addKernelsSource, 0o644); err != nil {
		tb.Fatalf("failed to write kernel source: %v", err)
	}

	lib := filepath.Join(dir, "libadd.so")
	cmd := exec.Command(cc, "-shared", "-fPIC", "-O2", "-o", lib, src)
	if out, err := cmd.CombinedOutput(); err != nil {
		tb.Skipf("failed to build test kernel library: %v\n%s", err, out)
	}
	return lib
}
