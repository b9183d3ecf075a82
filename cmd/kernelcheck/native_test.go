//go:build cgo

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/notargets/kernelcheck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_NativeKernels(t *testing.T) {
	lib := testutil.BuildTestKernelLibrary(t)

	t.Run("Correct", func(t *testing.T) {
		r := runCLI(t, "--lib", lib)
		require.NoError(t, r.err)
		assert.Contains(t, r.stdout, "Kernel output: [10 9 8 7 6 5 4 3 2 1]")
		assert.Contains(t, r.stdout, "Test PASSED!")
	})

	t.Run("IgnoresSecondInput", func(t *testing.T) {
		r := runCLI(t, "--lib", lib, "--symbol", testutil.SymbolIgnoreIn2)
		require.Error(t, r.err)
		assert.Equal(t, ExitFailure, exitCode(r.err))
		assert.Contains(t, r.stdout, "Test FAILED!")
		assert.Contains(t, r.stdout, "Difference: [-10 -8 -6 -4 -2 0 2 4 6 8]")
	})

	t.Run("LeavesOutputZero", func(t *testing.T) {
		r := runCLI(t, "--lib", lib, "--symbol", testutil.SymbolNoop)
		assert.Equal(t, ExitFailure, exitCode(r.err))
		assert.Contains(t, r.stdout, "Difference: [-10 -9 -8 -7 -6 -5 -4 -3 -2 -1]")
	})

	t.Run("Overrun", func(t *testing.T) {
		r := runCLI(t, "--lib", lib, "--symbol", testutil.SymbolOverrun)
		assert.Equal(t, ExitFailure, exitCode(r.err))
		assert.Contains(t, r.stdout, "Error: kernel wrote outside out at index 10")
	})

	t.Run("ClobbersInput", func(t *testing.T) {
		r := runCLI(t, "--lib", lib, "--symbol", testutil.SymbolClobberInput)
		assert.Equal(t, ExitFailure, exitCode(r.err))
		assert.Contains(t, r.stdout, "modified read-only input in1")
	})

	t.Run("HungKernelTimesOut", func(t *testing.T) {
		r := runCLI(t, "--lib", lib, "--symbol", testutil.SymbolHang, "--timeout", "50ms")
		require.Error(t, r.err)
		assert.Equal(t, ExitFailure, exitCode(r.err))
		assert.Contains(t, r.stdout, "Test FAILED!")
		assert.Contains(t, r.stdout, "did not return within 50ms")
		assert.NotContains(t, r.stdout, "Kernel output")

		// The abandoned call returns into a library that is still mapped
		time.Sleep(testutil.HangDuration + 200*time.Millisecond)
	})

	t.Run("MissingSymbol", func(t *testing.T) {
		r := runCLI(t, "--lib", lib, "--symbol", "mul_kernel_wrapper")
		assert.Equal(t, ExitFailure, exitCode(r.err))
		assert.Contains(t, r.stderr, "mul_kernel_wrapper")
	})

	t.Run("RandomRepeated", func(t *testing.T) {
		r := runCLI(t, "--lib", lib, "--size", "4096", "--generator", "random", "--seed", "9", "--repeat", "4", "--timeout", "5s")
		require.NoError(t, r.err)
		assert.Contains(t, r.stdout, "Timing: 4 runs")
	})
}

func TestSuite_FlagOverridesBackend(t *testing.T) {
	lib := testutil.BuildTestKernelLibrary(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: override
backend: native
library: does/not/exist.so
symbol: add_ignore_in2
cases:
  - size: 4
`), 0o644))

	r := runCLI(t, "suite", path, "--lib", lib)
	assert.Equal(t, ExitFailure, exitCode(r.err))
	assert.Contains(t, r.stdout, "Test FAILED!")

	r = runCLI(t, "suite", path, "--lib", lib, "--symbol", testutil.SymbolAdd)
	require.NoError(t, r.err)
}
