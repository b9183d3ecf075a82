package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/kernelcheck/harness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(zap.NewNop())
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRoot_SoftwarePasses(t *testing.T) {
	r := runCLI(t, "--backend", "software")
	require.NoError(t, r.err)
	assert.Equal(t, ExitSuccess, exitCode(r.err))
	assert.Contains(t, r.stdout, "Input data 1: [0 1 2 3 4 5 6 7 8 9]")
	assert.Contains(t, r.stdout, "Input data 2: [10 8 6 4 2 0 -2 -4 -6 -8]")
	assert.Contains(t, r.stdout, "Expected output: [10 9 8 7 6 5 4 3 2 1]")
	assert.Contains(t, r.stdout, "Test PASSED!")
}

func TestRoot_SizeZero(t *testing.T) {
	r := runCLI(t, "--backend", "software", "--size", "0")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Test PASSED!")
}

func TestRoot_MissingLibrary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "hardware", "build", "libadd.so")

	r := runCLI(t, "--lib", missing)
	require.Error(t, r.err)
	assert.Equal(t, ExitFailure, exitCode(r.err))
	assert.True(t, isReported(r.err))
	assert.Contains(t, r.stderr, "Error loading shared library")
	assert.Contains(t, r.stderr, missing)
	// No comparison is attempted
	assert.NotContains(t, r.stdout, "Expected output")
}

func TestRoot_GuardZeroSelectsDefault(t *testing.T) {
	usage := newRootCommand(zap.NewNop()).Flags().Lookup("guard").Usage
	assert.Contains(t, usage, "0 selects the default of 16")

	r := runCLI(t, "--backend", "software", "--guard", "0")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Test PASSED!")
}

func TestRoot_CommandErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		msg  string
	}{
		{"bad_backend", []string{"--backend", "fpga"}, "unknown backend"},
		{"bad_size", []string{"--backend", "software", "--size", "-1"}, "size must be >= 0"},
		{"bad_generator", []string{"--backend", "software", "--generator", "sine"}, "unknown generator"},
		{"bad_occa_mode", []string{"--backend", "occa", "--occa-mode", "fpga"}, "unknown OCCA mode"},
		{"bad_format", []string{"--backend", "software", "--format", "xml"}, "invalid format"},
		{"unknown_flag", []string{"--frobnicate"}, "unknown flag"},
		{"extra_args", []string{"positional"}, "unknown command"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := runCLI(t, tc.args...)
			require.Error(t, r.err)
			assert.Equal(t, ExitCommandError, exitCode(r.err))
			assert.Contains(t, r.err.Error(), tc.msg)
		})
	}
}

func TestRoot_JSON(t *testing.T) {
	r := runCLI(t, "--backend", "software", "--format", "json", "--size", "3")
	require.NoError(t, r.err)

	var sr harness.SuiteResult
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &sr))
	assert.NotEmpty(t, sr.RunID)
	assert.Equal(t, 1, sr.Passed)
	require.Len(t, sr.Results, 1)
	assert.Equal(t, []int32{3, 2, 1}, sr.Results[0].Expected)
}

func TestSuite_Software(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: smoke
backend: software
cases:
  - name: reference
    size: 10
  - name: empty
    size: 0
  - name: random
    size: 100
    generator: random
    seed: 5
`), 0o644))

	r := runCLI(t, "suite", path, "--parallel", "2")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "=== reference (size=10, provider=software) ===")
	assert.Contains(t, r.stdout, "3 passed, 0 failed, 3 total")
}

func TestSuite_Errors(t *testing.T) {
	r := runCLI(t, "suite", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ExitCommandError, exitCode(r.err))
	assert.Contains(t, r.err.Error(), "failed to load suite")

	r = runCLI(t, "suite")
	assert.Equal(t, ExitCommandError, exitCode(r.err))
}

func TestVersion(t *testing.T) {
	r := runCLI(t, "version")
	require.NoError(t, r.err)
	assert.Equal(t, "kernelcheck dev\n", r.stdout)
}
