// Command kernelcheck verifies that a native add kernel computes
// out[i] = in1[i] + in2[i] by comparing it against a Go-computed expectation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notargets/kernelcheck/harness"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

// rootOptions holds the flags shared by every command
type rootOptions struct {
	providerSettings
	Format  string
	Verbose bool

	logger *zap.Logger
}

// checkOptions holds the flags describing the single case run by the root command
type checkOptions struct {
	*rootOptions
	Case harness.Case
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand(nil).ExecuteContext(ctx)
	if err != nil && !isReported(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(exitCode(err))
}

// newRootCommand builds the CLI; a nil logger is built from the flags
func newRootCommand(logger *zap.Logger) *cobra.Command {
	opts := &rootOptions{logger: logger}
	check := &checkOptions{rootOptions: opts}

	cmd := &cobra.Command{
		Use:   "kernelcheck",
		Short: "Conformance check for native integer add kernels",
		Long: `kernelcheck loads a Kernel Provider, calls its add kernel on generated
int32 inputs and compares the output element by element with the sums
computed in Go.

With no flags it loads ../hardware/build/libadd.so relative to the
executable, binds add_kernel_wrapper and checks 10 elements.

Exit codes:
  0 - output matched
  1 - load failure, mismatch, out-of-bounds write or timeout
  2 - command error (invalid flags, unreadable suite)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return commandError(fmt.Sprintf("invalid format %q: must be text or json", opts.Format), nil)
			}
			if opts.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if opts.Verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := config.Build()
			if err != nil {
				return commandError("failed to initialize logger", err)
			}
			opts.logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			suite := &harness.Suite{Name: "kernelcheck", Cases: []harness.Case{check.Case}}
			return runChecks(cmd, opts, suite)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.Backend, "backend", BackendNative, "kernel provider backend (native|occa|software)")
	pf.StringVar(&opts.Library, "lib", "", "path to the kernel shared library (default: ../hardware/build/libadd.so next to the executable)")
	pf.StringVar(&opts.Symbol, "symbol", "", "exported kernel symbol (default add_kernel_wrapper)")
	pf.StringVar(&opts.OCCAMode, "occa-mode", "serial", "OCCA device mode or JSON properties for the occa backend")
	pf.StringVar(&opts.OKL, "okl", "", "OKL kernel source for the occa backend (default: built-in add kernel)")
	pf.StringVar(&opts.Format, "format", "text", "output format (text|json)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")

	f := cmd.Flags()
	f.StringVar(&check.Case.Name, "name", "default", "case name used in reports")
	f.IntVar(&check.Case.Size, "size", harness.DefaultSize, "number of elements")
	f.StringVar(&check.Case.Generator, "generator", harness.GeneratorRamp, "input generator (ramp|random)")
	f.Uint64Var(&check.Case.Seed, "seed", 0, "seed for the random generator")
	f.IntVar(&check.Case.Repeat, "repeat", 1, "number of kernel calls; every call must match")
	f.IntVar(&check.Case.Guard, "guard", harness.DefaultGuard,
		fmt.Sprintf("sentinel elements on each side of every buffer (0 selects the default of %d)", harness.DefaultGuard))
	f.DurationVar(&check.Case.Timeout, "timeout", 0, "abandon a kernel call after this long (0 waits forever)")

	cmd.AddCommand(newSuiteCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// runChecks opens the provider, runs every case in the suite and writes the report
func runChecks(cmd *cobra.Command, opts *rootOptions, suite *harness.Suite) error {
	for i := range suite.Cases {
		suite.Cases[i] = suite.Cases[i].WithDefaults()
		if err := suite.Cases[i].Validate(); err != nil {
			return commandError("invalid case", err)
		}
	}

	provider, err := openProvider(opts.providerSettings, opts.logger)
	if err != nil {
		return reportLoadFailure(cmd.ErrOrStderr(), err)
	}
	defer provider.Close()

	start := time.Now()
	h := harness.New(opts.logger)
	sr, err := h.RunSuite(cmd.Context(), provider, suite)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "run interrupted", Err: err}
	}
	opts.logger.Debug("checks finished",
		zap.String("run_id", sr.RunID), zap.Duration("elapsed", time.Since(start)))

	w := cmd.OutOrStdout()
	if opts.Format == "json" {
		err = harness.WriteJSON(w, sr)
	} else if len(sr.Results) == 1 {
		err = harness.WriteText(w, sr.Results[0])
	} else {
		err = harness.WriteSuiteText(w, sr)
	}
	if err != nil {
		return commandError("failed to write report", err)
	}

	if !sr.OK() {
		return &ExitError{
			Code:     ExitFailure,
			Message:  fmt.Sprintf("%d of %d checks failed", sr.Failed, sr.Total),
			Reported: true,
		}
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kernelcheck version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kernelcheck %s\n", version)
		},
	}
}
