package main

import (
	"github.com/notargets/kernelcheck/harness"
	"github.com/spf13/cobra"
)

func newSuiteCommand(opts *rootOptions) *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "suite <suite.yaml>",
		Short: "Run every case in a YAML suite",
		Long: `Run the cases listed in a YAML suite file against one Kernel Provider.

The suite may name its backend, library, symbol, OCCA mode and OKL file;
command-line flags given explicitly take precedence. Relative paths in the
suite are resolved against the suite file's directory.

Example suite:

  name: nightly
  backend: native
  library: ../hardware/build/libadd.so
  timeout: 2s
  cases:
    - name: reference
      size: 10
    - name: empty
      size: 0
    - name: random
      size: 65536
      generator: random
      seed: 42
      repeat: 5`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := harness.LoadSuite(args[0])
			if err != nil {
				return commandError("failed to load suite", err)
			}

			flags := cmd.Flags()
			settings := providerSettings{
				Backend:  suite.Backend,
				Library:  suite.Library,
				Symbol:   suite.Symbol,
				OCCAMode: suite.OCCAMode,
				OKL:      suite.OKL,
			}
			if flags.Changed("backend") || settings.Backend == "" {
				settings.Backend = opts.Backend
			}
			if flags.Changed("lib") {
				settings.Library = opts.Library
			}
			if flags.Changed("symbol") {
				settings.Symbol = opts.Symbol
			}
			if flags.Changed("occa-mode") || settings.OCCAMode == "" {
				settings.OCCAMode = opts.OCCAMode
			}
			if flags.Changed("okl") {
				settings.OKL = opts.OKL
			}
			if flags.Changed("parallel") {
				suite.Parallel = parallel
			}

			suiteOpts := *opts
			suiteOpts.providerSettings = settings
			return runChecks(cmd, &suiteOpts, suite)
		},
	}

	cmd.Flags().IntVar(&parallel, "parallel", 1, "maximum cases in flight")
	return cmd
}
