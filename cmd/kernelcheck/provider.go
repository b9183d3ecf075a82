package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/notargets/kernelcheck/kernel"
	"github.com/notargets/kernelcheck/runner"
	"github.com/notargets/kernelcheck/utils"
	"go.uber.org/zap"
)

// Provider backends
const (
	BackendNative   = "native"
	BackendOCCA     = "occa"
	BackendSoftware = "software"
)

// providerSettings selects and locates the Kernel Provider under test
type providerSettings struct {
	Backend  string
	Library  string
	Symbol   string
	OCCAMode string
	OKL      string
}

func openProvider(s providerSettings, logger *zap.Logger) (kernel.Provider, error) {
	symbol := s.Symbol
	if symbol == "" {
		symbol = kernel.DefaultSymbol
	}

	switch s.Backend {
	case BackendNative, "":
		path := s.Library
		if path == "" {
			var err error
			if path, err = kernel.DefaultLibraryPath(); err != nil {
				return nil, &kernel.LoadError{Path: kernel.DefaultLibraryRel, Symbol: symbol, Err: err}
			}
		}
		logger.Debug("loading native kernel", zap.String("path", path), zap.String("symbol", symbol))
		nk, err := kernel.LoadNative(path, symbol, logger)
		if err != nil {
			return nil, err
		}
		return nk, nil
	case BackendOCCA:
		logger.Debug("creating OCCA kernel", zap.String("mode", s.OCCAMode), zap.String("okl", s.OKL))
		p, err := runner.OpenOCCAProvider(s.OCCAMode, symbol, s.OKL)
		if errors.Is(err, utils.ErrUnknownMode) {
			return nil, commandError("invalid --occa-mode", err)
		}
		if err != nil {
			return nil, err
		}
		return p, nil
	case BackendSoftware:
		return kernel.Software{}, nil
	default:
		return nil, commandError(fmt.Sprintf("unknown backend %q (want native, occa or software)", s.Backend), nil)
	}
}

// reportLoadFailure prints the load diagnostic and converts err into an ExitError
func reportLoadFailure(w io.Writer, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	var loadErr *kernel.LoadError
	if errors.As(err, &loadErr) {
		fmt.Fprintf(w, "Error loading shared library: %v\n", err)
		fmt.Fprintln(w, "Please ensure the library is compiled correctly.")
	} else {
		fmt.Fprintf(w, "Error preparing kernel provider: %v\n", err)
	}
	return &ExitError{Code: ExitFailure, Message: "kernel load failed", Err: err, Reported: true}
}
