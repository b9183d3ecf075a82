//go:build !cgo

// File: kernel/native_nocgo.go

package kernel

import (
	"errors"

	"go.uber.org/zap"
)

var errNoCgo = errors.New("native kernels require a cgo-enabled build")

// Library is unavailable without cgo
type Library struct {
	Path string
}

// Native is unavailable without cgo
type Native struct{}

func Open(path string, logger *zap.Logger) (*Library, error) {
	return nil, &LoadError{Path: path, Err: errNoCgo}
}

func (l *Library) Bind(symbol string) (*Native, error) {
	return nil, &LoadError{Path: l.Path, Symbol: symbol, Err: errNoCgo}
}

func (l *Library) Close() error { return nil }

func LoadNative(path, symbol string, logger *zap.Logger) (*Native, error) {
	return nil, &LoadError{Path: path, Symbol: symbol, Err: errNoCgo}
}

func (nk *Native) Name() string { return "native" }

func (nk *Native) Add(in1, in2, out []int32) error { return errNoCgo }

func (nk *Native) Close() error { return nil }
