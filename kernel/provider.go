// File: kernel/provider.go

package kernel

import (
	"fmt"
)

// DefaultSymbol is the exported name of the add kernel in a Kernel Provider library
const DefaultSymbol = "add_kernel_wrapper"

// Provider computes out[i] = in1[i] + in2[i] for every i in [0, len(out))
// Implementations may assume the three slices have already been checked
// with CheckShapes, but every exported Add validates again.
type Provider interface {
	Name() string
	Add(in1, in2, out []int32) error
	Close() error
}

// ShapeError reports buffers whose lengths disagree
type ShapeError struct {
	In1, In2, Out int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("buffer length mismatch: in1=%d in2=%d out=%d", e.In1, e.In2, e.Out)
}

// CheckShapes returns a *ShapeError unless all three buffers have the same length
func CheckShapes(in1, in2, out []int32) error {
	if len(in1) != len(out) || len(in2) != len(out) {
		return &ShapeError{In1: len(in1), In2: len(in2), Out: len(out)}
	}
	return nil
}

// Software is the pure-Go reference adder
type Software struct{}

func (Software) Name() string { return "software" }

// Add writes the wrapped int32 sum of in1 and in2 into out
func (Software) Add(in1, in2, out []int32) error {
	if err := CheckShapes(in1, in2, out); err != nil {
		return err
	}
	for i := range out {
		out[i] = in1[i] + in2[i]
	}
	return nil
}

func (Software) Close() error { return nil }

// Func adapts an ordinary function to a Provider
type Func struct {
	Label string
	Fn    func(in1, in2, out []int32)
}

func (f *Func) Name() string { return f.Label }

func (f *Func) Add(in1, in2, out []int32) error {
	if err := CheckShapes(in1, in2, out); err != nil {
		return err
	}
	f.Fn(in1, in2, out)
	return nil
}

func (f *Func) Close() error { return nil }
