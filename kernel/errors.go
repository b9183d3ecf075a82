// File: kernel/errors.go

package kernel

import (
	"fmt"
)

// LoadError reports a Kernel Provider library that could not be opened or bound
type LoadError struct {
	Path   string
	Symbol string // empty when the library itself failed to open
	Err    error
}

func (e *LoadError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("cannot load kernel library %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot bind symbol %s in %s: %v", e.Symbol, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
