// File: harness/errors.go

package harness

import (
	"fmt"
	"time"
)

// MismatchError reports kernel output that differs from the expected sums
type MismatchError struct {
	Indices    []int   // indices where out != expected
	Diff       []int32 // out[i] - expected[i] for every i
	Repetition int     // zero-based repetition that failed
}

func (e *MismatchError) Error() string {
	if len(e.Indices) == 0 {
		return fmt.Sprintf("output mismatch (repetition %d)", e.Repetition)
	}
	return fmt.Sprintf("output mismatch at %d of %d elements (first at index %d, repetition %d)",
		len(e.Indices), len(e.Diff), e.Indices[0], e.Repetition)
}

// Contract violation kinds
const (
	ContractOverrun       = "overrun"
	ContractInputModified = "input-modified"
)

// ContractError reports a kernel that touched memory it does not own
type ContractError struct {
	Kind   string
	Buffer string
	// Index is relative to the start of the buffer; negative values lie in the leading guard
	Index int
}

func (e *ContractError) Error() string {
	switch e.Kind {
	case ContractOverrun:
		return fmt.Sprintf("kernel wrote outside %s at index %d", e.Buffer, e.Index)
	case ContractInputModified:
		return fmt.Sprintf("kernel modified read-only input %s at index %d", e.Buffer, e.Index)
	default:
		return fmt.Sprintf("kernel violated %s contract on %s at index %d", e.Kind, e.Buffer, e.Index)
	}
}

// TimeoutError reports a kernel call abandoned by the watchdog
type TimeoutError struct {
	Provider string
	Timeout  time.Duration
	Err      error
}

func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("kernel %s did not return within %s: %v", e.Provider, e.Timeout, e.Err)
	}
	return fmt.Sprintf("kernel %s abandoned: %v", e.Provider, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}
