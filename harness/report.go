// File: harness/report.go

package harness

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// WriteText prints a result in the console layout of the reference harness
func WriteText(w io.Writer, res *Result) error {
	ew := &errWriter{w: w}

	ew.printf("=== %s (size=%d, provider=%s) ===\n", res.Case, res.Size, res.Provider)
	ew.printf("Input data 1: %v\n", res.In1)
	ew.printf("Input data 2: %v\n", res.In2)
	ew.printf("Expected output: %v\n", res.Expected)
	if res.Output != nil {
		ew.printf("Kernel output: %v\n", res.Output)
	}
	if res.Timing.Runs > 1 {
		t := res.Timing
		ew.printf("Timing: %d runs, mean %s, stddev %s, min %s, max %s\n",
			t.Runs, t.Mean, t.StdDev, t.Min, t.Max)
	}

	if res.Passed {
		ew.printf("Test PASSED!\n")
		return ew.err
	}
	ew.printf("Test FAILED!\n")
	if res.Diff != nil && res.Output != nil && hasMismatch(res.Diff) {
		ew.printf("Difference: %v\n", res.Diff)
	} else if res.Error != "" {
		ew.printf("Error: %s\n", res.Error)
	}
	return ew.err
}

// WriteSuiteText prints every result followed by a summary line
func WriteSuiteText(w io.Writer, sr *SuiteResult) error {
	for i, res := range sr.Results {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := WriteText(w, res); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d passed, %d failed, %d total\n", sr.Passed, sr.Failed, sr.Total)
	return err
}

// WriteJSON encodes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// IsMismatch reports whether err is a *MismatchError
func IsMismatch(err error) bool {
	var mm *MismatchError
	return errors.As(err, &mm)
}

func hasMismatch(diff []int32) bool {
	for _, d := range diff {
		if d != 0 {
			return true
		}
	}
	return false
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
