// File: harness/harness.go

package harness

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/notargets/kernelcheck/kernel"
	"go.uber.org/zap"
)

// Result records one conformance check
type Result struct {
	Case      string          `json:"case"`
	Provider  string          `json:"provider"`
	Size      int             `json:"size"`
	In1       []int32         `json:"in1"`
	In2       []int32         `json:"in2"`
	Expected  []int32         `json:"expected"`
	Output    []int32         `json:"output,omitempty"`
	Diff      []int32         `json:"diff,omitempty"`
	Passed    bool            `json:"passed"`
	Error     string          `json:"error,omitempty"`
	Durations []time.Duration `json:"-"`
	Timing    Timing          `json:"timing"`
}

// Harness runs conformance checks against kernel providers
type Harness struct {
	logger *zap.Logger
}

// New creates a Harness; a nil logger discards diagnostics
func New(logger *zap.Logger) *Harness {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harness{logger: logger}
}

// Check runs one case against p.
// The returned Result is non-nil whenever the case configuration is valid,
// even when the error is a *MismatchError, *ContractError or *TimeoutError.
func (h *Harness) Check(ctx context.Context, p kernel.Provider, c Case) (*Result, error) {
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}

	in1, in2, err := Generate(c)
	if err != nil {
		return nil, err
	}
	expected := Expected(in1, in2)

	res := &Result{
		Case:     c.Name,
		Provider: p.Name(),
		Size:     c.Size,
		In1:      in1,
		In2:      in2,
		Expected: expected,
	}

	err = h.run(ctx, p, c, res)
	if err != nil {
		res.Error = err.Error()
		h.logger.Debug("conformance check failed",
			zap.String("case", c.Name), zap.String("provider", res.Provider), zap.Error(err))
		return res, err
	}

	res.Passed = true
	h.logger.Debug("conformance check passed",
		zap.String("case", c.Name), zap.String("provider", res.Provider),
		zap.Int("size", c.Size), zap.Duration("mean", res.Timing.Mean))
	return res, nil
}

func (h *Harness) run(ctx context.Context, p kernel.Provider, c Case, res *Result) error {
	bufIn1 := newGuardedBuffer("in1", c.Size, c.Guard)
	bufIn2 := newGuardedBuffer("in2", c.Size, c.Guard)
	bufOut := newGuardedBuffer("out", c.Size, c.Guard)
	copy(bufIn1.View(), res.In1)
	copy(bufIn2.View(), res.In2)

	for rep := 0; rep < c.Repeat; rep++ {
		clear(bufOut.View())

		start := time.Now()
		if err := h.invoke(ctx, p, c.Timeout, bufIn1.View(), bufIn2.View(), bufOut.View()); err != nil {
			return err
		}
		res.Durations = append(res.Durations, time.Since(start))
		res.Timing = summarize(res.Durations)

		for _, gb := range []*guardedBuffer{bufIn1, bufIn2, bufOut} {
			if err := gb.CheckGuards(); err != nil {
				return err
			}
		}
		if err := bufIn1.CheckUnchanged(res.In1); err != nil {
			return err
		}
		if err := bufIn2.CheckUnchanged(res.In2); err != nil {
			return err
		}

		res.Output = slices.Clone(bufOut.View())
		res.Diff = Difference(res.Output, res.Expected)
		if idx := mismatches(res.Diff); len(idx) > 0 {
			return &MismatchError{Indices: idx, Diff: res.Diff, Repetition: rep}
		}
	}
	return nil
}

// invoke calls the kernel directly, or under a watchdog when a timeout or a
// cancellable context is in play. A kernel that overstays is abandoned: the
// foreign call cannot be interrupted, so its goroutine lingers until it returns.
func (h *Harness) invoke(ctx context.Context, p kernel.Provider, timeout time.Duration,
	in1, in2, out []int32) error {
	if err := ctx.Err(); err != nil {
		return &TimeoutError{Provider: p.Name(), Err: err}
	}
	if timeout <= 0 && ctx.Done() == nil {
		return wrapProviderErr(p, p.Add(in1, in2, out))
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- p.Add(in1, in2, out)
	}()

	select {
	case err := <-done:
		return wrapProviderErr(p, err)
	case <-ctx.Done():
		h.logger.Warn("abandoning kernel call",
			zap.String("provider", p.Name()), zap.Duration("timeout", timeout), zap.Error(ctx.Err()))
		return &TimeoutError{Provider: p.Name(), Timeout: timeout, Err: ctx.Err()}
	}
}

func wrapProviderErr(p kernel.Provider, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("kernel %s failed: %w", p.Name(), err)
}
