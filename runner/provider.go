package runner

import (
	"errors"
	"fmt"
	"github.com/notargets/gocca"
	"github.com/notargets/kernelcheck/kernel"
	"github.com/notargets/kernelcheck/runner/builder"
	"github.com/notargets/kernelcheck/utils"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

var errProviderClosed = errors.New("provider is closed")

// OCCAProvider runs the add kernel on an OCCA device behind the kernel.Provider interface
type OCCAProvider struct {
	mu         sync.Mutex
	device     *gocca.OCCADevice
	ownsDevice bool
	mode       string
	symbol     string
	source     string
	runner     *Runner
	closed     atomic.Bool
}

// NewOCCAProvider wraps an existing device. An empty source selects the
// reference add kernel; otherwise source must define kernelName taking
// (const int_t* in1, const int_t* in2, int_t* out) and may use N, BLOCK and NBLOCKS.
func NewOCCAProvider(device *gocca.OCCADevice, kernelName, source string) *OCCAProvider {
	if device == nil {
		panic("NewOCCAProvider requires a device")
	}
	if kernelName == "" {
		kernelName = kernel.DefaultSymbol
	}
	if source == "" {
		source = AddKernelSource(kernelName)
	}
	return &OCCAProvider{device: device, mode: device.Mode(), symbol: kernelName, source: source}
}

// OpenOCCAProvider creates a device for mode and optionally reads the kernel from oklPath.
// The provider frees the device on Close.
func OpenOCCAProvider(mode, kernelName, oklPath string) (*OCCAProvider, error) {
	var source string
	if oklPath != "" {
		data, err := os.ReadFile(oklPath)
		if err != nil {
			return nil, &kernel.LoadError{Path: oklPath, Symbol: kernelName, Err: err}
		}
		source = string(data)
	}

	device, err := utils.CreateDevice(mode)
	if err != nil {
		return nil, err
	}
	p := NewOCCAProvider(device, kernelName, source)
	p.ownsDevice = true
	return p, nil
}

func (p *OCCAProvider) Name() string {
	return fmt.Sprintf("occa:%s#%s", p.mode, p.symbol)
}

// Add runs the kernel over len(out) elements. The kernel is compiled for a
// fixed N, so a call with a new length rebuilds it.
func (p *OCCAProvider) Add(in1, in2, out []int32) error {
	if err := kernel.CheckShapes(in1, in2, out); err != nil {
		return err
	}
	if len(out) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.releaseIfClosed()
	defer p.mu.Unlock()
	if p.closed.Load() {
		return errProviderClosed
	}

	if p.runner == nil || p.runner.N != len(out) {
		if err := p.prepare(in1, in2, out); err != nil {
			return err
		}
	} else {
		for name, host := range map[string][]int32{"in1": in1, "in2": in2, "out": out} {
			if err := p.runner.Rebind(name, host); err != nil {
				return err
			}
		}
	}

	return p.runner.RunKernel(p.symbol)
}

func (p *OCCAProvider) prepare(in1, in2, out []int32) error {
	if p.runner != nil {
		p.runner.Free()
		p.runner = nil
	}

	kr := NewRunner(p.device, builder.Config{N: len(out), IntType: builder.INT32})
	if err := kr.DefineBindings(AddParams(in1, in2, out)...); err != nil {
		return err
	}
	if err := kr.AllocateDevice(); err != nil {
		kr.Free()
		return err
	}
	if _, err := kr.BuildKernel(p.source, p.symbol); err != nil {
		hint := kr.declarationHint(p.symbol)
		kr.Free()
		return &kernel.LoadError{Path: "okl:" + p.mode, Symbol: p.symbol, Err: fmt.Errorf("%w (%s)", err, hint)}
	}
	p.runner = kr
	return nil
}

// declarationHint names the kernel declaration the bound parameters require
func (kr *Runner) declarationHint(kernelName string) string {
	signature := strings.ReplaceAll(kr.GetKernelSignature(), ",\n\t", ", ")
	return fmt.Sprintf("kernel must be declared as @kernel void %s(%s)", kernelName, signature)
}

// Close frees the runner and, when the provider created it, the device.
// A call still running elsewhere keeps the device alive; that call frees it
// when it returns.
func (p *OCCAProvider) Close() error {
	p.closed.Store(true)
	if !p.mu.TryLock() {
		return nil
	}
	defer p.mu.Unlock()
	p.release()
	return nil
}

// releaseIfClosed runs after Add unlocks, picking up a Close that found the provider busy
func (p *OCCAProvider) releaseIfClosed() {
	if p.closed.Load() && p.mu.TryLock() {
		defer p.mu.Unlock()
		p.release()
	}
}

// release frees device resources; caller holds p.mu
func (p *OCCAProvider) release() {
	if p.runner != nil {
		p.runner.Free()
		p.runner = nil
	}
	if p.ownsDevice && p.device != nil {
		p.device.Free()
		p.device = nil
	}
}
