package runner

import (
	"fmt"
	"github.com/notargets/gocca"
	"github.com/notargets/kernelcheck/runner/builder"
)

// Runner compiles element-wise kernels and executes them on an OCCA device
type Runner struct {
	*builder.Builder
	Device       *gocca.OCCADevice
	Kernels      map[string]*gocca.OCCAKernel
	PooledMemory map[string]*gocca.OCCAMemory
	Bindings     map[string]*DeviceBinding
	IsAllocated  bool
	bindingOrder []string
}

// NewRunner creates a new Runner instance
func NewRunner(device *gocca.OCCADevice, config builder.Config) *Runner {
	if device == nil {
		panic("NewRunner requires a device")
	}
	return &Runner{
		Builder:      builder.NewBuilder(config),
		Device:       device,
		Kernels:      make(map[string]*gocca.OCCAKernel),
		PooledMemory: make(map[string]*gocca.OCCAMemory),
		Bindings:     make(map[string]*DeviceBinding),
	}
}

// GetKernelSignature generates the signature for the bound parameters
func (kr *Runner) GetKernelSignature() string {
	return builder.GenerateKernelSignature(kr.GetParamSpecs())
}

// BuildKernel compiles and registers a kernel with the program
func (kr *Runner) BuildKernel(kernelSource, kernelName string) (*gocca.OCCAKernel, error) {
	kr.GeneratePreamble()

	// Combine preamble with kernel source
	fullSource := kr.KernelPreamble + "\n" + kernelSource

	var kernel *gocca.OCCAKernel
	var err error

	if kr.Device.Mode() == "OpenMP" {
		// Workaround for OCCA bug: OpenMP doesn't get default -O3 flag
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, props)
	} else {
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, nil)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", kernelName, err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", kernelName)
	}

	if old, exists := kr.Kernels[kernelName]; exists {
		old.Free()
	}
	kr.Kernels[kernelName] = kernel
	return kernel, nil
}

// RunKernel copies inputs to the device, runs the kernel with every bound
// buffer in binding order, waits for it, and copies outputs back
func (kr *Runner) RunKernel(kernelName string) error {
	kernel, exists := kr.Kernels[kernelName]
	if !exists {
		return fmt.Errorf("kernel %s not compiled", kernelName)
	}
	if !kr.IsAllocated {
		return fmt.Errorf("device memory not allocated - call AllocateDevice first")
	}

	if err := kr.performPreKernelCopies(); err != nil {
		return fmt.Errorf("pre-kernel copy failed: %w", err)
	}

	args := make([]interface{}, 0, len(kr.bindingOrder))
	for _, name := range kr.bindingOrder {
		args = append(args, kr.PooledMemory[name])
	}

	if err := kernel.RunWithArgs(args...); err != nil {
		return fmt.Errorf("kernel execution failed: %w", err)
	}
	kr.Device.Finish()

	if err := kr.performPostKernelCopies(); err != nil {
		return fmt.Errorf("post-kernel copy failed: %w", err)
	}
	return nil
}

// Free releases all resources
func (kr *Runner) Free() {
	for name, kernel := range kr.Kernels {
		kernel.Free()
		delete(kr.Kernels, name)
	}
	for name, mem := range kr.PooledMemory {
		mem.Free()
		delete(kr.PooledMemory, name)
	}
	kr.IsAllocated = false
}
