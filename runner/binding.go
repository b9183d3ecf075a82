// File: runner/binding.go

package runner

import (
	"fmt"
	"github.com/notargets/kernelcheck/runner/builder"
)

// ActionFlags represents the memory operations to perform for a parameter
type ActionFlags int

const (
	// Copy from host to device before kernel execution
	CopyTo ActionFlags = 1 << iota
	// Copy from device to host after kernel execution
	CopyBack
)

// DeviceBinding represents a host↔device buffer binding
type DeviceBinding struct {
	Name string

	// Host data reference, []int32 or []int64
	HostBinding interface{}

	DataType    builder.DataType
	Size        int64 // Total number of elements
	ElementSize int   // Size of each element in bytes on device

	IsOutput bool // Whether parameter can be written to in kernel
	Actions  ActionFlags

	ParamSpec builder.ParamSpec
}

// HasAction checks if a specific action is set
func (db *DeviceBinding) HasAction(action ActionFlags) bool {
	return db.Actions&action != 0
}

// NeedsCopyTo returns true if this binding requires host→device copy
func (db *DeviceBinding) NeedsCopyTo() bool {
	return db.HasAction(CopyTo)
}

// NeedsCopyBack returns true if this binding requires device→host copy
func (db *DeviceBinding) NeedsCopyBack() bool {
	return db.HasAction(CopyBack)
}

// DefineBindings establishes host↔device buffer relationships.
// Parameters are passed to kernels in the order given here.
func (kr *Runner) DefineBindings(params ...*builder.ParamBuilder) error {
	if kr.IsAllocated {
		return fmt.Errorf("bindings cannot be defined after AllocateDevice has been called")
	}

	for i, p := range params {
		spec := p.Spec
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
		if spec.Size != int64(kr.N) {
			return fmt.Errorf("parameter %s has %d elements, runner is sized for N=%d",
				spec.Name, spec.Size, kr.N)
		}
		if _, exists := kr.Bindings[spec.Name]; exists {
			return fmt.Errorf("parameter %s already bound", spec.Name)
		}

		binding := &DeviceBinding{
			Name:        spec.Name,
			HostBinding: spec.HostBinding,
			DataType:    spec.DataType,
			Size:        spec.Size,
			ElementSize: int(SizeOfType(spec.DataType)),
			IsOutput:    !spec.IsConst(),
			ParamSpec:   spec,
		}
		if spec.DoCopyTo {
			binding.Actions |= CopyTo
		}
		if spec.DoCopyBack {
			binding.Actions |= CopyBack
		}

		kr.Bindings[spec.Name] = binding
		kr.bindingOrder = append(kr.bindingOrder, spec.Name)
	}

	return nil
}

// GetBinding returns a binding by name
func (kr *Runner) GetBinding(name string) *DeviceBinding {
	return kr.Bindings[name]
}

// Rebind points an existing binding at a new host slice of the same type and length
func (kr *Runner) Rebind(name string, hostVar interface{}) error {
	binding := kr.Bindings[name]
	if binding == nil {
		return fmt.Errorf("no binding named %s", name)
	}
	dt, size := builder.InferBinding(hostVar)
	if dt != binding.DataType {
		return fmt.Errorf("cannot rebind %s: host type %T does not match %s",
			name, hostVar, TypeName(binding.DataType))
	}
	if size != binding.Size {
		return fmt.Errorf("cannot rebind %s: %d elements, expected %d", name, size, binding.Size)
	}
	binding.HostBinding = hostVar
	return nil
}

// AllocateDevice allocates device memory for all defined bindings
func (kr *Runner) AllocateDevice() error {
	if kr.IsAllocated {
		return fmt.Errorf("device memory already allocated")
	}
	if len(kr.Bindings) == 0 {
		return fmt.Errorf("no bindings defined - call DefineBindings first")
	}

	for _, name := range kr.bindingOrder {
		binding := kr.Bindings[name]
		bytes := binding.Size * int64(binding.ElementSize)
		kr.PooledMemory[name] = kr.Device.Malloc(bytes, nil, nil)
	}

	kr.IsAllocated = true
	return nil
}

// GetParamSpecs returns the bound parameter specs in kernel argument order
func (kr *Runner) GetParamSpecs() []builder.ParamSpec {
	specs := make([]builder.ParamSpec, 0, len(kr.bindingOrder))
	for _, name := range kr.bindingOrder {
		specs = append(specs, kr.Bindings[name].ParamSpec)
	}
	return specs
}
