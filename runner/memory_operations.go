package runner

import (
	"fmt"
	"unsafe"
)

// copyToDevice performs the host→device copy for a binding
func (kr *Runner) copyToDevice(binding *DeviceBinding) error {
	mem := kr.PooledMemory[binding.Name]
	if mem == nil {
		return fmt.Errorf("no device memory allocated for %s", binding.Name)
	}

	switch data := binding.HostBinding.(type) {
	case []int32:
		mem.CopyFrom(unsafe.Pointer(&data[0]), int64(len(data)*4))
	case []int64:
		mem.CopyFrom(unsafe.Pointer(&data[0]), int64(len(data)*8))
	default:
		return fmt.Errorf("unsupported host type %T for %s", binding.HostBinding, binding.Name)
	}
	return nil
}

// copyFromDevice performs the device→host copy for a binding
func (kr *Runner) copyFromDevice(binding *DeviceBinding) error {
	mem := kr.PooledMemory[binding.Name]
	if mem == nil {
		return fmt.Errorf("no device memory allocated for %s", binding.Name)
	}

	switch data := binding.HostBinding.(type) {
	case []int32:
		mem.CopyTo(unsafe.Pointer(&data[0]), int64(len(data)*4))
	case []int64:
		mem.CopyTo(unsafe.Pointer(&data[0]), int64(len(data)*8))
	default:
		return fmt.Errorf("unsupported host type %T for %s", binding.HostBinding, binding.Name)
	}
	return nil
}

// performPreKernelCopies handles all host→device transfers before kernel execution
func (kr *Runner) performPreKernelCopies() error {
	for _, name := range kr.bindingOrder {
		binding := kr.Bindings[name]
		if binding.NeedsCopyTo() {
			if err := kr.copyToDevice(binding); err != nil {
				return fmt.Errorf("failed to copy %s to device: %w", name, err)
			}
		}
	}
	return nil
}

// performPostKernelCopies handles all device→host transfers after kernel execution
func (kr *Runner) performPostKernelCopies() error {
	for _, name := range kr.bindingOrder {
		binding := kr.Bindings[name]
		if binding.NeedsCopyBack() {
			if err := kr.copyFromDevice(binding); err != nil {
				return fmt.Errorf("failed to copy %s from device: %w", name, err)
			}
		}
	}
	return nil
}
