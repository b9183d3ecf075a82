package builder

import (
	"fmt"
)

// Direction indicates parameter data flow
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

// ParamBuilder provides a fluent interface for building kernel parameters
type ParamBuilder struct {
	Spec ParamSpec
}

// ParamSpec holds the complete specification for a kernel buffer parameter
type ParamSpec struct {
	Name        string
	Direction   Direction
	HostBinding interface{} // []int32 or []int64

	// Type and size (inferred from the binding)
	DataType DataType
	Size     int64

	// Data movement
	DoCopyTo   bool
	DoCopyBack bool
}

// Input creates a parameter specification for a const input
func Input(deviceName string) *ParamBuilder {
	return &ParamBuilder{
		Spec: ParamSpec{
			Name:      deviceName,
			Direction: DirectionInput,
			DoCopyTo:  true,
		},
	}
}

// Output creates a parameter specification for a non-const output
func Output(deviceName string) *ParamBuilder {
	return &ParamBuilder{
		Spec: ParamSpec{
			Name:       deviceName,
			Direction:  DirectionOutput,
			DoCopyBack: true,
		},
	}
}

// Bind associates a host slice with this parameter
func (p *ParamBuilder) Bind(hostVar interface{}) *ParamBuilder {
	p.Spec.HostBinding = hostVar
	p.Spec.DataType, p.Spec.Size = InferBinding(hostVar)
	return p
}

// InferBinding returns the element type and length of a supported host slice
func InferBinding(hostVar interface{}) (DataType, int64) {
	switch data := hostVar.(type) {
	case []int32:
		return INT32, int64(len(data))
	case []int64:
		return INT64, int64(len(data))
	default:
		return 0, 0
	}
}

// Validate checks if the parameter specification is complete and valid
func (p *ParamSpec) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("parameter name cannot be empty")
	}
	if p.HostBinding == nil {
		return fmt.Errorf("array %s needs a host binding", p.Name)
	}
	if p.DataType == 0 {
		return fmt.Errorf("array %s has unsupported host type %T", p.Name, p.HostBinding)
	}
	if p.Size == 0 {
		return fmt.Errorf("array %s needs size", p.Name)
	}
	return nil
}

// IsConst returns whether this parameter should be const in the kernel signature
func (p *ParamSpec) IsConst() bool {
	return p.Direction == DirectionInput
}
