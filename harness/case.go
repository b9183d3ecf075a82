// File: harness/case.go

package harness

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Input generators
const (
	GeneratorRamp   = "ramp"
	GeneratorRandom = "random"
)

const (
	// DefaultSize is the element count of the reference run
	DefaultSize = 10
	// DefaultGuard is the number of sentinel elements on each side of a buffer
	DefaultGuard = 16
	// randomSpan keeps random inputs in [-2^30, 2^30) so sums never overflow
	randomSpan = 1 << 30
)

// Case is the explicit configuration of one conformance check
type Case struct {
	Name      string        `yaml:"name" json:"name"`
	Size      int           `yaml:"size" json:"size"`
	Generator string        `yaml:"generator,omitempty" json:"generator"`
	Seed      uint64        `yaml:"seed,omitempty" json:"seed,omitempty"`
	Repeat    int           `yaml:"repeat,omitempty" json:"repeat"`
	Guard     int           `yaml:"guard,omitempty" json:"guard"`
	Timeout   time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// DefaultCase reproduces the reference run: ramp inputs of DefaultSize elements
func DefaultCase() Case {
	return Case{Name: "default", Size: DefaultSize}.WithDefaults()
}

// WithDefaults fills zero fields with their defaults
func (c Case) WithDefaults() Case {
	if c.Generator == "" {
		c.Generator = GeneratorRamp
	}
	if c.Repeat == 0 {
		c.Repeat = 1
	}
	if c.Guard == 0 {
		c.Guard = DefaultGuard
	}
	return c
}

// Validate rejects configurations that cannot be run
func (c Case) Validate() error {
	if c.Size < 0 {
		return fmt.Errorf("case %q: size must be >= 0, got %d", c.Name, c.Size)
	}
	switch c.Generator {
	case GeneratorRamp, GeneratorRandom:
	default:
		return fmt.Errorf("case %q: unknown generator %q", c.Name, c.Generator)
	}
	if c.Repeat < 1 {
		return fmt.Errorf("case %q: repeat must be >= 1, got %d", c.Name, c.Repeat)
	}
	if c.Guard < 0 {
		return fmt.Errorf("case %q: guard must be >= 0, got %d", c.Name, c.Guard)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("case %q: timeout must be >= 0, got %s", c.Name, c.Timeout)
	}
	return nil
}

// Generate builds the two input sequences for a case.
// The ramp generator gives in1[i] = i and in2[i] = size - 2*i.
func Generate(c Case) (in1, in2 []int32, err error) {
	in1 = make([]int32, c.Size)
	in2 = make([]int32, c.Size)

	switch c.Generator {
	case GeneratorRamp, "":
		for i := 0; i < c.Size; i++ {
			in1[i] = int32(i)
			in2[i] = int32(c.Size - 2*i)
		}
	case GeneratorRandom:
		rng := rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
		for i := 0; i < c.Size; i++ {
			in1[i] = int32(rng.Int64N(2*randomSpan) - randomSpan)
			in2[i] = int32(rng.Int64N(2*randomSpan) - randomSpan)
		}
	default:
		return nil, nil, fmt.Errorf("unknown generator %q", c.Generator)
	}
	return in1, in2, nil
}

// Expected computes in1 + in2 with int32 wraparound
func Expected(in1, in2 []int32) []int32 {
	expected := make([]int32, len(in1))
	for i := range expected {
		expected[i] = in1[i] + in2[i]
	}
	return expected
}

// Difference returns out[i] - expected[i] for every index
func Difference(out, expected []int32) []int32 {
	diff := make([]int32, len(out))
	for i := range diff {
		diff[i] = out[i] - expected[i]
	}
	return diff
}

// mismatches lists the indices where diff is non-zero
func mismatches(diff []int32) []int {
	var idx []int
	for i, d := range diff {
		if d != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}
