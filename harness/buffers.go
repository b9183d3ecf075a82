// File: harness/buffers.go

package harness

// guardSentinel fills the padding around every buffer handed to a kernel
const guardSentinel int32 = 0x5A5A5A5A

// guardedBuffer is a kernel-visible window with sentinel padding on both sides
type guardedBuffer struct {
	name  string
	buf   []int32
	guard int
	size  int
}

func newGuardedBuffer(name string, size, guard int) *guardedBuffer {
	gb := &guardedBuffer{
		name:  name,
		buf:   make([]int32, size+2*guard),
		guard: guard,
		size:  size,
	}
	for i := 0; i < guard; i++ {
		gb.buf[i] = guardSentinel
		gb.buf[guard+size+i] = guardSentinel
	}
	return gb
}

// View returns the window; len and cap both equal size
func (gb *guardedBuffer) View() []int32 {
	return gb.buf[gb.guard : gb.guard+gb.size : gb.guard+gb.size]
}

// CheckGuards returns a ContractError for the first clobbered sentinel
func (gb *guardedBuffer) CheckGuards() error {
	// Trailing guard first: running off the end is the common bug
	for i := 0; i < gb.guard; i++ {
		if gb.buf[gb.guard+gb.size+i] != guardSentinel {
			return &ContractError{Kind: ContractOverrun, Buffer: gb.name, Index: gb.size + i}
		}
	}
	for i := gb.guard - 1; i >= 0; i-- {
		if gb.buf[i] != guardSentinel {
			return &ContractError{Kind: ContractOverrun, Buffer: gb.name, Index: i - gb.guard}
		}
	}
	return nil
}

// CheckUnchanged returns a ContractError if the window differs from want
func (gb *guardedBuffer) CheckUnchanged(want []int32) error {
	for i, v := range gb.View() {
		if v != want[i] {
			return &ContractError{Kind: ContractInputModified, Buffer: gb.name, Index: i}
		}
	}
	return nil
}
