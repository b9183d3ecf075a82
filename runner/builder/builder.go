package builder

import (
	"fmt"
	"strings"
)

// DataType represents the element type of a kernel buffer
type DataType int

const (
	INT32 DataType = iota + 1
	INT64
)

// DefaultBlockSize is the @inner loop width used when Config leaves it unset
const DefaultBlockSize = 64

// Builder generates the OKL preamble and signatures for element-wise kernels
type Builder struct {
	// Problem size
	N         int
	BlockSize int
	NumBlocks int

	// Type configuration
	IntType DataType

	// Generated code
	KernelPreamble string
}

// Config holds configuration for creating a Builder
type Config struct {
	N         int
	IntType   DataType
	BlockSize int
}

// NewBuilder creates a new Builder instance
func NewBuilder(cfg Config) *Builder {
	if cfg.N < 1 {
		panic(fmt.Sprintf("N must be positive, got %d", cfg.N))
	}
	// Set defaults
	intType := cfg.IntType
	if intType == 0 {
		intType = INT32
	}
	blockSize := cfg.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Builder{
		N:         cfg.N,
		BlockSize: blockSize,
		NumBlocks: (cfg.N + blockSize - 1) / blockSize,
		IntType:   intType,
	}
}

// GeneratePreamble generates the type definitions and size constants shared by all kernels
func (kb *Builder) GeneratePreamble() string {
	var sb strings.Builder

	intTypeStr := "int"
	if kb.IntType == INT64 {
		intTypeStr = "long"
	}

	sb.WriteString(fmt.Sprintf("typedef %s int_t;\n", intTypeStr))
	sb.WriteString("\n")

	// Constants
	sb.WriteString(fmt.Sprintf("#define N %d\n", kb.N))
	sb.WriteString(fmt.Sprintf("#define BLOCK %d\n", kb.BlockSize))
	sb.WriteString(fmt.Sprintf("#define NBLOCKS %d\n", kb.NumBlocks))
	sb.WriteString("\n")

	kb.KernelPreamble = sb.String()
	return kb.KernelPreamble
}
