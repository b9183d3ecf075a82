package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuilder(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		kb := NewBuilder(Config{N: 10})
		assert.Equal(t, INT32, kb.IntType)
		assert.Equal(t, DefaultBlockSize, kb.BlockSize)
		assert.Equal(t, 1, kb.NumBlocks)
	})

	t.Run("BlockRounding", func(t *testing.T) {
		testCases := []struct {
			n, block, blocks int
		}{
			{1, 64, 1},
			{64, 64, 1},
			{65, 64, 2},
			{1000, 128, 8},
		}
		for _, tc := range testCases {
			kb := NewBuilder(Config{N: tc.n, BlockSize: tc.block})
			assert.Equal(t, tc.blocks, kb.NumBlocks, "N=%d block=%d", tc.n, tc.block)
		}
	})

	t.Run("NonPositiveN", func(t *testing.T) {
		assert.Panics(t, func() { NewBuilder(Config{N: 0}) })
		assert.Panics(t, func() { NewBuilder(Config{N: -5}) })
	})
}

func TestGeneratePreamble(t *testing.T) {
	kb := NewBuilder(Config{N: 100, BlockSize: 32})
	preamble := kb.GeneratePreamble()

	assert.Equal(t, preamble, kb.KernelPreamble)
	assert.Contains(t, preamble, "typedef int int_t;")
	assert.Contains(t, preamble, "#define N 100")
	assert.Contains(t, preamble, "#define BLOCK 32")
	assert.Contains(t, preamble, "#define NBLOCKS 4")

	kb64 := NewBuilder(Config{N: 1, IntType: INT64})
	assert.Contains(t, kb64.GeneratePreamble(), "typedef long int_t;")
}

func TestParamBuilder(t *testing.T) {
	in := Input("in1").Bind([]int32{1, 2, 3})
	assert.Equal(t, INT32, in.Spec.DataType)
	assert.Equal(t, int64(3), in.Spec.Size)
	assert.True(t, in.Spec.DoCopyTo)
	assert.False(t, in.Spec.DoCopyBack)
	assert.True(t, in.Spec.IsConst())
	require.NoError(t, in.Spec.Validate())

	out := Output("out").Bind(make([]int64, 4))
	assert.Equal(t, INT64, out.Spec.DataType)
	assert.True(t, out.Spec.DoCopyBack)
	assert.False(t, out.Spec.IsConst())
}

func TestParamSpec_Validate(t *testing.T) {
	testCases := []struct {
		name string
		p    *ParamBuilder
		msg  string
	}{
		{"no_name", Input("").Bind([]int32{1}), "name cannot be empty"},
		{"no_binding", Input("x"), "needs a host binding"},
		{"float_binding", Input("x").Bind([]float64{1}), "unsupported host type"},
		{"empty_binding", Input("x").Bind([]int32{}), "needs size"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Spec.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestGenerateKernelTemplate(t *testing.T) {
	params := []ParamSpec{
		Input("a").Bind([]int32{0}).Spec,
		Output("b").Bind([]int32{0}).Spec,
	}

	assert.Equal(t, "const int_t* a,\n\tint_t* b", GenerateKernelSignature(params))

	src := GenerateKernelTemplate("copy", params, "b[i] = a[i];")
	assert.True(t, strings.HasPrefix(src, "@kernel void copy(\n\tconst int_t* a,\n\tint_t* b\n) {\n"))
	assert.Contains(t, src, "for (int b = 0; b < NBLOCKS; ++b; @outer)")
	assert.Contains(t, src, "for (int t = 0; t < BLOCK; ++t; @inner)")
	assert.Contains(t, src, "if (i < N) {\n\t\t\t\tb[i] = a[i];\n")
}
