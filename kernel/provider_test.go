package kernel

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckShapes(t *testing.T) {
	testCases := []struct {
		name          string
		in1, in2, out int
		ok            bool
	}{
		{"equal", 4, 4, 4, true},
		{"empty", 0, 0, 0, true},
		{"short_in1", 3, 4, 4, false},
		{"short_in2", 4, 3, 4, false},
		{"long_out", 4, 4, 5, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckShapes(make([]int32, tc.in1), make([]int32, tc.in2), make([]int32, tc.out))
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			var shapeErr *ShapeError
			require.True(t, errors.As(err, &shapeErr))
			assert.Equal(t, ShapeError{In1: tc.in1, In2: tc.in2, Out: tc.out}, *shapeErr)
		})
	}
}

func TestSoftware_Add(t *testing.T) {
	in1 := []int32{0, 1, 2, math.MaxInt32}
	in2 := []int32{10, 8, 6, 1}
	out := make([]int32, 4)

	var p Provider = Software{}
	require.NoError(t, p.Add(in1, in2, out))
	assert.Equal(t, []int32{10, 9, 8, math.MinInt32}, out)
	assert.Equal(t, "software", p.Name())
	assert.NoError(t, p.Close())

	err := p.Add(in1, in2[:3], out)
	assert.Error(t, err)
}

func TestFunc_ChecksShapesBeforeCalling(t *testing.T) {
	called := false
	f := &Func{Label: "probe", Fn: func(in1, in2, out []int32) { called = true }}

	require.Error(t, f.Add(make([]int32, 2), make([]int32, 2), make([]int32, 3)))
	assert.False(t, called)

	require.NoError(t, f.Add(nil, nil, nil))
	assert.True(t, called)
	assert.Equal(t, "probe", f.Name())
}

func TestLoadError_Message(t *testing.T) {
	open := &LoadError{Path: "/x/libadd.so", Err: errors.New("no such file")}
	assert.Equal(t, "cannot load kernel library /x/libadd.so: no such file", open.Error())

	bind := &LoadError{Path: "/x/libadd.so", Symbol: "add_kernel_wrapper", Err: errors.New("undefined symbol")}
	assert.Contains(t, bind.Error(), "add_kernel_wrapper")
	assert.ErrorIs(t, bind, bind.Err)
}

func TestDefaultLibraryPath(t *testing.T) {
	path, err := DefaultLibraryPath()
	require.NoError(t, err)
	assert.Contains(t, path, "hardware")
	assert.Equal(t, "libadd.so", path[len(path)-len("libadd.so"):])
}
