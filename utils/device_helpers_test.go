package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceProps(t *testing.T) {
	testCases := []struct {
		mode     string
		expected string
	}{
		{"serial", `{"mode": "Serial"}`},
		{"Serial", `{"mode": "Serial"}`},
		{" openmp ", `{"mode": "OpenMP"}`},
		{"cuda", `{"mode": "CUDA", "device_id": 0}`},
		{`{"mode": "HIP"}`, `{"mode": "HIP"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.mode, func(t *testing.T) {
			props, err := DeviceProps(tc.mode)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, props)
		})
	}

	_, err := DeviceProps("fpga")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Contains(t, err.Error(), "unknown OCCA mode \"fpga\"")
}

func TestCreateDevice_Serial(t *testing.T) {
	device, err := CreateDevice("serial")
	require.NoError(t, err)
	defer device.Free()

	assert.Equal(t, "Serial", device.Mode())
}
