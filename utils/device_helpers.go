package utils

import (
	"errors"
	"fmt"
	"github.com/notargets/gocca"
	"strings"
)

// deviceProps maps the short backend names accepted on the command line to OCCA properties
var deviceProps = map[string]string{
	"serial": `{"mode": "Serial"}`,
	"openmp": `{"mode": "OpenMP"}`,
	"cuda":   `{"mode": "CUDA", "device_id": 0}`,
	"opencl": `{"mode": "OpenCL", "platform_id": 0, "device_id": 0}`,
}

// ErrUnknownMode reports a backend name with no OCCA property mapping
var ErrUnknownMode = errors.New("unknown OCCA mode")

// DeviceProps returns the OCCA property string for a backend name.
// Strings that already look like JSON are passed through untouched.
func DeviceProps(mode string) (string, error) {
	trimmed := strings.TrimSpace(mode)
	if strings.HasPrefix(trimmed, "{") {
		return trimmed, nil
	}
	props, ok := deviceProps[strings.ToLower(trimmed)]
	if !ok {
		return "", fmt.Errorf("%w %q (want serial, openmp, cuda, opencl or JSON properties)", ErrUnknownMode, mode)
	}
	return props, nil
}

// CreateDevice creates an OCCA device for the given backend name or JSON properties
func CreateDevice(mode string) (*gocca.OCCADevice, error) {
	props, err := DeviceProps(mode)
	if err != nil {
		return nil, err
	}
	device, err := gocca.NewDevice(props)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCCA device %s: %w", props, err)
	}
	return device, nil
}

// CreateTestDevice creates a Device for testing, preferring parallel backends
func CreateTestDevice() *gocca.OCCADevice {
	for _, mode := range []string{"openmp", "cuda", "serial"} {
		device, err := CreateDevice(mode)
		if err == nil {
			fmt.Printf("Created %s Device\n", device.Mode())
			return device
		}
	}

	// Should not reach here
	panic("Failed to create any Device")
}
