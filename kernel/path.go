// File: kernel/path.go

package kernel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLibraryRel is where the hardware build drops the add kernel, relative
// to the directory holding the harness executable
var DefaultLibraryRel = filepath.Join("..", "hardware", "build", "libadd.so")

// DefaultLibraryPath resolves DefaultLibraryRel against the running executable
func DefaultLibraryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultLibraryRel), nil
}

// statLibrary turns a missing or non-regular library path into a LoadError
// before the dynamic loader gets a chance to search its own paths
func statLibrary(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &LoadError{Path: path, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &LoadError{Path: abs, Err: errors.New("no such file")}
		}
		return "", &LoadError{Path: abs, Err: err}
	}
	if info.IsDir() {
		return "", &LoadError{Path: abs, Err: errors.New("is a directory")}
	}
	return abs, nil
}
