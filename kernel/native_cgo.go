//go:build cgo

// File: kernel/native_cgo.go

package kernel

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>
#include <string.h>

typedef void (*kc_add_fn)(int32_t*, int32_t*, int32_t*, int32_t);

// dlerror state is per thread, so open/lookup and the error copy happen in one call
static void* kc_open(const char* path, char** err) {
	void* h = dlopen(path, RTLD_NOW | RTLD_LOCAL);
	if (h == NULL) {
		const char* msg = dlerror();
		*err = strdup(msg ? msg : "dlopen failed");
	}
	return h;
}

static void* kc_sym(void* h, const char* name, char** err) {
	dlerror();
	void* fn = dlsym(h, name);
	const char* msg = dlerror();
	if (msg != NULL) {
		*err = strdup(msg);
		return NULL;
	}
	if (fn == NULL) {
		*err = strdup("symbol resolved to NULL");
	}
	return fn;
}

static int kc_close(void* h) {
	return dlclose(h);
}

static void kc_call_add(void* fn, int32_t* in1, int32_t* in2, int32_t* out, int32_t size) {
	((kc_add_fn)fn)(in1, in2, out, size);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"unsafe"

	"go.uber.org/zap"
)

var errLibraryClosed = errors.New("library is closed")

// Library is an open Kernel Provider shared object
type Library struct {
	Path   string
	handle unsafe.Pointer
	mu     sync.Mutex
	refs   int
	active int // kernel calls currently executing inside the library
	logger *zap.Logger
}

// Native is the add kernel bound from a Library
type Native struct {
	lib    *Library
	symbol string
	fn     unsafe.Pointer
	once   sync.Once
	closed bool // guarded by lib.mu
}

// Open loads the shared library at path
func Open(path string, logger *zap.Logger) (*Library, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := statLibrary(path)
	if err != nil {
		return nil, err
	}

	cPath := C.CString(abs)
	defer C.free(unsafe.Pointer(cPath))

	var cErr *C.char
	handle := C.kc_open(cPath, &cErr)
	if handle == nil {
		msg := C.GoString(cErr)
		C.free(unsafe.Pointer(cErr))
		return nil, &LoadError{Path: abs, Err: errors.New(msg)}
	}

	logger.Debug("kernel library loaded", zap.String("path", abs))
	return &Library{Path: abs, handle: handle, refs: 1, logger: logger}, nil
}

// Bind resolves symbol as an add kernel; the returned Native keeps the library open
func (l *Library) Bind(symbol string) (*Native, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.handle == nil || l.refs == 0 {
		return nil, &LoadError{Path: l.Path, Symbol: symbol, Err: errLibraryClosed}
	}

	cName := C.CString(symbol)
	defer C.free(unsafe.Pointer(cName))

	var cErr *C.char
	fn := C.kc_sym(l.handle, cName, &cErr)
	if fn == nil {
		msg := C.GoString(cErr)
		C.free(unsafe.Pointer(cErr))
		return nil, &LoadError{Path: l.Path, Symbol: symbol, Err: errors.New(msg)}
	}

	l.refs++
	l.logger.Debug("kernel symbol bound",
		zap.String("path", l.Path), zap.String("symbol", symbol))
	return &Native{lib: l, symbol: symbol, fn: fn}, nil
}

// Close drops the caller's reference; the library unloads once every Native is closed
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.release()
}

// release drops one reference. The library is unloaded once no references
// remain and no kernel call is still running inside it; an abandoned call
// postpones the unload until it returns. Caller holds l.mu.
func (l *Library) release() error {
	if l.handle == nil || l.refs == 0 {
		return nil
	}
	l.refs--
	if l.refs > 0 {
		return nil
	}
	if l.active > 0 {
		l.logger.Warn("kernel call still running; deferring library unload",
			zap.String("path", l.Path), zap.Int("active", l.active))
		return nil
	}
	return l.unload()
}

func (l *Library) unload() error {
	rc := C.kc_close(l.handle)
	l.handle = nil
	if rc != 0 {
		return fmt.Errorf("dlclose %s failed", l.Path)
	}
	l.logger.Debug("kernel library unloaded", zap.String("path", l.Path))
	return nil
}

// enter registers a kernel call; it fails once nk has been closed
func (nk *Native) enter() error {
	l := nk.lib
	l.mu.Lock()
	defer l.mu.Unlock()
	if nk.closed || l.handle == nil {
		return &LoadError{Path: l.Path, Symbol: nk.symbol, Err: errLibraryClosed}
	}
	l.active++
	return nil
}

// exit finishes a kernel call and performs an unload postponed by release
func (nk *Native) exit() {
	l := nk.lib
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active--
	if l.active == 0 && l.refs == 0 && l.handle != nil {
		if err := l.unload(); err != nil {
			l.logger.Warn("deferred library unload failed", zap.Error(err))
		}
	}
}

// LoadNative opens path and binds symbol in one step
func LoadNative(path, symbol string, logger *zap.Logger) (*Native, error) {
	lib, err := Open(path, logger)
	if err != nil {
		return nil, err
	}
	nk, err := lib.Bind(symbol)
	// Native holds its own reference
	closeErr := lib.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}
	return nk, nil
}

func (nk *Native) Name() string {
	return "native:" + nk.lib.Path + "#" + nk.symbol
}

// Add calls the foreign kernel; it blocks until the kernel returns
func (nk *Native) Add(in1, in2, out []int32) error {
	if err := CheckShapes(in1, in2, out); err != nil {
		return err
	}
	if len(out) > math.MaxInt32 {
		return fmt.Errorf("size %d does not fit the kernel's int argument", len(out))
	}
	if err := nk.enter(); err != nil {
		return err
	}
	defer nk.exit()

	C.kc_call_add(nk.fn, int32Ptr(in1), int32Ptr(in2), int32Ptr(out), C.int32_t(len(out)))
	return nil
}

// Close releases the library reference held by this kernel. It does not wait
// for a call still running in another goroutine; later calls to Add fail.
func (nk *Native) Close() error {
	var err error
	nk.once.Do(func() {
		nk.lib.mu.Lock()
		defer nk.lib.mu.Unlock()
		nk.closed = true
		err = nk.lib.release()
	})
	return err
}

func int32Ptr(s []int32) *C.int32_t {
	if len(s) == 0 {
		return nil
	}
	return (*C.int32_t)(unsafe.Pointer(&s[0]))
}
