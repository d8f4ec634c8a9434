//go:build linux

// Package dl wraps the dynamic loader for symbol resolution on objects that
// are already mapped into the process.
package dl

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// RTLD_NOLOAD is not exported by purego.
const rtldNoLoad = 0x4

// seams for tests
var (
	dlopen  = purego.Dlopen
	dlsym   = purego.Dlsym
	dlclose = purego.Dlclose
)

// Library is an open handle to a loaded object. Close releases the loader
// reference exactly once; further closes are no-ops.
type Library struct {
	handle uintptr
}

// OpenLoaded returns a handle to an already loaded object without loading
// it again. It fails when the loader does not currently hold an object
// under path.
func OpenLoaded(path string) (*Library, error) {
	handle, err := dlopen(path, rtldNoLoad|purego.RTLD_LAZY)
	if err != nil {
		return nil, fmt.Errorf("dlopen %s: %w", path, err)
	}
	return &Library{handle: handle}, nil
}

// Sym returns the address of name within the library, or 0 when the library
// does not export it.
func (l *Library) Sym(name string) uintptr {
	if l == nil || l.handle == 0 {
		return 0
	}
	addr, err := dlsym(l.handle, name)
	if err != nil {
		return 0
	}
	return addr
}

func (l *Library) Close() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	handle := l.handle
	l.handle = 0
	return dlclose(handle)
}

// Default resolves name in the global symbol scope of the process.
func Default(name string) uintptr {
	addr, err := dlsym(purego.RTLD_DEFAULT, name)
	if err != nil {
		return 0
	}
	return addr
}
