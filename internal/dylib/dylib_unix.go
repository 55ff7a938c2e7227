//go:build !windows

package dylib

import (
	"fmt"
	"reflect"

	"github.com/ebitengine/purego"
)

// Handle is an opened shared library.
type Handle struct {
	lib  uintptr
	file string
}

// openLibrary opens the shared library file with dlopen. Lazy binding is
// deliberate: symbol presence is probed per capability, not at load time.
func openLibrary(file string) (*Handle, error) {
	lib, err := purego.Dlopen(file, purego.RTLD_LAZY|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("dylib: open %s: %w", file, err)
	}
	return &Handle{lib: lib, file: file}, nil
}

// File returns the file name the handle was opened from.
func (h *Handle) File() string {
	return h.file
}

// Lookup reports the address of a symbol. When the library does not export
// it the error wraps ErrNotFound.
func (h *Handle) Lookup(name string) (uintptr, error) {
	addr, err := purego.Dlsym(h.lib, name)
	if err != nil {
		return 0, fmt.Errorf("dylib: symbol %s in %s: %w", name, h.file, ErrNotFound)
	}
	return addr, nil
}

// Has reports whether the library exports the named symbol.
func (h *Handle) Has(name string) bool {
	_, err := purego.Dlsym(h.lib, name)
	return err == nil
}

// Bind resolves name and installs a typed Go wrapper for it into fptr,
// which must be a pointer to a function variable whose signature matches
// the native function. Signatures made of pointers, strings and machine
// words register directly through purego; signatures that pass or return a
// record by value go through libffi, which implements the platform struct
// ABI that purego only covers on darwin. A lookup failure wraps ErrNotFound;
// every other failure is a registration error.
func (h *Handle) Bind(name string, fptr any) (err error) {
	addr, err := h.Lookup(name)
	if err != nil {
		return err
	}
	t := reflect.TypeOf(fptr)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Func {
		return fmt.Errorf("dylib: register %s: fptr must point to a function variable", name)
	}
	if hasRecords(t.Elem()) {
		if err := ffiBind(fptr, addr); err != nil {
			return fmt.Errorf("dylib: register %s: %w", name, err)
		}
		return nil
	}
	// purego panics on signatures it cannot marshal.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dylib: register %s: %v", name, r)
		}
	}()
	purego.RegisterFunc(fptr, addr)
	return nil
}

// hasRecords reports whether the signature passes or returns a struct by
// value.
func hasRecords(t reflect.Type) bool {
	for i := 0; i < t.NumIn(); i++ {
		if t.In(i).Kind() == reflect.Struct {
			return true
		}
	}
	return t.NumOut() == 1 && t.Out(0).Kind() == reflect.Struct
}

// Close releases the loader reference. The Handle must not be used after
// Close returns.
func (h *Handle) Close() error {
	if h.lib == 0 {
		return nil
	}
	err := purego.Dlclose(h.lib)
	h.lib = 0
	if err != nil {
		return fmt.Errorf("dylib: close %s: %w", h.file, err)
	}
	return nil
}
