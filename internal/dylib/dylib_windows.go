//go:build windows

package dylib

import "errors"

var errUnsupported = errors.New("dylib: dynamic loading is not supported on windows")

// Handle is an opened shared library. Never constructed on windows.
type Handle struct {
	file string
}

func openLibrary(file string) (*Handle, error) {
	return nil, errUnsupported
}

// File returns the file name the handle was opened from.
func (h *Handle) File() string { return h.file }

// Lookup reports the address of a symbol.
func (h *Handle) Lookup(name string) (uintptr, error) { return 0, errUnsupported }

// Has reports whether the library exports the named symbol.
func (h *Handle) Has(name string) bool { return false }

// Bind resolves name into a typed Go function.
func (h *Handle) Bind(name string, fptr any) error { return errUnsupported }

// Close releases the loader reference.
func (h *Handle) Close() error { return nil }

// SetCursorVisitor27 is a no-op on windows.
func SetCursorVisitor27(fn CursorVisitor) {}

// SetCursorVisitor30 is a no-op on windows.
func SetCursorVisitor30(fn CursorVisitor) {}

// VisitorTrampoline27 reports no trampoline on windows.
func VisitorTrampoline27() uintptr { return 0 }

// VisitorTrampoline30 reports no trampoline on windows.
func VisitorTrampoline30() uintptr { return 0 }
