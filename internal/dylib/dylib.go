// Package dylib locates and opens the native libclang shared library and
// resolves its symbols into typed Go functions. It is the only package that
// touches the dynamic loader directly; everything above it works in terms of
// the Handle it produces.
package dylib

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

// ErrNotFound reports that the library does not export a symbol. Bind wraps
// it on lookup failure only; a registration failure means the symbol exists
// but its signature could not be marshalled, and does not match ErrNotFound.
var ErrNotFound = errors.New("dylib: symbol not found")

// CursorVisitor is the host side of the clang_visitChildren upcall. The
// native trampoline lands the by-value cursor records and forwards them here
// by pointer, together with the opaque client word; the return value is a
// CXChildVisitResult.
type CursorVisitor func(cursor, parent unsafe.Pointer, client uintptr) uint32

// extensions maps the host operating system family to its conventional
// shared-library suffix.
var extensions = map[string]string{
	"darwin":  "dylib",
	"linux":   "so",
	"windows": "dll",
}

// FileName constructs the platform-specific shared-library file name from an
// optional base name and optional version suffix. An empty name defaults to
// "libclang"; a non-empty version is appended as "-<version>" before the
// extension, so FileName("", "3.2") is "libclang-3.2.so" on Linux.
func FileName(name, version string) (string, error) {
	return fileNameFor(runtime.GOOS, name, version)
}

func fileNameFor(goos, name, version string) (string, error) {
	ext, ok := extensions[goos]
	if !ok {
		return "", fmt.Errorf("dylib: no known shared-library extension for %s", goos)
	}
	if name == "" {
		name = "libclang"
	}
	if version != "" {
		name = fmt.Sprintf("%s-%s", name, version)
	}
	return fmt.Sprintf("%s.%s", name, ext), nil
}

// Open resolves the platform file name for (name, version) and opens it.
// The returned Handle owns the loader reference until Close is called.
func Open(name, version string) (*Handle, error) {
	file, err := FileName(name, version)
	if err != nil {
		return nil, err
	}
	return openLibrary(file)
}
