//go:build !windows

package dylib

/*
#include <stdint.h>

extern void *dylibVisitorTramp27(void);
extern void *dylibVisitorTramp30(void);
*/
import "C"

import "unsafe"

// The visitor hooks are process-wide wiring, installed once by the binding
// layer before any traversal runs. Everything traversal-specific travels in
// the opaque client word, never here.
var (
	cursorVisitor27 CursorVisitor
	cursorVisitor30 CursorVisitor
)

// SetCursorVisitor27 installs the host function behind the pre-3.0 visitor
// trampoline.
func SetCursorVisitor27(fn CursorVisitor) { cursorVisitor27 = fn }

// SetCursorVisitor30 installs the host function behind the post-3.0 visitor
// trampoline.
func SetCursorVisitor30(fn CursorVisitor) { cursorVisitor30 = fn }

// VisitorTrampoline27 returns the native entry point to pass to
// clang_visitChildren on pre-3.0 libraries.
func VisitorTrampoline27() uintptr { return uintptr(C.dylibVisitorTramp27()) }

// VisitorTrampoline30 returns the native entry point to pass to
// clang_visitChildren on 3.0 and later libraries.
func VisitorTrampoline30() uintptr { return uintptr(C.dylibVisitorTramp30()) }

//export dylibVisitUpcall27
func dylibVisitUpcall27(cursor, parent unsafe.Pointer, client C.uintptr_t) C.uint {
	if cursorVisitor27 == nil {
		return 0
	}
	return C.uint(cursorVisitor27(cursor, parent, uintptr(client)))
}

//export dylibVisitUpcall30
func dylibVisitUpcall30(cursor, parent unsafe.Pointer, client C.uintptr_t) C.uint {
	if cursorVisitor30 == nil {
		return 0
	}
	return C.uint(cursorVisitor30(cursor, parent, uintptr(client)))
}
