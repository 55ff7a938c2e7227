package cindex

import (
	"sync"
	"unsafe"

	"github.com/jward/cindex/internal/dylib"
)

// VisitResult tells the native traversal how to proceed after a visit.
type VisitResult uint32

// CXChildVisitResult values.
const (
	VisitBreak    VisitResult = 0 // stop the traversal
	VisitContinue VisitResult = 1 // continue with the next sibling
	VisitRecurse  VisitResult = 2 // descend into the visited cursor
)

// Visitor is invoked once per visited cursor. The upcall is synchronous and
// happens entirely within the dynamic extent of the traversal call; a native
// handle received here must be copied into host-owned storage before the
// visitor returns if it is to be retained. Visitors must not start a nested
// traversal on an overlapping cursor.
type Visitor func(cursor, parent Cursor) VisitResult

// visitState is the accumulator for a single traversal. Its lifetime is
// scoped exactly to the traversal call; the native side addresses it through
// the opaque id passed as client data, never through a host pointer.
type visitState struct {
	lib *Library
	tu  *TranslationUnit
	fn  Visitor
}

var visitRegistry = struct {
	sync.Mutex
	next   uintptr
	states map[uintptr]*visitState
}{states: make(map[uintptr]*visitState)}

// The native trampolines are installed once per process. Everything
// traversal-specific arrives through the registry id in the client word.
func init() {
	dylib.SetCursorVisitor27(visitUpcall27)
	dylib.SetCursorVisitor30(visitUpcall30)
}

// visitUpcall30 is the host side of the traversal upcall for 3.0 and later
// layouts. The cursor records arrive by pointer from the native trampoline
// and are copied before the visitor sees them.
func visitUpcall30(cursor, parent unsafe.Pointer, client uintptr) uint32 {
	st := visitLookup(client)
	if st == nil {
		return uint32(VisitBreak)
	}
	c := cursorFrom30(*(*cxCursor30)(cursor), st.tu)
	c.lib = st.lib
	p := cursorFrom30(*(*cxCursor30)(parent), st.tu)
	p.lib = st.lib
	return uint32(st.fn(c, p))
}

// visitUpcall27 is the pre-3.0 counterpart of visitUpcall30.
func visitUpcall27(cursor, parent unsafe.Pointer, client uintptr) uint32 {
	st := visitLookup(client)
	if st == nil {
		return uint32(VisitBreak)
	}
	c := cursorFrom27(*(*cxCursor27)(cursor), st.tu)
	c.lib = st.lib
	p := cursorFrom27(*(*cxCursor27)(parent), st.tu)
	p.lib = st.lib
	return uint32(st.fn(c, p))
}

// visitRegister stores st and returns the opaque id to pass across the
// boundary as client data.
func visitRegister(st *visitState) uintptr {
	visitRegistry.Lock()
	defer visitRegistry.Unlock()
	visitRegistry.next++
	id := visitRegistry.next
	visitRegistry.states[id] = st
	return id
}

func visitLookup(id uintptr) *visitState {
	visitRegistry.Lock()
	defer visitRegistry.Unlock()
	return visitRegistry.states[id]
}

func visitUnregister(id uintptr) {
	visitRegistry.Lock()
	defer visitRegistry.Unlock()
	delete(visitRegistry.states, id)
}
