package cindex

import "unsafe"

// Raw ABI struct mirrors. Field order and width must match the native
// declarations exactly; these cross the foreign-function boundary by value.

// cxString is a disposable native string handle (CXString).
type cxString struct {
	data  unsafe.Pointer
	flags uint32
}

// cxSourceLocation mirrors CXSourceLocation.
type cxSourceLocation struct {
	ptrData [2]unsafe.Pointer
	intData uint32
}

// cxSourceRange mirrors CXSourceRange.
type cxSourceRange struct {
	ptrData      [2]unsafe.Pointer
	beginIntData uint32
	endIntData   uint32
}

// cxType mirrors CXType: a kind tag plus two opaque data slots.
type cxType struct {
	kind uint32
	data [2]unsafe.Pointer
}

// cxToken mirrors CXToken.
type cxToken struct {
	intData [4]uint32
	ptrData unsafe.Pointer
}

// cxUnsavedFile mirrors CXUnsavedFile: an in-memory overlay presented to the
// native library instead of reading from disk. Length is explicit because
// contents may hold arbitrary bytes and are not NUL-terminator safe.
type cxUnsavedFile struct {
	filename *byte
	contents *byte
	length   uint64
}

// cxCursor27 is the cursor record as laid out before libclang 3.0: a kind
// tag and three opaque data slots.
type cxCursor27 struct {
	kind uint32
	data [3]unsafe.Pointer
}

// cxCursor30 is the cursor record from libclang 3.0 onward, which inserted
// an extra tag field (xdata) between the kind and the data slots. Calling a
// native function with the wrong one of these two shapes corrupts memory
// silently, which is why layout selection happens once, at load time.
type cxCursor30 struct {
	kind  uint32
	xdata int32
	data  [3]unsafe.Pointer
}

// Conversions between the public Cursor and the per-version raw shapes.
// The public Cursor always carries the superset of fields; the 2.7 layout
// simply has no xdata slot to round-trip.

func (c Cursor) raw27() cxCursor27 {
	return cxCursor27{kind: c.kind, data: c.data}
}

func (c Cursor) raw30() cxCursor30 {
	return cxCursor30{kind: c.kind, xdata: c.xdata, data: c.data}
}

func cursorFrom27(r cxCursor27, tu *TranslationUnit) Cursor {
	return Cursor{kind: r.kind, data: r.data, tu: tu}
}

func cursorFrom30(r cxCursor30, tu *TranslationUnit) Cursor {
	return Cursor{kind: r.kind, xdata: r.xdata, data: r.data, tu: tu}
}
