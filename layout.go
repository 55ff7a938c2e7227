package cindex

import (
	"unsafe"

	"github.com/jward/cindex/internal/dylib"
)

// cursorLayout is the registry entry for the version-dependent cursor
// shape. Every native call whose signature contains a cursor by value goes
// through it, so that each call is bound with the struct layout that is
// ABI-correct for the loaded version. The layout is selected exactly once,
// at load time, before any binding can reference it.
type cursorLayout interface {
	null(l *Library) (Cursor, error)
	tuCursor(l *Library, tu *TranslationUnit) (Cursor, error)
	cursorAt(l *Library, tu *TranslationUnit, loc cxSourceLocation) (Cursor, error)
	equal(l *Library, a, b Cursor) (bool, error)
	// isNull reports (value, ok); ok is false when the native predicate is
	// absent and the caller must fall back to comparing against the null
	// sentinel.
	isNull(l *Library, c Cursor) (value, ok bool)
	kind(l *Library, c Cursor) (CursorKind, error)
	spelling(l *Library, c Cursor) (string, error)
	usr(l *Library, c Cursor) (string, error)
	// displayName reports ("", false, nil) when the capability is absent.
	displayName(l *Library, c Cursor) (string, bool, error)
	location(l *Library, c Cursor) (cxSourceLocation, error)
	extent(l *Library, c Cursor) (cxSourceRange, error)
	typ(l *Library, c Cursor) (cxType, error)
	typeDeclaration(l *Library, t cxType, tu *TranslationUnit) (Cursor, error)
	semanticParent(l *Library, c Cursor) (Cursor, error)
	referenced(l *Library, c Cursor) (Cursor, error)
	overridden(l *Library, c Cursor) ([]Cursor, error)
	visit(l *Library, root Cursor, fn Visitor) error
}

// layoutForVersion selects the concrete cursor layout for v. The extra tag
// field appeared at the 3.0 boundary.
func layoutForVersion(v Version) cursorLayout {
	if v.AtLeast(Clang3_0) {
		return &layout30{}
	}
	return &layout27{}
}

// layout30 binds cursor calls against the post-3.0 record (kind, xdata,
// three data slots).
type layout30 struct {
	getNullCursor            func() cxCursor30
	getTranslationUnitCursor func(tu unsafe.Pointer) cxCursor30
	getCursor                func(tu unsafe.Pointer, loc cxSourceLocation) cxCursor30
	equalCursors             func(a, b cxCursor30) uint32
	cursorIsNull             func(cxCursor30) int32
	getCursorKind            func(cxCursor30) uint32
	getCursorSpelling        func(cxCursor30) cxString
	getCursorUSR             func(cxCursor30) cxString
	getCursorDisplayName     func(cxCursor30) cxString
	getCursorLocation        func(cxCursor30) cxSourceLocation
	getCursorExtent          func(cxCursor30) cxSourceRange
	getCursorType            func(cxCursor30) cxType
	getTypeDeclaration       func(cxType) cxCursor30
	getCursorSemanticParent  func(cxCursor30) cxCursor30
	getCursorReferenced      func(cxCursor30) cxCursor30
	getOverriddenCursors     func(c cxCursor30, overridden *unsafe.Pointer, num *uint32)
	disposeOverriddenCursors func(unsafe.Pointer)
	visitChildren            func(parent cxCursor30, visitor, clientData uintptr) uint32
}

func (y *layout30) null(l *Library) (Cursor, error) {
	if err := l.bind("clang_getNullCursor", Clang2_7, &y.getNullCursor); err != nil {
		return Cursor{}, err
	}
	c := cursorFrom30(y.getNullCursor(), nil)
	c.lib = l
	return c, nil
}

func (y *layout30) tuCursor(l *Library, tu *TranslationUnit) (Cursor, error) {
	if err := l.bind("clang_getTranslationUnitCursor", Clang2_7, &y.getTranslationUnitCursor); err != nil {
		return Cursor{}, err
	}
	c := cursorFrom30(y.getTranslationUnitCursor(tu.handle), tu)
	c.lib = l
	return c, nil
}

func (y *layout30) cursorAt(l *Library, tu *TranslationUnit, loc cxSourceLocation) (Cursor, error) {
	if err := l.bind("clang_getCursor", Clang2_7, &y.getCursor); err != nil {
		return Cursor{}, err
	}
	c := cursorFrom30(y.getCursor(tu.handle, loc), tu)
	c.lib = l
	return c, nil
}

func (y *layout30) equal(l *Library, a, b Cursor) (bool, error) {
	if err := l.bind("clang_equalCursors", Clang2_7, &y.equalCursors); err != nil {
		return false, err
	}
	return y.equalCursors(a.raw30(), b.raw30()) != 0, nil
}

func (y *layout30) isNull(l *Library, c Cursor) (bool, bool) {
	if !l.bindOptional("clang_Cursor_isNull", Clang3_0, &y.cursorIsNull) {
		return false, false
	}
	return y.cursorIsNull(c.raw30()) != 0, true
}

func (y *layout30) kind(l *Library, c Cursor) (CursorKind, error) {
	if err := l.bind("clang_getCursorKind", Clang2_7, &y.getCursorKind); err != nil {
		return 0, err
	}
	return CursorKind(y.getCursorKind(c.raw30())), nil
}

func (y *layout30) spelling(l *Library, c Cursor) (string, error) {
	if err := l.bind("clang_getCursorSpelling", Clang2_7, &y.getCursorSpelling); err != nil {
		return "", err
	}
	return l.takeString(y.getCursorSpelling(c.raw30()))
}

func (y *layout30) usr(l *Library, c Cursor) (string, error) {
	if err := l.bind("clang_getCursorUSR", Clang2_8, &y.getCursorUSR); err != nil {
		return "", err
	}
	return l.takeString(y.getCursorUSR(c.raw30()))
}

func (y *layout30) displayName(l *Library, c Cursor) (string, bool, error) {
	if !l.bindOptional("clang_getCursorDisplayName", Clang2_9, &y.getCursorDisplayName) {
		return "", false, nil
	}
	s, err := l.takeString(y.getCursorDisplayName(c.raw30()))
	return s, err == nil, err
}

func (y *layout30) location(l *Library, c Cursor) (cxSourceLocation, error) {
	if err := l.bind("clang_getCursorLocation", Clang2_7, &y.getCursorLocation); err != nil {
		return cxSourceLocation{}, err
	}
	return y.getCursorLocation(c.raw30()), nil
}

func (y *layout30) extent(l *Library, c Cursor) (cxSourceRange, error) {
	if err := l.bind("clang_getCursorExtent", Clang2_7, &y.getCursorExtent); err != nil {
		return cxSourceRange{}, err
	}
	return y.getCursorExtent(c.raw30()), nil
}

func (y *layout30) typ(l *Library, c Cursor) (cxType, error) {
	if err := l.bind("clang_getCursorType", Clang2_8, &y.getCursorType); err != nil {
		return cxType{}, err
	}
	return y.getCursorType(c.raw30()), nil
}

func (y *layout30) typeDeclaration(l *Library, t cxType, tu *TranslationUnit) (Cursor, error) {
	if err := l.bind("clang_getTypeDeclaration", Clang2_8, &y.getTypeDeclaration); err != nil {
		return Cursor{}, err
	}
	c := cursorFrom30(y.getTypeDeclaration(t), tu)
	c.lib = l
	return c, nil
}

func (y *layout30) semanticParent(l *Library, c Cursor) (Cursor, error) {
	if err := l.bind("clang_getCursorSemanticParent", Clang2_9, &y.getCursorSemanticParent); err != nil {
		return Cursor{}, err
	}
	p := cursorFrom30(y.getCursorSemanticParent(c.raw30()), c.tu)
	p.lib = l
	return p, nil
}

func (y *layout30) referenced(l *Library, c Cursor) (Cursor, error) {
	if err := l.bind("clang_getCursorReferenced", Clang2_7, &y.getCursorReferenced); err != nil {
		return Cursor{}, err
	}
	r := cursorFrom30(y.getCursorReferenced(c.raw30()), c.tu)
	r.lib = l
	return r, nil
}

func (y *layout30) overridden(l *Library, c Cursor) ([]Cursor, error) {
	if err := l.bind("clang_getOverriddenCursors", Clang2_9, &y.getOverriddenCursors); err != nil {
		return nil, err
	}
	if err := l.bind("clang_disposeOverriddenCursors", Clang2_9, &y.disposeOverriddenCursors); err != nil {
		return nil, err
	}
	var (
		ptr unsafe.Pointer
		num uint32
	)
	y.getOverriddenCursors(c.raw30(), &ptr, &num)
	if ptr == nil || num == 0 {
		return nil, nil
	}
	// Copy out of the native list before the paired dispose.
	raw := unsafe.Slice((*cxCursor30)(ptr), num)
	out := make([]Cursor, num)
	for i, r := range raw {
		out[i] = cursorFrom30(r, c.tu)
		out[i].lib = l
	}
	y.disposeOverriddenCursors(ptr)
	return out, nil
}

func (y *layout30) visit(l *Library, root Cursor, fn Visitor) error {
	if err := l.bind("clang_visitChildren", Clang2_7, &y.visitChildren); err != nil {
		return err
	}
	id := visitRegister(&visitState{lib: l, tu: root.tu, fn: fn})
	defer visitUnregister(id)
	y.visitChildren(root.raw30(), dylib.VisitorTrampoline30(), id)
	return nil
}

// layout27 binds cursor calls against the pre-3.0 record (kind plus three
// data slots, no xdata).
type layout27 struct {
	getNullCursor            func() cxCursor27
	getTranslationUnitCursor func(tu unsafe.Pointer) cxCursor27
	getCursor                func(tu unsafe.Pointer, loc cxSourceLocation) cxCursor27
	equalCursors             func(a, b cxCursor27) uint32
	cursorIsNull             func(cxCursor27) int32
	getCursorKind            func(cxCursor27) uint32
	getCursorSpelling        func(cxCursor27) cxString
	getCursorUSR             func(cxCursor27) cxString
	getCursorDisplayName     func(cxCursor27) cxString
	getCursorLocation        func(cxCursor27) cxSourceLocation
	getCursorExtent          func(cxCursor27) cxSourceRange
	getCursorType            func(cxCursor27) cxType
	getTypeDeclaration       func(cxType) cxCursor27
	getCursorSemanticParent  func(cxCursor27) cxCursor27
	getCursorReferenced      func(cxCursor27) cxCursor27
	getOverriddenCursors     func(c cxCursor27, overridden *unsafe.Pointer, num *uint32)
	disposeOverriddenCursors func(unsafe.Pointer)
	visitChildren            func(parent cxCursor27, visitor, clientData uintptr) uint32
}

func (y *layout27) null(l *Library) (Cursor, error) {
	if err := l.bind("clang_getNullCursor", Clang2_7, &y.getNullCursor); err != nil {
		return Cursor{}, err
	}
	c := cursorFrom27(y.getNullCursor(), nil)
	c.lib = l
	return c, nil
}

func (y *layout27) tuCursor(l *Library, tu *TranslationUnit) (Cursor, error) {
	if err := l.bind("clang_getTranslationUnitCursor", Clang2_7, &y.getTranslationUnitCursor); err != nil {
		return Cursor{}, err
	}
	c := cursorFrom27(y.getTranslationUnitCursor(tu.handle), tu)
	c.lib = l
	return c, nil
}

func (y *layout27) cursorAt(l *Library, tu *TranslationUnit, loc cxSourceLocation) (Cursor, error) {
	if err := l.bind("clang_getCursor", Clang2_7, &y.getCursor); err != nil {
		return Cursor{}, err
	}
	c := cursorFrom27(y.getCursor(tu.handle, loc), tu)
	c.lib = l
	return c, nil
}

func (y *layout27) equal(l *Library, a, b Cursor) (bool, error) {
	if err := l.bind("clang_equalCursors", Clang2_7, &y.equalCursors); err != nil {
		return false, err
	}
	return y.equalCursors(a.raw27(), b.raw27()) != 0, nil
}

func (y *layout27) isNull(l *Library, c Cursor) (bool, bool) {
	if !l.bindOptional("clang_Cursor_isNull", Clang3_0, &y.cursorIsNull) {
		return false, false
	}
	return y.cursorIsNull(c.raw27()) != 0, true
}

func (y *layout27) kind(l *Library, c Cursor) (CursorKind, error) {
	if err := l.bind("clang_getCursorKind", Clang2_7, &y.getCursorKind); err != nil {
		return 0, err
	}
	return CursorKind(y.getCursorKind(c.raw27())), nil
}

func (y *layout27) spelling(l *Library, c Cursor) (string, error) {
	if err := l.bind("clang_getCursorSpelling", Clang2_7, &y.getCursorSpelling); err != nil {
		return "", err
	}
	return l.takeString(y.getCursorSpelling(c.raw27()))
}

func (y *layout27) usr(l *Library, c Cursor) (string, error) {
	if err := l.bind("clang_getCursorUSR", Clang2_8, &y.getCursorUSR); err != nil {
		return "", err
	}
	return l.takeString(y.getCursorUSR(c.raw27()))
}

func (y *layout27) displayName(l *Library, c Cursor) (string, bool, error) {
	if !l.bindOptional("clang_getCursorDisplayName", Clang2_9, &y.getCursorDisplayName) {
		return "", false, nil
	}
	s, err := l.takeString(y.getCursorDisplayName(c.raw27()))
	return s, err == nil, err
}

func (y *layout27) location(l *Library, c Cursor) (cxSourceLocation, error) {
	if err := l.bind("clang_getCursorLocation", Clang2_7, &y.getCursorLocation); err != nil {
		return cxSourceLocation{}, err
	}
	return y.getCursorLocation(c.raw27()), nil
}

func (y *layout27) extent(l *Library, c Cursor) (cxSourceRange, error) {
	if err := l.bind("clang_getCursorExtent", Clang2_7, &y.getCursorExtent); err != nil {
		return cxSourceRange{}, err
	}
	return y.getCursorExtent(c.raw27()), nil
}

func (y *layout27) typ(l *Library, c Cursor) (cxType, error) {
	if err := l.bind("clang_getCursorType", Clang2_8, &y.getCursorType); err != nil {
		return cxType{}, err
	}
	return y.getCursorType(c.raw27()), nil
}

func (y *layout27) typeDeclaration(l *Library, t cxType, tu *TranslationUnit) (Cursor, error) {
	if err := l.bind("clang_getTypeDeclaration", Clang2_8, &y.getTypeDeclaration); err != nil {
		return Cursor{}, err
	}
	c := cursorFrom27(y.getTypeDeclaration(t), tu)
	c.lib = l
	return c, nil
}

func (y *layout27) semanticParent(l *Library, c Cursor) (Cursor, error) {
	if err := l.bind("clang_getCursorSemanticParent", Clang2_9, &y.getCursorSemanticParent); err != nil {
		return Cursor{}, err
	}
	p := cursorFrom27(y.getCursorSemanticParent(c.raw27()), c.tu)
	p.lib = l
	return p, nil
}

func (y *layout27) referenced(l *Library, c Cursor) (Cursor, error) {
	if err := l.bind("clang_getCursorReferenced", Clang2_7, &y.getCursorReferenced); err != nil {
		return Cursor{}, err
	}
	r := cursorFrom27(y.getCursorReferenced(c.raw27()), c.tu)
	r.lib = l
	return r, nil
}

func (y *layout27) overridden(l *Library, c Cursor) ([]Cursor, error) {
	if err := l.bind("clang_getOverriddenCursors", Clang2_9, &y.getOverriddenCursors); err != nil {
		return nil, err
	}
	if err := l.bind("clang_disposeOverriddenCursors", Clang2_9, &y.disposeOverriddenCursors); err != nil {
		return nil, err
	}
	var (
		ptr unsafe.Pointer
		num uint32
	)
	y.getOverriddenCursors(c.raw27(), &ptr, &num)
	if ptr == nil || num == 0 {
		return nil, nil
	}
	raw := unsafe.Slice((*cxCursor27)(ptr), num)
	out := make([]Cursor, num)
	for i, r := range raw {
		out[i] = cursorFrom27(r, c.tu)
		out[i].lib = l
	}
	y.disposeOverriddenCursors(ptr)
	return out, nil
}

func (y *layout27) visit(l *Library, root Cursor, fn Visitor) error {
	if err := l.bind("clang_visitChildren", Clang2_7, &y.visitChildren); err != nil {
		return err
	}
	id := visitRegister(&visitState{lib: l, tu: root.tu, fn: fn})
	defer visitUnregister(id)
	y.visitChildren(root.raw27(), dylib.VisitorTrampoline27(), id)
	return nil
}
