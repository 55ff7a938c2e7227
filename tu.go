package cindex

import (
	"fmt"
	"unsafe"
)

// TranslationUnit wraps a parsed translation unit handle. It keeps a
// back-reference to the Index that created it, which refuses disposal while
// the unit is live.
type TranslationUnit struct {
	handle unsafe.Pointer
	idx    *Index
}

func (tu *TranslationUnit) lib() *Library {
	return tu.idx.lib
}

// Library returns the Library the translation unit was parsed through.
func (tu *TranslationUnit) Library() *Library {
	return tu.idx.lib
}

// Dispose releases the translation unit. Diagnostics and tokens obtained
// from it must not be used afterward. No-op if already disposed.
func (tu *TranslationUnit) Dispose() error {
	if tu.handle == nil {
		return nil
	}
	l := tu.lib()
	if err := l.bind("clang_disposeTranslationUnit", Clang2_7, &l.p.disposeTranslationUnit); err != nil {
		return err
	}
	l.p.disposeTranslationUnit(tu.handle)
	tu.handle = nil
	tu.idx.live--
	return nil
}

// Spelling returns the original source file name of the translation unit.
func (tu *TranslationUnit) Spelling() (string, error) {
	if tu.handle == nil {
		return "", ErrDisposed
	}
	l := tu.lib()
	if err := l.bind("clang_getTranslationUnitSpelling", Clang2_7, &l.p.getTranslationUnitSpelling); err != nil {
		return "", err
	}
	return l.takeString(l.p.getTranslationUnitSpelling(tu.handle))
}

// Cursor returns the cursor spanning the whole translation unit, the root
// for traversal.
func (tu *TranslationUnit) Cursor() (Cursor, error) {
	if tu.handle == nil {
		return Cursor{}, ErrDisposed
	}
	l := tu.lib()
	return l.layout.tuCursor(l, tu)
}

// File resolves a file name to its handle within the translation unit.
// A file that is not part of the translation unit is an argument error,
// not a null handle.
func (tu *TranslationUnit) File(filename string) (File, error) {
	if tu.handle == nil {
		return File{}, ErrDisposed
	}
	l := tu.lib()
	if err := l.bind("clang_getFile", Clang2_7, &l.p.getFile); err != nil {
		return File{}, err
	}
	h := l.p.getFile(tu.handle, filename)
	if h == nil {
		return File{}, fmt.Errorf("cindex: file %q is not part of the translation unit", filename)
	}
	return File{handle: h, lib: l}, nil
}

// Location returns the source location at (line, column) of file.
func (tu *TranslationUnit) Location(f File, line, column uint32) (SourceLocation, error) {
	if tu.handle == nil {
		return SourceLocation{}, ErrDisposed
	}
	l := tu.lib()
	if err := l.bind("clang_getLocation", Clang2_7, &l.p.getLocation); err != nil {
		return SourceLocation{}, err
	}
	return SourceLocation{raw: l.p.getLocation(tu.handle, f.handle, line, column), lib: l}, nil
}

// LocationForOffset returns the source location at a byte offset into file.
// Requires libclang 3.0.
func (tu *TranslationUnit) LocationForOffset(f File, offset uint32) (SourceLocation, error) {
	if tu.handle == nil {
		return SourceLocation{}, ErrDisposed
	}
	l := tu.lib()
	if err := l.bind("clang_getLocationForOffset", Clang3_0, &l.p.getLocationForOffset); err != nil {
		return SourceLocation{}, err
	}
	return SourceLocation{raw: l.p.getLocationForOffset(tu.handle, f.handle, offset), lib: l}, nil
}

// CursorAt returns the cursor for the entity at loc.
func (tu *TranslationUnit) CursorAt(loc SourceLocation) (Cursor, error) {
	if tu.handle == nil {
		return Cursor{}, ErrDisposed
	}
	l := tu.lib()
	return l.layout.cursorAt(l, tu, loc.raw)
}

// Diagnostics returns the diagnostics produced while parsing. Each returned
// Diagnostic owns a native allocation; the caller must Dispose every one of
// them before disposing the translation unit.
func (tu *TranslationUnit) Diagnostics() ([]*Diagnostic, error) {
	if tu.handle == nil {
		return nil, ErrDisposed
	}
	l := tu.lib()
	if err := l.bind("clang_getNumDiagnostics", Clang2_8, &l.p.getNumDiagnostics); err != nil {
		return nil, err
	}
	if err := l.bind("clang_getDiagnostic", Clang2_8, &l.p.getDiagnostic); err != nil {
		return nil, err
	}
	n := l.p.getNumDiagnostics(tu.handle)
	out := make([]*Diagnostic, 0, n)
	for i := uint32(0); i < n; i++ {
		h := l.p.getDiagnostic(tu.handle, i)
		if h == nil {
			continue
		}
		out = append(out, &Diagnostic{handle: h, lib: l})
	}
	return out, nil
}

// Tokenize lexes the source covered by extent and returns the tokens in
// source order. The native token list is copied into host-owned Tokens and
// disposed before Tokenize returns, so no native allocation outlives the
// call.
func (tu *TranslationUnit) Tokenize(extent SourceRange) ([]Token, error) {
	if tu.handle == nil {
		return nil, ErrDisposed
	}
	l := tu.lib()
	if err := l.bind("clang_tokenize", Clang2_8, &l.p.tokenize); err != nil {
		return nil, err
	}
	if err := l.bind("clang_getTokenKind", Clang2_8, &l.p.getTokenKind); err != nil {
		return nil, err
	}
	if err := l.bind("clang_getTokenSpelling", Clang2_8, &l.p.getTokenSpelling); err != nil {
		return nil, err
	}
	if err := l.bind("clang_getTokenLocation", Clang2_8, &l.p.getTokenLocation); err != nil {
		return nil, err
	}
	if err := l.bind("clang_getTokenExtent", Clang2_8, &l.p.getTokenExtent); err != nil {
		return nil, err
	}
	if err := l.bind("clang_disposeTokens", Clang2_8, &l.p.disposeTokens); err != nil {
		return nil, err
	}

	var (
		ptr unsafe.Pointer
		n   uint32
	)
	l.p.tokenize(tu.handle, extent.raw, &ptr, &n)
	if ptr == nil || n == 0 {
		return nil, nil
	}
	raw := unsafe.Slice((*cxToken)(ptr), n)
	out := make([]Token, 0, n)
	var firstErr error
	for _, t := range raw {
		spelling, err := l.takeString(l.p.getTokenSpelling(tu.handle, t))
		if err != nil {
			firstErr = err
			break
		}
		out = append(out, Token{
			Kind:     TokenKind(l.p.getTokenKind(t)),
			Spelling: spelling,
			Location: SourceLocation{raw: l.p.getTokenLocation(tu.handle, t), lib: l},
			Extent:   SourceRange{raw: l.p.getTokenExtent(tu.handle, t), lib: l},
		})
	}
	l.p.disposeTokens(tu.handle, ptr, n)
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
