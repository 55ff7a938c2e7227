package cindex

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Index is the top-level container for translation units. It wraps a single
// opaque native handle.
type Index struct {
	handle unsafe.Pointer
	lib    *Library
	live   int // translation units created and not yet disposed
}

// NewIndex creates an Index. excludeDeclsFromPCH suppresses declarations
// that come in from a precompiled header; displayDiagnostics makes the
// native library print diagnostics to stderr as they are produced.
func (l *Library) NewIndex(excludeDeclsFromPCH, displayDiagnostics bool) (*Index, error) {
	if err := l.bind("clang_createIndex", Clang2_7, &l.p.createIndex); err != nil {
		return nil, err
	}
	h := l.p.createIndex(b2i(excludeDeclsFromPCH), b2i(displayDiagnostics))
	if h == nil {
		return nil, fmt.Errorf("cindex: clang_createIndex returned a null index")
	}
	return &Index{handle: h, lib: l}, nil
}

// Dispose releases the native index. It fails while translation units
// created from this Index are still live, and is a no-op on an already
// disposed Index.
func (idx *Index) Dispose() error {
	if idx.handle == nil {
		return nil
	}
	if idx.live > 0 {
		return fmt.Errorf("cindex: index has %d live translation unit(s)", idx.live)
	}
	if err := idx.lib.bind("clang_disposeIndex", Clang2_7, &idx.lib.p.disposeIndex); err != nil {
		return err
	}
	idx.lib.p.disposeIndex(idx.handle)
	idx.handle = nil
	return nil
}

// ParseTranslationUnit parses sourceFilename with the given compiler
// arguments, in-memory file overlays, and parse flags. The caller owns the
// returned TranslationUnit and must Dispose it before disposing the Index.
func (idx *Index) ParseTranslationUnit(sourceFilename string, args []string, unsaved []UnsavedFile, flags ParseFlags) (*TranslationUnit, error) {
	if idx.handle == nil {
		return nil, ErrDisposed
	}
	l := idx.lib
	if err := l.bind("clang_parseTranslationUnit", Clang2_8, &l.p.parseTranslationUnit); err != nil {
		return nil, err
	}
	argv, argBufs := cArgs(args)
	files, keep := cUnsaved(unsaved)
	var argvPtr **byte
	if len(argv) > 0 {
		argvPtr = &argv[0]
	}
	var filesPtr *cxUnsavedFile
	if len(files) > 0 {
		filesPtr = &files[0]
	}
	h := l.p.parseTranslationUnit(idx.handle, sourceFilename,
		argvPtr, int32(len(argv)), filesPtr, uint32(len(files)), uint32(flags))
	runtime.KeepAlive(argBufs)
	runtime.KeepAlive(argv)
	runtime.KeepAlive(keep)
	runtime.KeepAlive(files)
	if h == nil {
		return nil, fmt.Errorf("cindex: parsing %s failed", sourceFilename)
	}
	idx.live++
	return &TranslationUnit{handle: h, idx: idx}, nil
}

// TranslationUnitFromSourceFile is the pre-2.8 parse entry point, kept for
// libraries that predate clang_parseTranslationUnit.
func (idx *Index) TranslationUnitFromSourceFile(sourceFilename string, args []string, unsaved []UnsavedFile) (*TranslationUnit, error) {
	if idx.handle == nil {
		return nil, ErrDisposed
	}
	l := idx.lib
	if err := l.bind("clang_createTranslationUnitFromSourceFile", Clang2_7, &l.p.createTranslationUnitFromSourceFile); err != nil {
		return nil, err
	}
	argv, argBufs := cArgs(args)
	files, keep := cUnsaved(unsaved)
	var argvPtr **byte
	if len(argv) > 0 {
		argvPtr = &argv[0]
	}
	var filesPtr *cxUnsavedFile
	if len(files) > 0 {
		filesPtr = &files[0]
	}
	h := l.p.createTranslationUnitFromSourceFile(idx.handle, sourceFilename,
		int32(len(argv)), argvPtr, uint32(len(files)), filesPtr)
	runtime.KeepAlive(argBufs)
	runtime.KeepAlive(argv)
	runtime.KeepAlive(keep)
	runtime.KeepAlive(files)
	if h == nil {
		return nil, fmt.Errorf("cindex: parsing %s failed", sourceFilename)
	}
	idx.live++
	return &TranslationUnit{handle: h, idx: idx}, nil
}

func b2i(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
