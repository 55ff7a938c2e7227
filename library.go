package cindex

import (
	"fmt"
	"unsafe"

	"github.com/jward/cindex/internal/dylib"
)

// symbolSource is where the Library resolves native symbols from. The real
// implementation is *dylib.Handle; tests substitute an in-process fake.
type symbolSource interface {
	Prober
	Bind(name string, fptr any) error
	File() string
	Close() error
}

// Library is the context threaded into every component: the opened library
// handle, the detected version, the version-selected cursor layout, and the
// binding records. It is initialized once by Load and read-only afterward,
// aside from the binder's one-time memoization writes.
type Library struct {
	src      symbolSource
	version  Version
	layout   cursorLayout
	bindings map[string]*binding
	closed   bool

	p procs
}

// procs holds the lazily bound native functions whose signatures do not
// depend on the cursor layout. Cursor-shaped calls live on the layout.
type procs struct {
	// disposable strings
	getCString    func(cxString) string
	disposeString func(cxString)

	// index
	createIndex  func(excludeDeclsFromPCH, displayDiagnostics int32) unsafe.Pointer
	disposeIndex func(unsafe.Pointer)

	// translation units
	parseTranslationUnit func(idx unsafe.Pointer, sourceFilename string,
		argv **byte, argc int32,
		unsavedFiles *cxUnsavedFile, numUnsavedFiles uint32,
		options uint32) unsafe.Pointer
	createTranslationUnitFromSourceFile func(idx unsafe.Pointer, sourceFilename string,
		argc int32, argv **byte,
		numUnsavedFiles uint32, unsavedFiles *cxUnsavedFile) unsafe.Pointer
	disposeTranslationUnit     func(unsafe.Pointer)
	getTranslationUnitSpelling func(unsafe.Pointer) cxString
	getFile                    func(tu unsafe.Pointer, filename string) unsafe.Pointer
	getLocation                func(tu, file unsafe.Pointer, line, column uint32) cxSourceLocation
	getLocationForOffset       func(tu, file unsafe.Pointer, offset uint32) cxSourceLocation

	// locations and ranges
	getNullLocation          func() cxSourceLocation
	equalLocations           func(a, b cxSourceLocation) int32
	getInstantiationLocation func(loc cxSourceLocation, file *unsafe.Pointer, line, column, offset *uint32)
	getExpansionLocation     func(loc cxSourceLocation, file *unsafe.Pointer, line, column, offset *uint32)
	getNullRange             func() cxSourceRange
	getRange                 func(begin, end cxSourceLocation) cxSourceRange
	getRangeStart            func(cxSourceRange) cxSourceLocation
	getRangeEnd              func(cxSourceRange) cxSourceLocation
	equalRanges              func(a, b cxSourceRange) int32
	rangeIsNull              func(cxSourceRange) int32

	// files
	getFileName func(unsafe.Pointer) cxString
	getFileTime func(unsafe.Pointer) int64
	fileIsEqual func(a, b unsafe.Pointer) int32

	// tokens
	tokenize         func(tu unsafe.Pointer, extent cxSourceRange, tokens *unsafe.Pointer, numTokens *uint32)
	getTokenKind     func(cxToken) uint32
	getTokenSpelling func(tu unsafe.Pointer, tok cxToken) cxString
	getTokenLocation func(tu unsafe.Pointer, tok cxToken) cxSourceLocation
	getTokenExtent   func(tu unsafe.Pointer, tok cxToken) cxSourceRange
	disposeTokens    func(tu, tokens unsafe.Pointer, numTokens uint32)

	// diagnostics
	getNumDiagnostics               func(tu unsafe.Pointer) uint32
	getDiagnostic                   func(tu unsafe.Pointer, index uint32) unsafe.Pointer
	disposeDiagnostic               func(unsafe.Pointer)
	getDiagnosticSeverity           func(unsafe.Pointer) uint32
	getDiagnosticSpelling           func(unsafe.Pointer) cxString
	formatDiagnostic                func(diag unsafe.Pointer, options uint32) cxString
	defaultDiagnosticDisplayOptions func() uint32
	getDiagnosticLocation           func(unsafe.Pointer) cxSourceLocation
	getDiagnosticNumFixIts          func(unsafe.Pointer) uint32
	getDiagnosticFixIt              func(diag unsafe.Pointer, fixit uint32, replacementRange *cxSourceRange) cxString

	// kind predicates and types
	isDeclaration       func(kind uint32) uint32
	isReference         func(kind uint32) uint32
	isExpression        func(kind uint32) uint32
	isStatement         func(kind uint32) uint32
	getTypeKindSpelling func(kind uint32) cxString
	getTypeSpelling     func(cxType) cxString
	equalTypes          func(a, b cxType) int32
}

// Option configures Load.
type Option func(*loadConfig)

type loadConfig struct {
	name    string
	version string
}

// WithLibraryName overrides the shared-library base name (default "libclang").
func WithLibraryName(name string) Option {
	return func(c *loadConfig) { c.name = name }
}

// WithLibraryVersion appends a version suffix to the library file name, e.g.
// "3.2" selects libclang-3.2.so on Linux.
func WithLibraryVersion(version string) Option {
	return func(c *loadConfig) { c.version = version }
}

// Load opens the libclang shared library, detects its version from marker
// symbols, and selects the cursor layout for that version. The returned
// Library must be initialized before any entity is used; entities carry it
// explicitly rather than reading ambient globals.
func Load(opts ...Option) (*Library, error) {
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	h, err := dylib.Open(cfg.name, cfg.version)
	if err != nil {
		return nil, fmt.Errorf("cindex: load: %w", err)
	}
	l, err := newLibrary(h)
	if err != nil {
		h.Close()
		return nil, err
	}
	return l, nil
}

// newLibrary detects the version of src and builds the Library context.
// The layout is chosen here, exactly once; the registry of raw shapes is
// therefore fully populated before any binding can reference it.
func newLibrary(src symbolSource) (*Library, error) {
	v, err := DetectVersion(src)
	if err != nil {
		return nil, fmt.Errorf("cindex: %s: %w", src.File(), err)
	}
	l := &Library{
		src:      src,
		version:  v,
		bindings: make(map[string]*binding),
	}
	l.layout = layoutForVersion(v)
	return l, nil
}

// Version returns the detected libclang version.
func (l *Library) Version() Version {
	return l.version
}

// Close releases the library handle and invalidates every binding made
// through this Library: subsequent capability use fails with ErrClosed.
// Entities created from the Library must not be used after Close.
func (l *Library) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.src.Close()
}

// NullCursor returns the null cursor sentinel, which compares equal to
// itself and unequal to any non-null cursor.
func (l *Library) NullCursor() (Cursor, error) {
	return l.layout.null(l)
}

// NullLocation returns the null source-location sentinel. All of its
// expansion fields are zero and its file is absent.
func (l *Library) NullLocation() (SourceLocation, error) {
	if err := l.bind("clang_getNullLocation", Clang2_7, &l.p.getNullLocation); err != nil {
		return SourceLocation{}, err
	}
	return SourceLocation{raw: l.p.getNullLocation(), lib: l}, nil
}

// NullRange returns the null source-range sentinel.
func (l *Library) NullRange() (SourceRange, error) {
	if err := l.bind("clang_getNullRange", Clang2_7, &l.p.getNullRange); err != nil {
		return SourceRange{}, err
	}
	return SourceRange{raw: l.p.getNullRange(), lib: l}, nil
}

// Range constructs a source range covering start through end.
func (l *Library) Range(start, end SourceLocation) (SourceRange, error) {
	if err := l.bind("clang_getRange", Clang2_7, &l.p.getRange); err != nil {
		return SourceRange{}, err
	}
	return SourceRange{raw: l.p.getRange(start.raw, end.raw), lib: l}, nil
}
