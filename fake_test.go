package cindex

import (
	"fmt"
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/jward/cindex/internal/dylib"
)

// fakeSource is an in-process symbolSource serving Go functions from a
// table. Bind copies the registered function into the caller's function
// variable via reflection, so signatures must match the binding site
// exactly. Lookup counts verify binding memoization; regErr simulates a
// symbol that resolves but cannot be registered.
type fakeSource struct {
	funcs   map[string]any
	lookups map[string]int
	regErr  map[string]error
	closed  bool
}

func (f *fakeSource) Has(name string) bool {
	_, ok := f.funcs[name]
	return ok
}

func (f *fakeSource) Bind(name string, fptr any) error {
	f.lookups[name]++
	fn, ok := f.funcs[name]
	if !ok {
		return fmt.Errorf("symbol %s: %w", name, dylib.ErrNotFound)
	}
	if err := f.regErr[name]; err != nil {
		return err
	}
	reflect.ValueOf(fptr).Elem().Set(reflect.ValueOf(fn))
	return nil
}

func (f *fakeSource) File() string { return "libclang-fake.so" }

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

// fakeClang populates a fakeSource with Go implementations of the native
// entry points for a given version, and keeps the side tables they serve
// from: disposable strings, file handles, locations, tokens and
// diagnostics. String disposal is tracked so tests can assert that every
// native string is disposed exactly once.
type fakeClang struct {
	src     *fakeSource
	version Version

	strs        []string
	strDisposed []bool
	doubleFree  int

	files map[string]*fakeFile
	locs  []fakePos

	toks           []fakeToken
	tokenArr       []cxToken
	tokensDisposed int

	diags         []fakeDiag
	diagsDisposed int

	overridden         []*fakeNode
	overriddenArr27    []cxCursor27
	overriddenArr30    []cxCursor30
	overriddenDisposed int

	visitorSeen uintptr

	parsed          int
	tusDisposed     int
	indexesDisposed int
}

type fakeFile struct {
	name  string
	mtime int64
}

type fakePos struct {
	file           unsafe.Pointer
	line, col, off uint32
}

type fakeToken struct {
	kind     TokenKind
	spelling string
	loc      cxSourceLocation
}

type fakeDiag struct {
	severity  DiagnosticSeverity
	message   string
	formatted string
	loc       cxSourceLocation
	fixits    []fakeFixIt
}

type fakeFixIt struct {
	replacement string
	rng         cxSourceRange
}

// str interns s as a disposable native string.
func (c *fakeClang) str(s string) cxString {
	c.strs = append(c.strs, s)
	c.strDisposed = append(c.strDisposed, false)
	return cxString{flags: uint32(len(c.strs) - 1)}
}

// leakedStrings counts interned strings that were never disposed.
func (c *fakeClang) leakedStrings() int {
	n := 0
	for _, d := range c.strDisposed {
		if !d {
			n++
		}
	}
	return n
}

// file returns a stable handle for name, creating it on first use.
func (c *fakeClang) file(name string) unsafe.Pointer {
	f, ok := c.files[name]
	if !ok {
		f = &fakeFile{name: name}
		c.files[name] = f
	}
	return unsafe.Pointer(f)
}

// loc records a position and returns its location handle. Handle 0 is the
// null location.
func (c *fakeClang) loc(file string, line, col, off uint32) cxSourceLocation {
	return c.locFor(c.file(file), line, col, off)
}

func (c *fakeClang) locFor(file unsafe.Pointer, line, col, off uint32) cxSourceLocation {
	c.locs = append(c.locs, fakePos{file: file, line: line, col: col, off: off})
	return cxSourceLocation{intData: uint32(len(c.locs))}
}

func (c *fakeClang) resolve(loc cxSourceLocation) fakePos {
	if loc.intData == 0 {
		return fakePos{}
	}
	return c.locs[loc.intData-1]
}

func (c *fakeClang) rng(start, end cxSourceLocation) cxSourceRange {
	return cxSourceRange{beginIntData: start.intData, endIntData: end.intData}
}

// set registers fn for name if the fake's version carries the symbol.
func (c *fakeClang) set(min Version, name string, fn any) {
	if c.version.AtLeast(min) {
		c.src.funcs[name] = fn
	}
}

// drop removes a symbol, simulating a build that does not export it.
func (c *fakeClang) drop(name string) {
	delete(c.src.funcs, name)
}

func newFakeClang(v Version) *fakeClang {
	c := &fakeClang{
		src:     &fakeSource{funcs: map[string]any{}, lookups: map[string]int{}},
		version: v,
		files:   map[string]*fakeFile{},
	}

	// Probe-only markers; never bound, so a placeholder suffices.
	c.set(Clang2_9, "clang_isAttribute", func() {})
	c.set(Clang3_1, "clang_Cursor_getArgument", func() {})
	c.set(Clang3_2, "clang_Cursor_getSpellingNameRange", func() {})
	c.set(Clang3_3, "clang_Cursor_isBitField", func() {})

	// Strings.
	c.set(Clang2_7, "clang_getCString", func(s cxString) string {
		return c.strs[s.flags]
	})
	c.set(Clang2_7, "clang_disposeString", func(s cxString) {
		if c.strDisposed[s.flags] {
			c.doubleFree++
		}
		c.strDisposed[s.flags] = true
	})

	// Index and translation units.
	c.set(Clang2_7, "clang_createIndex", func(excludeDeclsFromPCH, displayDiagnostics int32) unsafe.Pointer {
		return unsafe.Pointer(new(int32))
	})
	c.set(Clang2_7, "clang_disposeIndex", func(unsafe.Pointer) {
		c.indexesDisposed++
	})
	c.set(Clang2_8, "clang_parseTranslationUnit", func(idx unsafe.Pointer, sourceFilename string,
		argv **byte, argc int32, unsavedFiles *cxUnsavedFile, numUnsavedFiles uint32,
		options uint32) unsafe.Pointer {
		c.parsed++
		return unsafe.Pointer(new(int32))
	})
	c.set(Clang2_7, "clang_createTranslationUnitFromSourceFile", func(idx unsafe.Pointer, sourceFilename string,
		argc int32, argv **byte, numUnsavedFiles uint32, unsavedFiles *cxUnsavedFile) unsafe.Pointer {
		c.parsed++
		return unsafe.Pointer(new(int32))
	})
	c.set(Clang2_7, "clang_disposeTranslationUnit", func(unsafe.Pointer) {
		c.tusDisposed++
	})
	c.set(Clang2_7, "clang_getTranslationUnitSpelling", func(unsafe.Pointer) cxString {
		return c.str("fake.c")
	})
	c.set(Clang2_7, "clang_getFile", func(tu unsafe.Pointer, filename string) unsafe.Pointer {
		if f, ok := c.files[filename]; ok {
			return unsafe.Pointer(f)
		}
		return nil
	})
	c.set(Clang2_7, "clang_getLocation", func(tu, file unsafe.Pointer, line, column uint32) cxSourceLocation {
		return c.locFor(file, line, column, 0)
	})
	c.set(Clang3_0, "clang_getLocationForOffset", func(tu, file unsafe.Pointer, offset uint32) cxSourceLocation {
		return c.locFor(file, 1, offset+1, offset)
	})

	// Locations and ranges.
	c.set(Clang2_7, "clang_getNullLocation", func() cxSourceLocation {
		return cxSourceLocation{}
	})
	c.set(Clang2_7, "clang_equalLocations", func(a, b cxSourceLocation) int32 {
		if c.resolve(a) == c.resolve(b) {
			return 1
		}
		return 0
	})
	c.set(Clang2_7, "clang_getInstantiationLocation", func(loc cxSourceLocation, file *unsafe.Pointer, line, column, offset *uint32) {
		p := c.resolve(loc)
		*file, *line, *column, *offset = p.file, p.line, p.col, p.off
	})
	c.set(Clang3_0, "clang_getExpansionLocation", func(loc cxSourceLocation, file *unsafe.Pointer, line, column, offset *uint32) {
		p := c.resolve(loc)
		*file, *line, *column, *offset = p.file, p.line, p.col, p.off
	})
	c.set(Clang2_7, "clang_getNullRange", func() cxSourceRange {
		return cxSourceRange{}
	})
	c.set(Clang2_7, "clang_getRange", func(begin, end cxSourceLocation) cxSourceRange {
		return c.rng(begin, end)
	})
	c.set(Clang2_7, "clang_getRangeStart", func(r cxSourceRange) cxSourceLocation {
		return cxSourceLocation{intData: r.beginIntData}
	})
	c.set(Clang2_7, "clang_getRangeEnd", func(r cxSourceRange) cxSourceLocation {
		return cxSourceLocation{intData: r.endIntData}
	})
	c.set(Clang3_0, "clang_equalRanges", func(a, b cxSourceRange) int32 {
		if a == b {
			return 1
		}
		return 0
	})
	c.set(Clang3_0, "clang_Range_isNull", func(r cxSourceRange) int32 {
		if r.beginIntData == 0 && r.endIntData == 0 {
			return 1
		}
		return 0
	})

	// Files.
	c.set(Clang2_7, "clang_getFileName", func(h unsafe.Pointer) cxString {
		return c.str((*fakeFile)(h).name)
	})
	c.set(Clang2_7, "clang_getFileTime", func(h unsafe.Pointer) int64 {
		return (*fakeFile)(h).mtime
	})
	c.set(Clang3_3, "clang_File_isEqual", func(a, b unsafe.Pointer) int32 {
		if a == b {
			return 1
		}
		return 0
	})

	// Tokens. The fake tokenizes to the full configured token list
	// regardless of extent; token handles index the side table.
	c.set(Clang2_8, "clang_tokenize", func(tu unsafe.Pointer, extent cxSourceRange, tokens *unsafe.Pointer, numTokens *uint32) {
		if len(c.toks) == 0 {
			*tokens, *numTokens = nil, 0
			return
		}
		c.tokenArr = make([]cxToken, len(c.toks))
		for i := range c.tokenArr {
			c.tokenArr[i].intData[0] = uint32(i)
		}
		*tokens = unsafe.Pointer(&c.tokenArr[0])
		*numTokens = uint32(len(c.tokenArr))
	})
	c.set(Clang2_8, "clang_getTokenKind", func(t cxToken) uint32 {
		return uint32(c.toks[t.intData[0]].kind)
	})
	c.set(Clang2_8, "clang_getTokenSpelling", func(tu unsafe.Pointer, t cxToken) cxString {
		return c.str(c.toks[t.intData[0]].spelling)
	})
	c.set(Clang2_8, "clang_getTokenLocation", func(tu unsafe.Pointer, t cxToken) cxSourceLocation {
		return c.toks[t.intData[0]].loc
	})
	c.set(Clang2_8, "clang_getTokenExtent", func(tu unsafe.Pointer, t cxToken) cxSourceRange {
		loc := c.toks[t.intData[0]].loc
		return c.rng(loc, loc)
	})
	c.set(Clang2_8, "clang_disposeTokens", func(tu, tokens unsafe.Pointer, numTokens uint32) {
		c.tokensDisposed++
	})

	// Diagnostics.
	c.set(Clang2_8, "clang_getNumDiagnostics", func(tu unsafe.Pointer) uint32 {
		return uint32(len(c.diags))
	})
	c.set(Clang2_8, "clang_getDiagnostic", func(tu unsafe.Pointer, index uint32) unsafe.Pointer {
		return unsafe.Pointer(&c.diags[index])
	})
	c.set(Clang2_8, "clang_disposeDiagnostic", func(unsafe.Pointer) {
		c.diagsDisposed++
	})
	c.set(Clang2_8, "clang_getDiagnosticSeverity", func(h unsafe.Pointer) uint32 {
		return uint32((*fakeDiag)(h).severity)
	})
	c.set(Clang2_8, "clang_getDiagnosticSpelling", func(h unsafe.Pointer) cxString {
		return c.str((*fakeDiag)(h).message)
	})
	c.set(Clang2_8, "clang_getDiagnosticLocation", func(h unsafe.Pointer) cxSourceLocation {
		return (*fakeDiag)(h).loc
	})
	c.set(Clang2_9, "clang_formatDiagnostic", func(h unsafe.Pointer, options uint32) cxString {
		return c.str((*fakeDiag)(h).formatted)
	})
	c.set(Clang2_9, "clang_defaultDiagnosticDisplayOptions", func() uint32 {
		return 0x3
	})
	c.set(Clang2_9, "clang_getDiagnosticNumFixIts", func(h unsafe.Pointer) uint32 {
		return uint32(len((*fakeDiag)(h).fixits))
	})
	c.set(Clang2_9, "clang_getDiagnosticFixIt", func(h unsafe.Pointer, fixit uint32, replacementRange *cxSourceRange) cxString {
		fx := (*fakeDiag)(h).fixits[fixit]
		*replacementRange = fx.rng
		return c.str(fx.replacement)
	})

	// Kind predicates, per the CXCursorKind value ranges.
	c.set(Clang2_7, "clang_isDeclaration", func(kind uint32) uint32 {
		if kind >= 1 && kind <= 39 {
			return 1
		}
		return 0
	})
	c.set(Clang2_7, "clang_isReference", func(kind uint32) uint32 {
		if kind >= 40 && kind <= 49 {
			return 1
		}
		return 0
	})
	c.set(Clang2_7, "clang_isExpression", func(kind uint32) uint32 {
		if kind >= 100 && kind <= 199 {
			return 1
		}
		return 0
	})
	c.set(Clang2_7, "clang_isStatement", func(kind uint32) uint32 {
		if kind >= 200 && kind <= 299 {
			return 1
		}
		return 0
	})

	// Types.
	c.set(Clang2_9, "clang_getTypeKindSpelling", func(kind uint32) cxString {
		return c.str(TypeKind(kind).String())
	})
	c.set(Clang2_9, "clang_equalTypes", func(a, b cxType) int32 {
		if a == b {
			return 1
		}
		return 0
	})
	c.set(Clang3_0, "clang_getTypeSpelling", func(t cxType) cxString {
		return c.str(TypeKind(t.kind).String())
	})

	return c
}

// newFakeLibrary builds a Library over a fake native source at version v.
func newFakeLibrary(t *testing.T, v Version) (*Library, *fakeClang) {
	t.Helper()
	fc := newFakeClang(v)
	l, err := newLibrary(fc.src)
	require.NoError(t, err)
	require.Equal(t, v, l.Version())
	return l, fc
}

// fakeNode is one AST node served by a fakeLayout. A nil child stands for
// the null cursor some library versions hand to the visitor.
type fakeNode struct {
	kind                CursorKind
	spelling            string
	usr                 string
	display             string
	typeKind            TypeKind
	file                string
	startLine, startCol uint32
	endLine, endCol     uint32
	children            []*fakeNode
}

// fakeLayout serves cursor calls from a canned fakeNode tree instead of a
// native struct layout. Cursors carry their node in the first data slot.
type fakeLayout struct {
	fc        *fakeClang
	root      *fakeNode
	hasIsNull bool
}

// installTree replaces l's layout with a fake serving root.
func (c *fakeClang) installTree(l *Library, root *fakeNode) {
	l.layout = &fakeLayout{fc: c, root: root, hasIsNull: c.version.AtLeast(Clang3_0)}
}

func (y *fakeLayout) cursor(l *Library, tu *TranslationUnit, n *fakeNode) Cursor {
	return Cursor{kind: uint32(n.kind), data: [3]unsafe.Pointer{unsafe.Pointer(n)}, lib: l, tu: tu}
}

func (y *fakeLayout) node(c Cursor) *fakeNode {
	return (*fakeNode)(c.data[0])
}

func (y *fakeLayout) null(l *Library) (Cursor, error) {
	return Cursor{kind: uint32(CursorInvalidFile), lib: l}, nil
}

func (y *fakeLayout) tuCursor(l *Library, tu *TranslationUnit) (Cursor, error) {
	return y.cursor(l, tu, y.root), nil
}

func (y *fakeLayout) cursorAt(l *Library, tu *TranslationUnit, loc cxSourceLocation) (Cursor, error) {
	return y.cursor(l, tu, y.root), nil
}

func (y *fakeLayout) equal(l *Library, a, b Cursor) (bool, error) {
	return a.data[0] == b.data[0] && a.kind == b.kind, nil
}

func (y *fakeLayout) isNull(l *Library, c Cursor) (bool, bool) {
	if !y.hasIsNull {
		return false, false
	}
	return c.data[0] == nil, true
}

func (y *fakeLayout) kind(l *Library, c Cursor) (CursorKind, error) {
	if c.data[0] == nil {
		return CursorInvalidFile, nil
	}
	return y.node(c).kind, nil
}

func (y *fakeLayout) spelling(l *Library, c Cursor) (string, error) {
	return y.node(c).spelling, nil
}

func (y *fakeLayout) usr(l *Library, c Cursor) (string, error) {
	return y.node(c).usr, nil
}

func (y *fakeLayout) displayName(l *Library, c Cursor) (string, bool, error) {
	if !y.fc.version.AtLeast(Clang2_9) {
		return "", false, nil
	}
	return y.node(c).display, true, nil
}

func (y *fakeLayout) location(l *Library, c Cursor) (cxSourceLocation, error) {
	n := y.node(c)
	return y.fc.loc(n.file, n.startLine, n.startCol, 0), nil
}

func (y *fakeLayout) extent(l *Library, c Cursor) (cxSourceRange, error) {
	n := y.node(c)
	start := y.fc.loc(n.file, n.startLine, n.startCol, 0)
	end := y.fc.loc(n.file, n.endLine, n.endCol, 0)
	return y.fc.rng(start, end), nil
}

func (y *fakeLayout) typ(l *Library, c Cursor) (cxType, error) {
	return cxType{kind: uint32(y.node(c).typeKind)}, nil
}

func (y *fakeLayout) typeDeclaration(l *Library, t cxType, tu *TranslationUnit) (Cursor, error) {
	return y.null(l)
}

func (y *fakeLayout) semanticParent(l *Library, c Cursor) (Cursor, error) {
	return y.null(l)
}

func (y *fakeLayout) referenced(l *Library, c Cursor) (Cursor, error) {
	return y.null(l)
}

func (y *fakeLayout) overridden(l *Library, c Cursor) ([]Cursor, error) {
	return nil, nil
}

func (y *fakeLayout) visit(l *Library, root Cursor, fn Visitor) error {
	y.walk(l, root, fn)
	return nil
}

func (y *fakeLayout) walk(l *Library, parent Cursor, fn Visitor) VisitResult {
	for _, ch := range y.node(parent).children {
		var c Cursor
		if ch == nil {
			c = Cursor{kind: uint32(CursorInvalidFile), lib: l, tu: parent.tu}
		} else {
			c = y.cursor(l, parent.tu, ch)
		}
		switch fn(c, parent) {
		case VisitBreak:
			return VisitBreak
		case VisitRecurse:
			if ch != nil && y.walk(l, c, fn) == VisitBreak {
				return VisitBreak
			}
		}
	}
	return VisitContinue
}

// enumTree is the canned AST for `enum test { a, b };`.
func enumTree(file string) *fakeNode {
	a := &fakeNode{
		kind: CursorEnumConstantDecl, spelling: "a", usr: "c:@E@test@a", display: "a",
		typeKind: TypeEnum, file: file, startLine: 1, startCol: 13, endLine: 1, endCol: 14,
	}
	b := &fakeNode{
		kind: CursorEnumConstantDecl, spelling: "b", usr: "c:@E@test@b", display: "b",
		typeKind: TypeEnum, file: file, startLine: 1, startCol: 16, endLine: 1, endCol: 17,
	}
	enum := &fakeNode{
		kind: CursorEnumDecl, spelling: "test", usr: "c:@E@test", display: "test",
		typeKind: TypeEnum, file: file, startLine: 1, startCol: 1, endLine: 1, endCol: 19,
		children: []*fakeNode{a, b},
	}
	return &fakeNode{
		kind: CursorTranslationUnitDecl, spelling: file, display: file,
		file: file, startLine: 1, startCol: 1, endLine: 2, endCol: 1,
		children: []*fakeNode{enum},
	}
}

// installNativeCursors registers the cursor entry points on the fake source
// so the version-selected layout runs end to end: record-shaped signatures,
// disposable strings, and the traversal upcall included. Cursors carry
// their node in the first data slot, exactly as the raw shapes lay it out.
func (c *fakeClang) installNativeCursors(root *fakeNode) {
	if c.version.AtLeast(Clang3_0) {
		c.installNativeCursors30(root)
	} else {
		c.installNativeCursors27(root)
	}
}

// nodeParents indexes each node's parent for semantic-parent queries.
func nodeParents(root *fakeNode) map[*fakeNode]*fakeNode {
	parents := map[*fakeNode]*fakeNode{}
	var walk func(n *fakeNode)
	walk = func(n *fakeNode) {
		for _, ch := range n.children {
			if ch == nil {
				continue
			}
			parents[ch] = n
			walk(ch)
		}
	}
	walk(root)
	return parents
}

func (c *fakeClang) installNativeCursors30(root *fakeNode) {
	cur := func(n *fakeNode) cxCursor30 {
		if n == nil {
			return cxCursor30{kind: uint32(CursorInvalidFile)}
		}
		return cxCursor30{kind: uint32(n.kind), data: [3]unsafe.Pointer{unsafe.Pointer(n)}}
	}
	node := func(x cxCursor30) *fakeNode {
		return (*fakeNode)(x.data[0])
	}
	parents := nodeParents(root)

	c.set(Clang2_7, "clang_getNullCursor", func() cxCursor30 { return cur(nil) })
	c.set(Clang2_7, "clang_getTranslationUnitCursor", func(tu unsafe.Pointer) cxCursor30 { return cur(root) })
	c.set(Clang2_7, "clang_getCursor", func(tu unsafe.Pointer, loc cxSourceLocation) cxCursor30 { return cur(root) })
	c.set(Clang2_7, "clang_equalCursors", func(a, b cxCursor30) uint32 {
		if a.kind == b.kind && a.data[0] == b.data[0] {
			return 1
		}
		return 0
	})
	c.set(Clang3_0, "clang_Cursor_isNull", func(x cxCursor30) int32 {
		if x.data[0] == nil {
			return 1
		}
		return 0
	})
	c.set(Clang2_7, "clang_getCursorKind", func(x cxCursor30) uint32 { return x.kind })
	c.set(Clang2_7, "clang_getCursorSpelling", func(x cxCursor30) cxString { return c.str(node(x).spelling) })
	c.set(Clang2_8, "clang_getCursorUSR", func(x cxCursor30) cxString { return c.str(node(x).usr) })
	c.set(Clang2_9, "clang_getCursorDisplayName", func(x cxCursor30) cxString { return c.str(node(x).display) })
	c.set(Clang2_7, "clang_getCursorLocation", func(x cxCursor30) cxSourceLocation {
		n := node(x)
		return c.loc(n.file, n.startLine, n.startCol, 0)
	})
	c.set(Clang2_7, "clang_getCursorExtent", func(x cxCursor30) cxSourceRange {
		n := node(x)
		return c.rng(c.loc(n.file, n.startLine, n.startCol, 0), c.loc(n.file, n.endLine, n.endCol, 0))
	})
	c.set(Clang2_8, "clang_getCursorType", func(x cxCursor30) cxType {
		return cxType{kind: uint32(node(x).typeKind), data: [2]unsafe.Pointer{x.data[0]}}
	})
	c.set(Clang2_8, "clang_getTypeDeclaration", func(t cxType) cxCursor30 {
		return cur((*fakeNode)(t.data[0]))
	})
	c.set(Clang2_9, "clang_getCursorSemanticParent", func(x cxCursor30) cxCursor30 {
		return cur(parents[node(x)])
	})
	c.set(Clang2_7, "clang_getCursorReferenced", func(x cxCursor30) cxCursor30 { return x })
	c.set(Clang2_9, "clang_getOverriddenCursors", func(x cxCursor30, overridden *unsafe.Pointer, num *uint32) {
		if len(c.overridden) == 0 {
			*overridden, *num = nil, 0
			return
		}
		c.overriddenArr30 = make([]cxCursor30, len(c.overridden))
		for i, n := range c.overridden {
			c.overriddenArr30[i] = cur(n)
		}
		*overridden = unsafe.Pointer(&c.overriddenArr30[0])
		*num = uint32(len(c.overriddenArr30))
	})
	c.set(Clang2_9, "clang_disposeOverriddenCursors", func(unsafe.Pointer) {
		c.overriddenDisposed++
	})
	c.set(Clang2_7, "clang_visitChildren", func(parent cxCursor30, visitor, clientData uintptr) uint32 {
		c.visitorSeen = visitor
		var walk func(n *fakeNode, parentRaw cxCursor30) VisitResult
		walk = func(n *fakeNode, parentRaw cxCursor30) VisitResult {
			for _, ch := range n.children {
				raw := cur(ch)
				res := VisitResult(visitUpcall30(unsafe.Pointer(&raw), unsafe.Pointer(&parentRaw), clientData))
				switch res {
				case VisitBreak:
					return VisitBreak
				case VisitRecurse:
					if ch != nil && walk(ch, raw) == VisitBreak {
						return VisitBreak
					}
				}
			}
			return VisitContinue
		}
		if walk(node(parent), parent) == VisitBreak {
			return 1
		}
		return 0
	})
}

func (c *fakeClang) installNativeCursors27(root *fakeNode) {
	cur := func(n *fakeNode) cxCursor27 {
		if n == nil {
			return cxCursor27{kind: uint32(CursorInvalidFile)}
		}
		return cxCursor27{kind: uint32(n.kind), data: [3]unsafe.Pointer{unsafe.Pointer(n)}}
	}
	node := func(x cxCursor27) *fakeNode {
		return (*fakeNode)(x.data[0])
	}
	parents := nodeParents(root)

	c.set(Clang2_7, "clang_getNullCursor", func() cxCursor27 { return cur(nil) })
	c.set(Clang2_7, "clang_getTranslationUnitCursor", func(tu unsafe.Pointer) cxCursor27 { return cur(root) })
	c.set(Clang2_7, "clang_getCursor", func(tu unsafe.Pointer, loc cxSourceLocation) cxCursor27 { return cur(root) })
	c.set(Clang2_7, "clang_equalCursors", func(a, b cxCursor27) uint32 {
		if a.kind == b.kind && a.data[0] == b.data[0] {
			return 1
		}
		return 0
	})
	c.set(Clang2_7, "clang_getCursorKind", func(x cxCursor27) uint32 { return x.kind })
	c.set(Clang2_7, "clang_getCursorSpelling", func(x cxCursor27) cxString { return c.str(node(x).spelling) })
	c.set(Clang2_8, "clang_getCursorUSR", func(x cxCursor27) cxString { return c.str(node(x).usr) })
	c.set(Clang2_9, "clang_getCursorDisplayName", func(x cxCursor27) cxString { return c.str(node(x).display) })
	c.set(Clang2_7, "clang_getCursorLocation", func(x cxCursor27) cxSourceLocation {
		n := node(x)
		return c.loc(n.file, n.startLine, n.startCol, 0)
	})
	c.set(Clang2_7, "clang_getCursorExtent", func(x cxCursor27) cxSourceRange {
		n := node(x)
		return c.rng(c.loc(n.file, n.startLine, n.startCol, 0), c.loc(n.file, n.endLine, n.endCol, 0))
	})
	c.set(Clang2_8, "clang_getCursorType", func(x cxCursor27) cxType {
		return cxType{kind: uint32(node(x).typeKind), data: [2]unsafe.Pointer{x.data[0]}}
	})
	c.set(Clang2_8, "clang_getTypeDeclaration", func(t cxType) cxCursor27 {
		return cur((*fakeNode)(t.data[0]))
	})
	c.set(Clang2_9, "clang_getCursorSemanticParent", func(x cxCursor27) cxCursor27 {
		return cur(parents[node(x)])
	})
	c.set(Clang2_7, "clang_getCursorReferenced", func(x cxCursor27) cxCursor27 { return x })
	c.set(Clang2_9, "clang_getOverriddenCursors", func(x cxCursor27, overridden *unsafe.Pointer, num *uint32) {
		if len(c.overridden) == 0 {
			*overridden, *num = nil, 0
			return
		}
		c.overriddenArr27 = make([]cxCursor27, len(c.overridden))
		for i, n := range c.overridden {
			c.overriddenArr27[i] = cur(n)
		}
		*overridden = unsafe.Pointer(&c.overriddenArr27[0])
		*num = uint32(len(c.overriddenArr27))
	})
	c.set(Clang2_9, "clang_disposeOverriddenCursors", func(unsafe.Pointer) {
		c.overriddenDisposed++
	})
	c.set(Clang2_7, "clang_visitChildren", func(parent cxCursor27, visitor, clientData uintptr) uint32 {
		c.visitorSeen = visitor
		var walk func(n *fakeNode, parentRaw cxCursor27) VisitResult
		walk = func(n *fakeNode, parentRaw cxCursor27) VisitResult {
			for _, ch := range n.children {
				raw := cur(ch)
				res := VisitResult(visitUpcall27(unsafe.Pointer(&raw), unsafe.Pointer(&parentRaw), clientData))
				switch res {
				case VisitBreak:
					return VisitBreak
				case VisitRecurse:
					if ch != nil && walk(ch, raw) == VisitBreak {
						return VisitBreak
					}
				}
			}
			return VisitContinue
		}
		if walk(node(parent), parent) == VisitBreak {
			return 1
		}
		return 0
	})
}

// newFakeTU builds a parsed translation unit over the fake library.
func newFakeTU(t *testing.T, l *Library, fc *fakeClang, path string) *TranslationUnit {
	t.Helper()
	fc.file(path)
	idx, err := l.NewIndex(false, false)
	require.NoError(t, err)
	tu, err := idx.ParseTranslationUnit(path, nil, nil, ParseNone)
	require.NoError(t, err)
	t.Cleanup(func() {
		tu.Dispose()
		idx.Dispose()
	})
	return tu
}
