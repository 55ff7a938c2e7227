package cindex

import "unsafe"

// Cursor is a handle to one node in the translation unit's AST: a kind tag
// plus opaque data slots that must be passed back to the native library
// verbatim. Cursors are values; they carry the Library context and their
// owning translation unit (nil for the null cursor) so accessors can
// reissue native calls.
type Cursor struct {
	kind  uint32
	xdata int32
	data  [3]unsafe.Pointer
	lib   *Library
	tu    *TranslationUnit
}

// TranslationUnit returns the translation unit the cursor belongs to, or
// nil for the null cursor.
func (c Cursor) TranslationUnit() *TranslationUnit {
	return c.tu
}

// Equal reports whether two cursors refer to the same entity, using the
// native equality predicate, never host-side identity.
func (c Cursor) Equal(o Cursor) (bool, error) {
	return c.lib.layout.equal(c.lib, c, o)
}

// IsNull reports whether the cursor is the null sentinel. When the native
// predicate is absent (pre-3.0 libraries), falls back to native equality
// with the null cursor.
func (c Cursor) IsNull() (bool, error) {
	if v, ok := c.lib.layout.isNull(c.lib, c); ok {
		return v, nil
	}
	null, err := c.lib.NullCursor()
	if err != nil {
		return false, err
	}
	return c.Equal(null)
}

// Kind returns the cursor's node kind.
func (c Cursor) Kind() (CursorKind, error) {
	return c.lib.layout.kind(c.lib, c)
}

// Spelling returns the name of the entity the cursor refers to.
func (c Cursor) Spelling() (string, error) {
	return c.lib.layout.spelling(c.lib, c)
}

// USR returns the Unified Symbol Resolution string for the entity, a name
// stable across translation units.
func (c Cursor) USR() (string, error) {
	return c.lib.layout.usr(c.lib, c)
}

// DisplayName returns the display name of the entity (name plus signature
// detail). Absent before libclang 2.9; ok reports availability.
func (c Cursor) DisplayName() (name string, ok bool, err error) {
	return c.lib.layout.displayName(c.lib, c)
}

// Location returns the source location of the entity.
func (c Cursor) Location() (SourceLocation, error) {
	raw, err := c.lib.layout.location(c.lib, c)
	if err != nil {
		return SourceLocation{}, err
	}
	return SourceLocation{raw: raw, lib: c.lib}, nil
}

// Extent returns the source range the entity covers.
func (c Cursor) Extent() (SourceRange, error) {
	raw, err := c.lib.layout.extent(c.lib, c)
	if err != nil {
		return SourceRange{}, err
	}
	return SourceRange{raw: raw, lib: c.lib}, nil
}

// Type returns the type of the entity.
func (c Cursor) Type() (Type, error) {
	raw, err := c.lib.layout.typ(c.lib, c)
	if err != nil {
		return Type{}, err
	}
	return Type{raw: raw, lib: c.lib, tu: c.tu}, nil
}

// SemanticParent returns the cursor's semantic parent. Requires 2.9.
func (c Cursor) SemanticParent() (Cursor, error) {
	return c.lib.layout.semanticParent(c.lib, c)
}

// Referenced returns the cursor the entity refers to (e.g. the declaration
// named by a reference).
func (c Cursor) Referenced() (Cursor, error) {
	return c.lib.layout.referenced(c.lib, c)
}

// Overridden returns the set of methods this cursor overrides. The native
// list is copied and its paired disposal runs before Overridden returns.
func (c Cursor) Overridden() ([]Cursor, error) {
	return c.lib.layout.overridden(c.lib, c)
}

// Visit traverses the direct and, depending on the visitor's results,
// transitive children of the cursor via the native enumeration. The visitor
// is called synchronously within this call's dynamic extent.
func (c Cursor) Visit(fn Visitor) error {
	return c.lib.layout.visit(c.lib, c, fn)
}

// Children returns the cursor's direct children in native declaration
// order. Children whose handle equals the null cursor are filtered out;
// some library versions invoke the visitor with a null child.
func (c Cursor) Children() ([]Cursor, error) {
	var (
		out     []Cursor
		walkErr error
	)
	err := c.Visit(func(child, _ Cursor) VisitResult {
		null, err := child.IsNull()
		if err != nil {
			walkErr = err
			return VisitBreak
		}
		if null {
			return VisitContinue
		}
		out = append(out, child)
		return VisitContinue
	})
	if err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}
	return out, nil
}

// IsDeclaration reports whether the cursor's kind is a declaration kind.
func (c Cursor) IsDeclaration() (bool, error) {
	l := c.lib
	if err := l.bind("clang_isDeclaration", Clang2_7, &l.p.isDeclaration); err != nil {
		return false, err
	}
	return l.p.isDeclaration(c.kind) != 0, nil
}

// IsReference reports whether the cursor's kind is a reference kind.
func (c Cursor) IsReference() (bool, error) {
	l := c.lib
	if err := l.bind("clang_isReference", Clang2_7, &l.p.isReference); err != nil {
		return false, err
	}
	return l.p.isReference(c.kind) != 0, nil
}

// IsExpression reports whether the cursor's kind is an expression kind.
func (c Cursor) IsExpression() (bool, error) {
	l := c.lib
	if err := l.bind("clang_isExpression", Clang2_7, &l.p.isExpression); err != nil {
		return false, err
	}
	return l.p.isExpression(c.kind) != 0, nil
}

// IsStatement reports whether the cursor's kind is a statement kind.
func (c Cursor) IsStatement() (bool, error) {
	l := c.lib
	if err := l.bind("clang_isStatement", Clang2_7, &l.p.isStatement); err != nil {
		return false, err
	}
	return l.p.isStatement(c.kind) != 0, nil
}
