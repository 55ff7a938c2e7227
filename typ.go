package cindex

// Type is a handle to a C/C++ type: a kind tag plus two opaque data slots.
type Type struct {
	raw cxType
	lib *Library
	tu  *TranslationUnit
}

// Kind returns the type's kind tag. The tag is part of the handle itself;
// no native call is needed.
func (t Type) Kind() TypeKind {
	return TypeKind(t.raw.kind)
}

// Equal reports whether two type handles denote the same type, via the
// native predicate. Requires 2.9.
func (t Type) Equal(o Type) (bool, error) {
	l := t.lib
	if err := l.bind("clang_equalTypes", Clang2_9, &l.p.equalTypes); err != nil {
		return false, err
	}
	return l.p.equalTypes(t.raw, o.raw) != 0, nil
}

// KindSpelling returns the spelling of the type's kind. Requires 2.9.
func (t Type) KindSpelling() (string, error) {
	l := t.lib
	if err := l.bind("clang_getTypeKindSpelling", Clang2_9, &l.p.getTypeKindSpelling); err != nil {
		return "", err
	}
	return l.takeString(l.p.getTypeKindSpelling(t.raw.kind))
}

// Spelling returns the full spelling of the type. The underlying call is
// optional (3.0+); when absent, Spelling degrades to the kind spelling and
// ok reports false.
func (t Type) Spelling() (spelling string, ok bool, err error) {
	l := t.lib
	if !l.bindOptional("clang_getTypeSpelling", Clang3_0, &l.p.getTypeSpelling) {
		s, err := t.KindSpelling()
		return s, false, err
	}
	s, err := l.takeString(l.p.getTypeSpelling(t.raw))
	return s, err == nil, err
}

// Declaration returns the cursor for the type's declaration. Requires 2.8.
func (t Type) Declaration() (Cursor, error) {
	return t.lib.layout.typeDeclaration(t.lib, t.raw, t.tu)
}
