package cindex

import "unsafe"

// SourceLocation is a fixed-size opaque record identifying a position in a
// translation unit.
type SourceLocation struct {
	raw cxSourceLocation
	lib *Library
}

// Position is the expansion of a SourceLocation into host values. File is
// the zero File (Valid() == false) for the null location.
type Position struct {
	File   File
	Line   uint32
	Column uint32
	Offset uint32
}

// Equal reports whether two locations are identical, via the native
// predicate.
func (s SourceLocation) Equal(o SourceLocation) (bool, error) {
	l := s.lib
	if err := l.bind("clang_equalLocations", Clang2_7, &l.p.equalLocations); err != nil {
		return false, err
	}
	return l.p.equalLocations(s.raw, o.raw) != 0, nil
}

// Expand resolves the location into file, line, column and offset. It
// prefers the expansion-location call (3.0+) and degrades to the
// instantiation-location call on older libraries; the two agree everywhere
// this binding looks.
func (s SourceLocation) Expand() (Position, error) {
	l := s.lib
	var (
		file unsafe.Pointer
		pos  Position
	)
	if l.bindOptional("clang_getExpansionLocation", Clang3_0, &l.p.getExpansionLocation) {
		l.p.getExpansionLocation(s.raw, &file, &pos.Line, &pos.Column, &pos.Offset)
	} else {
		if err := l.bind("clang_getInstantiationLocation", Clang2_7, &l.p.getInstantiationLocation); err != nil {
			return Position{}, err
		}
		l.p.getInstantiationLocation(s.raw, &file, &pos.Line, &pos.Column, &pos.Offset)
	}
	pos.File = File{handle: file, lib: l}
	return pos, nil
}

// SourceRange is a half-open span between two source locations.
type SourceRange struct {
	raw cxSourceRange
	lib *Library
}

// Start returns the range's starting location.
func (r SourceRange) Start() (SourceLocation, error) {
	l := r.lib
	if err := l.bind("clang_getRangeStart", Clang2_7, &l.p.getRangeStart); err != nil {
		return SourceLocation{}, err
	}
	return SourceLocation{raw: l.p.getRangeStart(r.raw), lib: l}, nil
}

// End returns the range's ending location.
func (r SourceRange) End() (SourceLocation, error) {
	l := r.lib
	if err := l.bind("clang_getRangeEnd", Clang2_7, &l.p.getRangeEnd); err != nil {
		return SourceLocation{}, err
	}
	return SourceLocation{raw: l.p.getRangeEnd(r.raw), lib: l}, nil
}

// Equal reports whether two ranges are identical. The native predicate is
// optional (3.0+); older libraries fall back to field-wise comparison of
// the raw handles.
func (r SourceRange) Equal(o SourceRange) (bool, error) {
	l := r.lib
	if l.bindOptional("clang_equalRanges", Clang3_0, &l.p.equalRanges) {
		return l.p.equalRanges(r.raw, o.raw) != 0, nil
	}
	return r.raw == o.raw, nil
}

// IsNull reports whether the range is the null sentinel. The native
// predicate is optional (3.0+); older libraries fall back to field-wise
// comparison with the null range.
func (r SourceRange) IsNull() (bool, error) {
	l := r.lib
	if l.bindOptional("clang_Range_isNull", Clang3_0, &l.p.rangeIsNull) {
		return l.p.rangeIsNull(r.raw) != 0, nil
	}
	null, err := l.NullRange()
	if err != nil {
		return false, err
	}
	return r.raw == null.raw, nil
}
