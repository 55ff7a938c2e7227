package cindex

import "unsafe"

// Diagnostic wraps a single parse diagnostic. Diagnostics are data, not
// errors: they are enumerated from a translation unit, never thrown. Each
// one owns a native allocation and must be disposed exactly once, before
// its translation unit.
type Diagnostic struct {
	handle unsafe.Pointer
	lib    *Library
}

// FixIt is a suggested edit: replace Range with Replacement. An insertion
// has a zero-width range.
type FixIt struct {
	Replacement string
	Range       SourceRange
}

// Dispose releases the native diagnostic. No-op if already disposed.
func (d *Diagnostic) Dispose() error {
	if d.handle == nil {
		return nil
	}
	l := d.lib
	if err := l.bind("clang_disposeDiagnostic", Clang2_8, &l.p.disposeDiagnostic); err != nil {
		return err
	}
	l.p.disposeDiagnostic(d.handle)
	d.handle = nil
	return nil
}

// Severity returns the diagnostic's severity.
func (d *Diagnostic) Severity() (DiagnosticSeverity, error) {
	if d.handle == nil {
		return 0, ErrDisposed
	}
	l := d.lib
	if err := l.bind("clang_getDiagnosticSeverity", Clang2_8, &l.p.getDiagnosticSeverity); err != nil {
		return 0, err
	}
	return DiagnosticSeverity(l.p.getDiagnosticSeverity(d.handle)), nil
}

// Spelling returns the diagnostic's message text.
func (d *Diagnostic) Spelling() (string, error) {
	if d.handle == nil {
		return "", ErrDisposed
	}
	l := d.lib
	if err := l.bind("clang_getDiagnosticSpelling", Clang2_8, &l.p.getDiagnosticSpelling); err != nil {
		return "", err
	}
	return l.takeString(l.p.getDiagnosticSpelling(d.handle))
}

// Format renders the diagnostic the way the compiler driver would, using
// the native library's default display options.
func (d *Diagnostic) Format() (string, error) {
	if d.handle == nil {
		return "", ErrDisposed
	}
	l := d.lib
	if err := l.bind("clang_formatDiagnostic", Clang2_9, &l.p.formatDiagnostic); err != nil {
		return "", err
	}
	if err := l.bind("clang_defaultDiagnosticDisplayOptions", Clang2_9, &l.p.defaultDiagnosticDisplayOptions); err != nil {
		return "", err
	}
	return l.takeString(l.p.formatDiagnostic(d.handle, l.p.defaultDiagnosticDisplayOptions()))
}

// Location returns where the diagnostic points.
func (d *Diagnostic) Location() (SourceLocation, error) {
	if d.handle == nil {
		return SourceLocation{}, ErrDisposed
	}
	l := d.lib
	if err := l.bind("clang_getDiagnosticLocation", Clang2_8, &l.p.getDiagnosticLocation); err != nil {
		return SourceLocation{}, err
	}
	return SourceLocation{raw: l.p.getDiagnosticLocation(d.handle), lib: l}, nil
}

// FixIts returns the diagnostic's suggested edits. Requires 2.9.
func (d *Diagnostic) FixIts() ([]FixIt, error) {
	if d.handle == nil {
		return nil, ErrDisposed
	}
	l := d.lib
	if err := l.bind("clang_getDiagnosticNumFixIts", Clang2_9, &l.p.getDiagnosticNumFixIts); err != nil {
		return nil, err
	}
	if err := l.bind("clang_getDiagnosticFixIt", Clang2_9, &l.p.getDiagnosticFixIt); err != nil {
		return nil, err
	}
	n := l.p.getDiagnosticNumFixIts(d.handle)
	out := make([]FixIt, 0, n)
	for i := uint32(0); i < n; i++ {
		var rng cxSourceRange
		s, err := l.takeString(l.p.getDiagnosticFixIt(d.handle, i, &rng))
		if err != nil {
			return nil, err
		}
		out = append(out, FixIt{
			Replacement: s,
			Range:       SourceRange{raw: rng, lib: l},
		})
	}
	return out, nil
}
