package cindex

import (
	"errors"
	"fmt"

	"github.com/jward/cindex/internal/dylib"
)

// binding is the per-symbol record kept by the Library: created on the
// first invocation attempt of a capability, never destroyed, and its state
// transitions exactly once (unbound -> bound, unbound -> missing, or
// unbound -> failed).
type binding struct {
	name    string
	min     Version
	bound   bool
	missing bool  // the library does not export the symbol
	failed  error // the symbol exists but registration failed
}

// record returns the binding record for name, creating it on first use.
func (l *Library) record(name string, min Version) *binding {
	rec, ok := l.bindings[name]
	if !ok {
		rec = &binding{name: name, min: min}
		l.bindings[name] = rec
	}
	return rec
}

// bind attaches the native function name to fptr, a pointer to a function
// variable with the native call's signature. Binding happens at most once
// per symbol name: subsequent calls are no-ops on success and return the
// same error on failure, without re-probing the library. A symbol the
// library does not export yields *MissingSymbolError; a symbol that exists
// but cannot be registered yields a plain wrapped error, so the two never
// masquerade as each other.
//
// This is the required mode: any failure propagates to the caller.
func (l *Library) bind(name string, min Version, fptr any) error {
	if l.closed {
		return ErrClosed
	}
	rec := l.record(name, min)
	if rec.bound {
		return nil
	}
	if rec.missing {
		return &MissingSymbolError{Symbol: name, Min: rec.min, Have: l.version}
	}
	if rec.failed != nil {
		return rec.failed
	}
	if err := l.src.Bind(name, fptr); err != nil {
		if errors.Is(err, dylib.ErrNotFound) {
			rec.missing = true
			return &MissingSymbolError{Symbol: name, Min: rec.min, Have: l.version}
		}
		rec.failed = fmt.Errorf("cindex: bind %s: %w", name, err)
		return rec.failed
	}
	rec.bound = true
	return nil
}

// bindOptional is the optional mode: on a missing symbol the function
// variable stays nil (the absent sentinel), the absence is cached, and
// false is returned. Callers must check the sentinel and take their
// fallback path; repeated use of an absent capability stays cheap and
// consistently absent rather than re-probing. A registration failure also
// leaves the capability unusable, so it reports false the same way, with
// the error cached for any required binding of the same symbol.
func (l *Library) bindOptional(name string, min Version, fptr any) bool {
	if l.closed {
		return false
	}
	rec := l.record(name, min)
	if rec.bound {
		return true
	}
	if rec.missing || rec.failed != nil {
		return false
	}
	if err := l.src.Bind(name, fptr); err != nil {
		if errors.Is(err, dylib.ErrNotFound) {
			rec.missing = true
		} else {
			rec.failed = fmt.Errorf("cindex: bind %s: %w", name, err)
		}
		return false
	}
	rec.bound = true
	return true
}
