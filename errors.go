package cindex

import (
	"errors"
	"fmt"
)

// ErrUnsupportedVersion is returned by Load when none of the known version
// marker symbols is present in the opened library, meaning it is not a
// recognized libclang build.
var ErrUnsupportedVersion = errors.New("cindex: library exports no known version marker")

// ErrClosed is returned when a capability is used through a Library whose
// Close has been called. Bindings from a closed Library are invalid and are
// never reused.
var ErrClosed = errors.New("cindex: library is closed")

// ErrDisposed is returned when an entity's native allocation has already
// been released and the entity is used again.
var ErrDisposed = errors.New("cindex: entity already disposed")

// MissingSymbolError reports that a required native function does not exist
// in the loaded library.
type MissingSymbolError struct {
	Symbol string  // native symbol name
	Min    Version // minimum library version that exports the symbol
	Have   Version // version actually loaded
}

func (e *MissingSymbolError) Error() string {
	return fmt.Sprintf("cindex: %s not supported by libclang %s (requires %s)",
		e.Symbol, e.Have, e.Min)
}

// VersionMismatch reports whether the missing symbol is explained by the
// loaded library being older than the capability's minimum version. When
// false the loaded library should have exported the symbol and the failure
// indicates a binding bug.
func (e *MissingSymbolError) VersionMismatch() bool {
	return e.Have.Less(e.Min)
}
