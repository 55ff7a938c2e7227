// Package cindex is a version-adaptive Go binding to the libclang shared
// library. It loads libclang at runtime without knowing its version ahead of
// time, infers the version from which symbols the library exports, selects
// the ABI-correct struct layouts for that version, and binds each native
// function lazily, exactly once, on first use.
//
// # Loading
//
// Load opens the platform shared library, probes marker symbols to detect
// the version, and returns a Library context that every entity carries:
//
//	lib, err := cindex.Load()
//	if err != nil { ... }
//	defer lib.Close()
//
//	idx, err := lib.NewIndex(false, false)
//	tu, err := idx.ParseTranslationUnit("main.c", nil, nil, cindex.ParseNone)
//	defer tu.Dispose()
//
// # Capabilities
//
// Each native function is a capability. Required capabilities surface a
// *MissingSymbolError when the loaded library does not export them; optional
// capabilities degrade to a documented fallback (a field-wise comparison, an
// absent value) and never error on absence. A MissingSymbolError reports the
// minimum version the capability needs, so callers can distinguish "this
// library is older than the feature" from a binding bug.
//
// # Entities
//
// Cursor, Type, SourceLocation, SourceRange, File, Token, Diagnostic,
// TranslationUnit and Index wrap opaque native handles. Equality is defined
// by the native predicates, null sentinels come from the native "get null"
// calls, and entities owning a native allocation expose Dispose, which must
// run exactly once.
//
// # Indexing
//
// On top of the binding, Indexer walks a source tree, parses each file, and
// writes declarations and diagnostics to a SQLite database queryable through
// QueryBuilder and the cindex CLI.
//
// The binding is single-threaded: native calls are direct blocking calls and
// first-use binding is not guarded against concurrent use.
package cindex
