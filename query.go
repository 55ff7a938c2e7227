package cindex

import (
	"fmt"

	"github.com/jward/cindex/internal/store"
)

// QueryBuilder provides the read side of the symbol database.
type QueryBuilder struct {
	store *store.Store
}

// OpenQuery opens an existing symbol database for querying without loading
// the native library. The caller must Close the returned QueryBuilder.
func OpenQuery(dbPath string) (*QueryBuilder, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cindex: open query store: %w", err)
	}
	return &QueryBuilder{store: s}, nil
}

// Close closes the underlying database. Only needed for QueryBuilders
// created with OpenQuery; those obtained from an Indexer share its store.
func (q *QueryBuilder) Close() error {
	return q.store.Close()
}

// SymbolLocation is a symbol's position in a source file.
type SymbolLocation struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// IndexedSymbol is one declaration from the symbol database.
type IndexedSymbol struct {
	USR      string
	Name     string
	Kind     string
	Display  string
	Location SymbolLocation
}

// SymbolsByName returns all indexed declarations with the given name.
func (q *QueryBuilder) SymbolsByName(name string) ([]IndexedSymbol, error) {
	syms, err := q.store.SymbolsByName(name)
	if err != nil {
		return nil, fmt.Errorf("symbols by name: %w", err)
	}
	return q.withLocations(syms)
}

// SymbolsByKind returns all indexed declarations of the given cursor kind
// (e.g. "EnumDecl", "FunctionDecl").
func (q *QueryBuilder) SymbolsByKind(kind string) ([]IndexedSymbol, error) {
	syms, err := q.store.SymbolsByKind(kind)
	if err != nil {
		return nil, fmt.Errorf("symbols by kind: %w", err)
	}
	return q.withLocations(syms)
}

// SymbolsByUSR returns all indexed declarations carrying the given Unified
// Symbol Resolution string. More than one file may declare the same USR.
func (q *QueryBuilder) SymbolsByUSR(usr string) ([]IndexedSymbol, error) {
	syms, err := q.store.SymbolsByUSR(usr)
	if err != nil {
		return nil, fmt.Errorf("symbols by usr: %w", err)
	}
	return q.withLocations(syms)
}

// SymbolsInFile returns the declarations indexed for path, in source order.
func (q *QueryBuilder) SymbolsInFile(path string) ([]IndexedSymbol, error) {
	f, err := q.store.FileByPath(path)
	if err != nil {
		return nil, fmt.Errorf("symbols in file: %w", err)
	}
	if f == nil {
		return nil, nil
	}
	syms, err := q.store.SymbolsByFile(f.ID)
	if err != nil {
		return nil, fmt.Errorf("symbols in file: %w", err)
	}
	return q.withLocations(syms)
}

// DiagnosticsForFile returns the diagnostics recorded for path.
func (q *QueryBuilder) DiagnosticsForFile(path string) ([]*store.Diagnostic, error) {
	f, err := q.store.FileByPath(path)
	if err != nil {
		return nil, fmt.Errorf("diagnostics for file: %w", err)
	}
	if f == nil {
		return nil, nil
	}
	return q.store.DiagnosticsByFile(f.ID)
}

// withLocations joins symbols with their file paths.
func (q *QueryBuilder) withLocations(syms []*store.Symbol) ([]IndexedSymbol, error) {
	// File paths are looked up per distinct file id; symbol lists are
	// small enough that a cache map suffices.
	paths := make(map[int64]string)
	out := make([]IndexedSymbol, 0, len(syms))
	for _, sym := range syms {
		path, ok := paths[sym.FileID]
		if !ok {
			err := q.store.DB().QueryRow("SELECT path FROM files WHERE id = ?", sym.FileID).Scan(&path)
			if err != nil {
				return nil, fmt.Errorf("symbol file path: %w", err)
			}
			paths[sym.FileID] = path
		}
		out = append(out, IndexedSymbol{
			USR:     sym.USR,
			Name:    sym.Name,
			Kind:    sym.Kind,
			Display: sym.Display,
			Location: SymbolLocation{
				File:      path,
				StartLine: sym.StartLine,
				StartCol:  sym.StartCol,
				EndLine:   sym.EndLine,
				EndCol:    sym.EndCol,
			},
		})
	}
	return out, nil
}
