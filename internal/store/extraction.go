package store

import (
	"database/sql"
	"fmt"
)

// --- File operations ---

func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO files (path, language, hash, line_count, last_indexed) VALUES (?, ?, ?, ?, ?)",
		f.Path, f.Language, f.Hash, f.LineCount, f.LastIndexed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

func (s *Store) FileByPath(path string) (*File, error) {
	f := &File{}
	err := s.db.QueryRow(
		"SELECT id, path, language, hash, line_count, last_indexed FROM files WHERE path = ?", path,
	).Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.LineCount, &f.LastIndexed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// DeleteFileData removes a file's symbols and diagnostics, then the file
// record itself. Used before re-indexing a changed file.
func (s *Store) DeleteFileData(fileID int64) error {
	stmts := []string{
		"UPDATE symbols SET parent_symbol_id = NULL WHERE file_id = ?",
		"DELETE FROM symbols WHERE file_id = ?",
		"DELETE FROM diagnostics WHERE file_id = ?",
		"DELETE FROM files WHERE id = ?",
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt, fileID); err != nil {
			return fmt.Errorf("delete file data: %w", err)
		}
	}
	return nil
}

// --- Symbol operations ---

func (s *Store) InsertSymbol(sym *Symbol) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO symbols (file_id, usr, name, kind, display,
			start_line, start_col, end_line, end_col, parent_symbol_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sym.FileID, sym.USR, sym.Name, sym.Kind, sym.Display,
		sym.StartLine, sym.StartCol, sym.EndLine, sym.EndCol, sym.ParentSymbolID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert symbol: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	sym.ID = id
	return id, nil
}

const symbolColumns = `id, file_id, usr, name, kind, display,
	start_line, start_col, end_line, end_col, parent_symbol_id`

func (s *Store) scanSymbols(rows *sql.Rows) ([]*Symbol, error) {
	defer rows.Close()
	var syms []*Symbol
	for rows.Next() {
		sym := &Symbol{}
		if err := rows.Scan(&sym.ID, &sym.FileID, &sym.USR, &sym.Name, &sym.Kind, &sym.Display,
			&sym.StartLine, &sym.StartCol, &sym.EndLine, &sym.EndCol, &sym.ParentSymbolID); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		syms = append(syms, sym)
	}
	return syms, rows.Err()
}

func (s *Store) SymbolsByFile(fileID int64) ([]*Symbol, error) {
	rows, err := s.db.Query(
		"SELECT "+symbolColumns+" FROM symbols WHERE file_id = ? ORDER BY start_line, start_col", fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("symbols by file: %w", err)
	}
	return s.scanSymbols(rows)
}

func (s *Store) SymbolsByName(name string) ([]*Symbol, error) {
	rows, err := s.db.Query(
		"SELECT "+symbolColumns+" FROM symbols WHERE name = ? ORDER BY file_id, start_line", name,
	)
	if err != nil {
		return nil, fmt.Errorf("symbols by name: %w", err)
	}
	return s.scanSymbols(rows)
}

func (s *Store) SymbolsByKind(kind string) ([]*Symbol, error) {
	rows, err := s.db.Query(
		"SELECT "+symbolColumns+" FROM symbols WHERE kind = ? ORDER BY file_id, start_line", kind,
	)
	if err != nil {
		return nil, fmt.Errorf("symbols by kind: %w", err)
	}
	return s.scanSymbols(rows)
}

func (s *Store) SymbolsByUSR(usr string) ([]*Symbol, error) {
	rows, err := s.db.Query(
		"SELECT "+symbolColumns+" FROM symbols WHERE usr = ? ORDER BY file_id, start_line", usr,
	)
	if err != nil {
		return nil, fmt.Errorf("symbols by usr: %w", err)
	}
	return s.scanSymbols(rows)
}

// --- Diagnostic operations ---

func (s *Store) InsertDiagnostic(d *Diagnostic) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO diagnostics (file_id, severity, message, line, col) VALUES (?, ?, ?, ?, ?)",
		d.FileID, d.Severity, d.Message, d.Line, d.Col,
	)
	if err != nil {
		return 0, fmt.Errorf("insert diagnostic: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	d.ID = id
	return id, nil
}

func (s *Store) DiagnosticsByFile(fileID int64) ([]*Diagnostic, error) {
	rows, err := s.db.Query(
		"SELECT id, file_id, severity, message, line, col FROM diagnostics WHERE file_id = ? ORDER BY line, col",
		fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("diagnostics by file: %w", err)
	}
	defer rows.Close()
	var diags []*Diagnostic
	for rows.Next() {
		d := &Diagnostic{}
		if err := rows.Scan(&d.ID, &d.FileID, &d.Severity, &d.Message, &d.Line, &d.Col); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		diags = append(diags, d)
	}
	return diags, rows.Err()
}
