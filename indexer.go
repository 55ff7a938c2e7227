package cindex

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jward/cindex/internal/store"
)

// extToLanguage maps file extensions to the language recorded for them.
// Only the C family is indexable through libclang.
var extToLanguage = map[string]string{
	".c":   "c",
	".h":   "c",
	".cpp": "cpp",
	".cc":  "cpp",
	".cxx": "cpp",
	".hpp": "cpp",
	".hh":  "cpp",
}

// LanguageForFile returns the language for a path based on its extension,
// and whether the file is indexable.
func LanguageForFile(path string) (string, bool) {
	lang, ok := extToLanguage[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// Indexer parses source files through a shared native Index and writes the
// declarations and diagnostics it finds to a SQLite database.
type Indexer struct {
	store *store.Store
	lib   *Library
	idx   *Index
	args  []string
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithClangArgs sets the compiler arguments passed to every parse (include
// paths, defines, language standard).
func WithClangArgs(args ...string) IndexerOption {
	return func(ix *Indexer) {
		ix.args = args
	}
}

// NewIndexer creates an Indexer backed by a SQLite database at dbPath,
// parsing through lib. It records the detected native version in the
// database so later runs can detect a version change.
func NewIndexer(lib *Library, dbPath string, opts ...IndexerOption) (*Indexer, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cindex: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("cindex: migrate: %w", err)
	}
	idx, err := lib.NewIndex(false, false)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("cindex: create index: %w", err)
	}
	ix := &Indexer{store: s, lib: lib, idx: idx}
	for _, opt := range opts {
		opt(ix)
	}
	if err := s.SetMetadata("clang_version", lib.Version().String()); err != nil {
		ix.Close()
		return nil, err
	}
	return ix, nil
}

// Close disposes the native index and closes the database.
func (ix *Indexer) Close() error {
	err := ix.idx.Dispose()
	if cerr := ix.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// Store returns the underlying Store for direct access.
func (ix *Indexer) Store() *store.Store {
	return ix.store
}

// Query returns a new QueryBuilder wrapping the Store.
func (ix *Indexer) Query() *QueryBuilder {
	return &QueryBuilder{store: ix.store}
}

// IndexFiles indexes the given file paths. For each file:
//  1. Skip unsupported extensions
//  2. Skip unchanged files (same content hash)
//  3. Delete stale data, insert the file record
//  4. Parse and walk the translation unit, writing symbols and diagnostics
//
// Errors on individual files are collected and reported at the end;
// processing continues past them.
func (ix *Indexer) IndexFiles(ctx context.Context, paths []string) error {
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := ix.indexFile(path); err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", path, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("indexing had %d error(s): %w", len(errs), errs[0])
	}
	return nil
}

func (ix *Indexer) indexFile(path string) error {
	lang, ok := LanguageForFile(path)
	if !ok {
		return nil // unsupported extension
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(content))

	existing, err := ix.store.FileByPath(path)
	if err != nil {
		return fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		return nil // unchanged
	}
	if existing != nil {
		if err := ix.store.DeleteFileData(existing.ID); err != nil {
			return fmt.Errorf("delete old data: %w", err)
		}
	}

	lineCount := bytes.Count(content, []byte{'\n'}) + 1
	fileID, err := ix.store.InsertFile(&store.File{
		Path:        path,
		Language:    lang,
		Hash:        hash,
		LineCount:   lineCount,
		LastIndexed: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}

	// Parse from the in-memory content so the index matches what was hashed
	// even if the file changes underneath us.
	tu, err := ix.idx.ParseTranslationUnit(path, ix.args,
		[]UnsavedFile{{Name: path, Contents: content}}, ParseNone)
	if err != nil {
		return err
	}
	defer tu.Dispose()

	if err := ix.extractDiagnostics(tu, fileID); err != nil {
		return err
	}

	root, err := tu.Cursor()
	if err != nil {
		return err
	}
	return ix.extractSymbols(root, fileID, path, nil)
}

// extractSymbols walks the children of parent, recording declaration
// cursors located in path and recursing with the recorded symbol as parent.
func (ix *Indexer) extractSymbols(parent Cursor, fileID int64, path string, parentSymbolID *int64) error {
	children, err := parent.Children()
	if err != nil {
		return err
	}
	for _, c := range children {
		decl, err := c.IsDeclaration()
		if err != nil {
			return err
		}
		if !decl {
			continue
		}
		inFile, startLine, startCol, endLine, endCol, err := cursorSpan(c, path)
		if err != nil {
			return err
		}
		if !inFile {
			continue // declaration pulled in from an include
		}
		kind, err := c.Kind()
		if err != nil {
			return err
		}
		name, err := c.Spelling()
		if err != nil {
			return err
		}
		usr, err := c.USR()
		if err != nil {
			return err
		}
		display, _, err := c.DisplayName()
		if err != nil {
			return err
		}
		sym := &store.Symbol{
			FileID:         fileID,
			USR:            usr,
			Name:           name,
			Kind:           kind.String(),
			Display:        display,
			StartLine:      startLine,
			StartCol:       startCol,
			EndLine:        endLine,
			EndCol:         endCol,
			ParentSymbolID: parentSymbolID,
		}
		id, err := ix.store.InsertSymbol(sym)
		if err != nil {
			return err
		}
		if err := ix.extractSymbols(c, fileID, path, &id); err != nil {
			return err
		}
	}
	return nil
}

// cursorSpan expands a cursor's extent and reports whether it starts in
// path, along with its line/column span.
func cursorSpan(c Cursor, path string) (inFile bool, startLine, startCol, endLine, endCol int, err error) {
	extent, err := c.Extent()
	if err != nil {
		return false, 0, 0, 0, 0, err
	}
	start, err := extent.Start()
	if err != nil {
		return false, 0, 0, 0, 0, err
	}
	end, err := extent.End()
	if err != nil {
		return false, 0, 0, 0, 0, err
	}
	startPos, err := start.Expand()
	if err != nil {
		return false, 0, 0, 0, 0, err
	}
	endPos, err := end.Expand()
	if err != nil {
		return false, 0, 0, 0, 0, err
	}
	if !startPos.File.Valid() {
		return false, 0, 0, 0, 0, nil
	}
	name, err := startPos.File.Name()
	if err != nil {
		return false, 0, 0, 0, 0, err
	}
	if name != path {
		return false, 0, 0, 0, 0, nil
	}
	return true, int(startPos.Line), int(startPos.Column), int(endPos.Line), int(endPos.Column), nil
}

// extractDiagnostics records the translation unit's diagnostics, disposing
// each native diagnostic after copying it out.
func (ix *Indexer) extractDiagnostics(tu *TranslationUnit, fileID int64) error {
	diags, err := tu.Diagnostics()
	if err != nil {
		return err
	}
	for _, d := range diags {
		sev, err := d.Severity()
		if err != nil {
			d.Dispose()
			return err
		}
		msg, err := d.Spelling()
		if err != nil {
			d.Dispose()
			return err
		}
		loc, err := d.Location()
		if err != nil {
			d.Dispose()
			return err
		}
		pos, err := loc.Expand()
		if err != nil {
			d.Dispose()
			return err
		}
		if err := d.Dispose(); err != nil {
			return err
		}
		if _, err := ix.store.InsertDiagnostic(&store.Diagnostic{
			FileID:   fileID,
			Severity: sev.String(),
			Message:  msg,
			Line:     int(pos.Line),
			Col:      int(pos.Column),
		}); err != nil {
			return err
		}
	}
	return nil
}

// skipDirs lists directories excluded from indexing.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"build":        true,
}

// IndexDirectory walks root and indexes all files with supported
// extensions. If root is inside a git repository, uses git ls-files to
// respect .gitignore; falls back to a filesystem walk (skipping hidden
// dirs, vendor, build, node_modules) when git is unavailable.
func (ix *Indexer) IndexDirectory(ctx context.Context, root string) error {
	paths, err := gitListFiles(root)
	if err != nil {
		paths, err = walkListFiles(root)
		if err != nil {
			return err
		}
	}
	return ix.IndexFiles(ctx, paths)
}

// gitListFiles uses git ls-files to discover tracked and untracked (but not
// ignored) files under root, filtered to supported extensions.
func gitListFiles(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		absPath := filepath.Join(root, line)
		if _, ok := LanguageForFile(absPath); ok {
			paths = append(paths, absPath)
		}
	}
	return paths, nil
}

// walkListFiles discovers files by walking the filesystem, used as a
// fallback when git is not available.
func walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") && name != "." || skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := LanguageForFile(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}
