package store

import "time"

// File is one indexed source file.
type File struct {
	ID          int64
	Path        string
	Language    string
	Hash        string
	LineCount   int
	LastIndexed time.Time
}

// Symbol is one declaration extracted from a file's AST.
type Symbol struct {
	ID             int64
	FileID         int64
	USR            string
	Name           string
	Kind           string
	Display        string
	StartLine      int
	StartCol       int
	EndLine        int
	EndCol         int
	ParentSymbolID *int64
}

// Diagnostic is one parse diagnostic recorded for a file.
type Diagnostic struct {
	ID       int64
	FileID   int64
	Severity string
	Message  string
	Line     int
	Col      int
}
