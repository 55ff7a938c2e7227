package cindex

import (
	"time"
	"unsafe"
)

// File is a handle to a file known to a translation unit. The zero File
// represents an absent file (e.g. the null location's file).
type File struct {
	handle unsafe.Pointer
	lib    *Library
}

// Valid reports whether the handle refers to an actual file.
func (f File) Valid() bool {
	return f.handle != nil
}

// Name returns the file's name as the translation unit knows it.
func (f File) Name() (string, error) {
	l := f.lib
	if err := l.bind("clang_getFileName", Clang2_7, &l.p.getFileName); err != nil {
		return "", err
	}
	return l.takeString(l.p.getFileName(f.handle))
}

// ModTime returns the file's last modification time.
func (f File) ModTime() (time.Time, error) {
	l := f.lib
	if err := l.bind("clang_getFileTime", Clang2_7, &l.p.getFileTime); err != nil {
		return time.Time{}, err
	}
	return time.Unix(l.p.getFileTime(f.handle), 0), nil
}

// Equal reports whether two handles denote the same file. The native
// predicate is optional (3.3+); older libraries fall back to comparing the
// raw handles, which libclang keeps stable within a translation unit.
func (f File) Equal(o File) (bool, error) {
	l := f.lib
	if l.bindOptional("clang_File_isEqual", Clang3_3, &l.p.fileIsEqual) {
		return l.p.fileIsEqual(f.handle, o.handle) != 0, nil
	}
	return f.handle == o.handle, nil
}
