package cindex

import (
	"fmt"
	"io"
)

// takeString copies a disposable native string into a Go string and
// immediately invokes the paired disposal call. Both symbols are bound
// before the native string is read, so no other native call intervenes
// between receiving and disposing the handle.
func (l *Library) takeString(s cxString) (string, error) {
	if err := l.bind("clang_getCString", Clang2_7, &l.p.getCString); err != nil {
		return "", err
	}
	if err := l.bind("clang_disposeString", Clang2_7, &l.p.disposeString); err != nil {
		return "", err
	}
	out := l.p.getCString(s)
	l.p.disposeString(s)
	return out, nil
}

// cArgs converts a host argument list into a native char* array. The
// returned ptrs slice backs the array passed to the native call and bufs
// holds the NUL-terminated copies; both must be kept alive across the call.
func cArgs(args []string) (ptrs []*byte, bufs [][]byte) {
	if len(args) == 0 {
		return nil, nil
	}
	ptrs = make([]*byte, len(args))
	bufs = make([][]byte, len(args))
	for i, a := range args {
		b := make([]byte, len(a)+1)
		copy(b, a)
		bufs[i] = b
		ptrs[i] = &b[0]
	}
	return ptrs, bufs
}

// UnsavedFile is an in-memory (filename, contents) overlay presented to the
// native library instead of reading the file from disk.
type UnsavedFile struct {
	Name     string
	Contents []byte
}

// UnsavedFileFrom reads r to end and returns an UnsavedFile overlaying name.
// Contents keep an explicit length, so arbitrary binary source is safe even
// though native strings are not.
func UnsavedFileFrom(name string, r io.Reader) (UnsavedFile, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return UnsavedFile{}, fmt.Errorf("cindex: read unsaved file %s: %w", name, err)
	}
	return UnsavedFile{Name: name, Contents: b}, nil
}

// cUnsaved builds the native unsaved-file array. The returned keep slices
// back the name and contents pointers and must stay alive across the call.
func cUnsaved(files []UnsavedFile) (arr []cxUnsavedFile, keep [][]byte) {
	if len(files) == 0 {
		return nil, nil
	}
	arr = make([]cxUnsavedFile, len(files))
	keep = make([][]byte, 0, 2*len(files))
	for i, f := range files {
		name := make([]byte, len(f.Name)+1)
		copy(name, f.Name)
		keep = append(keep, name)
		arr[i].filename = &name[0]
		arr[i].length = uint64(len(f.Contents))
		if len(f.Contents) > 0 {
			contents := f.Contents
			keep = append(keep, contents)
			arr[i].contents = &contents[0]
		}
	}
	return arr, keep
}
