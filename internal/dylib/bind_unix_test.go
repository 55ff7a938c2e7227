//go:build !windows

package dylib

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cursorRecord stands in for the record shapes libclang passes by value.
type cursorRecord struct {
	kind  uint32
	xdata int32
	data  [3]unsafe.Pointer
}

type stringRecord struct {
	data  unsafe.Pointer
	flags uint32
}

func TestHasRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   any
		want bool
	}{
		{"pointer args", func(unsafe.Pointer, uint32) unsafe.Pointer { return nil }, false},
		{"string arg", func(unsafe.Pointer, string) unsafe.Pointer { return nil }, false},
		{"record arg", func(cursorRecord) uint32 { return 0 }, true},
		{"record return", func() cursorRecord { return cursorRecord{} }, true},
		{"record arg and return", func(cursorRecord) stringRecord { return stringRecord{} }, true},
		{"record behind pointer", func(*cursorRecord) uint32 { return 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasRecords(reflect.TypeOf(tt.fn)))
		})
	}
}

func TestPrepCIF_RecordSignatures(t *testing.T) {
	t.Parallel()

	// Every shape the binding layer passes or returns by value must prep.
	fns := []any{
		func(stringRecord) string { return "" },
		func(stringRecord) {},
		func(cursorRecord) stringRecord { return stringRecord{} },
		func() cursorRecord { return cursorRecord{} },
		func(a, b cursorRecord) uint32 { return 0 },
		func(parent cursorRecord, visitor, clientData uintptr) uint32 { return 0 },
	}
	for _, fn := range fns {
		spec, err := prepCIF(reflect.TypeOf(fn))
		require.NoError(t, err)
		assert.NotNil(t, spec.cif)
	}
}

func TestPrepCIF_StringReturnUsesPointer(t *testing.T) {
	t.Parallel()
	spec, err := prepCIF(reflect.TypeOf(func(stringRecord) string { return "" }))
	require.NoError(t, err)
	assert.True(t, spec.strRet)
}

func TestPrepCIF_RejectsUnsupported(t *testing.T) {
	t.Parallel()

	_, err := prepCIF(reflect.TypeOf(func(args ...uint32) {}))
	assert.Error(t, err)
	_, err = prepCIF(reflect.TypeOf(func() (uint32, uint32) { return 0, 0 }))
	assert.Error(t, err)
	_, err = prepCIF(reflect.TypeOf(func(chan int) {}))
	assert.Error(t, err)
}
