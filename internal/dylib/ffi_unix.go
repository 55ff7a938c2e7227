//go:build !windows

package dylib

/*
#cgo LDFLAGS: -lffi
#include <ffi.h>
#include <stdlib.h>

// ffi_call wrapper: accept the target as a plain void* to avoid cgo's
// function-pointer type constraints at the call site.
static void dylib_ffi_call(ffi_cif *cif, void *fn, void *rvalue, void **avalue) {
	ffi_call(cif, (void (*)(void))fn, rvalue, avalue);
}

// cifs live on the C heap: libffi keeps referencing them for the life of
// the binding, which is the life of the process.
static ffi_cif *dylib_alloc_cif(void) {
	return (ffi_cif *)malloc(sizeof(ffi_cif));
}
*/
import "C"

import (
	"fmt"
	"reflect"
	"unsafe"
)

// callSpec is one prepared libffi call interface together with the
// marshalling plan derived from the Go signature.
type callSpec struct {
	cif     *C.ffi_cif
	ret     *C.ffi_type
	out     reflect.Type // nil for void
	strRet  bool         // native returns char *; Go wants string
	strArgs []bool       // which args are Go strings needing C copies
}

// ffiBind installs into fptr a wrapper that marshals calls to the native
// function at addr through libffi. It covers what purego cannot register
// here: records passed or returned by value.
func ffiBind(fptr any, addr uintptr) error {
	fnType := reflect.TypeOf(fptr).Elem()
	spec, err := prepCIF(fnType)
	if err != nil {
		return err
	}
	fn := *(*unsafe.Pointer)(unsafe.Pointer(&addr))
	wrapper := reflect.MakeFunc(fnType, func(in []reflect.Value) []reflect.Value {
		return spec.call(fn, in)
	})
	reflect.ValueOf(fptr).Elem().Set(wrapper)
	return nil
}

// prepCIF builds the libffi call interface for a Go function signature.
func prepCIF(fnType reflect.Type) (*callSpec, error) {
	if fnType.IsVariadic() {
		return nil, fmt.Errorf("variadic signatures are not supported")
	}
	if fnType.NumOut() > 1 {
		return nil, fmt.Errorf("at most one return value is supported")
	}
	spec := &callSpec{strArgs: make([]bool, fnType.NumIn())}
	args := make([]*C.ffi_type, fnType.NumIn())
	for i := range args {
		t := fnType.In(i)
		spec.strArgs[i] = t.Kind() == reflect.String
		at, err := ffiTypeFor(t)
		if err != nil {
			return nil, err
		}
		args[i] = at
	}
	spec.ret = &C.ffi_type_void
	if fnType.NumOut() == 1 {
		spec.out = fnType.Out(0)
		if spec.out.Kind() == reflect.String {
			spec.strRet = true
			spec.ret = &C.ffi_type_pointer
		} else {
			rt, err := ffiTypeFor(spec.out)
			if err != nil {
				return nil, err
			}
			spec.ret = rt
		}
	}
	var argv **C.ffi_type
	if len(args) > 0 {
		argv = cTypeVec(args)
	}
	spec.cif = C.dylib_alloc_cif()
	if st := C.ffi_prep_cif(spec.cif, C.FFI_DEFAULT_ABI, C.uint(len(args)), spec.ret, argv); st != C.FFI_OK {
		return nil, fmt.Errorf("ffi_prep_cif: status %d", int(st))
	}
	return spec, nil
}

// ffiTypeFor maps a Go type onto its libffi descriptor. Record types get a
// C-heap element vector; a fixed-size array member flattens into repeated
// elements, which is how libffi spells such members.
func ffiTypeFor(t reflect.Type) (*C.ffi_type, error) {
	switch t.Kind() {
	case reflect.Int32:
		return &C.ffi_type_sint32, nil
	case reflect.Uint32:
		return &C.ffi_type_uint32, nil
	case reflect.Int64:
		return &C.ffi_type_sint64, nil
	case reflect.Uint64:
		return &C.ffi_type_uint64, nil
	case reflect.Uintptr, reflect.UnsafePointer, reflect.Ptr, reflect.String:
		return &C.ffi_type_pointer, nil
	case reflect.Struct:
		var elems []*C.ffi_type
		for i := 0; i < t.NumField(); i++ {
			ft := t.Field(i).Type
			n := 1
			if ft.Kind() == reflect.Array {
				n = ft.Len()
				ft = ft.Elem()
			}
			et, err := ffiTypeFor(ft)
			if err != nil {
				return nil, err
			}
			for ; n > 0; n-- {
				elems = append(elems, et)
			}
		}
		rec := (*C.ffi_type)(C.malloc(C.sizeof_ffi_type))
		rec.size = 0
		rec.alignment = 0
		rec._type = C.FFI_TYPE_STRUCT
		rec.elements = cTypeVec(elems)
		return rec, nil
	}
	return nil, fmt.Errorf("cannot marshal %s", t)
}

// cTypeVec copies types into a C-allocated, NULL-terminated ffi_type vector.
func cTypeVec(types []*C.ffi_type) **C.ffi_type {
	ptrSize := unsafe.Sizeof(uintptr(0))
	mem := C.malloc(C.size_t(ptrSize * uintptr(len(types)+1)))
	vec := unsafe.Slice((**C.ffi_type)(mem), len(types)+1)
	copy(vec, types)
	vec[len(types)] = nil
	return (**C.ffi_type)(mem)
}

// call marshals in through C memory, performs the foreign call, and decodes
// the result. Argument and return buffers live on the C heap so no Go
// pointer crosses the boundary.
func (s *callSpec) call(fn unsafe.Pointer, in []reflect.Value) []reflect.Value {
	ptrSize := unsafe.Sizeof(uintptr(0))
	var frees []unsafe.Pointer
	defer func() {
		for _, p := range frees {
			C.free(p)
		}
	}()
	var argv *unsafe.Pointer
	if len(in) > 0 {
		mem := C.malloc(C.size_t(ptrSize * uintptr(len(in))))
		frees = append(frees, mem)
		slots := unsafe.Slice((*unsafe.Pointer)(mem), len(in))
		for i, v := range in {
			if s.strArgs[i] {
				cs := C.CString(v.String())
				frees = append(frees, unsafe.Pointer(cs))
				p := C.malloc(C.size_t(ptrSize))
				frees = append(frees, p)
				*(*unsafe.Pointer)(p) = unsafe.Pointer(cs)
				slots[i] = p
				continue
			}
			p := C.malloc(C.size_t(v.Type().Size()))
			frees = append(frees, p)
			reflect.NewAt(v.Type(), p).Elem().Set(v)
			slots[i] = p
		}
		argv = (*unsafe.Pointer)(mem)
	}
	// libffi widens integral returns to a full ffi_arg; the buffer must be
	// at least that big. Narrow values land in the low-order bytes, which
	// is offset zero on the little-endian targets this builds for.
	retSize := uintptr(C.sizeof_ffi_arg)
	if s.out != nil && s.out.Size() > retSize {
		retSize = s.out.Size()
	}
	ret := C.malloc(C.size_t(retSize))
	frees = append(frees, ret)
	C.dylib_ffi_call(s.cif, fn, ret, argv)
	if s.out == nil {
		return nil
	}
	if s.strRet {
		return []reflect.Value{reflect.ValueOf(C.GoString(*(**C.char)(ret)))}
	}
	out := reflect.New(s.out).Elem()
	out.Set(reflect.NewAt(s.out, ret).Elem())
	return []reflect.Value{out}
}
