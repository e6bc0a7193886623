package trackable

import (
	"reflect"
	"strconv"
)

// Kind is the type category of a tracked attribute. It selects the interceptor
// variant installed for the attribute's setter.
type Kind uint8

const (
	Object Kind = iota + 1
	Bool
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
)

var kindNames = [...]string{
	Object:  "object",
	Bool:    "bool",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint16:  "uint16",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Float32: "float32",
	Float64: "float64",
}

func (k Kind) String() string {
	if k >= Object && k <= Float64 {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// KindOf reports the category of t.
// Types outside the closed set (complex numbers, channels, funcs, uintptr,
// unsafe.Pointer) report false.
func KindOf(t reflect.Type) (Kind, bool) {
	if t == nil {
		return 0, false
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool, true
	case reflect.Int8:
		return Int8, true
	case reflect.Int16:
		return Int16, true
	case reflect.Int32:
		return Int32, true
	case reflect.Int64:
		return Int64, true
	case reflect.Int:
		if strconv.IntSize == 64 {
			return Int64, true
		}
		return Int32, true
	case reflect.Uint8:
		return Uint8, true
	case reflect.Uint16:
		return Uint16, true
	case reflect.Uint32:
		return Uint32, true
	case reflect.Uint64:
		return Uint64, true
	case reflect.Uint:
		if strconv.IntSize == 64 {
			return Uint64, true
		}
		return Uint32, true
	case reflect.Float32:
		return Float32, true
	case reflect.Float64:
		return Float64, true
	case reflect.String, reflect.Pointer, reflect.Interface, reflect.Slice,
		reflect.Map, reflect.Struct, reflect.Array:
		return Object, true
	default:
		return 0, false
	}
}
