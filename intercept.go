package trackable

import (
	"fmt"
	"reflect"
)

// setter is the tracked assignment operation installed for one attribute.
type setter[M any] struct {
	name  string
	kind  Kind
	param reflect.Type // parameter type of the original setter

	// typed is a func(*M, T) error where T is the Go type of kind.
	// It is nil for Object attributes.
	typed any
	call  func(m *M, v reflect.Value) error
}

// intercept builds the tracked setter for an attribute whose original setter is
// method, a method expression of *M taking exactly one value of the given kind.
func intercept[M any](kind Kind, name string, method reflect.Value) (*setter[M], bool) {
	switch kind {
	case Object:
		return objectSetter[M](name, method), true
	case Bool:
		return typedSetter[M, bool](kind, name, method), true
	case Int8:
		return typedSetter[M, int8](kind, name, method), true
	case Int16:
		return typedSetter[M, int16](kind, name, method), true
	case Int32:
		return typedSetter[M, int32](kind, name, method), true
	case Int64:
		return typedSetter[M, int64](kind, name, method), true
	case Uint8:
		return typedSetter[M, uint8](kind, name, method), true
	case Uint16:
		return typedSetter[M, uint16](kind, name, method), true
	case Uint32:
		return typedSetter[M, uint32](kind, name, method), true
	case Uint64:
		return typedSetter[M, uint64](kind, name, method), true
	case Float32:
		return typedSetter[M, float32](kind, name, method), true
	case Float64:
		return typedSetter[M, float64](kind, name, method), true
	default:
		return nil, false
	}
}

func typedSetter[M, T any](kind Kind, name string, method reflect.Value) *setter[M] {
	param := method.Type().In(1)

	var orig func(*M, T) error
	switch f := method.Interface().(type) {
	case func(*M, T):
		orig = func(m *M, v T) error {
			f(m, v)
			return nil
		}
	case func(*M, T) error:
		orig = f
	default:
		// named parameter type of the same category, e.g. `type Age int32`
		orig = func(m *M, v T) error {
			return invoke(method, reflect.ValueOf(m), reflect.ValueOf(v).Convert(param))
		}
	}

	typed := func(m *M, v T) error {
		if err := orig(m, v); err != nil {
			return err
		}
		markDirty(m, name)
		return nil
	}
	target := reflect.TypeFor[T]()
	return &setter[M]{
		name:  name,
		kind:  kind,
		param: param,
		typed: typed,
		call: func(m *M, v reflect.Value) error {
			return typed(m, v.Convert(target).Interface().(T))
		},
	}
}

func objectSetter[M any](name string, method reflect.Value) *setter[M] {
	return &setter[M]{
		name:  name,
		kind:  Object,
		param: method.Type().In(1),
		call: func(m *M, v reflect.Value) error {
			if err := invoke(method, reflect.ValueOf(m), v); err != nil {
				return err
			}
			markDirty(m, name)
			return nil
		},
	}
}

// assign runs the setter with a dynamically typed value. Values are converted
// only within the same category; anything else is a type mismatch.
func (s *setter[M]) assign(m *M, v any) error {
	rv, err := s.coerce(v)
	if err != nil {
		return err
	}
	return s.call(m, rv)
}

func (s *setter[M]) coerce(v any) (reflect.Value, error) {
	if v == nil {
		switch s.param.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
			return reflect.Zero(s.param), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: %s wants %s, got nil", ErrTypeMismatch, s.name, s.param)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(s.param) {
		return rv, nil
	}
	if s.kind != Object {
		if k, ok := KindOf(rv.Type()); ok && k == s.kind && rv.Type().ConvertibleTo(s.param) {
			return rv.Convert(s.param), nil
		}
	} else if rv.Kind() == reflect.String && s.param.Kind() == reflect.String {
		// named string types, e.g. `type Status string`
		return rv.Convert(s.param), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s wants %s, got %T", ErrTypeMismatch, s.name, s.param, v)
}

// invoke calls the original setter and returns its error result, if any.
func invoke(method, recv, v reflect.Value) error {
	out := method.Call([]reflect.Value{recv, v})
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

func markDirty[M any](m *M, name string) {
	any(m).(Tracker).MarkDirty(name)
}
