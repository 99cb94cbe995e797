package nilcheck

import "reflect"

// Interface reports whether value is nil, including typed-nil interfaces.
func Interface(value any) bool {
	if value == nil {
		return true
	}

	return Value(reflect.ValueOf(value))
}

// Value reports whether v is invalid or a nil-able kind holding nil.
func Value(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

// TypedNil reports whether value is a non-nil interface wrapping a nil pointer,
// map, slice, func or chan: the value that makes `err != nil` true for a nil *MyError.
func TypedNil(value any) bool {
	return value != nil && Interface(value)
}
