package format

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
)

// Integer is the set of types that can back an enum.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var (
	enumMu    sync.RWMutex
	enumNames = map[reflect.Type]map[uint64]string{}

	stringerType = reflect.TypeFor[fmt.Stringer]()
	durationType = reflect.TypeFor[time.Duration]()
)

// RegisterEnum declares T as an enum with the given member names. Registering the
// same type twice merges the names.
func RegisterEnum[T Integer](names map[T]string) {
	t := reflect.TypeFor[T]()

	enumMu.Lock()
	defer enumMu.Unlock()

	members, ok := enumNames[t]
	if !ok {
		members = make(map[uint64]string, len(names))
		enumNames[t] = members
	}

	for value, name := range names {
		members[bits(reflect.ValueOf(value))] = name
	}
}

// IsEnum reports whether t is a named integer type that was registered or implements
// fmt.Stringer. time.Duration is a quantity, not an enum.
func IsEnum(t reflect.Type) bool {
	if t == nil || !isInteger(t.Kind()) || t.PkgPath() == "" || t == durationType {
		return false
	}

	enumMu.RLock()
	_, registered := enumNames[t]
	enumMu.RUnlock()

	return registered || t.Implements(stringerType)
}

// EnumName returns the member name of v. It reports false when v is not an enum value
// or holds a value with no declared member.
func EnumName(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || !IsEnum(rv.Type()) {
		return "", false
	}

	return enumName(rv)
}

// EnumText renders v as Type.Member, or Type(n) when n has no declared member.
func EnumText(v any) string {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return "nil"
	}

	name := TypeName(rv.Type())

	if member, ok := EnumName(v); ok {
		return name + "." + member
	}

	return fmt.Sprintf("%s(%v)", name, rawInteger(rv))
}

func enumName(v reflect.Value) (string, bool) {
	enumMu.RLock()
	members, registered := enumNames[v.Type()]
	enumMu.RUnlock()

	if registered {
		name, ok := members[bits(v)]
		return name, ok
	}

	s, ok := stringerName(v)
	if !ok || s == "" || strings.ContainsAny(s, "( ") {
		return "", false
	}

	return s, true
}

func stringerName(v reflect.Value) (name string, ok bool) {
	defer func() {
		if recover() != nil {
			name, ok = "", false
		}
	}()

	if !v.CanInterface() {
		return "", false
	}

	s, isStringer := v.Interface().(fmt.Stringer)
	if !isStringer {
		return "", false
	}

	return s.String(), true
}

func bits(v reflect.Value) uint64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(v.Int())
	default:
		return v.Uint()
	}
}

func rawInteger(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()
	default:
		return v.Interface()
	}
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}
