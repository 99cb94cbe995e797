package format

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Default limits applied by New.
const (
	DefaultMaxValueLength = 200
	DefaultMaxDepth       = 5
	DefaultMaxItems       = 32
)

// Formatter renders values as display text. The zero value is not usable; use New.
type Formatter struct {
	maxValueLength int
	maxDepth       int
	maxItems       int
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithMaxValueLength bounds the length of a rendered value. Non-positive values are ignored.
func WithMaxValueLength(n int) Option {
	return func(f *Formatter) {
		if n > 0 {
			f.maxValueLength = n
		}
	}
}

// WithMaxDepth bounds how deep nested containers are expanded.
func WithMaxDepth(n int) Option {
	return func(f *Formatter) {
		if n > 0 {
			f.maxDepth = n
		}
	}
}

// WithMaxItems bounds how many elements of a slice, array or map are shown.
func WithMaxItems(n int) Option {
	return func(f *Formatter) {
		if n > 0 {
			f.maxItems = n
		}
	}
}

// New returns a Formatter with the default limits, adjusted by opts.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		maxValueLength: DefaultMaxValueLength,
		maxDepth:       DefaultMaxDepth,
		maxItems:       DefaultMaxItems,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	return f
}

// Value renders v.
func (f *Formatter) Value(v any) string {
	if f == nil {
		f = New()
	}

	return f.truncate(f.value(reflect.ValueOf(v), 0))
}

// TypeName renders t. See the package-level TypeName.
func (f *Formatter) TypeName(t reflect.Type) string {
	return TypeName(t)
}

func (f *Formatter) truncate(s string) string {
	if len(s) <= f.maxValueLength {
		return s
	}

	return s[:f.maxValueLength] + "... (truncated " + strconv.Itoa(len(s)-f.maxValueLength) + " chars)"
}

func (f *Formatter) value(v reflect.Value, depth int) string {
	if !v.IsValid() {
		return "nil"
	}

	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		if v.IsNil() {
			return "nil"
		}
	}

	if text, ok := f.special(v); ok {
		return text
	}

	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.String:
		return strconv.Quote(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	case reflect.Complex64:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 64)
	case reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128)
	case reflect.Interface:
		return f.value(v.Elem(), depth)
	case reflect.Pointer:
		return "&" + f.value(v.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		return f.sequence(v, depth)
	case reflect.Map:
		return f.mapping(v, depth)
	case reflect.Struct:
		return f.structure(v, depth)
	case reflect.Func, reflect.Chan:
		return TypeName(v.Type())
	default:
		return fmt.Sprintf("%v", v)
	}
}

// special handles enums, errors and Stringers. Methods are only called on values
// reachable through exported fields.
func (f *Formatter) special(v reflect.Value) (text string, ok bool) {
	if !v.CanInterface() {
		return "", false
	}

	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()

	if IsEnum(v.Type()) {
		if name, found := enumName(v); found {
			return name, true
		}
	}

	switch x := v.Interface().(type) {
	case error:
		return x.Error(), true
	case fmt.Stringer:
		return x.String(), true
	}

	return "", false
}

func (f *Formatter) sequence(v reflect.Value, depth int) string {
	if depth >= f.maxDepth {
		return "[...]"
	}

	items := make([]string, 0, min(v.Len(), f.maxItems))

	for i := 0; i < v.Len(); i++ {
		if i == f.maxItems {
			items = append(items, "...")
			break
		}

		items = append(items, f.value(v.Index(i), depth+1))
	}

	return "[" + strings.Join(items, ", ") + "]"
}

func (f *Formatter) mapping(v reflect.Value, depth int) string {
	if depth >= f.maxDepth {
		return "map[...]"
	}

	type entry struct{ key, value string }

	entries := make([]entry, 0, v.Len())

	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, entry{
			key:   f.value(iter.Key(), depth+1),
			value: f.value(iter.Value(), depth+1),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	parts := make([]string, 0, min(len(entries), f.maxItems+1))

	for i, e := range entries {
		if i == f.maxItems {
			parts = append(parts, "...")
			break
		}

		parts = append(parts, e.key+": "+e.value)
	}

	return "map[" + strings.Join(parts, ", ") + "]"
}

func (f *Formatter) structure(v reflect.Value, depth int) string {
	name := TypeName(v.Type())
	if depth >= f.maxDepth {
		return name + "{...}"
	}

	t := v.Type()
	parts := make([]string, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		parts = append(parts, t.Field(i).Name+": "+f.value(v.Field(i), depth+1))
	}

	return name + "{" + strings.Join(parts, ", ") + "}"
}
