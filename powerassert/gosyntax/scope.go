package gosyntax

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/LerianStudio/lib-powerassert/powerassert/expr"
)

type function struct {
	fn        any
	extension bool
}

// Scope holds the names an expression may refer to. Package-qualified names are
// registered under "pkg.Name".
type Scope struct {
	values map[string]expr.Expr
	funcs  map[string]function
	types  map[string]reflect.Type
	pkgs   map[string]struct{}
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{
		values: make(map[string]expr.Expr),
		funcs:  make(map[string]function),
		types:  make(map[string]reflect.Type),
		pkgs:   make(map[string]struct{}),
	}
}

// Var adds a variable read through ptr at every evaluation. It panics when ptr
// is not a non-nil pointer.
func (s *Scope) Var(name string, ptr any) *Scope {
	s.values[name] = expr.Local(name, ptr)
	return s
}

// Value adds a snapshot of v shown under name.
func (s *Scope) Value(name string, v any) *Scope {
	s.values[name] = expr.Named(name, v)
	return s
}

// Const adds a named constant. It displays as its value, like a literal.
func (s *Scope) Const(name string, v any) *Scope {
	s.values[name] = expr.Constant(v)
	return s
}

// Func adds a function called without a package qualifier.
func (s *Scope) Func(name string, fn any) *Scope {
	s.funcs[name] = function{fn: fn}
	return s
}

// PkgVar adds the package-level variable pkg.name.
func (s *Scope) PkgVar(pkg, name string, ptr any) *Scope {
	s.pkgs[pkg] = struct{}{}
	s.values[pkg+"."+name] = expr.Static(pkg, name, ptr)

	return s
}

// PkgConst adds the package-level constant pkg.name.
func (s *Scope) PkgConst(pkg, name string, v any) *Scope {
	s.pkgs[pkg] = struct{}{}
	s.values[pkg+"."+name] = expr.Constant(v)

	return s
}

// PkgFunc adds the package function pkg.name.
func (s *Scope) PkgFunc(pkg, name string, fn any) *Scope {
	s.pkgs[pkg] = struct{}{}
	s.funcs[pkg+"."+name] = function{fn: fn}

	return s
}

// Extension adds the package function pkg.name whose first argument displays as
// the receiver: strings.HasPrefix(s, p) shows as s.HasPrefix(p).
func (s *Scope) Extension(pkg, name string, fn any) *Scope {
	s.pkgs[pkg] = struct{}{}
	s.funcs[pkg+"."+name] = function{fn: fn, extension: true}

	return s
}

// Type adds a named type for conversions, composite literals and type tests.
// name may be package-qualified.
func (s *Scope) Type(name string, t reflect.Type) *Scope {
	if pkg, _, ok := strings.Cut(name, "."); ok {
		s.pkgs[pkg] = struct{}{}
	}

	s.types[name] = t

	return s
}

func (s *Scope) isPackage(name string) bool {
	_, ok := s.pkgs[name]
	return ok
}

// Std returns a scope with common comparison helpers from the standard library.
func Std() *Scope {
	return NewScope().
		Extension("strings", "Contains", strings.Contains).
		Extension("strings", "HasPrefix", strings.HasPrefix).
		Extension("strings", "HasSuffix", strings.HasSuffix).
		Extension("strings", "EqualFold", strings.EqualFold).
		PkgFunc("strings", "TrimSpace", strings.TrimSpace).
		PkgFunc("strings", "ToLower", strings.ToLower).
		PkgFunc("strings", "ToUpper", strings.ToUpper).
		PkgFunc("reflect", "DeepEqual", reflect.DeepEqual).
		PkgFunc("bytes", "Equal", bytes.Equal).
		PkgFunc("math", "Abs", math.Abs).
		PkgFunc("math", "IsNaN", math.IsNaN).
		PkgFunc("math", "NaN", math.NaN).
		PkgConst("time", "Nanosecond", time.Nanosecond).
		PkgConst("time", "Microsecond", time.Microsecond).
		PkgConst("time", "Millisecond", time.Millisecond).
		PkgConst("time", "Second", time.Second).
		PkgConst("time", "Minute", time.Minute).
		PkgConst("time", "Hour", time.Hour).
		Type("time.Duration", reflect.TypeFor[time.Duration]())
}
