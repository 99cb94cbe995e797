// Package format turns runtime values and static types into the short display text
// shown next to each subexpression of a failed assertion.
//
// Values are rendered in a Go-like literal syntax with bounded depth, item count and
// length. Named integer types that are registered with RegisterEnum, or that implement
// fmt.Stringer, are treated as enums and rendered by member name.
package format
