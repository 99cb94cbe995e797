// Package display holds the annotated tree built for a failed assertion and the
// renderer that lays it out.
//
// Each node carries the already formatted value of the subexpression it stands for.
// Trees are built bottom-up by package transform and are never modified afterwards.
//
// Render produces the classic power-assert diagram:
//
//	count == 3
//	|     |
//	2     false
package display
