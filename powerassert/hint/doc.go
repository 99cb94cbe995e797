// Package hint explains why a boolean subexpression came out false.
//
// An Engine holds an ordered list of detectors. Each detector recognises one narrow
// shape of expression, such as two pointers compared with == or an enum compared
// after a numeric conversion. It returns a short suffix that is appended to the
// value text of that node:
//
//	int(level) == 2
//	|   |      |
//	|   |      false, Level.Low != Level.High
//	1   Low
//
// Find returns the suffix of the first detector that matches. A detector that
// panics is treated as declining.
package hint
