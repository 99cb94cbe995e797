// Command powerassert explains a Go boolean expression over YAML-typed variables.
//
// Usage:
//
//	powerassert explain --var 'xs=[1, 2]' --var n=3 'len(xs) == n'
//	powerassert hints
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
