// Package assert holds the compiler's debug-only invariant checks: the
// internal "this should be unreachable" guards the original C++ expressed
// with ASSERT/UNREACHABLE (see spec §9). User-facing failures never panic —
// those go through internal/diag — these guard compiler bugs only.
package assert

import "fmt"

// That panics with msg if cond is false. Use for invariants a caller
// violating would mean a bug in this package, not bad input.
func That(cond bool, msg string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("icarus: assertion failed: "+msg, args...))
	}
}

// Unreachable panics unconditionally. Use at the end of an exhaustive type
// switch over a closed sum so a future variant addition fails loudly.
func Unreachable(msg string, args ...any) {
	panic(fmt.Sprintf("icarus: unreachable: "+msg, args...))
}
