// Package runtime converts panics raised by user code into ordinary errors.
//
// Evaluating a subexpression of a failed assertion runs arbitrary code: a method on a
// nil receiver, an out-of-range index, a custom Equal that panics. Capture turns such a
// panic into a *PanicError so the caller can render it instead of unwinding the test.
//
// In production mode (SetProductionMode, or ENV/GO_ENV=production) panic values and
// stack traces are redacted from PanicError messages.
package runtime
