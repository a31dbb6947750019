// Package kpanic is spec.md §6/§7's fatal-error path:
// kernel_panic(file, line, fn, fmt, ...) prints a red [PANIC] line and
// loops forever, and Assert is the precondition-violation mechanism
// §7's error taxonomy assigns to null pointers and invariant checks
// (state transitions, magic, held-by-current-thread,
// interrupt-disabled-on-schedule).
//
// Grounded on the teacher's repeated "print a fatal message, then spin
// forever" idiom (src/mazboot/golang/main/exceptions.go: every
// unrecoverable condition prints via the UART-direct helpers, then
// `for {}`), generalized to go through internal/kprint's formatter
// instead of one-off uartPuts calls, and wired as trap.Panicf's real
// implementation in place of trap's bare `panic(format)` default.
package kpanic

import (
	"tinyos/internal/kprint"
	"tinyos/internal/trap"
)

// halt is swapped out by tests so Panic's infinite loop doesn't hang
// the test binary; on real hardware it is the spin-forever body.
var halt = func() {
	for {
	}
}

// Init wires trap.Panicf to Panicf, so every exception the trap
// pipeline dispatches reports through this package's formatted
// [PANIC] line instead of Go's bare panic.
func Init() {
	trap.Panicf = Panicf
}

// Panic is kernel_panic(file, line, fn, fmt, ...): prints
// "[PANIC] fn at file:line: <message>" in red (ANSI escape codes) then
// halts forever. It never returns.
func Panic(file string, line int, fn string, format string, args ...any) {
	msg := kprint.Sprintf(format, args...)
	kprint.Printf("\x1b[31m[PANIC] %s at %s:%d: %s\x1b[0m\n", fn, file, line, msg)
	halt()
}

// Panicf is the trap.Panicf shape: a bare formatted message with no
// caller-supplied file/line/fn (the trap pipeline's exception handler
// doesn't carry Go source location the way an explicit Assert call
// site does), reported in red as "[PANIC] <message>".
func Panicf(format string, args ...any) {
	kprint.Printf("\x1b[31m[PANIC] %s\x1b[0m\n", kprint.Sprintf(format, args...))
	halt()
}

// Assert panics with the call site's location if cond is false
// (spec.md §7 "assert(cond) -> panic with source location"). file and
// line are the caller's, since Go has no variadic __FILE__/__LINE__ —
// callers pass their own via a tiny wrapper, or construct them from
// runtime.Caller before calling into a freestanding build where that
// isn't available.
func Assert(cond bool, file string, line int, fn string, msg string) {
	if !cond {
		Panic(file, line, fn, "assertion failed: %s", msg)
	}
}
