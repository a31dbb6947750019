//go:build !riscv64

package sched

// Host build: there is no real machine stack to switch onto, so the
// context value is just a sentinel: nonzero for a thread that is off
// the CPU (never run yet, or parked by switchContexts) and zero for the
// thread switchContexts last switched onto, matching
// spec.md's "*next_ctx = null" postcondition closely enough for the
// ready-queue/state-machine properties host tests exercise. A
// thread's entry/arg are never invoked here — the Hello-thread
// end-to-end scenario only actually runs fn under the riscv64
// trampoline; host tests drive Create/Tick/Yield/Block/Unblock
// directly against the thread's recorded state instead.
const simParkedContext uintptr = 1

func buildInitialContext(t *Thread, page []byte) uintptr {
	return simParkedContext
}

func switchContexts(curCtx, nextCtx *uintptr) {
	if curCtx != nil {
		*curCtx = simParkedContext
	}
	*nextCtx = 0
}
