//go:build riscv64

package sched

import (
	"tinyos/internal/pmm"
	"unsafe"
)

// ctxWords is the word count switch_contexts saves at sp: the return
// address plus s0-s11 (spec.md §4.5 "saves callee-saved + return
// address at sp").
const ctxWords = 13

// switchContexts is switch_contexts(&cur_ctx, &next_ctx): implemented
// in context_riscv64.s. It stores the current sp into *curCtx, loads
// sp from *nextCtx, and clears *nextCtx to 0 once the load has
// happened (spec.md "sets *next_ctx = null").
//
//go:noescape
func switchContexts(curCtx, nextCtx *uintptr)

// kthreadTrampolineAddr returns the address of the assembly
// trampoline a freshly built context's return address points at.
//
//go:noescape
func kthreadTrampolineAddr() uintptr

// buildInitialContext writes a synthetic context at the top of page
// (spec.md §4.5 step 3: "below the trap frame, build a context whose
// return address is the schedule-tail entry trampoline"). Rather than
// also hand-assembling a full trap.Frame for an arbitrary Go closure's
// raw entry PC, the context's first callee-saved slot carries t
// itself: the trampoline restores it into A1 and calls runThread(hart,
// t) directly, which is this kernel's kthread_trampoline ->
// __schedule_tail -> s_ret_trap -> kthread(fn, arg) chain collapsed
// into one Go-level landing function.
func buildInitialContext(t *Thread, page []byte) uintptr {
	top := uintptr(unsafe.Pointer(&page[0])) + pmm.PageSize
	top -= ctxWords * 8
	top &^= 0xf

	words := unsafe.Slice((*uintptr)(unsafe.Pointer(top)), ctxWords)
	words[0] = kthreadTrampolineAddr() // ra
	words[1] = uintptr(unsafe.Pointer(t))
	for i := 2; i < ctxWords; i++ {
		words[i] = 0
	}
	return top
}
