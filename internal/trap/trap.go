// Package trap is the S-mode trap dispatch pipeline: the interrupt-
// disable nesting discipline, the trap-frame layout the RISC-V S-mode
// vector saves into, and cause-based dispatch to the exception and
// interrupt handlers, per spec.md §4.4.
//
// Grounded on src/go/mazarin/exceptions.go's ExceptionHandler/
// handleException shape (decode a cause register, switch on its
// class, log, and either recover or halt), re-targeted from AArch64's
// ESR_EL1 exception-class encoding to RISC-V's scause
// interrupt-bit-plus-code encoding, and from GICv2's IAR/EOI protocol
// to this kernel's PLIC claim/complete protocol (internal/plic).
package trap

import "tinyos/internal/csr"

// IntrState is the sstatus.SIE bit captured by IntrDisable, to be
// restored by IntrSetState (spec.md §4.4 "intr_set_state(prev)").
type IntrState bool

// IntrGetState reports whether interrupts are currently enabled.
func IntrGetState() IntrState {
	return csr.ReadSstatus()&csr.SIE != 0
}

// IntrDisable clears sstatus.SIE and returns the previous state, so
// callers can nest via the save/restore pattern spec.md §4.4 requires:
// "prev = intr_disable(); critical; intr_set_state(prev);".
func IntrDisable() IntrState {
	prev := IntrGetState()
	csr.WriteSstatus(csr.ReadSstatus() &^ csr.SIE)
	return prev
}

// IntrEnable sets sstatus.SIE and returns the previous state.
func IntrEnable() IntrState {
	prev := IntrGetState()
	csr.WriteSstatus(csr.ReadSstatus() | csr.SIE)
	return prev
}

// IntrSetState restores a previously captured interrupt state.
func IntrSetState(prev IntrState) {
	if prev {
		csr.WriteSstatus(csr.ReadSstatus() | csr.SIE)
	} else {
		csr.WriteSstatus(csr.ReadSstatus() &^ csr.SIE)
	}
}

// scause codes this kernel recognizes (RISC-V privileged spec v1.10).
const (
	causeInterruptBit = 1 << 63

	excInstrMisaligned = 0
	excInstrFault      = 1
	excIllegalInstr    = 2
	excBreakpoint      = 3
	excLoadMisaligned  = 4
	excLoadFault       = 5
	excStoreMisaligned = 6
	excStoreFault      = 7
	excEcallU          = 8
	excEcallS          = 9
	excInstrPageFault  = 12
	excLoadPageFault   = 13
	excStorePageFault  = 15

	intSupervisorSoftware = 1
	intSupervisorTimer    = 5
	intSupervisorExternal = 9
)

// TimerTick is called on every supervisor timer interrupt, after the
// M-mode vector has already reprogrammed mtimecmp and raised it
// (spec.md §4.4 "timer_handle_interrupt: increments tick counter and
// calls scheduler_tick"). Set by sched.Init; left nil, the tick is
// ignored instead of panicking, so trap is independently testable
// before sched exists.
var TimerTick func()

// ExternalInterrupt is called on every supervisor external interrupt.
// kernelMain sets it to plic.Dispatch, which claims the pending IRQ,
// runs its handler and completes it.
var ExternalInterrupt func()

// Panicf is how the exception handler reports a fatal cause; it
// defaults to Go's panic but kpanic.Init overrides it to format with
// the kernel's own printf-style formatter instead of fmt's.
var Panicf = func(format string, args ...any) {
	panic(format)
}

// Dispatch is s_trap: called by the assembly S-mode vector with the
// just-saved trap frame. It never returns for an unrecoverable
// exception; for a recognized interrupt it returns normally so the
// vector can restore the frame and sret.
func Dispatch(tf *Frame) {
	cause := csr.ReadScause()
	if cause&causeInterruptBit != 0 {
		dispatchInterrupt(cause &^ causeInterruptBit)
		return
	}
	dispatchException(cause, tf)
}

func dispatchInterrupt(code uint64) {
	switch code {
	case intSupervisorTimer:
		if TimerTick != nil {
			TimerTick()
		}
	case intSupervisorExternal:
		if ExternalInterrupt != nil {
			ExternalInterrupt()
		}
	case intSupervisorSoftware:
		// Unused by this kernel; CLINT only raises the timer line.
	}
}

func dispatchException(cause uint64, tf *Frame) {
	stval := csr.ReadStval()
	switch cause {
	case excInstrMisaligned, excLoadMisaligned, excStoreMisaligned:
		Panicf("misaligned access at epc=%#x addr=%#x", tf.Sepc, stval)
	case excInstrFault, excLoadFault, excStoreFault:
		Panicf("access fault at epc=%#x addr=%#x", tf.Sepc, stval)
	case excIllegalInstr:
		Panicf("illegal instruction at epc=%#x", tf.Sepc)
	case excBreakpoint:
		Panicf("breakpoint at epc=%#x", tf.Sepc)
	case excInstrPageFault, excLoadPageFault, excStorePageFault:
		Panicf("page fault at epc=%#x addr=%#x", tf.Sepc, stval)
	case excEcallU, excEcallS:
		Panicf("unhandled ecall at epc=%#x", tf.Sepc)
	default:
		Panicf("unhandled exception cause=%#x epc=%#x", cause, tf.Sepc)
	}
}
