package trap

import (
	"testing"

	"tinyos/internal/csr"
)

func TestIntrDisableEnableNesting(t *testing.T) {
	csr.WriteSstatus(csr.SIE)
	if !IntrGetState() {
		t.Fatalf("expected interrupts enabled initially")
	}

	prev1 := IntrDisable()
	if !bool(prev1) {
		t.Fatalf("IntrDisable should report the prior (enabled) state")
	}
	if IntrGetState() {
		t.Fatalf("interrupts should be disabled now")
	}

	prev2 := IntrDisable()
	if bool(prev2) {
		t.Fatalf("nested IntrDisable should report already-disabled")
	}

	IntrSetState(prev2)
	if IntrGetState() {
		t.Fatalf("restoring the inner (disabled) state should keep interrupts off")
	}

	IntrSetState(prev1)
	if !IntrGetState() {
		t.Fatalf("restoring the outer (enabled) state should turn interrupts back on")
	}
}

func TestDispatchRoutesTimerInterrupt(t *testing.T) {
	ticked := false
	TimerTick = func() { ticked = true }
	defer func() { TimerTick = nil }()

	csr.SetScauseStval(causeInterruptBit|intSupervisorTimer, 0)
	Dispatch(&Frame{})

	if !ticked {
		t.Fatalf("Dispatch did not route a supervisor timer cause to TimerTick")
	}
}

func TestDispatchRoutesExternalInterrupt(t *testing.T) {
	claimed := false
	ExternalInterrupt = func() { claimed = true }
	defer func() { ExternalInterrupt = nil }()

	csr.SetScauseStval(causeInterruptBit|intSupervisorExternal, 0)
	Dispatch(&Frame{})

	if !claimed {
		t.Fatalf("Dispatch did not route a supervisor external cause to ExternalInterrupt")
	}
}

func TestDispatchPanicsOnException(t *testing.T) {
	var reported string
	Panicf = func(format string, args ...any) { reported = format }
	defer func() { Panicf = func(format string, args ...any) { panic(format) } }()

	csr.SetScauseStval(excIllegalInstr, 0)
	Dispatch(&Frame{Sepc: 0x1000})

	if reported == "" {
		t.Fatalf("Dispatch did not report the illegal-instruction exception")
	}
}
