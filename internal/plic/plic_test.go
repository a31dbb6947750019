package plic

import "testing"

func resetHandlers() {
	for i := range handlers {
		handlers[i] = nil
	}
}

func TestDispatchRoutesToRegisteredHandler(t *testing.T) {
	resetHandlers()
	var got uint32
	Register(IRQUart0, func(irq uint32) { got = irq })
	Init(0)

	Raise(0, IRQUart0)
	Dispatch(0)

	if got != IRQUart0 {
		t.Fatalf("handler was not invoked with the claimed IRQ: got %d want %d", got, IRQUart0)
	}
}

func TestDispatchNoopWhenNothingPending(t *testing.T) {
	resetHandlers()
	Register(IRQUart0, func(uint32) { t.Fatalf("handler should not run when nothing is pending") })
	Init(0)
	Dispatch(0) // must not panic or call the handler
}

func TestUnregisteredIRQNeverEnabled(t *testing.T) {
	resetHandlers()
	Init(0)
	Raise(0, IRQRTC) // never registered, so Init never enabled it
	if irq := Claim(0); irq != 0 {
		t.Fatalf("Claim returned %d for a source Init should not have enabled", irq)
	}
}
