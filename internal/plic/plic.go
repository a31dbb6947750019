// Package plic is the Platform-Level Interrupt Controller driver:
// per-source priority, per-hart enable/threshold, and the
// claim/complete handshake for supervisor external interrupts, per
// spec.md §6's "PLIC protocol".
//
// Grounded on src/mazboot/golang/main's GICv2 driver (gic_qemu.go:
// priority/enable registers plus an IAR-read/EOI-write claim
// protocol), re-targeted from GICv2's distributor+CPU-interface
// register pair to the PLIC's single flat MMIO window, and from
// ARM64's IRQ numbering to spec.md §6's "IRQ assignments" (UART0 = 10
// etc.). Register access is split by build tag the same way
// internal/clint is: plic_riscv64.go touches real MMIO,
// plic_sim.go backs the same functions with host state.
package plic

// Base is the PLIC's physical base address (spec.md §6 "PLIC:
// 0x0c00_0000, 64 MiB").
const Base uintptr = 0x0c00_0000

const (
	priorityOffset       = 0
	senableBaseOffset    = 0x2080
	senableHartStride     = 0x100
	sthresholdBaseOffset = 0x20_1000
	sthresholdHartStride = 0x2000
	sclaimBaseOffset     = 0x20_1004
	sclaimHartStride     = 0x2000
)

// IRQ assignments spec.md §6 names.
const (
	IRQUart0 = 10
	IRQRTC   = 11
)

// Handler is invoked with the claimed IRQ number, dispatched from
// trap.ExternalInterrupt after Claim and before Complete.
type Handler func(irq uint32)

var handlers [64]Handler

// Register installs fn as irq's handler (spec.md §6 "dispatch to
// registered handler (e.g., UART)").
func Register(irq uint32, fn Handler) {
	handlers[irq] = fn
}

// Init sets up hart's supervisor context: every registered IRQ gets
// priority 1 (the lowest level that still fires, since priority 0
// means "never interrupt" on the PLIC), its enable bit is set, and
// the hart's threshold is left at 0 so any priority ≥ 1 is delivered.
func Init(hart uint64) {
	for irq := range handlers {
		if handlers[irq] != nil {
			SetPriority(uint32(irq), 1)
			SetEnabled(hart, uint32(irq), true)
		}
	}
	SetThreshold(hart, 0)
}

// Dispatch is trap.ExternalInterrupt's implementation: claim the
// pending IRQ, run its handler if one is registered, then complete it
// (spec.md §6 "on interrupt: read claim register -> nonzero IRQ;
// dispatch; write IRQ back to complete register").
func Dispatch(hart uint64) {
	irq := Claim(hart)
	if irq == 0 {
		return
	}
	if h := handlers[irq]; h != nil {
		h(irq)
	}
	Complete(hart, irq)
}
