//go:build riscv64

package plic

import "unsafe"

func load32(addr uintptr) uint32  { return *(*uint32)(unsafe.Pointer(addr)) }
func store32(addr uintptr, v uint32) { *(*uint32)(unsafe.Pointer(addr)) = v }

func priorityAddr(irq uint32) uintptr {
	return Base + priorityOffset + uintptr(4*irq)
}

func enableAddr(hart uint64, irq uint32) (addr uintptr, bit uint32) {
	word := irq / 32
	bit = irq % 32
	addr = Base + senableBaseOffset + uintptr(hart)*senableHartStride + uintptr(4*word)
	return
}

func thresholdAddr(hart uint64) uintptr {
	return Base + sthresholdBaseOffset + uintptr(hart)*sthresholdHartStride
}

func claimAddr(hart uint64) uintptr {
	return Base + sclaimBaseOffset + uintptr(hart)*sclaimHartStride
}

// SetPriority sets irq's priority (0-7; 0 disables it entirely).
func SetPriority(irq uint32, priority uint32) {
	store32(priorityAddr(irq), priority)
}

// SetEnabled sets or clears hart's enable bit for irq.
func SetEnabled(hart uint64, irq uint32, enabled bool) {
	addr, bit := enableAddr(hart, irq)
	v := load32(addr)
	if enabled {
		v |= 1 << bit
	} else {
		v &^= 1 << bit
	}
	store32(addr, v)
}

// SetThreshold sets hart's priority threshold (0-7); only IRQs with a
// strictly higher priority are delivered.
func SetThreshold(hart uint64, threshold uint32) {
	store32(thresholdAddr(hart), threshold)
}

// Claim reads hart's claim register, returning the pending IRQ number
// (0 if none).
func Claim(hart uint64) uint32 {
	return load32(claimAddr(hart))
}

// Complete writes irq back to hart's complete register.
func Complete(hart uint64, irq uint32) {
	store32(claimAddr(hart), irq)
}
