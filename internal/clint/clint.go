// Package clint is the Core Local Interruptor driver: per-hart timer
// programming via mtimecmp/mtime, per spec.md §6's "CLINT protocol"
// and §4.4's "M-mode timer vector".
//
// Grounded on src/go/mazarin's ARM64 generic-timer init (program a
// deadline register, enable the timer interrupt line, arm mstatus/mie
// equivalents) re-targeted from the ARM64 CNTP_* system registers to
// RISC-V's memory-mapped mtimecmp/mtime. Like internal/csr, the actual
// register access is split by build tag: clint_riscv64.go reads/writes
// real MMIO, clint_sim.go backs the same functions with a plain
// in-memory counter so callers (trap, sched) are host-testable.
package clint

// Base is CLINT's physical base address (spec.md §6 "CLINT: 0x0200_0000").
const Base uintptr = 0x0200_0000

const (
	mtimeOffset        = 0xbff8
	mtimecmpBaseOffset = 0x4000
)

// Interval is the tick interval in mtime units this kernel reprograms
// mtimecmp by on every fire (spec.md §4.4's TIMER_INTERVAL). QEMU
// virt's CLINT runs mtime at 10 MHz; ~10ms per tick.
const Interval = 100_000

// ArmNext reprograms hart's deadline to now + Interval, the action the
// M-mode timer vector takes on every fire (spec.md §4.4: "Reads
// mtimecmp and TIMER_INTERVAL; writes mtimecmp = mtime + interval").
func ArmNext(hart uint64) {
	WriteMtimecmp(hart, ReadMtime()+Interval)
}

// Init arms the first deadline for hart. Called once per hart before
// mstatus.MIE/mie.MTIE are enabled (spec.md §6 "CLINT protocol: On
// init per hart: store mtimecmp = mtime + INTERVAL").
func Init(hart uint64) {
	ArmNext(hart)
}
