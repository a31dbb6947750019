//go:build !riscv64

package csr

// Host build: there is no RISC-V CPU to read CSRs from, so this file
// backs every wrapper with an in-memory register file. It exists so
// vmm, trap, and sched — all written directly against this package's
// API — can run their algorithmic cores under `go test` on the host,
// mirroring the dependency-injection-for-testability split the corpus
// itself uses for bare-metal-only code.
var regs struct {
	mstatus, mtvec, medeleg, mideleg, mie, mip, mepc, mscratch uint64
	sstatus, stvec, sepc, scause, stval, sie, sip, satp        uint64
}

func ReadMhartid() uint64    { return 0 }
func ReadMstatus() uint64    { return regs.mstatus }
func WriteMstatus(v uint64)  { regs.mstatus = v }
func ReadMtvec() uint64      { return regs.mtvec }
func WriteMtvec(v uint64)    { regs.mtvec = v }
func WriteMedeleg(v uint64)  { regs.medeleg = v }
func WriteMideleg(v uint64)  { regs.mideleg = v }
func ReadMie() uint64        { return regs.mie }
func WriteMie(v uint64)      { regs.mie = v }
func ReadMip() uint64        { return regs.mip }
func WriteMip(v uint64)      { regs.mip = v }
func WriteMepc(v uint64)     { regs.mepc = v }
func ReadMscratch() uint64   { return regs.mscratch }
func WriteMscratch(v uint64) { regs.mscratch = v }

func ReadSstatus() uint64   { return regs.sstatus }
func WriteSstatus(v uint64) { regs.sstatus = v }
func WriteStvec(v uint64)   { regs.stvec = v }
func ReadSepc() uint64      { return regs.sepc }
func WriteSepc(v uint64)    { regs.sepc = v }
func ReadScause() uint64    { return regs.scause }
func ReadStval() uint64     { return regs.stval }
func ReadSie() uint64       { return regs.sie }
func WriteSie(v uint64)     { regs.sie = v }
func ReadSip() uint64       { return regs.sip }
func WriteSip(v uint64)     { regs.sip = v }
func ReadSatp() uint64      { return regs.satp }
func WriteSatp(v uint64)    { regs.satp = v }

func SfenceVMA(vaddr uintptr) {}
func WFI()                    {}
func Mret()                   {}
func Sret()                   {}

// SetScauseStval lets host tests inject a trap cause without a real
// trap vector firing.
func SetScauseStval(cause, tval uint64) {
	regs.scause, regs.stval = cause, tval
}
