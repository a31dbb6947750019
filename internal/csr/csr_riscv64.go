//go:build riscv64

package csr

// Machine-mode CSRs. Used only by the M-mode timer vector and the
// init path that hands control to S-mode.

//go:noescape
func ReadMhartid() uint64

//go:noescape
func ReadMstatus() uint64

//go:noescape
func WriteMstatus(v uint64)

//go:noescape
func ReadMtvec() uint64

//go:noescape
func WriteMtvec(v uint64)

//go:noescape
func WriteMedeleg(v uint64)

//go:noescape
func WriteMideleg(v uint64)

//go:noescape
func ReadMie() uint64

//go:noescape
func WriteMie(v uint64)

//go:noescape
func ReadMip() uint64

//go:noescape
func WriteMip(v uint64)

//go:noescape
func WriteMepc(v uint64)

//go:noescape
func ReadMscratch() uint64

//go:noescape
func WriteMscratch(v uint64)

// Supervisor-mode CSRs. Used by the S-mode trap vector, the scheduler,
// and the Sv39 page table manager.

//go:noescape
func ReadSstatus() uint64

//go:noescape
func WriteSstatus(v uint64)

//go:noescape
func WriteStvec(v uint64)

//go:noescape
func ReadSepc() uint64

//go:noescape
func WriteSepc(v uint64)

//go:noescape
func ReadScause() uint64

//go:noescape
func ReadStval() uint64

//go:noescape
func ReadSie() uint64

//go:noescape
func WriteSie(v uint64)

//go:noescape
func ReadSip() uint64

//go:noescape
func WriteSip(v uint64)

//go:noescape
func ReadSatp() uint64

//go:noescape
func WriteSatp(v uint64)

// SfenceVMA flushes the TLB. A zero argument flushes every entry.
//
//go:noescape
func SfenceVMA(vaddr uintptr)

// WFI parks the hart until the next interrupt.
func WFI()

// Mret performs the M-mode to S-mode privilege drop configured via
// mstatus.MPP and mepc.
func Mret()

// Sret returns from an S-mode trap, restoring sstatus/sepc.
func Sret()
