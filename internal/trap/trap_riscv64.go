//go:build riscv64

package trap

import "tinyos/internal/csr"

// trapVectorAddr returns the address of the assembly trap vector
// s_trap_entry, backed by trap_riscv64.s.
//
//go:noescape
func trapVectorAddr() uintptr

// Init installs the S-mode trap vector in stvec, direct mode (the low
// two MODE bits left zero: every cause lands at the same address,
// spec.md §4.4).
func Init() {
	csr.WriteStvec(trapVectorAddr())
}
