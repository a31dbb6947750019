//go:build riscv64

package csr

// Each of these resolves to a symbol linker.ld defines; the assembly
// in linker_riscv64.s just takes that symbol's address, the same
// "$symbol(SB)" trick trapVectorAddr and kthreadTrampolineAddr use to
// hand a Go-side uintptr back to a linker-resolved address.

//go:noescape
func linkerTextStart() uintptr

//go:noescape
func linkerTextEnd() uintptr

//go:noescape
func linkerRodataStart() uintptr

//go:noescape
func linkerRodataEnd() uintptr

//go:noescape
func linkerDataStart() uintptr

//go:noescape
func linkerDataEnd() uintptr

//go:noescape
func linkerBssStart() uintptr

//go:noescape
func linkerBssEnd() uintptr

//go:noescape
func linkerStackTop() uintptr

//go:noescape
func linkerRamStart() uintptr

//go:noescape
func linkerHeapStart() uintptr

//go:noescape
func linkerHeapEnd() uintptr
