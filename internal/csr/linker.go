package csr

// LinkerSymbol returns the runtime address of a linker-script symbol
// (cmd/kernel/linker.ld). It is the typed equivalent of the teacher's
// getLinkerSymbol dispatch (src/mazboot/golang/main/memory.go), which
// switches on a symbol name and calls into its mazboot/asm package's
// per-symbol getters; this package plays the same role for the two
// symbol sources cmd/kernel needs: section boundaries (for mapping)
// and the stack/heap split (for sizing the page allocator's arena).
// An unrecognized name returns 0, same as the teacher's default case.
func LinkerSymbol(name string) uintptr {
	switch name {
	case "__text_start":
		return linkerTextStart()
	case "__text_end":
		return linkerTextEnd()
	case "__rodata_start":
		return linkerRodataStart()
	case "__rodata_end":
		return linkerRodataEnd()
	case "__data_start":
		return linkerDataStart()
	case "__data_end":
		return linkerDataEnd()
	case "__bss_start":
		return linkerBssStart()
	case "__bss_end":
		return linkerBssEnd()
	case "__stack_top":
		return linkerStackTop()
	case "__ram_start":
		return linkerRamStart()
	case "__heap_start":
		return linkerHeapStart()
	case "__heap_end":
		return linkerHeapEnd()
	default:
		return 0
	}
}
