package csr

import "testing"

func TestLinkerSymbolDispatchesKnownNames(t *testing.T) {
	cases := map[string]uintptr{
		"__text_start":   simTextStart,
		"__text_end":     simTextEnd,
		"__rodata_start": simRodataStart,
		"__bss_end":      simBssEnd,
		"__stack_top":    simStackTop,
		"__heap_start":   simHeapStart,
		"__heap_end":     simHeapEnd,
	}
	for name, want := range cases {
		if got := LinkerSymbol(name); got != want {
			t.Errorf("LinkerSymbol(%q) = %#x, want %#x", name, got, want)
		}
	}
}

func TestLinkerSymbolUnknownNameReturnsZero(t *testing.T) {
	if got := LinkerSymbol("__not_a_symbol"); got != 0 {
		t.Errorf("LinkerSymbol(unknown) = %#x, want 0", got)
	}
}

func TestLinkerSymbolRangesAreOrderedAndNonOverlapping(t *testing.T) {
	order := []string{
		"__ram_start", "__text_start", "__text_end",
		"__rodata_start", "__rodata_end",
		"__data_start", "__data_end",
		"__bss_start", "__bss_end",
		"__stack_top", "__heap_start", "__heap_end",
	}
	prev := uintptr(0)
	for _, name := range order {
		v := LinkerSymbol(name)
		if v < prev {
			t.Fatalf("%s = %#x precedes previous symbol %#x", name, v, prev)
		}
		prev = v
	}
}
