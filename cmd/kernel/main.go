//go:build riscv64

// Command kernel is Tiny OS's bootable image. boot_riscv64.s's _start
// zeros BSS, installs hart 0's stack, and calls into kernelInit
// (machine mode); kernelInit configures the M-mode-only state the rest
// of the kernel never touches again and drops to kernelMain
// (supervisor mode), which runs the rest of spec.md §2's bring-up:
// "pmm_init → vmm_init + map kernel sections → enable paging →
// trap_init → malloc_init → scheduler_start".
//
// Grounded on the teacher's KernelMain/kernelMainBody split
// (src/mazboot/golang/main/kernel.go): a minimal, early entry function
// that gets the hardware into a state Go code can safely run in,
// followed by a body that does the actual subsystem bring-up and never
// returns. The M-mode/S-mode split itself has no teacher analogue
// (the teacher boots straight into EL1 via QEMU's -kernel loader) and
// is built directly from spec.md §3's data flow and §4.4's M-mode
// timer vector description.
package main

import (
	"unsafe"

	"tinyos/internal/clint"
	"tinyos/internal/csr"
	"tinyos/internal/kalloc"
	"tinyos/internal/kpanic"
	"tinyos/internal/kprint"
	"tinyos/internal/plic"
	"tinyos/internal/pmm"
	"tinyos/internal/sched"
	"tinyos/internal/trap"
	"tinyos/internal/uart"
	"tinyos/internal/vmm"
)

// Synchronous-exception bits this kernel delegates to S-mode, so they
// land in trap.Dispatch via stvec instead of trapping to M-mode.
// Mirrors exactly the cause codes internal/trap's dispatchException
// switches on; bit 9 (ecall from S) is included for symmetry even
// though the privileged spec never actually lets S delegate to itself.
const exceptionDelegationMask = 0 |
	1<<0 | 1<<1 | 1<<2 | 1<<3 | 1<<4 | 1<<5 | 1<<6 | 1<<7 | 1<<8 | 1<<9 |
	1<<12 | 1<<13 | 1<<15

// Interrupt bits delegated to S-mode: supervisor software and
// external. The timer bit is deliberately left to M-mode — mip.STIP
// is never hardware-generated, only synthesized by m_timer_vector
// (spec.md §4.4), so there is nothing to delegate for it.
const interruptDelegationMask = uint64(csr.SSIE | csr.SEIE)

// bootHartID carries the hart ID kernelInit read from mhartid across
// the privilege drop: mret abandons whatever the Go calling
// convention left in the argument registers, so kernelMain reads this
// package variable instead of trusting a0 to have survived.
var bootHartID uint64

// mscratchArea is the per-hart M-mode timer vector's working set
// (spec.md §4.4: "mtimecmp_addr, interval, scratch0, scratch1,
// scratch2"). Sized for one hart since bring-up restricts execution
// to hart 0 (spec.md's multi-hart non-goal).
var mscratchArea [5]uint64

//go:noescape
func mTimerVectorAddr() uintptr

//go:noescape
func kernelMainAddr() uintptr

// kernelInit runs in machine mode, called directly by _start once
// BSS is zeroed and hart 0's stack installed. It is the "init"
// stage of spec.md §3's "boot → init (M-mode) → main (S-mode)" data
// flow: configure exception/interrupt delegation, arm the M-mode
// timer vector and its scratch area, then mret into kernelMain.
func kernelInit(hartid uint64) {
	bootHartID = hartid

	csr.WriteMedeleg(exceptionDelegationMask)
	csr.WriteMideleg(interruptDelegationMask)

	mscratchArea[0] = clint.Base + 0x4000 + 8*hartid // mtimecmp_addr
	mscratchArea[1] = clint.Interval                 // interval
	csr.WriteMscratch(uint64(uintptr(unsafe.Pointer(&mscratchArea[0]))))

	csr.WriteMtvec(mTimerVectorAddr())
	clint.Init(hartid)
	csr.WriteMie(csr.ReadMie() | csr.MTIE)

	mstatus := csr.ReadMstatus() &^ uint64(csr.MPPMaskS)
	csr.WriteMstatus(mstatus | csr.MPPMaskS)
	csr.WriteMepc(kernelMainAddr())
	csr.Mret()
}

// kernelMain is mepc's target once kernelInit's mret drops to
// supervisor mode. It is "main (S-mode)" in spec.md §3's data flow and
// never returns: the last thing it does is arm the scheduler and wait
// for the first timer tick.
func kernelMain() {
	hart := bootHartID

	uart.Init()
	kprint.Init(uart.Putc)
	kpanic.Init()
	kprint.Printf("tinyos: hart %d booting\n", hart)

	heapStart := csr.LinkerSymbol("__heap_start")
	heapEnd := csr.LinkerSymbol("__heap_end")
	heap := unsafe.Slice((*byte)(unsafe.Pointer(heapStart)), heapEnd-heapStart)
	alloc := pmm.New(heap, heapStart, 0)
	kprint.Printf("tinyos: pmm_init: %d pages from %#x\n", alloc.NumPages(), heapStart)

	mgr, ok := vmm.New(alloc)
	if !ok {
		kpanic.Panicf("vmm_init: out of memory for root page table")
	}
	mapKernelSections(mgr)

	csr.WriteSatp(csr.MakeSatp(mgr.RootPPN()))
	csr.SfenceVMA(0)
	kprint.Printf("tinyos: paging enabled, satp=%#x\n", csr.ReadSatp())

	trap.Init()
	plic.Register(plic.IRQUart0, uart.HandleInterrupt)
	trap.ExternalInterrupt = func() { plic.Dispatch(hart) }
	plic.Init(hart)

	heapAlloc := kalloc.New(alloc)
	selfTest(heapAlloc)

	sched.Init(hart, alloc)

	csr.WriteSstatus(csr.ReadSstatus() | csr.SIE)
	csr.WriteSie(csr.ReadSie() | csr.STIE | csr.SEIE)
	kprint.Printf("tinyos: scheduler_start\n")

	for {
		csr.WFI()
	}
}

// region is one identity-mapped window: a linked section, the boot
// stack, the heap, or an MMIO device window.
type region struct {
	name       string
	start, end uintptr
	perm       uint64
}

// mapKernelSections installs the identity map spec.md §4.2 requires
// ("identity-mapping kernel text/rodata/data/bss/stack/heap and device
// MMIO windows... with appropriate R/W/X flags"), reading section
// boundaries from the linker script rather than hardcoding them.
func mapKernelSections(mgr *vmm.Manager) {
	regions := []region{
		{"text", csr.LinkerSymbol("__text_start"), csr.LinkerSymbol("__text_end"), vmm.PteR | vmm.PteX | vmm.PteG},
		{"rodata", csr.LinkerSymbol("__rodata_start"), csr.LinkerSymbol("__rodata_end"), vmm.PteR | vmm.PteG},
		{"data", csr.LinkerSymbol("__data_start"), csr.LinkerSymbol("__data_end"), vmm.PteR | vmm.PteW | vmm.PteG},
		{"bss", csr.LinkerSymbol("__bss_start"), csr.LinkerSymbol("__bss_end"), vmm.PteR | vmm.PteW | vmm.PteG},
		{"stack", csr.LinkerSymbol("__bss_end"), csr.LinkerSymbol("__stack_top"), vmm.PteR | vmm.PteW | vmm.PteG},
		{"heap", csr.LinkerSymbol("__heap_start"), csr.LinkerSymbol("__heap_end"), vmm.PteR | vmm.PteW | vmm.PteG},
		{"uart0", uart.Base, uart.Base + 0x1000, vmm.PteR | vmm.PteW | vmm.PteG},
		{"clint", clint.Base, clint.Base + 0x10000, vmm.PteR | vmm.PteW | vmm.PteG},
		{"plic", plic.Base, plic.Base + 0x0400_0000, vmm.PteR | vmm.PteW | vmm.PteG},
	}
	for _, r := range regions {
		if err := mgr.MapRange(r.start, r.start, r.end-r.start, r.perm); err != nil {
			kpanic.Panicf("vmm_init: mapping %s [%#x,%#x) failed", r.name, r.start, r.end)
		}
	}
}

// selfTest is a minimal post-init smoke check: allocate and free a
// scratch buffer through the bucket allocator, the way the teacher's
// SimpleTestKernel exercises a fresh subsystem with a trivial
// operation right after bringing it up.
func selfTest(a *kalloc.Allocator) {
	p := a.Malloc(128)
	if p == nil {
		kpanic.Panicf("malloc_init: self-test allocation failed")
	}
	a.Free(p)
	kprint.Printf("tinyos: malloc_init: self-test ok\n")
}
