//go:build riscv64

package clint

import "unsafe"

func mtimecmpAddr(hart uint64) uintptr {
	return Base + mtimecmpBaseOffset + uintptr(8*hart)
}

func mtimeAddr() uintptr {
	return Base + mtimeOffset
}

// ReadMtime returns the free-running mtime counter.
func ReadMtime() uint64 {
	return *(*uint64)(unsafe.Pointer(mtimeAddr()))
}

// ReadMtimecmp returns hart's current timer deadline.
func ReadMtimecmp(hart uint64) uint64 {
	return *(*uint64)(unsafe.Pointer(mtimecmpAddr(hart)))
}

// WriteMtimecmp sets hart's timer deadline.
func WriteMtimecmp(hart uint64, deadline uint64) {
	*(*uint64)(unsafe.Pointer(mtimecmpAddr(hart))) = deadline
}
