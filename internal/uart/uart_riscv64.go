//go:build riscv64

package uart

import "unsafe"

func load8(offset uintptr) byte {
	return *(*byte)(unsafe.Pointer(Base + offset))
}

func store8(offset uintptr, v byte) {
	*(*byte)(unsafe.Pointer(Base + offset)) = v
}
