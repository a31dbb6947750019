//go:build !riscv64

package clint

// Host build: no real CLINT MMIO window exists, so mtime and each
// hart's mtimecmp are backed by plain package state. This lets trap
// and sched drive the timer path under `go test` without touching raw
// physical addresses, mirroring internal/csr's csr_sim.go.
var sim struct {
	mtime    uint64
	mtimecmp map[uint64]uint64
}

func init() {
	sim.mtimecmp = make(map[uint64]uint64)
}

// ReadMtime returns the simulated free-running counter.
func ReadMtime() uint64 { return sim.mtime }

// ReadMtimecmp returns hart's current simulated deadline.
func ReadMtimecmp(hart uint64) uint64 { return sim.mtimecmp[hart] }

// WriteMtimecmp sets hart's simulated deadline.
func WriteMtimecmp(hart uint64, deadline uint64) { sim.mtimecmp[hart] = deadline }

// AdvanceMtime lets host tests simulate the passage of time without a
// real CLINT counting up on its own.
func AdvanceMtime(delta uint64) { sim.mtime += delta }
