// Package sched is the thread lifecycle and preemptive round-robin
// scheduler of spec.md §4.5: thread states, the ready queue, quantum
// accounting on every timer tick, and kthread_create's stack-page-plus-
// initial-context construction protocol.
//
// Grounded on src/mazboot/golang/main/goroutine.go's shape (a thread
// object carrying its own saved-context pointer, a package-level
// "current" slot, and a blocking primitive built from it) but
// re-targeted from delegating to the Go runtime's g/m/p scheduler to
// spec.md's PintOS-style explicit state machine: this package owns
// the ready queue and context switch itself rather than bootstrapping
// runtime.g0/m0 the way scheduler_bootstrap.go does.
//
// sched is written against an explicit hartID parameter at every
// entry point rather than a bare global (DESIGN.md Open Question #4),
// so a future second hart only needs its own ready-queue/tid-allocator
// lock granularity; this repository never drives hart != 0.
package sched

import (
	"unsafe"

	"tinyos/internal/ksync"
	"tinyos/internal/list"
	"tinyos/internal/pmm"
	"tinyos/internal/trap"
)

// TID is a thread identifier, unique for the process lifetime.
type TID uint32

// State is a Thread's position in spec.md's NEW -> READY -> RUNNING ->
// {BLOCKED, READY, DEAD} lifecycle.
type State int

const (
	StateNew State = iota
	StateReady
	StateRunning
	StateBlocked
	StateDead
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateReady:
		return "READY"
	case StateRunning:
		return "RUNNING"
	case StateBlocked:
		return "BLOCKED"
	case StateDead:
		return "DEAD"
	default:
		return "?"
	}
}

// ThreadMagic is the stack-overflow sentinel spec.md's Thread carries
// for life; thread_current (here Current) checks it on every call.
const ThreadMagic = 0x54687244 // "ThrD"

// TimeSlice is the quantum in timer ticks (spec.md §4.5 "e.g., 10000").
const TimeSlice = 10000

// Process groups threads sharing one address space. This kernel never
// builds more than the kernel's own process, but thread_exit still
// deregisters from it on death (spec.md §4.5 "__schedule_tail").
type Process struct {
	Name    string
	threads int
}

// Thread is the per-thread metadata. It is an ordinary Go value kept
// apart from the thread's page-sized kernel stack: no byte of this
// struct is stored in that page, and the page (pmm.PageBytes) holds
// only the stack and, on riscv64, the initial context. The fields
// mirror spec.md's layout closely enough that a reader can move
// between the two.
type Thread struct {
	Magic    uint32
	TID      TID
	Name     string
	state    State
	Process  *Process
	ExitCode int
	Quantum  uint32
	ctx      uintptr // saved sp; meaningless while state == StateRunning
	stack    pmm.Frame
	hasStack bool
	node     list.Node[*Thread]

	// entry/arg are kthread_create's fn/arg (spec.md §4.5). The
	// riscv64 trampoline reads them back through the Thread pointer it
	// carries in the synthetic context's saved register slot; the host
	// build never invokes them, since a freshly created thread only
	// actually starts running under that trampoline (see
	// context_riscv64.go / context_sim.go).
	entry func(unsafe.Pointer)
	arg   unsafe.Pointer
}

// State reports t's current lifecycle state (read under IntrDisable by
// callers that need a consistent snapshot).
func (t *Thread) State() State { return t.state }

func (t *Thread) checkMagic() {
	if t.Magic != ThreadMagic {
		panic("sched: thread magic corrupted, stack overflow suspected")
	}
}

const maxHarts = 8

type hartState struct {
	current *Thread
	idle    *Thread
}

var harts [maxHarts]hartState
var ready = list.New[*Thread]()
var nextTID TID = 1
var kernelProc = &Process{Name: "kernel"}

// allocator is the page source every thread's stack comes from,
// recorded by Init so scheduleTail can free a DEAD thread's page
// without threading an *pmm.Allocator through every schedule() call.
var allocator *pmm.Allocator

// allocThread allocates one page via alloc for a thread's kernel stack
// and returns a new Thread header together with that page's bytes. The
// header is not written into the page; the whole page is left to the
// stack.
func allocThread(alloc *pmm.Allocator, name string) (*Thread, []byte, bool) {
	f, ok := alloc.AllocPages(0)
	if !ok {
		return nil, nil, false
	}
	page := alloc.PageBytes(f)
	t := &Thread{
		Magic:   ThreadMagic,
		TID:     nextTID,
		Name:    name,
		state:   StateNew,
		Process: kernelProc,
		Quantum: TimeSlice,
		stack:   f,
	}
	t.hasStack = true
	nextTID++
	kernelProc.threads++
	return t, page, true
}

// Init brings up hart's scheduler: creates its idle thread, installs
// this package as ksync's Scheduler and wires trap.TimerTick to
// Tick(hart). Every call does all three, replacing what an earlier
// call installed.
func Init(hart uint64, alloc *pmm.Allocator) {
	allocator = alloc
	idle, _, ok := allocThread(alloc, "idle")
	if !ok {
		panic("sched: cannot allocate idle thread stack")
	}
	idle.state = StateRunning
	harts[hart].idle = idle
	harts[hart].current = idle

	ksync.SetScheduler(hartScheduler{hart: hart})
	trap.TimerTick = func() { Tick(hart) }
}

// Current returns the thread running on hart right now.
func Current(hart uint64) *Thread {
	t := harts[hart].current
	if t != nil {
		t.checkMagic()
	}
	return t
}

// Create is kthread_create: allocates a stack, builds the initial
// context the first context switch into this thread expects to find
// (buildInitialContext), and enqueues it READY through the "mark
// BLOCKED, call thread_unblock" sequence. On riscv64, fn runs once the
// thread is scheduled, via the switch trampoline and runThread; Create
// never calls it directly.
func Create(alloc *pmm.Allocator, name string, fn func(arg unsafe.Pointer), arg unsafe.Pointer) *Thread {
	t, page, ok := allocThread(alloc, name)
	if !ok {
		return nil
	}
	t.entry = fn
	t.arg = arg
	t.state = StateBlocked
	t.ctx = buildInitialContext(t, page)
	Unblock(t)
	return t
}

// runThread is the Go-level landing site the riscv64 trampoline calls
// once __schedule_tail has run: it enables interrupts, runs the
// thread's entry point, then exits with code 0 (spec.md §4.5 "kthread
// enables interrupts, calls fn(arg), then thread_exit(0)").
func runThread(hart uint64, t *Thread) {
	trap.IntrEnable()
	if t.entry != nil {
		t.entry(t.arg)
	}
	Exit(hart, 0)
}

// Tick is scheduler_tick: called from trap.TimerTick on every
// supervisor timer interrupt. Decrements the running thread's
// quantum; at zero, yields it.
func Tick(hart uint64) {
	prev := trap.IntrDisable()
	cur := harts[hart].current
	if cur != nil && cur != harts[hart].idle {
		if cur.Quantum > 0 {
			cur.Quantum--
		}
		if cur.Quantum == 0 {
			trap.IntrSetState(prev)
			Yield(hart)
			return
		}
	}
	trap.IntrSetState(prev)
}

// Yield is thread_yield: enqueues the running thread at the ready
// queue's tail (unless it is the idle thread) and calls Schedule.
func Yield(hart uint64) {
	prev := trap.IntrDisable()
	cur := harts[hart].current
	if cur != nil {
		cur.state = StateReady
		if cur != harts[hart].idle {
			ready.PushBack(&cur.node, cur)
		}
	}
	schedule(hart)
	trap.IntrSetState(prev)
}

// Block is thread_block: the running thread leaves the CPU without
// going back on the ready queue (a semaphore wait, typically).
func Block(hart uint64) {
	prev := trap.IntrDisable()
	cur := harts[hart].current
	if cur != nil {
		cur.state = StateBlocked
	}
	schedule(hart)
	trap.IntrSetState(prev)
}

// Unblock is thread_unblock: marks t READY and enqueues it at the
// ready queue's tail. t may be NEW (first enqueue from Create) or
// BLOCKED (woken by a semaphore's Up).
func Unblock(t *Thread) {
	prev := trap.IntrDisable()
	t.state = StateReady
	ready.PushBack(&t.node, t)
	trap.IntrSetState(prev)
}

// Exit is thread_exit: marks the running thread DEAD and schedules
// away from it. Its stack is freed by the next schedule step's
// __schedule_tail, not by Exit itself, because the calling thread's
// own stack is still in use at the point Exit calls schedule (spec.md
// §4.5 "DEAD threads are freed by the next scheduling step").
func Exit(hart uint64, code int) {
	prev := trap.IntrDisable()
	cur := harts[hart].current
	if cur != nil {
		cur.state = StateDead
		cur.ExitCode = code
	}
	schedule(hart)
	trap.IntrSetState(prev)
	panic("sched: Exit returned")
}

// schedule is `schedule`: caller must hold interrupts disabled and the
// calling thread's state must already be != RUNNING. Picks the next
// ready thread (or the idle thread if none is ready) and switches to
// it. Runs scheduleTail's bookkeeping on the new thread's "stack"
// (here: synchronously, since Go's own goroutine stack already is the
// kernel stack in the host/simulated build).
func schedule(hart uint64) {
	prev := harts[hart].current
	var next *Thread
	if n, ok := ready.PopFront(); ok {
		next = n
	} else {
		next = harts[hart].idle
	}
	harts[hart].current = next
	if prev != next {
		switchTo(prev, next)
	}
	scheduleTail(prev, next)
}

// switchTo performs the low-level stack swap (switch_contexts). On
// bare metal this is the assembly routine that saves callee-saved
// registers and the return address at sp, stores sp into prev.ctx,
// loads next.ctx, and returns into the new thread where it last called
// switchContexts (or into the trampoline, for a thread that has never
// run). In the host build switchContexts only updates the sentinel
// context values (see context_sim.go); no thread body runs.
func switchTo(prev, next *Thread) {
	var scratch uintptr
	curCtx := &scratch
	if prev != nil {
		curCtx = &prev.ctx
	}
	switchContexts(curCtx, &next.ctx)
}

// scheduleTail is __schedule_tail(prev): marks the new current thread
// RUNNING, resets its quantum, and if prev died frees its stack page
// and deregisters it from its process.
func scheduleTail(prev, next *Thread) {
	next.state = StateRunning
	next.Quantum = TimeSlice
	if prev != nil && prev.state == StateDead {
		prev.Process.threads--
		if prev.hasStack && allocator != nil {
			allocator.FreePages(prev.stack, 0)
			prev.hasStack = false
		}
	}
}

// hartScheduler adapts this package's hart-indexed API to the
// ksync.Scheduler interface, which (being shared by every Semaphore
// regardless of which hart created it) has no hart parameter of its
// own; this kernel only ever installs one for hart 0.
type hartScheduler struct{ hart uint64 }

func (h hartScheduler) Current() ksync.Thread { return Current(h.hart) }
func (h hartScheduler) Block()                { Block(h.hart) }
func (h hartScheduler) Unblock(t ksync.Thread) {
	th, ok := t.(*Thread)
	if !ok || th == nil {
		return
	}
	Unblock(th)
}
