// Package ksync is the semaphore/lock layer spec.md §4.6 specifies:
// a counting semaphore with a FIFO waiter queue, and a binary-
// semaphore-backed Lock with ownership tracking.
//
// Both block by delegating to a Scheduler implementation set once at
// boot by sched.Init — ksync cannot import sched directly (sched's
// thread-creation and ready-queue code in turn needs trap.Frame and
// will, once built, use ksync.Lock internally is not required, but
// kalloc's buckets do), so this package defines the narrow interface
// it needs and sched satisfies it. Grounded on the Scheduler-handoff
// shape the teacher uses between mazboot's scheduler_bootstrap.go and
// its lower-level trap/MMU packages: a small function-pointer/
// interface seam instead of a direct import.
package ksync

import "tinyos/internal/trap"

// Thread is an opaque handle to a blocked/runnable thread. sched.Thread
// satisfies this via a pointer-sized identity; ksync never looks
// inside it.
type Thread any

// Scheduler is the subset of the scheduler semaphores need: find out
// who is currently running, take it off the CPU, and put a previously
// blocked thread back onto the ready queue.
type Scheduler interface {
	Current() Thread
	Block()
	Unblock(t Thread)
}

var sched Scheduler

// SetScheduler installs the scheduler implementation. Called once by
// sched.Init during boot. Before that, Semaphore.Down panics if it has
// to block and Up panics if it has a waiter to wake, and every Lock
// method panics (matching spec.md's unconditional assumption that
// threads already exist by the time anything blocks).
func SetScheduler(s Scheduler) { sched = s }

// Semaphore is a counting semaphore with FIFO wakeup (spec.md §4.6
// "up wakes the longest-waiting thread").
type Semaphore struct {
	value   int
	waiters []Thread
}

// NewSemaphore returns a semaphore initialized to value.
func NewSemaphore(value int) *Semaphore {
	return &Semaphore{value: value}
}

// Down is spec.md's `down`: disable interrupts; while value == 0,
// enqueue the current thread and block; decrement; restore
// interrupts.
func (s *Semaphore) Down() {
	prev := trap.IntrDisable()
	for s.value == 0 {
		s.waiters = append(s.waiters, sched.Current())
		trap.IntrSetState(prev)
		sched.Block()
		prev = trap.IntrDisable()
	}
	s.value--
	trap.IntrSetState(prev)
}

// TryDown is spec.md's `try_down`: non-blocking, returns true iff the
// value was > 0.
func (s *Semaphore) TryDown() bool {
	prev := trap.IntrDisable()
	defer trap.IntrSetState(prev)
	if s.value == 0 {
		return false
	}
	s.value--
	return true
}

// Up is spec.md's `up`: disable interrupts; if a thread is waiting,
// pop the head (FIFO) and unblock it; increment; restore interrupts.
func (s *Semaphore) Up() {
	prev := trap.IntrDisable()
	if len(s.waiters) > 0 {
		woken := s.waiters[0]
		s.waiters = s.waiters[1:]
		sched.Unblock(woken)
	}
	s.value++
	trap.IntrSetState(prev)
}

// Lock is a mutual-exclusion lock layered atop a binary Semaphore,
// with ownership tracking (spec.md §4.6 "Lock").
type Lock struct {
	sem    *Semaphore
	holder Thread
}

// NewLock returns an unheld lock.
func NewLock() *Lock {
	return &Lock{sem: NewSemaphore(1)}
}

// Acquire blocks until the lock is free, then takes it. Panics if the
// current thread already holds it — recursive acquisition is
// disallowed by design (spec.md §5 "Nesting").
func (l *Lock) Acquire() {
	cur := sched.Current()
	if l.holder == cur && cur != nil {
		panic("ksync: recursive Lock.Acquire by current holder")
	}
	l.sem.Down()
	l.holder = cur
}

// TryAcquire mirrors Acquire without blocking.
func (l *Lock) TryAcquire() bool {
	cur := sched.Current()
	if l.holder == cur && cur != nil {
		panic("ksync: recursive Lock.TryAcquire by current holder")
	}
	if !l.sem.TryDown() {
		return false
	}
	l.holder = cur
	return true
}

// Release requires the current thread to hold the lock, clears the
// holder, and wakes the next waiter.
func (l *Lock) Release() {
	if l.holder != sched.Current() {
		panic("ksync: Lock.Release by non-holder")
	}
	l.holder = nil
	l.sem.Up()
}
