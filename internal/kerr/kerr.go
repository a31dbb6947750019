// Package kerr is the kernel's one typed, non-fatal error value. Most
// of this kernel follows spec.md §7's propagation policy literally:
// allocators return nil/false and precondition violations panic. The
// call sites that fail gracefully with more than a bool to say
// (page-table range validation before any state is mutated) return a
// *kerr.Error; sched.Create reports failure by returning nil. They use it
// instead of importing the standard "errors" package's allocation-
// heavy formatting machinery.
//
// Grounded on gopher-os's kernel.Error
// (other_examples/.../gopher-os__kernel-mem-vmm-vmm.go.go uses
// *kernel.Error sentinels such as errUnrecoverableFault), the one place
// in the corpus that shows a typed kernel error used instead of a bare
// panic in a freestanding kernel.
package kerr

// Error is a static, allocation-free error value: a module tag plus a
// fixed message. It intentionally does not implement fmt.Stringer
// formatting of dynamic arguments — callers that need to report a
// faulting address or CSR value do so through kprint, not through the
// error value itself.
type Error struct {
	Module  string
	Message string
}

func (e *Error) Error() string {
	return e.Module + ": " + e.Message
}

// New constructs a reusable sentinel. Call once at package scope
// ("var ErrFoo = kerr.New(...)") rather than per call site.
func New(module, message string) *Error {
	return &Error{Module: module, Message: message}
}
