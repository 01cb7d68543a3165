// Package regmgr is a narrow free/busy bookkeeping layer over the ARM64
// register file. It enforces no control-flow-graph-wide invariants; it is a
// scoped allocator a caller consults one register request at a time.
// Grounded on vm/cpu.go's register-owning state (a flat table of "who holds
// this slot right now") and vm/register_trace.go's scoped
// record/release-on-exit discipline.
package regmgr

import "fmt"

// Kind classifies why a RegisterManager operation failed.
type Kind int

const (
	OutOfRegisters Kind = iota
	NotOwned
)

func (k Kind) String() string {
	switch k {
	case OutOfRegisters:
		return "OutOfRegisters"
	case NotOwned:
		return "NotOwned"
	default:
		return "UnknownRegMgrErrorKind"
	}
}

// Error reports a RegisterManager failure. Matches the encoder/lower
// typed-error shape (Kind discriminant, Error()); it wraps no cause, so it
// has no Unwrap().
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("regmgr: %s: %s", e.Kind, e.msg) }

func newOutOfRegistersError(class RegClass) *Error {
	return &Error{Kind: OutOfRegisters, msg: fmt.Sprintf("no free register in class %s", class)}
}
