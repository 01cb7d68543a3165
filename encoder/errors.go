package encoder

import (
	"fmt"

	"github.com/lookbusy1344/arm64cg/mir"
)

// Kind classifies why an instruction failed to encode, matching spec.md
// §4.1's error taxonomy (Overflow and CodegenFail live in the lower
// package, which is the stage that actually folds branch offsets).
type Kind int

const (
	InvalidImmediate Kind = iota
	InvalidOperands
	InvalidRegister
	PseudoInstruction
	UnimplementedInstruction
)

func (k Kind) String() string {
	switch k {
	case InvalidImmediate:
		return "InvalidImmediate"
	case InvalidOperands:
		return "InvalidOperands"
	case InvalidRegister:
		return "InvalidRegister"
	case PseudoInstruction:
		return "PseudoInstruction"
	case UnimplementedInstruction:
		return "UnimplementedInstruction"
	default:
		return "UnknownEncodingErrorKind"
	}
}

// Error reports an encoding failure for one instruction, grounded on the
// teacher's encoder/errors.go EncodingError shape (typed error,
// Error()/Unwrap(), context carried alongside the message).
type Error struct {
	Kind    Kind
	Tag     mir.Tag
	Index   mir.InstIndex
	HasIdx  bool
	Message string
}

func (e *Error) Error() string {
	if e.HasIdx {
		return fmt.Sprintf("encode %s at mir[%d]: %s: %s", e.Tag, e.Index, e.Kind, e.Message)
	}
	return fmt.Sprintf("encode %s: %s: %s", e.Tag, e.Kind, e.Message)
}

func newErr(kind Kind, tag mir.Tag, format string, args ...any) *Error {
	return &Error{Kind: kind, Tag: tag, Message: fmt.Sprintf(format, args...)}
}

// WithIndex returns a copy of e annotated with the MIR index it occurred
// at. Lower calls this when it has positional context the pure encoder
// does not.
func (e *Error) WithIndex(idx mir.InstIndex) *Error {
	cp := *e
	cp.Index = idx
	cp.HasIdx = true
	return &cp
}
