package lower

import (
	"fmt"

	"github.com/lookbusy1344/arm64cg/encoder"
	"github.com/lookbusy1344/arm64cg/mir"
)

// Kind classifies why lowering failed. EncodeFailed wraps an *encoder.Error
// hit during pass 2; Overflow and CodegenFail are specific to pass 3, per
// spec.md §4.2.
type Kind int

const (
	EncodeFailed Kind = iota
	Overflow
	CodegenFail
)

func (k Kind) String() string {
	switch k {
	case EncodeFailed:
		return "EncodeFailed"
	case Overflow:
		return "Overflow"
	case CodegenFail:
		return "CodegenFail"
	default:
		return "UnknownLowerErrorKind"
	}
}

// Error reports a lowering failure. Grounded on the teacher's
// parser/errors.go typed-error shape (Error()/Unwrap(), a wrapped cause
// alongside a discriminant).
type Error struct {
	Kind  Kind
	Index mir.InstIndex
	Cause *encoder.Error
	msg   string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lower: %s at mir[%d]: %v", e.Kind, e.Index, e.Cause)
	}
	return fmt.Sprintf("lower: %s at mir[%d]: %s", e.Kind, e.Index, e.msg)
}

func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return nil
}

func newEncodeFailedError(idx mir.InstIndex, cause *encoder.Error) *Error {
	return &Error{Kind: EncodeFailed, Index: idx, Cause: cause.WithIndex(idx)}
}

func newOverflowError(idx mir.InstIndex, format string, args ...any) *Error {
	return &Error{Kind: Overflow, Index: idx, msg: fmt.Sprintf(format, args...)}
}

func newCodegenFailError(idx mir.InstIndex, format string, args ...any) *Error {
	return &Error{Kind: CodegenFail, Index: idx, msg: fmt.Sprintf(format, args...)}
}
