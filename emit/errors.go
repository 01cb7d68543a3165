package emit

import (
	"fmt"

	"github.com/lookbusy1344/arm64cg/lower"
)

// Kind classifies why Function failed.
type Kind int

const (
	LowerFailed Kind = iota
	WriteFailed
)

func (k Kind) String() string {
	switch k {
	case LowerFailed:
		return "LowerFailed"
	case WriteFailed:
		return "WriteFailed"
	default:
		return "UnknownEmitErrorKind"
	}
}

// Error reports an emit failure.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string { return fmt.Sprintf("emit: %s: %v", e.Kind, e.Cause) }
func (e *Error) Unwrap() error { return e.Cause }

func newLowerFailedError(cause *lower.Error) *Error {
	return &Error{Kind: LowerFailed, Cause: cause}
}

func newWriteFailedError(cause error) *Error {
	return &Error{Kind: WriteFailed, Cause: cause}
}
