package bits

// FrameIndexKind discriminates the fixed regions of the callee frame that a
// FrameIndex may name. Values beyond the fixed set are user-extensible,
// starting at FrameIndexUserBase.
type FrameIndexKind int

const (
	FrameRetAddr FrameIndexKind = iota
	FrameBasePtr
	FrameArgsFrame
	FrameStackFrame
	FrameCallFrame

	// FrameIndexUserBase is the first value available to caller-defined
	// frame regions (spill slots, locals, …).
	FrameIndexUserBase
)

// FrameIndex identifies a region of the callee frame. Values < FrameIndexUserBase
// name one of the fixed regions above; values >= FrameIndexUserBase are
// opaque caller-assigned identifiers.
type FrameIndex int

// Kind reports which fixed region fi names, or FrameIndexUserBase if fi is
// a user-defined index.
func (fi FrameIndex) Kind() FrameIndexKind {
	if int(fi) >= int(FrameIndexUserBase) {
		return FrameIndexUserBase
	}
	return FrameIndexKind(fi)
}

// FrameAddr pairs a frame index with a signed byte offset into that region.
type FrameAddr struct {
	Index  FrameIndex
	Offset int32
}
