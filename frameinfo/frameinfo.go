// Package frameinfo provides frame-layout bookkeeping helpers used by MIR
// producers when populating a Record's frame_locs table: alignment
// rounding and a simple bump-allocator style layout builder. It is a thin
// helper, not a contract the encoder or lower packages depend on directly
// (they only read Record.FrameLocs); grounded on the teacher's
// vm/memory.go and vm/stack_trace.go frame/stack bookkeeping.
package frameinfo

import (
	"fmt"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// AlignUp rounds size up to the next multiple of align. align must be a
// power of two.
func AlignUp(size, align uint32) uint32 {
	if align == 0 {
		return size
	}
	return (size + align - 1) &^ (align - 1)
}

// IsPowerOfTwo reports whether v is a power of two (v > 0).
func IsPowerOfTwo(v uint32) bool {
	return v > 0 && v&(v-1) == 0
}

// Layout builds a frame downward from 0 (matching AAPCS64's stack-grows-
// down convention): each Reserve call takes the next slot below the
// previously allocated region, aligned to the requested boundary.
type Layout struct {
	cursor int64
}

// NewLayout returns a Layout starting at frame offset 0.
func NewLayout() *Layout { return &Layout{} }

// Reserve carves out size bytes aligned to align, returning the FrameLoc to
// install for the caller's FrameIndex. align must be a power of two.
func (l *Layout) Reserve(size, align uint32) (mir.FrameLoc, error) {
	if !IsPowerOfTwo(align) {
		return mir.FrameLoc{}, fmt.Errorf("frameinfo: alignment %d is not a power of two", align)
	}
	next := l.cursor - int64(size)
	magnitude := AlignUp(uint32(-next), align)
	l.cursor = -int64(magnitude)
	return mir.FrameLoc{Offset: l.cursor, Size: size, Align: align}, nil
}

// Size returns the total bytes reserved so far, rounded up to align.
func (l *Layout) Size(align uint32) uint32 {
	return AlignUp(uint32(-l.cursor), align)
}

// BuildFixedFrame populates the fixed frame regions (ret_addr, base_ptr,
// args_frame, stack_frame, call_frame) on rec using the standard AAPCS64
// sizes: an 8-byte saved FP/LR pair at the top of the frame, followed by
// the caller-specified args/stack/call regions. It is a convenience for
// producers that don't need a custom layout.
func BuildFixedFrame(rec *mir.Record, argsSize, stackSize, callSize uint32) {
	l := NewLayout()

	retLoc, _ := l.Reserve(8, 8)
	rec.SetFrameLoc(bits.FrameIndex(bits.FrameRetAddr), retLoc)

	baseLoc, _ := l.Reserve(8, 8)
	rec.SetFrameLoc(bits.FrameIndex(bits.FrameBasePtr), baseLoc)

	if argsSize > 0 {
		argsLoc, _ := l.Reserve(argsSize, 8)
		rec.SetFrameLoc(bits.FrameIndex(bits.FrameArgsFrame), argsLoc)
	}
	if stackSize > 0 {
		stackLoc, _ := l.Reserve(stackSize, 16)
		rec.SetFrameLoc(bits.FrameIndex(bits.FrameStackFrame), stackLoc)
	}
	if callSize > 0 {
		callLoc, _ := l.Reserve(callSize, 16)
		rec.SetFrameLoc(bits.FrameIndex(bits.FrameCallFrame), callLoc)
	}
}
