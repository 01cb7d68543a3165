// Package emit is the top-level façade spec.md §4.3 and §2 describe:
// construct a Lower over a MIR record, drive the three-pass pipeline, then
// stream the resulting words little-endian into a byte sink and forward
// pseudo-instruction debug markers to a debug-info sink. Grounded on
// service/debugger_service.go's orchestration-over-subsystems shape
// (construct the subsystem, drive it, report results through a narrow
// interface) and loader/loader.go's byte-sink-consumption idiom (walk a
// MIR-shaped source in order, write derived bytes out as you go).
package emit

import (
	"encoding/binary"
	"io"

	"github.com/lookbusy1344/arm64cg/dbginfo"
	"github.com/lookbusy1344/arm64cg/lower"
	"github.com/lookbusy1344/arm64cg/mir"
)

// Options tunes one Function call. DebugSink may be nil: debug markers are
// simply not reported in that case, matching spec.md §5's "cross-function
// parallelism requires... distinct sinks" by leaving sink selection to the
// caller rather than this package.
type Options struct {
	Name      string
	Lower     lower.Options
	DebugSink dbginfo.Sink
}

// Function runs the full emit pipeline for one MIR record: lower it, write
// every resulting word little-endian to out in MIR order, and — if
// opts.DebugSink is set — report the function's byte span and every
// pseudo-instruction marker encountered along the way.
//
// Per spec.md §5's ordering guarantee, relocation patching happens inside
// Lower strictly before any word reaches out, so out never observes a
// placeholder immediate. An error aborts mid-stream: out may already hold
// leading words (spec.md §7's "callers wanting atomicity must wrap the
// sink").
func Function(out io.Writer, rec *mir.Record, opts Options) (uint64, *Error) {
	startOffset, err := currentOffset(out)
	if err != nil {
		return 0, err
	}

	result, lowerErr := lower.LowerMir(rec, opts.Lower)
	if lowerErr != nil {
		return 0, newLowerFailedError(lowerErr)
	}

	var buf [4]byte
	offset := startOffset
	for _, word := range result.Instructions {
		binary.LittleEndian.PutUint32(buf[:], word)
		if _, werr := out.Write(buf[:]); werr != nil {
			return offset - startOffset, newWriteFailedError(werr)
		}
		offset += 4
	}

	if opts.DebugSink != nil {
		reportDebugMarkers(opts.DebugSink, rec, result, startOffset)
		opts.DebugSink.FunctionBody(opts.Name, startOffset, offset, rec)
	}

	return offset - startOffset, nil
}

// reportDebugMarkers walks rec in order and forwards every pseudo
// instruction to sink, tagged with the byte offset of the next real
// instruction — the same position lower's position-assignment pass
// resolves it to (spec.md §4.2 point 1), converted from instruction units
// to bytes and shifted by the function's own start offset.
func reportDebugMarkers(sink dbginfo.Sink, rec *mir.Record, result *lower.Result, startOffset uint64) {
	for i := 0; i < rec.Len(); i++ {
		idx := mir.InstIndex(i)
		inst := rec.At(idx)
		if !inst.Tag.IsPseudo() {
			continue
		}
		wordPos := result.BranchTargets[idx]
		byteOffset := startOffset + uint64(wordPos)*4
		sink.Marker(byteOffset, inst)
	}
}

// currentOffset reports out's current position if it exposes one (an
// io.Seeker), else 0: most emit sinks are append-only writers (a growing
// byte buffer, a section of an object file already positioned by the
// caller) and have no meaningful absolute offset to seek to.
func currentOffset(out io.Writer) (uint64, *Error) {
	seeker, ok := out.(io.Seeker)
	if !ok {
		return 0, nil
	}
	pos, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, newWriteFailedError(err)
	}
	return uint64(pos), nil
}
