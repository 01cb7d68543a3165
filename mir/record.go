package mir

import "github.com/lookbusy1344/arm64cg/bits"

// Local describes one named local variable: an offset into StringBytes for
// its name, and an opaque type id meaningful only to the producer and the
// ABI classifier.
type Local struct {
	NameOffset uint32
	TypeID     uint32
}

// FrameLoc is one entry of the frame_locs table: the byte offset, size, and
// alignment of the region named by a FrameIndex. Offsets are in bytes;
// alignments are powers of two.
type FrameLoc struct {
	Offset int64
	Size   uint32
	Align  uint32
}

// Record is the MIR record handed in whole from the upstream IR-lowering
// stage to the Emit façade: a column-oriented instruction table plus the
// side arrays spec.md §3 describes. It is read-only for the duration of a
// Lower call; its producer owns its lifecycle.
type Record struct {
	// Tags, OpsKinds, and Datas are parallel arrays: index i is the i-th
	// MIR instruction's Tag/Ops/Data. This mirrors spec.md's "column-
	// oriented storage" option rather than a single []Inst slice, so that
	// a consumer walking only tags (e.g. the position-assignment pass)
	// need not touch Data at all.
	Tags     []Tag
	OpsKinds []Ops
	Datas    []Data

	// Extra is an out-of-line payload array for data that does not fit in
	// a fixed-size Data (e.g. a variable-length register list for a
	// future load/store-multiple extension). Unused by the instruction
	// set implemented today but retained per spec.md §3.
	Extra []uint32

	// StringBytes backs Locals' NameOffset and any other name references
	// the producer stores out-of-line.
	StringBytes []byte

	Locals []Local

	// FrameLocs is keyed by FrameIndex; invariant (spec.md §3): one entry
	// per distinct FrameIndex used by the instruction stream.
	FrameLocs map[bits.FrameIndex]FrameLoc

	// Table is a generic index used by the producer for cross-references
	// this package does not interpret (e.g. call-target symbol ids).
	Table []uint32
}

// NewRecord returns an empty Record ready for Append calls.
func NewRecord() *Record {
	return &Record{FrameLocs: make(map[bits.FrameIndex]FrameLoc)}
}

// Append adds inst as the next MIR instruction and returns its InstIndex.
func (r *Record) Append(inst Inst) InstIndex {
	idx := InstIndex(len(r.Tags))
	r.Tags = append(r.Tags, inst.Tag)
	r.OpsKinds = append(r.OpsKinds, inst.Ops)
	r.Datas = append(r.Datas, inst.Data)
	return idx
}

// Len returns the number of MIR instructions in the record.
func (r *Record) Len() int { return len(r.Tags) }

// At reassembles the instruction at idx from the parallel arrays.
func (r *Record) At(idx InstIndex) Inst {
	return Inst{Tag: r.Tags[idx], Ops: r.OpsKinds[idx], Data: r.Datas[idx]}
}

// InRange reports whether idx names a valid instruction in r.
func (r *Record) InRange(idx InstIndex) bool {
	return idx >= 0 && int(idx) < len(r.Tags)
}

// SetFrameLoc records the frame_locs entry for fi. Producers call this once
// per distinct FrameIndex used by the instruction stream, per spec.md §3's
// invariant.
func (r *Record) SetFrameLoc(fi bits.FrameIndex, loc FrameLoc) {
	if r.FrameLocs == nil {
		r.FrameLocs = make(map[bits.FrameIndex]FrameLoc)
	}
	r.FrameLocs[fi] = loc
}

// FrameLoc looks up the frame_locs entry for fi.
func (r *Record) FrameLoc(fi bits.FrameIndex) (FrameLoc, bool) {
	loc, ok := r.FrameLocs[fi]
	return loc, ok
}

// AddLocal appends name (recorded into StringBytes) with the given type id
// and returns the Local's index.
func (r *Record) AddLocal(name string, typeID uint32) int {
	off := uint32(len(r.StringBytes))
	r.StringBytes = append(r.StringBytes, name...)
	r.StringBytes = append(r.StringBytes, 0)
	r.Locals = append(r.Locals, Local{NameOffset: off, TypeID: typeID})
	return len(r.Locals) - 1
}

// LocalName returns the NUL-terminated name stored at NameOffset.
func (r *Record) LocalName(l Local) string {
	end := l.NameOffset
	for end < uint32(len(r.StringBytes)) && r.StringBytes[end] != 0 {
		end++
	}
	return string(r.StringBytes[l.NameOffset:end])
}

// ResolveFrameAddr resolves a FrameAddr to a base-plus-offset Memory operand
// against r's frame_locs table. It is the one MIR -> encoder seam that
// needs a lookup beyond what a MIR instruction carries directly (see
// SPEC_FULL.md §3.2).
func (r *Record) ResolveFrameAddr(fa bits.FrameAddr, base bits.Register) (bits.Memory, bool) {
	loc, ok := r.FrameLoc(fa.Index)
	if !ok {
		return bits.Memory{}, false
	}
	total := loc.Offset + int64(fa.Offset)
	return bits.ImmediateMemory(base, int32(total)), true
}
