package mir

import "github.com/lookbusy1344/arm64cg/bits"

// InstIndex names a MIR instruction by its position in a Record's
// instruction table. Branch-carrying variants (Rel, RRel, RC) use it to
// name their target; it is also the key into Lower's branch_targets map.
type InstIndex int

// ShiftKind is the shift applied to the second register operand of an
// RRIShift-laid-out instruction (add/sub/logical shifted-register forms).
type ShiftKind int

const (
	ShiftLSL ShiftKind = iota
	ShiftLSR
	ShiftASR
	ShiftROR
)

// Data carries the concrete operand values for one instruction. Only the
// fields relevant to the instruction's Ops discriminant are meaningful;
// the constructor functions below populate exactly the matching subset, and
// the Inst accessors panic if called against the wrong Ops value so that a
// caller can never silently read a stale field from a previous variant.
type Data struct {
	Rd, Rn, Rm, Ra bits.Register
	Mem            bits.Memory
	Imm            bits.Immediate
	Shift          ShiftKind
	// ShiftAmount is the RRIShift shift count for add/sub/logical shifted
	// forms, and doubles as the move-wide (movz/movn/movk) hw shift amount
	// (0, 16, 32, or 48) for OpsRI instructions built with NewRIShift.
	ShiftAmount uint8
	Cond           bits.Condition
	Bitmask        uint64
	Lsb, Width     uint8

	Target    InstIndex
	HasTarget bool

	// Pseudo payloads.
	Line, Column int
	BlockName    string
}

// Inst is one MIR instruction: an opcode tag, the operand-layout
// discriminant it was constructed with, and its operand data.
type Inst struct {
	Tag  Tag
	Ops  Ops
	Data Data
}

func mustOps(i Inst, want Ops) {
	if i.Ops != want {
		panic("mir: operand access on wrong Ops variant: have " + i.Ops.String() + ", want " + want.String())
	}
}

// R returns the single register operand of an OpsR instruction.
func (i Inst) R() bits.Register { mustOps(i, OpsR); return i.Data.Rd }

// RR returns the (dest, src) registers of an OpsRR instruction.
func (i Inst) RR() (rd, rn bits.Register) { mustOps(i, OpsRR); return i.Data.Rd, i.Data.Rn }

// RRR returns the (dest, src1, src2) registers of an OpsRRR instruction.
func (i Inst) RRR() (rd, rn, rm bits.Register) {
	mustOps(i, OpsRRR)
	return i.Data.Rd, i.Data.Rn, i.Data.Rm
}

// RRRR returns the four registers of an OpsRRRR instruction (e.g. madd).
func (i Inst) RRRR() (rd, rn, rm, ra bits.Register) {
	mustOps(i, OpsRRRR)
	return i.Data.Rd, i.Data.Rn, i.Data.Rm, i.Data.Ra
}

// RI returns the (register, immediate) pair of an OpsRI instruction. For
// the move-wide family (movz/movn/movk) this is the register and the
// 16-bit immediate only; use RIShift to also read the hw shift amount.
func (i Inst) RI() (rd bits.Register, imm bits.Immediate) {
	mustOps(i, OpsRI)
	return i.Data.Rd, i.Data.Imm
}

// RIShift returns the (register, immediate, shift) triple of an OpsRI
// instruction. shift is the move-wide hw shift amount in {0, 16, 32, 48};
// NewRI instructions (and any fixture-decoded instruction with no shift
// field) carry shift 0.
func (i Inst) RIShift() (rd bits.Register, imm bits.Immediate, shift uint8) {
	mustOps(i, OpsRI)
	return i.Data.Rd, i.Data.Imm, i.Data.ShiftAmount
}

// RRI returns the (dest, src, immediate) triple of an OpsRRI instruction.
func (i Inst) RRI() (rd, rn bits.Register, imm bits.Immediate) {
	mustOps(i, OpsRRI)
	return i.Data.Rd, i.Data.Rn, i.Data.Imm
}

// RRIShift returns the registers, immediate, and shift of an OpsRRIShift
// instruction.
func (i Inst) RRIShift() (rd, rn bits.Register, imm bits.Immediate, shift ShiftKind, amount uint8) {
	mustOps(i, OpsRRIShift)
	return i.Data.Rd, i.Data.Rn, i.Data.Imm, i.Data.Shift, i.Data.ShiftAmount
}

// RM returns the (register, memory) pair of an OpsRM instruction (load).
func (i Inst) RM() (rd bits.Register, mem bits.Memory) {
	mustOps(i, OpsRM)
	return i.Data.Rd, i.Data.Mem
}

// MR returns the (memory, register) pair of an OpsMR instruction (store).
func (i Inst) MR() (mem bits.Memory, rd bits.Register) {
	mustOps(i, OpsMR)
	return i.Data.Mem, i.Data.Rd
}

// RRM returns the (dest, extra-reg, memory) triple of an OpsRRM
// instruction (e.g. ldxr-with-status).
func (i Inst) RRM() (rd, rn bits.Register, mem bits.Memory) {
	mustOps(i, OpsRRM)
	return i.Data.Rd, i.Data.Rn, i.Data.Mem
}

// MRR returns the (memory, register, register) triple of an OpsMRR
// instruction (load/store pair).
func (i Inst) MRR() (mem bits.Memory, rt, rt2 bits.Register) {
	mustOps(i, OpsMRR)
	return i.Data.Mem, i.Data.Rd, i.Data.Rn
}

// RRRC returns the registers and condition of an OpsRRRC instruction
// (csel-family).
func (i Inst) RRRC() (rd, rn, rm bits.Register, cond bits.Condition) {
	mustOps(i, OpsRRRC)
	return i.Data.Rd, i.Data.Rn, i.Data.Rm, i.Data.Cond
}

// RRC returns the registers and condition of an OpsRRC instruction
// (ccmp-family).
func (i Inst) RRC() (rn, rm bits.Register, cond bits.Condition) {
	mustOps(i, OpsRRC)
	return i.Data.Rn, i.Data.Rm, i.Data.Cond
}

// RC returns the condition and target of an OpsRC instruction (b.cond). Rn
// is unused for this family and reads as RegNone.
func (i Inst) RC() (rn bits.Register, cond bits.Condition, target InstIndex, hasTarget bool) {
	mustOps(i, OpsRC)
	return i.Data.Rn, i.Data.Cond, i.Data.Target, i.Data.HasTarget
}

// RCond returns the (register, condition) pair of an OpsRCond instruction
// (cset/csetm).
func (i Inst) RCond() (rd bits.Register, cond bits.Condition) {
	mustOps(i, OpsRCond)
	return i.Data.Rd, i.Data.Cond
}

// Rel returns the branch target of an OpsRel instruction (b/bl).
func (i Inst) Rel() InstIndex { mustOps(i, OpsRel); return i.Data.Target }

// RRel returns the register and branch target of an OpsRRel instruction
// (cbz/cbnz/tbz/tbnz with a materialized target, or a register-carrying
// conditional branch).
func (i Inst) RRel() (rn bits.Register, target InstIndex) {
	mustOps(i, OpsRRel)
	return i.Data.Rn, i.Data.Target
}

// RRBitmask returns the registers and logical-immediate bitmask of an
// OpsRRBitmask instruction.
func (i Inst) RRBitmask() (rd, rn bits.Register, bitmask uint64) {
	mustOps(i, OpsRRBitmask)
	return i.Data.Rd, i.Data.Rn, i.Data.Bitmask
}

// ImmOnly returns the bare immediate of an OpsImm instruction (svc/brk/hint).
func (i Inst) ImmOnly() bits.Immediate { mustOps(i, OpsImm); return i.Data.Imm }

// DbgLine returns the line/column of a pseudo_dbg_line instruction.
func (i Inst) DbgLine() (line, column int) {
	mustOps(i, OpsPseudoDbgLine)
	return i.Data.Line, i.Data.Column
}

// Dead returns the register named dead by a pseudo_dead instruction.
func (i Inst) Dead() bits.Register { mustOps(i, OpsPseudoDead); return i.Data.Rd }

// Spill returns the (register, memory) pair of a pseudo_spill instruction.
func (i Inst) Spill() (reg bits.Register, mem bits.Memory) {
	mustOps(i, OpsPseudoSpill)
	return i.Data.Rd, i.Data.Mem
}

// Reload returns the (memory, register) pair of a pseudo_reload instruction.
func (i Inst) Reload() (mem bits.Memory, reg bits.Register) {
	mustOps(i, OpsPseudoReload)
	return i.Data.Mem, i.Data.Rd
}

// --- constructors -----------------------------------------------------

func NewR(tag Tag, rd bits.Register) Inst {
	return Inst{Tag: tag, Ops: OpsR, Data: Data{Rd: rd}}
}

func NewRR(tag Tag, rd, rn bits.Register) Inst {
	return Inst{Tag: tag, Ops: OpsRR, Data: Data{Rd: rd, Rn: rn}}
}

func NewRRR(tag Tag, rd, rn, rm bits.Register) Inst {
	return Inst{Tag: tag, Ops: OpsRRR, Data: Data{Rd: rd, Rn: rn, Rm: rm}}
}

func NewRRRR(tag Tag, rd, rn, rm, ra bits.Register) Inst {
	return Inst{Tag: tag, Ops: OpsRRRR, Data: Data{Rd: rd, Rn: rn, Rm: rm, Ra: ra}}
}

func NewRI(tag Tag, rd bits.Register, imm bits.Immediate) Inst {
	return Inst{Tag: tag, Ops: OpsRI, Data: Data{Rd: rd, Imm: imm}}
}

// NewRIShift builds a move-wide (movz/movn/movk) instruction with an
// explicit hw shift amount (0, 16, 32, or 48); the encoder rejects any
// other value.
func NewRIShift(tag Tag, rd bits.Register, imm bits.Immediate, shift uint8) Inst {
	return Inst{Tag: tag, Ops: OpsRI, Data: Data{Rd: rd, Imm: imm, ShiftAmount: shift}}
}

func NewRRI(tag Tag, rd, rn bits.Register, imm bits.Immediate) Inst {
	return Inst{Tag: tag, Ops: OpsRRI, Data: Data{Rd: rd, Rn: rn, Imm: imm}}
}

func NewRRIShift(tag Tag, rd, rn bits.Register, imm bits.Immediate, shift ShiftKind, amount uint8) Inst {
	return Inst{Tag: tag, Ops: OpsRRIShift, Data: Data{Rd: rd, Rn: rn, Imm: imm, Shift: shift, ShiftAmount: amount}}
}

func NewRM(tag Tag, rd bits.Register, mem bits.Memory) Inst {
	return Inst{Tag: tag, Ops: OpsRM, Data: Data{Rd: rd, Mem: mem}}
}

func NewMR(tag Tag, mem bits.Memory, rd bits.Register) Inst {
	return Inst{Tag: tag, Ops: OpsMR, Data: Data{Rd: rd, Mem: mem}}
}

func NewMRR(tag Tag, mem bits.Memory, rt, rt2 bits.Register) Inst {
	return Inst{Tag: tag, Ops: OpsMRR, Data: Data{Mem: mem, Rd: rt, Rn: rt2}}
}

func NewRRRC(tag Tag, rd, rn, rm bits.Register, cond bits.Condition) Inst {
	return Inst{Tag: tag, Ops: OpsRRRC, Data: Data{Rd: rd, Rn: rn, Rm: rm, Cond: cond}}
}

func NewRCond(tag Tag, rd bits.Register, cond bits.Condition) Inst {
	return Inst{Tag: tag, Ops: OpsRCond, Data: Data{Rd: rd, Cond: cond}}
}

func NewRel(tag Tag, target InstIndex) Inst {
	return Inst{Tag: tag, Ops: OpsRel, Data: Data{Target: target, HasTarget: true}}
}

func NewRRel(tag Tag, rn bits.Register, target InstIndex) Inst {
	return Inst{Tag: tag, Ops: OpsRRel, Data: Data{Rn: rn, Target: target, HasTarget: true}}
}

// NewRC constructs a b.cond instruction. The target must already be
// materialized (see DESIGN.md's Open Question decision): hasTarget is
// always true for instructions that reach lowerMir.
func NewRC(tag Tag, cond bits.Condition, target InstIndex) Inst {
	return Inst{Tag: tag, Ops: OpsRC, Data: Data{Cond: cond, Target: target, HasTarget: true}}
}

// NewRRelBit constructs a tbz/tbnz instruction: register, tested bit
// number, and branch target.
func NewRRelBit(tag Tag, rn bits.Register, bitNum uint8, target InstIndex) Inst {
	return Inst{Tag: tag, Ops: OpsRRel, Data: Data{Rn: rn, Lsb: bitNum, Target: target, HasTarget: true}}
}

func NewRRBitmask(tag Tag, rd, rn bits.Register, bitmask uint64) Inst {
	return Inst{Tag: tag, Ops: OpsRRBitmask, Data: Data{Rd: rd, Rn: rn, Bitmask: bitmask}}
}

func NewImm(tag Tag, imm bits.Immediate) Inst {
	return Inst{Tag: tag, Ops: OpsImm, Data: Data{Imm: imm}}
}

func NewRaw(word uint32) Inst {
	return Inst{Tag: TagRaw, Ops: OpsImm, Data: Data{Imm: bits.UnsignedImmediate(uint64(word))}}
}

func NewDbgLine(line, column int) Inst {
	return Inst{Tag: TagDbgLine, Ops: OpsPseudoDbgLine, Data: Data{Line: line, Column: column}}
}

func NewPseudo(tag Tag) Inst {
	return Inst{Tag: tag, Ops: OpsPseudoNone}
}

func NewDead(reg bits.Register) Inst {
	return Inst{Tag: TagDead, Ops: OpsPseudoDead, Data: Data{Rd: reg}}
}

func NewSpill(reg bits.Register, mem bits.Memory) Inst {
	return Inst{Tag: TagSpill, Ops: OpsPseudoSpill, Data: Data{Rd: reg, Mem: mem}}
}

func NewReload(mem bits.Memory, reg bits.Register) Inst {
	return Inst{Tag: TagReload, Ops: OpsPseudoReload, Data: Data{Rd: reg, Mem: mem}}
}
