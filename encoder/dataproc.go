package encoder

import (
	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// encodeAddSubShifted encodes ADD/SUB (shifted register): sf op S 01011
// shift(2) 0 Rm imm6 Rn Rd. Grounded structurally on the teacher's
// encodeDataProcessingArithmetic dispatch (one opcode-selection switch
// feeding a single field-packing tail), regrounded on AArch64's field
// layout per faddat-wazero's instr.go aluRRRShift family.
func encodeAddSubShifted(inst mir.Inst) (uint32, *Error) {
	rd, rn, rm, imm, shift, amount := operandsRRIShiftOrRRR(inst)
	_ = imm

	sf, err := sfBit(inst.Tag, rd, rn, rm)
	if err != nil {
		return 0, err
	}
	rdID, err := gpReg(inst.Tag, rd, false)
	if err != nil {
		return 0, err
	}
	rnID, err := gpReg(inst.Tag, rn, false)
	if err != nil {
		return 0, err
	}
	rmID, err := gpReg(inst.Tag, rm, false)
	if err != nil {
		return 0, err
	}
	if amount > 63 {
		return 0, newErr(InvalidImmediate, inst.Tag, "shift amount %d exceeds 6 bits", amount)
	}
	if shift == mir.ShiftROR {
		return 0, newErr(InvalidOperands, inst.Tag, "ROR is not a valid shift for add/sub")
	}

	var op uint32
	if inst.Tag == mir.TagSub {
		op = 1
	}
	word := (sf << shiftSF) | (op << shiftOp) | (addSubShiftedOpcode << 24) |
		(uint32(shift) << 22) | (rmID << 16) | (uint32(amount) << 10) | (rnID << 5) | rdID
	return word, nil
}

// operandsRRIShiftOrRRR extracts the common register/shift fields shared by
// the plain-RRR and RRIShift layouts the ALU opcodes accept: a plain RRR
// instruction is treated as an RRIShift with LSL #0.
func operandsRRIShiftOrRRR(inst mir.Inst) (rd, rn, rm bits.Register, imm bits.Immediate, shift mir.ShiftKind, amount uint8) {
	switch inst.Ops {
	case mir.OpsRRR:
		rd, rn, rm = inst.RRR()
		return rd, rn, rm, bits.Immediate{}, mir.ShiftLSL, 0
	case mir.OpsRRIShift:
		rd, rn, imm, shift, amount = inst.RRIShift()
		return rd, rn, bits.RegNone, imm, shift, amount
	default:
		return bits.RegNone, bits.RegNone, bits.RegNone, bits.Immediate{}, mir.ShiftLSL, 0
	}
}

// encodeAddSubImm encodes ADD/SUB (immediate): sf op S 100010 sh imm12 Rn Rd.
func encodeAddSubImm(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRRI {
		return 0, newErr(InvalidOperands, inst.Tag, "add/sub immediate requires rri operands")
	}
	rd, rn, imm := inst.RRI()

	sf, err := sfBit(inst.Tag, rd, rn)
	if err != nil {
		return 0, err
	}
	rdID, err := gpReg(inst.Tag, rd, true)
	if err != nil {
		return 0, err
	}
	rnID, err := gpReg(inst.Tag, rn, true)
	if err != nil {
		return 0, err
	}

	v := imm.AsUnsigned()
	var sh, imm12 uint32
	switch {
	case imm.FitsUnsigned(12):
		imm12 = uint32(v)
	case v&0xFFF == 0 && (v>>12) <= 0xFFF:
		sh = 1
		imm12 = uint32(v >> 12)
	default:
		return 0, newErr(InvalidImmediate, inst.Tag, "immediate 0x%x does not fit a 12-bit field with optional LSL #12", v)
	}

	var op uint32
	if inst.Tag == mir.TagSubImm {
		op = 1
	}
	word := (sf << shiftSF) | (op << shiftOp) | (0b100010 << 23) | (sh << 22) | (imm12 << 10) | (rnID << 5) | rdID
	return word, nil
}

// encodeLogicalShifted encodes AND/ORR/EOR/BIC/ORN/EON (shifted register):
// sf opc 01010 shift N Rm imm6 Rn Rd.
func encodeLogicalShifted(inst mir.Inst) (uint32, *Error) {
	rd, rn, rm, _, shift, amount := operandsRRIShiftOrRRR(inst)

	sf, err := sfBit(inst.Tag, rd, rn, rm)
	if err != nil {
		return 0, err
	}
	rdID, err := gpReg(inst.Tag, rd, false)
	if err != nil {
		return 0, err
	}
	rnID, err := gpReg(inst.Tag, rn, false)
	if err != nil {
		return 0, err
	}
	rmID, err := gpReg(inst.Tag, rm, false)
	if err != nil {
		return 0, err
	}

	var opc, n uint32
	switch inst.Tag {
	case mir.TagAnd:
		opc = 0b00
	case mir.TagOrr:
		opc = 0b01
	case mir.TagEor:
		opc = 0b10
	case mir.TagBic:
		opc, n = 0b00, 1
	case mir.TagOrn:
		opc, n = 0b01, 1
	case mir.TagEon:
		opc, n = 0b10, 1
	}

	word := (sf << shiftSF) | (opc << 29) | (logicalShiftedOp << 24) | (uint32(shift) << 22) |
		(n << shiftN) | (rmID << 16) | (uint32(amount) << 10) | (rnID << 5) | rdID
	return word, nil
}

// encodeLogicalImm encodes AND/ORR/EOR (immediate): sf opc 100100 N immr
// imms Rn Rd, where the 13-bit N:immr:imms field is the canonical ARM64
// "bitmask immediate" encoding of a repeating run of set bits.
func encodeLogicalImm(inst mir.Inst) (uint32, *Error) {
	rd, rn, bitmask := inst.RRBitmask()

	sf, err := sfBit(inst.Tag, rd, rn)
	if err != nil {
		return 0, err
	}
	rdID, err := gpReg(inst.Tag, rd, inst.Tag == mir.TagOrrImm)
	if err != nil {
		return 0, err
	}
	rnID, err := gpReg(inst.Tag, rn, false)
	if err != nil {
		return 0, err
	}

	width := 32
	if sf == 1 {
		width = 64
	}
	n, immr, imms, ok := EncodeBitmaskImmediate(bitmask, width)
	if !ok {
		return 0, newErr(InvalidImmediate, inst.Tag, "0x%x is not a valid logical-immediate bit pattern for width %d", bitmask, width)
	}

	var opc uint32
	switch inst.Tag {
	case mir.TagAndImm:
		opc = 0b00
	case mir.TagOrrImm:
		opc = 0b01
	case mir.TagEorImm:
		opc = 0b10
	}

	word := (sf << shiftSF) | (opc << 29) | (0b100100 << 23) | (n << 22) | (immr << 16) | (imms << 10) | (rnID << 5) | rdID
	return word, nil
}

// encodeCompare encodes CMP/CMN/TST as the corresponding flag-setting
// alias with a discarded destination (ZR): CMP = SUBS Rzr, Rn, Rm; CMN =
// ADDS Rzr, Rn, Rm; TST = ANDS Rzr, Rn, Rm.
func encodeCompare(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRR {
		return 0, newErr(InvalidOperands, inst.Tag, "compare requires rr operands (rn, rm)")
	}
	rn, rm := inst.RR()

	sf, err := sfBit(inst.Tag, rn, rm)
	if err != nil {
		return 0, err
	}
	rnID, err := gpReg(inst.Tag, rn, true)
	if err != nil {
		return 0, err
	}
	rmID, err := gpReg(inst.Tag, rm, false)
	if err != nil {
		return 0, err
	}

	var word uint32
	switch inst.Tag {
	case mir.TagCmp:
		word = (sf << shiftSF) | (1 << shiftOp) | (1 << shiftS) | (addSubShiftedOpcode << 24) | (rmID << 16) | (rnID << 5) | 31
	case mir.TagCmn:
		word = (sf << shiftSF) | (1 << shiftS) | (addSubShiftedOpcode << 24) | (rmID << 16) | (rnID << 5) | 31
	case mir.TagTst:
		word = (sf << shiftSF) | (0b11 << 29) | (logicalShiftedOp << 24) | (rmID << 16) | (rnID << 5) | 31
	}
	return word, nil
}

// encodeMultiply encodes MUL/MADD/MSUB (data-processing 3-source):
// sf 00 11011 000 Rm o0 Ra Rn Rd. MUL is the MADD alias with Ra = XZR.
func encodeMultiply(inst mir.Inst) (uint32, *Error) {
	var rd, rn, rm, ra bits.Register
	switch inst.Ops {
	case mir.OpsRRR:
		rd, rn, rm = inst.RRR()
		ra = zrFor(rd)
	case mir.OpsRRRR:
		rd, rn, rm, ra = inst.RRRR()
	default:
		return 0, newErr(InvalidOperands, inst.Tag, "multiply requires rrr or rrrr operands")
	}

	sf, err := sfBit(inst.Tag, rd, rn, rm, ra)
	if err != nil {
		return 0, err
	}
	rdID, err := gpReg(inst.Tag, rd, false)
	if err != nil {
		return 0, err
	}
	rnID, err := gpReg(inst.Tag, rn, false)
	if err != nil {
		return 0, err
	}
	rmID, err := gpReg(inst.Tag, rm, false)
	if err != nil {
		return 0, err
	}
	raID, err := gpReg(inst.Tag, ra, false)
	if err != nil {
		return 0, err
	}

	var o0 uint32
	if inst.Tag == mir.TagMSub {
		o0 = 1
	}
	word := (sf << shiftSF) | (0b11011 << 24) | (rmID << 16) | (o0 << 15) | (raID << 10) | (rnID << 5) | rdID
	return word, nil
}

func zrFor(like bits.Register) bits.Register {
	if like.Is32() {
		return bits.WZR
	}
	return bits.XZR
}

// encodeDivide encodes SDIV/UDIV (data-processing 2-source):
// sf 0 0 11010110 Rm opcode(6) Rn Rd.
func encodeDivide(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRRR {
		return 0, newErr(InvalidOperands, inst.Tag, "divide requires rrr operands")
	}
	rd, rn, rm := inst.RRR()

	sf, err := sfBit(inst.Tag, rd, rn, rm)
	if err != nil {
		return 0, err
	}
	rdID, err := gpReg(inst.Tag, rd, false)
	if err != nil {
		return 0, err
	}
	rnID, err := gpReg(inst.Tag, rn, false)
	if err != nil {
		return 0, err
	}
	rmID, err := gpReg(inst.Tag, rm, false)
	if err != nil {
		return 0, err
	}

	var opcode uint32 = 0b000010 // UDIV
	if inst.Tag == mir.TagSDiv {
		opcode = 0b000011
	}
	word := (sf << shiftSF) | (0b11010110 << 21) | (rmID << 16) | (opcode << 10) | (rnID << 5) | rdID
	return word, nil
}

// encodeShiftReg encodes LSLV/LSRV/ASRV/RORV (data-processing 2-source),
// the base encodings that LSL/LSR/ASR/ROR (register) are aliases of.
func encodeShiftReg(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRRR {
		return 0, newErr(InvalidOperands, inst.Tag, "shift-by-register requires rrr operands")
	}
	rd, rn, rm := inst.RRR()

	sf, err := sfBit(inst.Tag, rd, rn, rm)
	if err != nil {
		return 0, err
	}
	rdID, err := gpReg(inst.Tag, rd, false)
	if err != nil {
		return 0, err
	}
	rnID, err := gpReg(inst.Tag, rn, false)
	if err != nil {
		return 0, err
	}
	rmID, err := gpReg(inst.Tag, rm, false)
	if err != nil {
		return 0, err
	}

	var opcode uint32
	switch inst.Tag {
	case mir.TagLslv:
		opcode = 0b001000
	case mir.TagLsrv:
		opcode = 0b001001
	case mir.TagAsrv:
		opcode = 0b001010
	case mir.TagRorv:
		opcode = 0b001011
	}
	word := (sf << shiftSF) | (0b11010110 << 21) | (rmID << 16) | (opcode << 10) | (rnID << 5) | rdID
	return word, nil
}

// encodeMoveWide encodes MOVZ/MOVN/MOVK: sf opc 100101 hw imm16 Rd.
func encodeMoveWide(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRI {
		return 0, newErr(InvalidOperands, inst.Tag, "move-wide requires ri operands")
	}
	rd, imm, shiftAmt := inst.RIShift()

	sf, err := sfBit(inst.Tag, rd)
	if err != nil {
		return 0, err
	}
	rdID, err := gpReg(inst.Tag, rd, false)
	if err != nil {
		return 0, err
	}

	if shiftAmt != 0 && shiftAmt != 16 && shiftAmt != 32 && shiftAmt != 48 {
		return 0, newErr(InvalidImmediate, inst.Tag, "move-wide shift must be one of 0,16,32,48, got %d", shiftAmt)
	}
	if sf == 0 && shiftAmt > 16 {
		return 0, newErr(InvalidImmediate, inst.Tag, "32-bit move-wide shift must be 0 or 16")
	}
	if !imm.FitsUnsigned(16) {
		return 0, newErr(InvalidImmediate, inst.Tag, "move-wide immediate must fit in 16 bits")
	}
	hw := uint32(shiftAmt) / 16
	imm16 := uint32(imm.AsUnsigned())

	var opc uint32
	switch inst.Tag {
	case mir.TagMovn:
		opc = 0b00
	case mir.TagMovz:
		opc = 0b10
	case mir.TagMovk:
		opc = 0b11
	}
	word := (sf << shiftSF) | (opc << 29) | (moveWideOpcode << 23) | (hw << 21) | (imm16 << 5) | rdID
	return word, nil
}

// encodeMovReg encodes the MOV (register) alias: ORR Rd, ZR, Rm.
func encodeMovReg(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRR {
		return 0, newErr(InvalidOperands, inst.Tag, "mov requires rr operands")
	}
	rd, rm := inst.RR()
	return encodeLogicalShifted(mir.NewRRR(mir.TagOrr, rd, zrFor(rd), rm))
}
