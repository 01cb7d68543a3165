package encoder

import (
	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// encodeCondSelect encodes CSEL/CSINC/CSINV/CSNEG: sf op 0 11010100 Rm cond
// op2 Rn Rd.
func encodeCondSelect(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRRRC {
		return 0, newErr(InvalidOperands, inst.Tag, "conditional select requires rrrc operands")
	}
	rd, rn, rm, cond := inst.RRRC()

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

	var op, op2 uint32
	switch inst.Tag {
	case mir.TagCsel:
		op, op2 = 0, 0b00
	case mir.TagCsinc:
		op, op2 = 0, 0b01
	case mir.TagCsinv:
		op, op2 = 1, 0b00
	case mir.TagCsneg:
		op, op2 = 1, 0b01
	}

	word := (sf << shiftSF) | (op << 30) | (0b11010100 << 21) | (rmID << 16) |
		(cond.Encoding() << 12) | (op2 << 10) | (rnID << 5) | rdID
	return word, nil
}

// encodeCondSet encodes CSET/CSETM, the CSINC/CSINV aliases with both
// source registers fixed to the zero register and the condition inverted
// (CSET Rd, cond == CSINC Rd, ZR, ZR, invert(cond)).
func encodeCondSet(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRCond {
		return 0, newErr(InvalidOperands, inst.Tag, "cset/csetm requires r_cond operands")
	}
	rd, cond := inst.RCond()
	zr := zrFor(rd)

	tag := mir.TagCsinc
	if inst.Tag == mir.TagCsetm {
		tag = mir.TagCsinv
	}
	return encodeCondSelect(mir.NewRRRC(tag, rd, zr, zr, cond.Negate()))
}

// encodeSystem encodes NOP/SVC/BRK/HINT, the fixed-layout "hint" and
// "exception generation" instruction classes.
func encodeSystem(inst mir.Inst) (uint32, *Error) {
	switch inst.Tag {
	case mir.TagNop:
		return 0xD503201F, nil
	case mir.TagHint:
		imm := inst.ImmOnly()
		if !imm.FitsUnsigned(7) {
			return 0, newErr(InvalidImmediate, inst.Tag, "hint immediate must fit 7 bits")
		}
		return 0xD5032000 | (uint32(imm.AsUnsigned()) << 5), nil
	case mir.TagSvc:
		imm := inst.ImmOnly()
		if !imm.FitsUnsigned(16) {
			return 0, newErr(InvalidImmediate, inst.Tag, "svc immediate must fit 16 bits")
		}
		return 0xD4000001 | (uint32(imm.AsUnsigned()) << 5), nil
	case mir.TagBrk:
		imm := inst.ImmOnly()
		if !imm.FitsUnsigned(16) {
			return 0, newErr(InvalidImmediate, inst.Tag, "brk immediate must fit 16 bits")
		}
		return 0xD4200000 | (uint32(imm.AsUnsigned()) << 5), nil
	default:
		return 0, newErr(UnimplementedInstruction, inst.Tag, "no system encoding for this tag")
	}
}

// encodeAtomic encodes the exclusive-pair minimal subset LDXR/STXR: size 0
// 0 1 0 0 0 L 1 Rs o0 111111 Rn Rt. LDXR has no status register (Rs field
// fixed to 11111); STXR's status register is the RRM layout's extra
// register operand.
func encodeAtomic(inst mir.Inst) (uint32, *Error) {
	switch inst.Tag {
	case mir.TagLdxr:
		if inst.Ops != mir.OpsRM {
			return 0, newErr(InvalidOperands, inst.Tag, "ldxr requires rm operands")
		}
		rt, mem := inst.RM()
		if mem.Kind != bits.MemImmediate || mem.Imm != 0 {
			return 0, newErr(InvalidOperands, inst.Tag, "ldxr/stxr support only a zero-offset base address")
		}
		sf, err := sfBit(inst.Tag, rt)
		if err != nil {
			return 0, err
		}
		rtID, err := gpReg(inst.Tag, rt, false)
		if err != nil {
			return 0, err
		}
		rnID, err := gpReg(inst.Tag, mem.Base, true)
		if err != nil {
			return 0, err
		}
		size := sizeWord
		if sf == 1 {
			size = sizeDouble
		}
		word := (uint32(size) << 30) | (0b001000 << 24) | (1 << 22) | (0b11111 << 16) | (0b111111 << 10) | (rnID << 5) | rtID
		return word, nil

	case mir.TagStxr:
		if inst.Ops != mir.OpsRRM {
			return 0, newErr(InvalidOperands, inst.Tag, "stxr requires rrm operands")
		}
		rs, rt, mem := inst.RRM()
		if mem.Kind != bits.MemImmediate || mem.Imm != 0 {
			return 0, newErr(InvalidOperands, inst.Tag, "ldxr/stxr support only a zero-offset base address")
		}
		sf, err := sfBit(inst.Tag, rt)
		if err != nil {
			return 0, err
		}
		rtID, err := gpReg(inst.Tag, rt, false)
		if err != nil {
			return 0, err
		}
		rnID, err := gpReg(inst.Tag, mem.Base, true)
		if err != nil {
			return 0, err
		}
		rsID, err := gpReg(inst.Tag, rs, false)
		if err != nil {
			return 0, err
		}
		size := sizeWord
		if sf == 1 {
			size = sizeDouble
		}
		word := (uint32(size) << 30) | (0b001000 << 24) | (0 << 22) | (rsID << 16) | (0b111111 << 10) | (rnID << 5) | rtID
		return word, nil

	default:
		return 0, newErr(UnimplementedInstruction, inst.Tag, "no atomic encoding for this tag")
	}
}

// encodeFP encodes the scalar double/single-precision FMOV/FADD/FSUB/FMUL/
// FDIV/FCMP subset, using the floating-point data-processing (2-source) and
// (1-source) classes plus the FP compare class.
func encodeFP(inst mir.Inst) (uint32, *Error) {
	switch inst.Tag {
	case mir.TagFmov:
		rd, rn := inst.RR()
		ftype, err := fpType(inst.Tag, rd, rn)
		if err != nil {
			return 0, err
		}
		rdID, err := vecReg(inst.Tag, rd)
		if err != nil {
			return 0, err
		}
		rnID, err := vecReg(inst.Tag, rn)
		if err != nil {
			return 0, err
		}
		return (0b0 << 31) | (0b0011110 << 24) | (ftype << 22) | (1 << 21) | (0b000000 << 15) | (0b10000 << 10) | (rnID << 5) | rdID, nil

	case mir.TagFadd, mir.TagFsub, mir.TagFmul, mir.TagFdiv:
		rd, rn, rm := inst.RRR()
		ftype, err := fpType(inst.Tag, rd, rn, rm)
		if err != nil {
			return 0, err
		}
		rdID, err := vecReg(inst.Tag, rd)
		if err != nil {
			return 0, err
		}
		rnID, err := vecReg(inst.Tag, rn)
		if err != nil {
			return 0, err
		}
		rmID, err := vecReg(inst.Tag, rm)
		if err != nil {
			return 0, err
		}
		var opcode uint32
		switch inst.Tag {
		case mir.TagFadd:
			opcode = 0b0010
		case mir.TagFsub:
			opcode = 0b0011
		case mir.TagFmul:
			opcode = 0b0000
		case mir.TagFdiv:
			opcode = 0b0001
		}
		word := (0b0 << 31) | (0b0011110 << 24) | (ftype << 22) | (1 << 21) | (rmID << 16) | (opcode << 12) | (0b10 << 10) | (rnID << 5) | rdID
		return word, nil

	case mir.TagFcmp:
		rn, rm := inst.RR()
		ftype, err := fpType(inst.Tag, rn, rm)
		if err != nil {
			return 0, err
		}
		rnID, err := vecReg(inst.Tag, rn)
		if err != nil {
			return 0, err
		}
		rmID, err := vecReg(inst.Tag, rm)
		if err != nil {
			return 0, err
		}
		word := (0b0 << 31) | (0b0011110 << 24) | (ftype << 22) | (1 << 21) | (rmID << 16) | (0b001000 << 10) | (rnID << 5) | (0b00000)
		return word, nil

	default:
		return 0, newErr(UnimplementedInstruction, inst.Tag, "no fp encoding for this tag")
	}
}

// fpType derives the 2-bit "type" field (00 = single, 01 = double) from a
// set of FP/vector register operands, requiring they all agree.
func fpType(tag mir.Tag, regs ...bits.Register) (uint32, *Error) {
	kind := -1
	for _, r := range regs {
		var this int
		switch {
		case r >= bits.S0 && r <= bits.S31:
			this = 0
		case r >= bits.D0 && r <= bits.D31:
			this = 1
		default:
			return 0, newErr(InvalidRegister, tag, "register %s is not a scalar S or D view", r)
		}
		if kind == -1 {
			kind = this
		} else if kind != this {
			return 0, newErr(InvalidOperands, tag, "mixed single/double precision operands in one instruction")
		}
	}
	return uint32(kind), nil
}

// encodeAdr encodes ADR: 0 immlo(2) 10000 immhi(19) Rd, a PC-relative
// address computation into a general-purpose register. The 21-bit signed
// offset is emitted as a zero placeholder split across immlo/immhi; lower
// routes it through the literal_19 relocation, which is reserved and
// hard-errors unless the caller opts in (see DESIGN.md).
func encodeAdr(inst mir.Inst) (uint32, *Error) {
	return encodeAdrForm(inst, 0)
}

// encodeAdrp encodes ADRP: 1 immlo(2) 10000 immhi(19) Rd, ADR's
// page-relative sibling (op bit set). Its offset is routed through the
// reserved adrp_page relocation instead of literal_19.
func encodeAdrp(inst mir.Inst) (uint32, *Error) {
	return encodeAdrForm(inst, 1)
}

// encodeAdrForm is the shared ADR/ADRP encoding: both take a destination
// register and a PC-relative target label (r_rel), differing only in the
// op bit (bit 31) that distinguishes byte-relative from page-relative.
func encodeAdrForm(inst mir.Inst, op uint32) (uint32, *Error) {
	if inst.Ops != mir.OpsRRel {
		return 0, newErr(InvalidOperands, inst.Tag, "adr/adrp requires r_rel operands (destination register, target label)")
	}
	rd, _ := inst.RRel()
	rdID, err := gpReg(inst.Tag, rd, false)
	if err != nil {
		return 0, err
	}
	word := (op << 31) | (0b10000 << 24) | rdID
	return word, nil
}
