package encoder

import (
	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// branchPlaceholder is the immediate value emitted for every branch-carrying
// instruction; lower's patch pass overwrites it once branch_targets is
// known, per spec.md §4.2's "encode with a placeholder zero immediate".
const branchPlaceholder = 0

// encodeBranch encodes B/BL: op 00101 imm26, op=0 for B, 1 for BL.
func encodeBranch(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRel {
		return 0, newErr(InvalidOperands, inst.Tag, "b/bl requires rel operands")
	}
	var op uint32
	if inst.Tag == mir.TagBl {
		op = 1
	}
	word := (op << 31) | (uncondBranchOpcode << 26) | (branchPlaceholder & mask26Bit)
	return word, nil
}

// encodeBranchReg encodes BR/BLR/RET: 1101011 opc(4) 00 op2(5) op3(6) Rn
// op4(5). opc selects BR(0000)/BLR(0001)/RET(0010); op2/op3/op4 are fixed
// at 11111/000000/00000 for all three.
func encodeBranchReg(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsR {
		return 0, newErr(InvalidOperands, inst.Tag, "br/blr/ret requires r operands")
	}
	rn := inst.R()
	if rn == bits.RegNone {
		rn = bits.LR // bare "ret" defaults to the link register
	}
	rnID, err := gpReg(inst.Tag, rn, false)
	if err != nil {
		return 0, err
	}

	var opc uint32
	switch inst.Tag {
	case mir.TagBr:
		opc = 0b0000
	case mir.TagBlr:
		opc = 0b0001
	case mir.TagRet:
		opc = 0b0010
	}
	word := (0b1101011 << 25) | (opc << 21) | (0b11111 << 16) | (rnID << 5)
	return word, nil
}

// encodeBranchCond encodes B.cond: 0101010 0 imm19 0 cond.
func encodeBranchCond(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRC {
		return 0, newErr(InvalidOperands, inst.Tag, "b.cond requires rc operands")
	}
	_, cond, _, hasTarget := inst.RC()
	if !hasTarget {
		return 0, newErr(InvalidOperands, inst.Tag, "b.cond requires a materialized target")
	}
	word := (condBranchOpcode << 25) | ((branchPlaceholder & mask19Bit) << 5) | cond.Encoding()
	return word, nil
}

// encodeCompareBranch encodes CBZ/CBNZ: sf 011010 op imm19 Rt.
func encodeCompareBranch(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRRel {
		return 0, newErr(InvalidOperands, inst.Tag, "cbz/cbnz requires r_rel operands")
	}
	rn, _ := inst.RRel()

	sf, err := sfBit(inst.Tag, rn)
	if err != nil {
		return 0, err
	}
	rnID, err := gpReg(inst.Tag, rn, false)
	if err != nil {
		return 0, err
	}

	var op uint32
	if inst.Tag == mir.TagCbnz {
		op = 1
	}
	word := (sf << shiftSF) | (compareBranchOp << 25) | (op << 24) | ((branchPlaceholder & mask19Bit) << 5) | rnID
	return word, nil
}

// encodeTestBranch encodes TBZ/TBNZ: b5 011011 op b40(5) imm14 Rt. The
// tested bit number is carried in Data.Lsb (see mir.NewRRelBit); b5 is its
// top bit, b40 its low five.
func encodeTestBranch(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRRel {
		return 0, newErr(InvalidOperands, inst.Tag, "tbz/tbnz requires r_rel operands")
	}
	rn, _ := inst.RRel()
	bitNum := inst.Data.Lsb

	sf, err := sfBit(inst.Tag, rn)
	if err != nil {
		return 0, err
	}
	if sf == 0 && bitNum > 31 {
		return 0, newErr(InvalidImmediate, inst.Tag, "tested bit %d exceeds a 32-bit register", bitNum)
	}
	if bitNum > 63 {
		return 0, newErr(InvalidImmediate, inst.Tag, "tested bit %d exceeds a 64-bit register", bitNum)
	}
	rnID, err := gpReg(inst.Tag, rn, false)
	if err != nil {
		return 0, err
	}

	var op uint32
	if inst.Tag == mir.TagTbnz {
		op = 1
	}
	b5 := uint32(bitNum>>5) & 1
	b40 := uint32(bitNum) & mask5Bit
	word := (b5 << 31) | (0b011011 << 25) | (op << 24) | (b40 << 19) | ((branchPlaceholder & mask14Bit) << 5) | rnID
	return word, nil
}
