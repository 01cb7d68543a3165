// Package encoder implements the pure mapping from one MIR instruction to
// its encoded 32-bit ARM64 word, per spec.md §4.1. Encode has no mutable
// state: the same instruction always yields the same word or the same
// error (spec.md §8 property 6). Branch-carrying instructions are encoded
// with a placeholder zero immediate; the lower package installs the real
// immediate once target positions are known.
package encoder

import (
	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// Encode converts a single MIR instruction into its 32-bit ARM64 encoding.
// Pseudo-tagged instructions are rejected with PseudoInstruction: the
// caller (lower) must filter them out before reaching the encoder.
func Encode(inst mir.Inst) (uint32, *Error) {
	if inst.Tag.IsPseudo() {
		return 0, newErr(PseudoInstruction, inst.Tag, "pseudo-instructions contribute no machine word")
	}

	switch inst.Tag {
	case mir.TagRaw:
		return uint32(inst.ImmOnly().AsUnsigned()), nil

	case mir.TagAdd, mir.TagSub:
		return encodeAddSubShifted(inst)
	case mir.TagAddImm, mir.TagSubImm:
		return encodeAddSubImm(inst)
	case mir.TagAnd, mir.TagOrr, mir.TagEor, mir.TagEon, mir.TagBic, mir.TagOrn:
		return encodeLogicalShifted(inst)
	case mir.TagAndImm, mir.TagOrrImm, mir.TagEorImm:
		return encodeLogicalImm(inst)
	case mir.TagCmp, mir.TagCmn, mir.TagTst:
		return encodeCompare(inst)

	case mir.TagMul, mir.TagMAdd, mir.TagMSub:
		return encodeMultiply(inst)
	case mir.TagSDiv, mir.TagUDiv:
		return encodeDivide(inst)
	case mir.TagLslv, mir.TagLsrv, mir.TagAsrv, mir.TagRorv:
		return encodeShiftReg(inst)

	case mir.TagMovz, mir.TagMovn, mir.TagMovk:
		return encodeMoveWide(inst)
	case mir.TagMovReg:
		return encodeMovReg(inst)

	case mir.TagUbfm, mir.TagSbfm, mir.TagBfm:
		return encodeBitfield(inst)
	case mir.TagSxtb, mir.TagSxth, mir.TagSxtw, mir.TagUxtb, mir.TagUxth:
		return encodeExtend(inst)

	case mir.TagLdr, mir.TagLdrb, mir.TagLdrh, mir.TagLdrsb, mir.TagLdrsh, mir.TagLdrsw,
		mir.TagStr, mir.TagStrb, mir.TagStrh:
		return encodeLoadStore(inst)
	case mir.TagLdp, mir.TagStp:
		return encodeLoadStorePair(inst)

	case mir.TagB, mir.TagBl:
		return encodeBranch(inst)
	case mir.TagBr, mir.TagBlr, mir.TagRet:
		return encodeBranchReg(inst)
	case mir.TagBCond:
		return encodeBranchCond(inst)
	case mir.TagCbz, mir.TagCbnz:
		return encodeCompareBranch(inst)
	case mir.TagTbz, mir.TagTbnz:
		return encodeTestBranch(inst)

	case mir.TagCsel, mir.TagCsinc, mir.TagCsinv, mir.TagCsneg:
		return encodeCondSelect(inst)
	case mir.TagCset, mir.TagCsetm:
		return encodeCondSet(inst)

	case mir.TagNop, mir.TagSvc, mir.TagBrk, mir.TagHint:
		return encodeSystem(inst)
	case mir.TagLdxr, mir.TagStxr:
		return encodeAtomic(inst)

	case mir.TagFmov, mir.TagFadd, mir.TagFsub, mir.TagFmul, mir.TagFdiv, mir.TagFcmp:
		return encodeFP(inst)

	case mir.TagAdr:
		return encodeAdr(inst)
	case mir.TagAdrp:
		return encodeAdrp(inst)

	default:
		return 0, newErr(UnimplementedInstruction, inst.Tag, "no encoding rule for this tag")
	}
}

// gpReg validates a general-purpose register operand and returns its 5-bit
// hardware id. XZR/WZR are always accepted (every GP slot may read/discard
// through the zero register); SP is accepted only when allowSP is true,
// matching spec.md §3's "Register of class special may appear as a source
// only where the encoding permits".
func gpReg(tag mir.Tag, r bits.Register, allowSP bool) (uint32, *Error) {
	switch r {
	case bits.XZR, bits.WZR:
		return 31, nil
	case bits.SP:
		if !allowSP {
			return 0, newErr(InvalidRegister, tag, "sp is not permitted in this operand position")
		}
		return 31, nil
	}
	if r.Class() != bits.ClassGeneralPurpose {
		return 0, newErr(InvalidRegister, tag, "register %s is not general-purpose", r)
	}
	id, ok := r.ID()
	if !ok {
		return 0, newErr(InvalidRegister, tag, "register %s has no hardware encoding", r)
	}
	return id, nil
}

// vecReg validates a SIMD/FP register operand and returns its 5-bit
// hardware id.
func vecReg(tag mir.Tag, r bits.Register) (uint32, *Error) {
	if r.Class() != bits.ClassVector {
		return 0, newErr(InvalidRegister, tag, "register %s is not a vector/FP register", r)
	}
	id, ok := r.ID()
	if !ok {
		return 0, newErr(InvalidRegister, tag, "register %s has no hardware encoding", r)
	}
	return id, nil
}

// sfBit derives the sf (width) bit from a pair of general-purpose
// registers, requiring they agree on width (spec.md §4.1 "width
// consistency").
func sfBit(tag mir.Tag, regs ...bits.Register) (uint32, *Error) {
	is64 := -1
	for _, r := range regs {
		if r == bits.RegNone {
			continue
		}
		var this int
		switch {
		case r.Is64():
			this = 1
		case r.Is32():
			this = 0
		default:
			return 0, newErr(InvalidRegister, tag, "register %s is not a general-purpose view", r)
		}
		if is64 == -1 {
			is64 = this
		} else if is64 != this {
			return 0, newErr(InvalidOperands, tag, "mixed register widths in one instruction")
		}
	}
	if is64 == -1 {
		return 1, nil
	}
	return uint32(is64), nil
}
