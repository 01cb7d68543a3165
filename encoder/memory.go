package encoder

import (
	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// ldStLayout captures the per-mnemonic size/opc fields of the load/store
// single-register family, keyed by MIR tag. size occupies bits [31:30];
// opc<0> is the "is-load" bit for the plain loads and stores, opc<1> marks
// the sign-extending loads, and for those opc<0> selects the signed-64/
// signed-32 destination width.
type ldStLayout struct {
	size    loadStoreSize
	opc     uint32
	isStore bool
}

var ldStLayouts = map[mir.Tag]ldStLayout{
	mir.TagLdr:   {size: sizeDouble, opc: 0b01},
	mir.TagLdrb:  {size: sizeByte, opc: 0b01},
	mir.TagLdrh:  {size: sizeHalfword, opc: 0b01},
	mir.TagLdrsb: {size: sizeByte, opc: 0b10},
	mir.TagLdrsh: {size: sizeHalfword, opc: 0b10},
	mir.TagLdrsw: {size: sizeWord, opc: 0b10},
	mir.TagStr:   {size: sizeDouble, opc: 0b00, isStore: true},
	mir.TagStrb:  {size: sizeByte, opc: 0b00, isStore: true},
	mir.TagStrh:  {size: sizeHalfword, opc: 0b00, isStore: true},
}

// transferWidthBytes returns the number of bytes moved by tag, used to
// scale an immediate offset in the unsigned-offset encoding.
func transferWidthBytes(tag mir.Tag) uint32 {
	switch tag {
	case mir.TagLdrb, mir.TagStrb, mir.TagLdrsb:
		return 1
	case mir.TagLdrh, mir.TagStrh, mir.TagLdrsh:
		return 2
	case mir.TagLdrsw:
		return 4
	default:
		return 8
	}
}

// encodeLoadStore encodes LDR/LDRB/LDRH/LDRSB/LDRSH/LDRSW/STR/STRB/STRH in
// whichever of the four single-register addressing modes bits.Memory
// carries: unsigned-offset-scaled, unscaled (LDUR/STUR), pre/post-index
// writeback, or register-offset-with-extend.
func encodeLoadStore(inst mir.Inst) (uint32, *Error) {
	layout, ok := ldStLayouts[inst.Tag]
	if !ok {
		return 0, newErr(UnimplementedInstruction, inst.Tag, "no load/store layout for this tag")
	}

	var rt bits.Register
	var mem bits.Memory
	switch inst.Ops {
	case mir.OpsRM:
		rt, mem = inst.RM()
	case mir.OpsMR:
		mem, rt = inst.MR()
	default:
		return 0, newErr(InvalidOperands, inst.Tag, "load/store requires rm or mr operands")
	}

	// For sign-extending loads, the destination width (32 vs 64-bit)
	// selects opc<0>; LDRSW always targets a 64-bit Xt so opc stays 0b10.
	opc := layout.opc
	if (inst.Tag == mir.TagLdrsb || inst.Tag == mir.TagLdrsh) && rt.Is32() {
		opc = 0b11
	}
	rtID, err := gpReg(inst.Tag, rt, false)
	if err != nil {
		return 0, err
	}

	switch mem.Kind {
	case bits.MemImmediate:
		return encodeLoadStoreUnsignedOrUnscaled(inst.Tag, layout.size, opc, rtID, mem)
	case bits.MemPreIndex:
		return encodeLoadStoreIndexed(inst.Tag, layout.size, opc, rtID, mem, 0b11)
	case bits.MemPostIndex:
		return encodeLoadStoreIndexed(inst.Tag, layout.size, opc, rtID, mem, 0b01)
	case bits.MemRegister:
		return encodeLoadStoreRegisterOffset(inst.Tag, layout.size, opc, rtID, mem)
	case bits.MemPCRelative:
		return 0, newErr(InvalidOperands, inst.Tag, "pc-relative literal loads are not supported by this encoder")
	default:
		return 0, newErr(InvalidOperands, inst.Tag, "unrecognized memory operand kind")
	}
}

// encodeLoadStoreUnsignedOrUnscaled picks the unsigned-offset-scaled form
// (size 1 1 V 01 opc imm12 Rn Rt) when the offset is a non-negative multiple
// of the transfer width and fits 12 bits once scaled; otherwise it falls
// back to the unscaled form (LDUR/STUR: size 1 1 V 00 opc imm9 00 Rn Rt),
// which carries a signed 9-bit byte offset.
func encodeLoadStoreUnsignedOrUnscaled(tag mir.Tag, size loadStoreSize, opc, rtID uint32, mem bits.Memory) (uint32, *Error) {
	rnID, err := gpReg(tag, mem.Base, true)
	if err != nil {
		return 0, err
	}

	width := transferWidthBytes(tag)
	if mem.Imm >= 0 && uint32(mem.Imm)%width == 0 {
		scaled := uint32(mem.Imm) / width
		if scaled <= mask12Bit {
			word := (uint32(size) << 30) | (0b111 << 27) | (0b01 << 24) | (opc << 22) | (scaled << 10) | (rnID << 5) | rtID
			return word, nil
		}
	}

	imm := bits.SignedImmediate(int64(mem.Imm))
	if !imm.FitsSigned(9) {
		return 0, newErr(InvalidImmediate, tag, "unscaled memory offset %d does not fit a signed 9-bit field", mem.Imm)
	}
	imm9 := uint32(imm.Project(9).AsUnsigned())
	word := (uint32(size) << 30) | (0b111 << 27) | (opc << 22) | (imm9 << 12) | (0b00 << 10) | (rnID << 5) | rtID
	return word, nil
}

// encodeLoadStoreIndexed encodes the pre/post-index writeback forms: size 1
// 1 V 00 opc imm9 idx(2) Rn Rt, idx=0b11 for pre-index, 0b01 for post-index.
func encodeLoadStoreIndexed(tag mir.Tag, size loadStoreSize, opc, rtID uint32, mem bits.Memory, idx uint32) (uint32, *Error) {
	rnID, err := gpReg(tag, mem.Base, true)
	if err != nil {
		return 0, err
	}
	imm := bits.SignedImmediate(int64(mem.Imm))
	if !imm.FitsSigned(9) {
		return 0, newErr(InvalidImmediate, tag, "indexed memory offset %d does not fit a signed 9-bit field", mem.Imm)
	}
	imm9 := uint32(imm.Project(9).AsUnsigned())
	word := (uint32(size) << 30) | (0b111 << 27) | (opc << 22) | (imm9 << 12) | (idx << 10) | (rnID << 5) | rtID
	return word, nil
}

// encodeLoadStoreRegisterOffset encodes the register-offset form: size 1 1
// V 00 opc 1 Rm option S 10 Rn Rt. option encodes the extend applied to Rm
// (UXTW=010, LSL/no-extend=011, SXTW=110, SXTX=111); S is set when the
// caller requested the natural LSL shift for this transfer width.
func encodeLoadStoreRegisterOffset(tag mir.Tag, size loadStoreSize, opc, rtID uint32, mem bits.Memory) (uint32, *Error) {
	rnID, err := gpReg(tag, mem.Base, true)
	if err != nil {
		return 0, err
	}

	wide := mem.Index.Is64()
	var option uint32
	switch mem.Extend {
	case bits.ExtendUXTW:
		option = 0b010
	case bits.ExtendNone:
		option = 0b011
		if !wide {
			return 0, newErr(InvalidOperands, tag, "register-offset without an extend requires a 64-bit index register")
		}
	case bits.ExtendSXTW:
		option = 0b110
	case bits.ExtendSXTX:
		option = 0b111
	default:
		return 0, newErr(InvalidOperands, tag, "unrecognized extend type for register-offset addressing")
	}
	rmID, err := gpReg(tag, mem.Index, false)
	if err != nil {
		return 0, err
	}

	width := transferWidthBytes(tag)
	natural := uint8(0)
	switch width {
	case 2:
		natural = 1
	case 4:
		natural = 2
	case 8:
		natural = 3
	}
	var s uint32
	switch mem.Shift {
	case 0:
		s = 0
	case natural:
		s = 1
	default:
		return 0, newErr(InvalidImmediate, tag, "register-offset shift amount %d is neither 0 nor the natural shift %d", mem.Shift, natural)
	}

	word := (uint32(size) << 30) | (0b111 << 27) | (opc << 22) | (1 << 21) | (rmID << 16) |
		(option << 13) | (s << 12) | (0b10 << 10) | (rnID << 5) | rtID
	return word, nil
}

// encodeLoadStorePair encodes LDP/STP: opc V 101 0 idx L imm7 Rt2 Rn Rt.
// idx selects signed-offset(0b010), post-index(0b001), pre-index(0b011);
// this encoder only ever emits the signed-offset form since frame-slot
// accesses carry no writeback semantics in this MIR.
func encodeLoadStorePair(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsMRR {
		return 0, newErr(InvalidOperands, inst.Tag, "load/store pair requires mrr operands")
	}
	mem, rt, rt2 := inst.MRR()
	if mem.Kind != bits.MemImmediate {
		return 0, newErr(InvalidOperands, inst.Tag, "load/store pair requires an immediate-offset operand")
	}

	sf, err := sfBit(inst.Tag, rt, rt2)
	if err != nil {
		return 0, err
	}
	rtID, err := gpReg(inst.Tag, rt, false)
	if err != nil {
		return 0, err
	}
	rt2ID, err := gpReg(inst.Tag, rt2, false)
	if err != nil {
		return 0, err
	}
	rnID, err := gpReg(inst.Tag, mem.Base, true)
	if err != nil {
		return 0, err
	}

	width := uint32(8)
	if sf == 0 {
		width = 4
	}
	if mem.Imm%int32(width) != 0 {
		return 0, newErr(InvalidImmediate, inst.Tag, "pair offset %d is not a multiple of %d", mem.Imm, width)
	}
	scaled := bits.SignedImmediate(int64(mem.Imm) / int64(width))
	if !scaled.FitsSigned(7) {
		return 0, newErr(InvalidImmediate, inst.Tag, "pair offset %d does not fit a signed 7-bit scaled field", mem.Imm)
	}
	imm7 := uint32(scaled.Project(7).AsUnsigned())

	var opc uint32
	if sf == 1 {
		opc = 0b10
	}
	var l uint32
	if inst.Tag == mir.TagLdp {
		l = 1
	}

	word := (opc << 30) | (0b101 << 27) | (0b010 << 23) | (l << 22) | (imm7 << 15) | (rt2ID << 10) | (rnID << 5) | rtID
	return word, nil
}
