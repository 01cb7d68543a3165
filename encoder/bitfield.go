package encoder

import (
	"math/bits"

	armbits "github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// encodeBitfield encodes UBFM/SBFM/BFM: sf opc 100110 N immr imms Rn Rd. The
// MIR layer carries (lsb, width); the immr/imms pair is the canonical
// hardware encoding per the Architecture Reference Manual's "bitfield move"
// pseudocode: immr = -lsb mod width_of_reg, imms = width-1.
func encodeBitfield(inst mir.Inst) (uint32, *Error) {
	rd, rn, _, _, _ := inst.RRIShift()
	lsb, width := inst.Data.Lsb, inst.Data.Width

	// sf is taken from rd alone: the hardware Rn field is a bare register
	// number, and bitfield aliases like sxtw legitimately pair a 64-bit rd
	// with a 32-bit rn view of the same physical register.
	sf, err := sfBit(inst.Tag, rd)
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

	regWidth := uint8(32)
	if sf == 1 {
		regWidth = 64
	}
	if width == 0 || int(lsb)+int(width) > int(regWidth) {
		return 0, newErr(InvalidImmediate, inst.Tag, "bitfield lsb=%d width=%d exceeds %d-bit register", lsb, width, regWidth)
	}

	immr := uint32((regWidth - lsb) % regWidth)
	imms := uint32(width - 1)

	var opc, n uint32
	switch inst.Tag {
	case mir.TagSbfm:
		opc = 0b00
	case mir.TagBfm:
		opc = 0b01
	case mir.TagUbfm:
		opc = 0b10
	}
	if sf == 1 {
		n = 1
	}

	word := (sf << shiftSF) | (opc << 29) | (0b100110 << 23) | (n << 22) | (immr << 16) | (imms << 10) | (rnID << 5) | rdID
	return word, nil
}

// encodeExtend encodes SXTB/SXTH/SXTW/UXTB/UXTH, the SBFM/UBFM aliases that
// sign- or zero-extend a sub-field starting at bit 0.
func encodeExtend(inst mir.Inst) (uint32, *Error) {
	if inst.Ops != mir.OpsRR {
		return 0, newErr(InvalidOperands, inst.Tag, "extend requires rr operands")
	}
	rd, rn := inst.RR()

	var width uint8
	var signed bool
	switch inst.Tag {
	case mir.TagSxtb:
		width, signed = 8, true
	case mir.TagSxth:
		width, signed = 16, true
	case mir.TagSxtw:
		width, signed = 32, true
	case mir.TagUxtb:
		width, signed = 8, false
	case mir.TagUxth:
		width, signed = 16, false
	}

	tag := mir.TagUbfm
	if signed {
		tag = mir.TagSbfm
	}
	src := rn
	if tag == mir.TagSbfm && inst.Tag == mir.TagSxtw {
		// sxtw widens a 32-bit source into a 64-bit destination; rd must be
		// the 64-bit view while rn stays the 32-bit view that was passed in.
		if rd.Is32() {
			return 0, newErr(InvalidOperands, inst.Tag, "sxtw destination must be a 64-bit register")
		}
	} else if rd.Is64() != rn.Is64() {
		return 0, newErr(InvalidOperands, inst.Tag, "extend requires matching source/dest width")
	}

	inner := mir.NewRRIShift(tag, rd, src, armbits.Immediate{}, mir.ShiftLSL, 0)
	inner.Data.Lsb, inner.Data.Width = 0, width
	return encodeBitfield(inner)
}

// EncodeBitmaskImmediate computes the (N, immr, imms) canonical encoding of
// an AArch64 logical-immediate bit pattern, per the Architecture Reference
// Manual's DecodeBitMasks algorithm run in reverse: every valid pattern is a
// rotation of a replicated run of set bits whose element size is a power of
// two dividing width. The smallest valid element size is used, matching the
// hardware's unique-encoding guarantee. Returns ok=false if value has no
// such decomposition (all values are either a valid bitmask immediate or
// they are not; there is no ambiguity to resolve by trying a larger size).
func EncodeBitmaskImmediate(value uint64, width int) (n, immr, imms uint32, ok bool) {
	if width != 32 && width != 64 {
		return 0, 0, 0, false
	}
	if width == 32 {
		value &= 0xFFFFFFFF
	}
	if value == 0 || (width == 32 && value == 0xFFFFFFFF) || value == ^uint64(0) {
		return 0, 0, 0, false
	}

	for size := 2; size <= width; size <<= 1 {
		if width%size != 0 {
			continue
		}
		mask := uint64(1)<<uint(size) - 1
		elem := value & mask
		replicated := true
		for off := size; off < width; off += size {
			if (value>>uint(off))&mask != elem {
				replicated = false
				break
			}
		}
		if !replicated {
			continue
		}

		rot, onesLen, found := decomposeRotatedRun(elem, size)
		if !found {
			continue
		}

		var nBit uint32
		if size == 64 {
			nBit = 1
		}
		markerBits := uint32(^uint64(size-1)<<1) & 0x3F
		imms = markerBits | uint32(onesLen-1)
		return nBit, uint32(rot), imms, true
	}
	return 0, 0, 0, false
}

// decomposeRotatedRun reports whether elem (size bits wide) is a right
// rotation of a contiguous low run of 1s, returning the rotate-right amount
// and the run length.
func decomposeRotatedRun(elem uint64, size int) (rot, onesLen int, ok bool) {
	mask := uint64(1)<<uint(size) - 1
	elem &= mask
	if elem == 0 || elem == mask {
		return 0, 0, false
	}
	for r := 0; r < size; r++ {
		rotated := ((elem << uint(r)) | (elem >> uint(size-r))) & mask
		if rotated != 0 && (rotated&(rotated+1)) == 0 {
			return r, bits.OnesCount64(rotated), true
		}
	}
	return 0, 0, false
}
