package encoder

import (
	"testing"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

func TestEncodeRet(t *testing.T) {
	word, err := Encode(mir.NewR(mir.TagRet, bits.RegNone))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word != 0xD65F03C0 {
		t.Fatalf("ret: got 0x%08X, want 0xD65F03C0", word)
	}
}

func TestEncodeAddRRR(t *testing.T) {
	word, err := Encode(mir.NewRRR(mir.TagAdd, bits.X0, bits.X1, bits.X2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word != 0x8B020020 {
		t.Fatalf("add x0,x1,x2: got 0x%08X, want 0x8B020020", word)
	}
}

func TestEncodeSubImm(t *testing.T) {
	word, err := Encode(mir.NewRRI(mir.TagSubImm, bits.SP, bits.SP, bits.UnsignedImmediate(16)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// sf=1, op=1, S=0, sh=0, imm12=16, Rn=31, Rd=31.
	want := uint32(1<<31) | uint32(1<<30) | uint32(0b100010<<23) | uint32(16<<10) | uint32(31<<5) | 31
	if word != want {
		t.Fatalf("sub sp,sp,#16: got 0x%08X, want 0x%08X", word, want)
	}
}

func TestEncodeMovz(t *testing.T) {
	word, err := Encode(mir.NewRI(mir.TagMovz, bits.X0, bits.UnsignedImmediate(42)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := uint32(1<<31) | uint32(0b10<<29) | uint32(moveWideOpcode<<23) | uint32(42<<5)
	if word != want {
		t.Fatalf("movz x0,#42: got 0x%08X, want 0x%08X", word, want)
	}
}

func TestEncodeMoveWideShifts(t *testing.T) {
	cases := []struct {
		tag   mir.Tag
		opc   uint32
		shift uint8
	}{
		{mir.TagMovz, 0b10, 0},
		{mir.TagMovz, 0b10, 16},
		{mir.TagMovz, 0b10, 32},
		{mir.TagMovz, 0b10, 48},
		{mir.TagMovn, 0b00, 16},
		{mir.TagMovk, 0b11, 32},
	}
	for _, c := range cases {
		word, err := Encode(mir.NewRIShift(c.tag, bits.X0, bits.UnsignedImmediate(7), c.shift))
		if err != nil {
			t.Fatalf("%s shift=%d: unexpected error: %v", c.tag, c.shift, err)
		}
		want := uint32(1<<31) | (c.opc << 29) | uint32(moveWideOpcode<<23) | (uint32(c.shift/16) << 21) | uint32(7<<5)
		if word != want {
			t.Fatalf("%s shift=%d: got 0x%08X, want 0x%08X", c.tag, c.shift, word, want)
		}
	}
}

func TestEncodeMoveWideRejectsInvalidShift(t *testing.T) {
	_, err := Encode(mir.NewRIShift(mir.TagMovz, bits.X0, bits.UnsignedImmediate(1), 8))
	if err == nil {
		t.Fatal("expected an error for a shift amount that is not a multiple of 16")
	}
}

func TestEncodeMoveWideRejects32BitShiftAbove16(t *testing.T) {
	_, err := Encode(mir.NewRIShift(mir.TagMovz, bits.W0, bits.UnsignedImmediate(1), 32))
	if err == nil {
		t.Fatal("expected an error for a 32-bit move-wide shift greater than 16")
	}
}

func TestEncodeBPlaceholder(t *testing.T) {
	word, err := Encode(mir.NewRel(mir.TagB, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word>>26 != uncondBranchOpcode {
		t.Fatalf("b: opcode field mismatch, got 0x%08X", word)
	}
	if word&mask26Bit != 0 {
		t.Fatalf("b: placeholder immediate should be zero, got 0x%X", word&mask26Bit)
	}
}

func TestEncodeBCondPlaceholder(t *testing.T) {
	word, err := Encode(mir.NewRC(mir.TagBCond, bits.EQ, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word&0xF != uint32(bits.EQ.Encoding()) {
		t.Fatalf("b.eq: condition field mismatch, got 0x%X", word&0xF)
	}
	if (word>>5)&mask19Bit != 0 {
		t.Fatalf("b.eq: placeholder immediate should be zero")
	}
}

func TestEncodeCbzPlaceholder(t *testing.T) {
	word, err := Encode(mir.NewRRel(mir.TagCbz, bits.X3, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word&mask5Bit != 3 {
		t.Fatalf("cbz: Rt field mismatch, got %d", word&mask5Bit)
	}
}

func TestEncodeTbzOutOfRange(t *testing.T) {
	_, err := Encode(mir.NewRRelBit(mir.TagTbz, bits.W0, 40, 1))
	if err == nil {
		t.Fatalf("expected an error for a bit number exceeding a 32-bit register")
	}
	if err.Kind != InvalidImmediate {
		t.Fatalf("expected InvalidImmediate, got %v", err.Kind)
	}
}

func TestEncodeCset(t *testing.T) {
	word, err := Encode(mir.NewRCond(mir.TagCset, bits.X0, bits.EQ))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// cset x0, eq == csinc x0, xzr, xzr, ne
	other, err := Encode(mir.NewRRRC(mir.TagCsinc, bits.X0, bits.XZR, bits.XZR, bits.NE))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word != other {
		t.Fatalf("cset alias mismatch: 0x%08X vs 0x%08X", word, other)
	}
}

func TestEncodePseudoRejected(t *testing.T) {
	_, err := Encode(mir.NewPseudo(mir.TagDbgPrologueEnd))
	if err == nil || err.Kind != PseudoInstruction {
		t.Fatalf("expected PseudoInstruction error, got %v", err)
	}
}

func TestEncodeLdrUnsignedOffset(t *testing.T) {
	mem := bits.ImmediateMemory(bits.SP, 16)
	word, err := Encode(mir.NewRM(mir.TagLdr, bits.X0, mem))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (word>>22)&1 != 1 {
		t.Fatalf("ldr: expected load opc bit set")
	}
	if (word>>10)&mask12Bit != 2 {
		t.Fatalf("ldr: expected scaled imm12=2, got %d", (word>>10)&mask12Bit)
	}
}

func TestEncodeLogicalImmediate(t *testing.T) {
	word, err := Encode(mir.NewRRBitmask(mir.TagAndImm, bits.X0, bits.X1, 0xFF))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (word>>23)&0x3F != 0b100100 {
		t.Fatalf("and immediate: opcode field mismatch")
	}
}

func TestEncodeLogicalImmediateRejectsAllOnes(t *testing.T) {
	_, err := Encode(mir.NewRRBitmask(mir.TagOrrImm, bits.X0, bits.X1, ^uint64(0)))
	if err == nil {
		t.Fatalf("expected an error for an all-ones logical immediate")
	}
}

func TestEncodeAdrPlaceholder(t *testing.T) {
	word, err := Encode(mir.NewRRel(mir.TagAdr, bits.X2, 9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word>>31 != 0 {
		t.Fatalf("adr: op bit should be 0, got word 0x%08X", word)
	}
	if (word>>24)&0x1F != 0b10000 {
		t.Fatalf("adr: fixed bits mismatch, got 0x%08X", word)
	}
	if word&mask5Bit != 2 {
		t.Fatalf("adr: Rd field mismatch, got %d", word&mask5Bit)
	}
}

func TestEncodeAdrpPlaceholder(t *testing.T) {
	word, err := Encode(mir.NewRRel(mir.TagAdrp, bits.X2, 9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if word>>31 != 1 {
		t.Fatalf("adrp: op bit should be 1, got word 0x%08X", word)
	}
	if word&mask5Bit != 2 {
		t.Fatalf("adrp: Rd field mismatch, got %d", word&mask5Bit)
	}
}
