package mir_test

import (
	"testing"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

func TestRecordAppendAndAt(t *testing.T) {
	r := mir.NewRecord()

	i0 := r.Append(mir.NewRRR(mir.TagAdd, bits.X0, bits.X1, bits.X2))
	i1 := r.Append(mir.NewPseudo(mir.TagDbgPrologueEnd))
	i2 := r.Append(mir.NewRel(mir.TagB, i0))

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}

	got := r.At(i0)
	rd, rn, rm := got.RRR()
	if rd != bits.X0 || rn != bits.X1 || rm != bits.X2 {
		t.Errorf("At(i0).RRR() = %v,%v,%v, want x0,x1,x2", rd, rn, rm)
	}

	if tag := r.At(i1).Tag; !tag.IsPseudo() {
		t.Errorf("At(i1).Tag = %v, want pseudo", tag)
	}

	if target := r.At(i2).Rel(); target != i0 {
		t.Errorf("At(i2).Rel() = %v, want %v", target, i0)
	}
}

func TestRecordFrameLocs(t *testing.T) {
	r := mir.NewRecord()
	r.SetFrameLoc(bits.FrameIndex(bits.FrameRetAddr), mir.FrameLoc{Offset: -8, Size: 8, Align: 8})

	mem, ok := r.ResolveFrameAddr(bits.FrameAddr{Index: bits.FrameIndex(bits.FrameRetAddr), Offset: 4}, bits.SP)
	if !ok {
		t.Fatal("ResolveFrameAddr failed")
	}
	if mem.Kind != bits.MemImmediate || mem.Base != bits.SP || mem.Imm != -4 {
		t.Errorf("ResolveFrameAddr = %+v, want imm -4 off sp", mem)
	}

	if _, ok := r.ResolveFrameAddr(bits.FrameAddr{Index: bits.FrameIndex(bits.FrameBasePtr)}, bits.SP); ok {
		t.Error("ResolveFrameAddr should fail for unregistered FrameIndex")
	}
}

func TestRecordLocals(t *testing.T) {
	r := mir.NewRecord()
	idx := r.AddLocal("counter", 7)
	if got := r.LocalName(r.Locals[idx]); got != "counter" {
		t.Errorf("LocalName = %q, want %q", got, "counter")
	}
}

func TestInstAccessorPanicsOnWrongOps(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading RRR() off an R-shaped instruction")
		}
	}()
	inst := mir.NewR(mir.TagRet, bits.X30)
	inst.RRR()
}
