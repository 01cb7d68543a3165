package lower

import (
	"testing"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

func TestLowerForwardBranch(t *testing.T) {
	rec := mir.NewRecord()
	bIdx := rec.Append(mir.NewRel(mir.TagB, 0)) // placeholder target, patched below
	rec.Append(mir.NewRRR(mir.TagAdd, bits.X0, bits.X1, bits.X2))
	targetIdx := rec.Append(mir.NewR(mir.TagRet, bits.RegNone))

	// Patch the branch's target now that we know the real index.
	rec.Datas[bIdx].Target = targetIdx

	result, err := LowerMir(rec, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Instructions) != 3 {
		t.Fatalf("expected 3 words, got %d", len(result.Instructions))
	}
	// delta = branch_targets[target](2) - source(0) = 2.
	imm := result.Instructions[0] & 0x3FFFFFF
	if imm != 2 {
		t.Fatalf("branch immediate: got %d, want 2", imm)
	}
}

func TestLowerBranchToPseudoInheritsNextRealPosition(t *testing.T) {
	rec := mir.NewRecord()
	bIdx := rec.Append(mir.NewRel(mir.TagB, 0))
	pseudoIdx := rec.Append(mir.NewPseudo(mir.TagDbgLine))
	retIdx := rec.Append(mir.NewR(mir.TagRet, bits.RegNone))
	rec.Datas[bIdx].Target = pseudoIdx

	result, err := LowerMir(rec, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The pseudo at pseudoIdx contributes no word; it inherits retIdx's
	// position (word index 1), the same position recorded for retIdx.
	if result.BranchTargets[pseudoIdx] != result.BranchTargets[retIdx] {
		t.Fatalf("pseudo target %d should equal next real instruction's position %d",
			result.BranchTargets[pseudoIdx], result.BranchTargets[retIdx])
	}
	imm := result.Instructions[0] & 0x3FFFFFF
	if imm != 1 {
		t.Fatalf("branch immediate: got %d, want 1", imm)
	}
}

func TestLowerBackwardBranch(t *testing.T) {
	rec := mir.NewRecord()
	loopHead := rec.Append(mir.NewR(mir.TagNop, bits.RegNone))
	rec.Append(mir.NewRC(mir.TagBCond, bits.NE, loopHead))

	result, err := LowerMir(rec, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// delta = branch_targets[loopHead](0) - source(1) = -1.
	raw := (result.Instructions[1] >> 5) & 0x7FFFF
	signExtended := int32(raw<<13) >> 13
	if signExtended != -1 {
		t.Fatalf("backward branch immediate: got %d, want -1", signExtended)
	}
}

func TestLowerOutOfRangeTbz(t *testing.T) {
	rec := mir.NewRecord()
	tbzIdx := rec.Append(mir.NewRRelBit(mir.TagTbz, bits.X0, 3, 0))
	for i := 0; i < 10000; i++ {
		rec.Append(mir.NewR(mir.TagNop, bits.RegNone))
	}
	far := rec.Append(mir.NewR(mir.TagRet, bits.RegNone))
	rec.Datas[tbzIdx].Target = far

	_, err := LowerMir(rec, Options{})
	if err == nil {
		t.Fatalf("expected a CodegenFail/Overflow error for an out-of-range tbz")
	}
	if err.Kind != Overflow {
		t.Fatalf("expected Overflow, got %v", err.Kind)
	}
}

func TestLowerUnresolvedTargetFails(t *testing.T) {
	rec := mir.NewRecord()
	rec.Append(mir.NewRel(mir.TagB, 50)) // no instruction at index 50

	_, err := LowerMir(rec, Options{})
	if err == nil || err.Kind != CodegenFail {
		t.Fatalf("expected CodegenFail for an unresolved target, got %v", err)
	}
}

func TestLowerAdrReservedKindReachableFromRealMir(t *testing.T) {
	rec := mir.NewRecord()
	adrIdx := rec.Append(mir.NewRRel(mir.TagAdr, bits.X0, 0))
	retIdx := rec.Append(mir.NewR(mir.TagRet, bits.RegNone))
	rec.Datas[adrIdx].Target = retIdx

	_, err := LowerMir(rec, Options{})
	if err == nil || err.Kind != CodegenFail {
		t.Fatalf("expected CodegenFail for an unresolved literal_19 relocation, got %v", err)
	}

	result, err := LowerMir(rec, Options{AllowReservedRelocPlaceholder: true})
	if err != nil {
		t.Fatalf("unexpected error with the reserved placeholder opted in: %v", err)
	}
	if len(result.Instructions) != 2 {
		t.Fatalf("expected 2 words, got %d", len(result.Instructions))
	}
}

func TestLowerAdrpReservedKindReachableFromRealMir(t *testing.T) {
	rec := mir.NewRecord()
	adrpIdx := rec.Append(mir.NewRRel(mir.TagAdrp, bits.X0, 0))
	retIdx := rec.Append(mir.NewR(mir.TagRet, bits.RegNone))
	rec.Datas[adrpIdx].Target = retIdx

	_, err := LowerMir(rec, Options{})
	if err == nil || err.Kind != CodegenFail {
		t.Fatalf("expected CodegenFail for an unresolved adrp_page relocation, got %v", err)
	}
}

func TestLowerReservedKindGuard(t *testing.T) {
	rec := mir.NewRecord()
	rec.Append(mir.NewR(mir.TagRet, bits.RegNone))
	l := New(rec, Options{})
	words := []uint32{0}
	relocs := []Relocation{{Source: 0, Target: 0, Kind: RelocLiteral19}}
	branchTargets := map[mir.InstIndex]int{0: 0}

	err := l.patchPass(words, relocs, branchTargets)
	if err == nil || err.Kind != CodegenFail {
		t.Fatalf("expected CodegenFail for a reserved relocation kind, got %v", err)
	}

	l2 := New(rec, Options{AllowReservedRelocPlaceholder: true})
	if err := l2.patchPass(words, relocs, branchTargets); err != nil {
		t.Fatalf("expected the reserved kind to be skipped when opted in, got %v", err)
	}
}
