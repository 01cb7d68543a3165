package xref

import (
	"testing"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

func TestGenerateCollectsBranchTargets(t *testing.T) {
	rec := mir.NewRecord()
	bIdx := rec.Append(mir.NewRel(mir.TagB, 0))
	cbzIdx := rec.Append(mir.NewRRel(mir.TagCbz, bits.X0, 0))
	retIdx := rec.Append(mir.NewR(mir.TagRet, bits.RegNone))
	rec.Datas[bIdx].Target = retIdx
	rec.Datas[cbzIdx].Target = retIdx

	report := Generate(rec)
	if len(report.Targets) != 1 {
		t.Fatalf("expected exactly one target, got %d", len(report.Targets))
	}
	target := report.Targets[0]
	if target.Index != retIdx {
		t.Fatalf("expected target index %d, got %d", retIdx, target.Index)
	}
	if len(target.Refs) != 2 {
		t.Fatalf("expected 2 refs to the shared target, got %d", len(target.Refs))
	}
	if target.Refs[0].Kind != RefBranch || target.Refs[1].Kind != RefCompareBranch {
		t.Fatalf("unexpected ref kinds: %+v", target.Refs)
	}
}

func TestReferencedSet(t *testing.T) {
	rec := mir.NewRecord()
	bIdx := rec.Append(mir.NewRel(mir.TagB, 0))
	retIdx := rec.Append(mir.NewR(mir.TagRet, bits.RegNone))
	rec.Datas[bIdx].Target = retIdx

	set := Generate(rec).ReferencedSet()
	if !set[retIdx] {
		t.Fatalf("expected %d to be in the referenced set", retIdx)
	}
	if set[bIdx] {
		t.Fatalf("did not expect %d (the branch itself) to be in the referenced set", bIdx)
	}
}

func TestStringRendersOneLinePerTarget(t *testing.T) {
	rec := mir.NewRecord()
	bIdx := rec.Append(mir.NewRel(mir.TagB, 0))
	retIdx := rec.Append(mir.NewR(mir.TagRet, bits.RegNone))
	rec.Datas[bIdx].Target = retIdx

	s := Generate(rec).String()
	if s == "" {
		t.Fatal("expected non-empty report")
	}
}
