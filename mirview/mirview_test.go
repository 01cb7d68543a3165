package mirview

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/lower"
	"github.com/lookbusy1344/arm64cg/mir"
)

func sampleRecord(t *testing.T) *mir.Record {
	t.Helper()
	rec := mir.NewRecord()
	bIdx := rec.Append(mir.NewRel(mir.TagB, 0))
	rec.Append(mir.NewRRR(mir.TagAdd, bits.X0, bits.X1, bits.X2))
	retIdx := rec.Append(mir.NewR(mir.TagRet, bits.RegNone))
	rec.Datas[bIdx].Target = retIdx
	return rec
}

func TestNewBuildsViewsFromLoweredResult(t *testing.T) {
	rec := sampleRecord(t)
	v, err := New(rec, lower.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("failed to init simulation screen: %v", err)
	}
	defer screen.Fini()
	v.SetScreen(screen)

	if !strings.Contains(v.WordsView.GetText(true), "0x") {
		t.Fatalf("expected words view to list hex words, got %q", v.WordsView.GetText(true))
	}
	if !strings.Contains(v.RelocsView.GetText(true), "branch_26") {
		t.Fatalf("expected relocs view to list the branch_26 relocation, got %q", v.RelocsView.GetText(true))
	}
}

func TestStepClampsAtBounds(t *testing.T) {
	rec := sampleRecord(t)
	v, err := New(rec, lower.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v.step(-5)
	if v.Cursor() != 0 {
		t.Fatalf("expected cursor clamped to 0, got %d", v.Cursor())
	}

	v.step(100)
	if v.Cursor() != rec.Len()-1 {
		t.Fatalf("expected cursor clamped to %d, got %d", rec.Len()-1, v.Cursor())
	}
}

func TestNewPropagatesLowerError(t *testing.T) {
	rec := mir.NewRecord()
	rec.Append(mir.NewRel(mir.TagB, 50)) // unresolved target

	if _, err := New(rec, lower.Options{}); err == nil {
		t.Fatal("expected an error from an unresolvable MIR record")
	}
}
