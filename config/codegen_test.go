package config

import (
	"testing"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/regmgr"
)

func TestParseRegisterOrderEmpty(t *testing.T) {
	regs, err := ParseRegisterOrder("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if regs != nil {
		t.Fatalf("expected nil for an empty override, got %v", regs)
	}
}

func TestParseRegisterOrderParsesList(t *testing.T) {
	regs, err := ParseRegisterOrder("x9, X10,x11")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []bits.Register{bits.X9, bits.X10, bits.X11}
	if len(regs) != len(want) {
		t.Fatalf("expected %d registers, got %d", len(want), len(regs))
	}
	for i, r := range want {
		if regs[i] != r {
			t.Fatalf("register %d: expected %s, got %s", i, r, regs[i])
		}
	}
}

func TestParseRegisterOrderRejectsUnknownName(t *testing.T) {
	_, err := ParseRegisterOrder("x9,notareg")
	if err == nil {
		t.Fatalf("expected an error for an unknown register name")
	}
}

func TestRegisterManagerOrderOmitsDefaultedClasses(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CodeGen.GeneralPurposeOrder = "x3,x1"

	order, err := cfg.RegisterManagerOrder()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := order[regmgr.Vector]; ok {
		t.Fatalf("expected Vector to be omitted when left at its default")
	}
	gp, ok := order[regmgr.GeneralPurpose]
	if !ok || len(gp) != 2 || gp[0] != bits.X3 || gp[1] != bits.X1 {
		t.Fatalf("expected [X3 X1] for GeneralPurpose, got %v", gp)
	}
}
