package bits_test

import (
	"testing"

	"github.com/lookbusy1344/arm64cg/bits"
)

func TestRegisterWidthRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		reg  bits.Register
	}{
		{"x0", bits.X0},
		{"x19", bits.X19},
		{"x30/lr", bits.X30},
		{"fp alias", bits.FP},
		{"w3", bits.W3},
		{"xzr", bits.XZR},
		{"wzr", bits.WZR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w32, ok := tt.reg.To32()
			if !ok {
				t.Fatalf("%s: To32 failed", tt.reg)
			}
			back, ok := w32.To64()
			if !ok {
				t.Fatalf("%s: To64 failed", tt.reg)
			}
			if tt.reg.Is64() && back != tt.reg {
				t.Fatalf("round trip X->W->X: got %s, want %s", back, tt.reg)
			}
		})
	}
}

func TestRegisterID(t *testing.T) {
	tests := []struct {
		reg  bits.Register
		want uint32
	}{
		{bits.X0, 0},
		{bits.X30, 30},
		{bits.W5, 5},
		{bits.XZR, 31},
		{bits.WZR, 31},
		{bits.SP, 31},
		{bits.V2, 2},
	}
	for _, tt := range tests {
		got, ok := tt.reg.ID()
		if !ok {
			t.Fatalf("%s: ID failed", tt.reg)
		}
		if got != tt.want {
			t.Errorf("%s.ID() = %d, want %d", tt.reg, got, tt.want)
		}
	}
}

func TestRegisterClass(t *testing.T) {
	tests := []struct {
		reg  bits.Register
		want bits.RegClass
	}{
		{bits.X0, bits.ClassGeneralPurpose},
		{bits.W12, bits.ClassGeneralPurpose},
		{bits.XZR, bits.ClassSpecial},
		{bits.SP, bits.ClassSpecial},
		{bits.V0, bits.ClassVector},
		{bits.D31, bits.ClassVector},
		{bits.RegNone, bits.ClassNone},
	}
	for _, tt := range tests {
		if got := tt.reg.Class(); got != tt.want {
			t.Errorf("%s.Class() = %v, want %v", tt.reg, got, tt.want)
		}
	}
}
