package abi

import "testing"

func TestClassifyPrimitives(t *testing.T) {
	cases := []Type{
		{Kind: TypeKindInteger, BitSize: 64},
		{Kind: TypeKindEnum, BitSize: 32},
		{Kind: TypeKindErrorSet, BitSize: 16},
		{Kind: TypeKindFloat, BitSize: 64},
		{Kind: TypeKindBool, BitSize: 8},
		{Kind: TypeKindPointer, BitSize: 64},
	}
	for _, ty := range cases {
		cls, err := ClassifyType(ty)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", ty.Kind, err)
		}
		if cls.Class != Byval {
			t.Fatalf("%s: expected Byval, got %s", ty.Kind, cls.Class)
		}
	}
}

func TestClassifyPointerLikeOptional(t *testing.T) {
	ptr := Type{Kind: TypeKindPointer, BitSize: 64}
	opt := Type{Kind: TypeKindOptional, Elem: &ptr}
	cls, err := ClassifyType(opt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Class != Byval {
		t.Fatalf("expected Byval for pointer-like optional, got %s", cls.Class)
	}
}

func TestClassifyNonPointerOptionalFallsBackToAggregate(t *testing.T) {
	inner := Type{Kind: TypeKindInteger, BitSize: 64}
	opt := Type{Kind: TypeKindOptional, Elem: &inner}
	cls, err := ClassifyType(opt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// synthetic {bool(8), int(64)} = 72 bits -> DoubleInteger (>64, <=128).
	if cls.Class != DoubleInteger {
		t.Fatalf("expected DoubleInteger, got %s", cls.Class)
	}
}

func TestClassifySliceIsDoubleInteger(t *testing.T) {
	slice := Type{Kind: TypeKindSlice}
	cls, err := ClassifyType(slice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Class != DoubleInteger {
		t.Fatalf("expected DoubleInteger for {ptr,len} slice, got %s", cls.Class)
	}
}

func TestClassifyVectorBoundary(t *testing.T) {
	small := Type{Kind: TypeKindVector, BitSize: 128}
	cls, err := ClassifyType(small)
	if err != nil || cls.Class != Byval {
		t.Fatalf("expected Byval for a 128-bit vector, got %s (err=%v)", cls.Class, err)
	}

	big := Type{Kind: TypeKindVector, BitSize: 256}
	cls, err = ClassifyType(big)
	if err != nil || cls.Class != Memory {
		t.Fatalf("expected Memory for a 256-bit vector, got %s (err=%v)", cls.Class, err)
	}
}

func TestClassifyPackedStructIsByval(t *testing.T) {
	packed := Type{
		Kind:    TypeKindStruct,
		Packed:  true,
		BitSize: 256,
		Fields: []Type{
			{Kind: TypeKindFloat, BitSize: 32},
			{Kind: TypeKindFloat, BitSize: 32},
		},
	}
	cls, err := ClassifyType(packed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Class != Byval {
		t.Fatalf("expected Byval for a packed struct regardless of fields, got %s", cls.Class)
	}
}

func TestClassifyHomogeneousFloatArray(t *testing.T) {
	s := Type{
		Kind:    TypeKindStruct,
		BitSize: 128,
		Fields: []Type{
			{Kind: TypeKindFloat, BitSize: 32},
			{Kind: TypeKindFloat, BitSize: 32},
			{Kind: TypeKindFloat, BitSize: 32},
			{Kind: TypeKindFloat, BitSize: 32},
		},
	}
	cls, err := ClassifyType(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Class != FloatArray || cls.FloatCount != 4 || cls.FloatElem.BitSize != 32 {
		t.Fatalf("expected float_array(4) of 32-bit elements, got %+v", cls)
	}
}

func TestClassifyFloatArrayRejectsFiveElements(t *testing.T) {
	fields := make([]Type, 5)
	for i := range fields {
		fields[i] = Type{Kind: TypeKindFloat, BitSize: 64}
	}
	s := Type{Kind: TypeKindStruct, BitSize: 320, Fields: fields}
	cls, err := ClassifyType(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Five f64 members exceed the HFA limit, so the 320-bit struct
	// classifies by size.
	if cls.Class != Memory {
		t.Fatalf("expected Memory for a five-float aggregate, got %s", cls.Class)
	}
}

func TestClassifyMixedFloatWidthsFallsBackToSize(t *testing.T) {
	// spec.md §8: "a struct of {f32, f64} classifies by bit size (not HFA)".
	s := Type{
		Kind:    TypeKindStruct,
		BitSize: 96,
		Fields: []Type{
			{Kind: TypeKindFloat, BitSize: 32},
			{Kind: TypeKindFloat, BitSize: 64},
		},
	}
	cls, err := ClassifyType(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Class != DoubleInteger {
		t.Fatalf("expected DoubleInteger for a mixed-width {f32,f64} struct, got %s", cls.Class)
	}
}

func TestClassifyNestedHFA(t *testing.T) {
	inner := Type{
		Kind:    TypeKindStruct,
		BitSize: 64,
		Fields: []Type{
			{Kind: TypeKindFloat, BitSize: 32},
			{Kind: TypeKindFloat, BitSize: 32},
		},
	}
	outer := Type{
		Kind:    TypeKindStruct,
		BitSize: 128,
		Fields:  []Type{inner, inner},
	}
	cls, err := ClassifyType(outer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Class != FloatArray || cls.FloatCount != 4 {
		t.Fatalf("expected a nested HFA to flatten to float_array(4), got %+v", cls)
	}
}

func TestClassifyMixedFloatAndIntegerFallsBackToSize(t *testing.T) {
	s := Type{
		Kind:    TypeKindStruct,
		BitSize: 96,
		Fields: []Type{
			{Kind: TypeKindFloat, BitSize: 32},
			{Kind: TypeKindInteger, BitSize: 64},
		},
	}
	cls, err := ClassifyType(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cls.Class != DoubleInteger {
		t.Fatalf("expected DoubleInteger for a non-homogeneous aggregate, got %s", cls.Class)
	}
}

func TestClassifyStructSizeTiers(t *testing.T) {
	small := Type{Kind: TypeKindStruct, BitSize: 64, Fields: []Type{{Kind: TypeKindInteger, BitSize: 64}}}
	if cls, err := ClassifyType(small); err != nil || cls.Class != Integer {
		t.Fatalf("expected Integer for a 64-bit struct, got %s (err=%v)", cls.Class, err)
	}

	double := Type{Kind: TypeKindStruct, BitSize: 128, Fields: []Type{{Kind: TypeKindInteger, BitSize: 128}}}
	if cls, err := ClassifyType(double); err != nil || cls.Class != DoubleInteger {
		t.Fatalf("expected DoubleInteger for a 128-bit struct, got %s (err=%v)", cls.Class, err)
	}

	mem := Type{Kind: TypeKindStruct, BitSize: 192, Fields: []Type{{Kind: TypeKindInteger, BitSize: 192}}}
	if cls, err := ClassifyType(mem); err != nil || cls.Class != Memory {
		t.Fatalf("expected Memory for a 192-bit struct, got %s (err=%v)", cls.Class, err)
	}
}

func TestClassifyRejectsUnreachableKinds(t *testing.T) {
	for _, k := range []TypeKind{TypeKindVoid, TypeKindNoReturn, TypeKindMeta, TypeKindOpaque} {
		_, err := ClassifyType(Type{Kind: k})
		if err == nil || err.Kind != UnreachableKind {
			t.Fatalf("%s: expected UnreachableKind error, got %v", k, err)
		}
	}
}

func TestGetFloatArrayType(t *testing.T) {
	s := Type{
		Kind:    TypeKindStruct,
		BitSize: 64,
		Fields: []Type{
			{Kind: TypeKindFloat, BitSize: 32},
			{Kind: TypeKindFloat, BitSize: 32},
		},
	}
	elem := GetFloatArrayType(s)
	if elem == nil || elem.BitSize != 32 {
		t.Fatalf("expected a 32-bit float element type, got %+v", elem)
	}

	notHFA := Type{Kind: TypeKindInteger, BitSize: 64}
	if GetFloatArrayType(notHFA) != nil {
		t.Fatalf("expected nil for a non-HFA type")
	}
}
