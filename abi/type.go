// Package abi classifies source-language types into their AAPCS64
// parameter/return passing convention (the arg class the caller and
// callee must agree on to lay out registers and the stack correctly). It
// has no direct analogue in the teacher: the closest idiomatic shape in
// the pack is a total, pure switch-dispatch function over a closed
// enumeration, following vm/safeconv.go's style (every branch returns, no
// partial function) and encoder's tag-to-encoding dispatch.
package abi

// TypeKind discriminates the shape a Type carries. It is a closed enumeration:
// classifyType must handle every Kind, and the set of kinds that are
// "unreachable" at this boundary (Void, NoReturn, Meta, Opaque) is fixed
// by §4.5 — callers must not pass a Type of one of those kinds in.
type TypeKind int

const (
	TypeKindInteger TypeKind = iota
	TypeKindEnum
	TypeKindErrorSet
	TypeKindFloat
	TypeKindBool
	TypeKindPointer
	TypeKindOptional
	TypeKindSlice
	TypeKindVector
	TypeKindStruct
	TypeKindUnion

	// Unreachable at this boundary; classifyType rejects them outright.
	TypeKindVoid
	TypeKindNoReturn
	TypeKindMeta
	TypeKindOpaque
)

func (k TypeKind) String() string {
	switch k {
	case TypeKindInteger:
		return "integer"
	case TypeKindEnum:
		return "enum"
	case TypeKindErrorSet:
		return "error_set"
	case TypeKindFloat:
		return "float"
	case TypeKindBool:
		return "bool"
	case TypeKindPointer:
		return "pointer"
	case TypeKindOptional:
		return "optional"
	case TypeKindSlice:
		return "slice"
	case TypeKindVector:
		return "vector"
	case TypeKindStruct:
		return "struct"
	case TypeKindUnion:
		return "union"
	case TypeKindVoid:
		return "void"
	case TypeKindNoReturn:
		return "noreturn"
	case TypeKindMeta:
		return "meta"
	case TypeKindOpaque:
		return "opaque"
	default:
		return "<invalid-kind>"
	}
}

// Type is the minimal shape classifyType needs: a Kind discriminant plus
// the handful of fields its rules actually inspect. BitSize is the type's
// total storage size in bits (used for vector/struct/union size rules).
// Fields lists aggregate members in declaration order (struct/union only).
// Elem is the pointee/element type (pointer, optional, slice, vector of a
// scalar float).
type Type struct {
	Kind    TypeKind
	BitSize int
	Packed  bool // struct/union only: true skips the HFA/HVA float scan
	Fields  []Type
	Elem    *Type
}

// IsFloat reports whether t is a scalar floating-point type, the
// primitive classifyType's HFA/HVA scan is built on.
func (t Type) IsFloat() bool {
	return t.Kind == TypeKindFloat
}
