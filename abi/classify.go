package abi

// Class is the coarse AAPCS64 parameter/return passing category
// classifyType resolves a Type to.
type Class int

const (
	Memory Class = iota
	Byval
	Integer
	DoubleInteger
	FloatArray
)

func (c Class) String() string {
	switch c {
	case Memory:
		return "memory"
	case Byval:
		return "byval"
	case Integer:
		return "integer"
	case DoubleInteger:
		return "double_integer"
	case FloatArray:
		return "float_array"
	default:
		return "<invalid-class>"
	}
}

// Classification is classifyType's result: a Class, plus the extra fields
// that only apply to FloatArray (the HFA/HVA element count and type).
type Classification struct {
	Class      Class
	FloatCount int  // 1..4, only set when Class == FloatArray
	FloatElem  Type // the uniform float element type, only set when Class == FloatArray
}

// pointerBits is AAPCS64's pointer/slice-component width.
const pointerBits = 64

// ClassifyType implements §4.5's AAPCS64 aggregate classification. It is a
// total function on every Type whose Kind is not one of the four
// boundary-unreachable kinds (Void, NoReturn, Meta, Opaque).
func ClassifyType(t Type) (Classification, *Error) {
	switch t.Kind {
	case TypeKindInteger, TypeKindEnum, TypeKindErrorSet, TypeKindFloat, TypeKindBool, TypeKindPointer:
		return Classification{Class: Byval}, nil

	case TypeKindOptional:
		return classifyOptional(t)

	case TypeKindSlice:
		// {ptr, len}: two pointer-sized integer fields, never a float
		// aggregate, so the HFA scan never applies.
		return classifyBySize(2 * pointerBits), nil

	case TypeKindVector:
		if t.BitSize <= 128 {
			return Classification{Class: Byval}, nil
		}
		return Classification{Class: Memory}, nil

	case TypeKindStruct, TypeKindUnion:
		return classifyAggregate(t)

	default:
		return Classification{}, newUnreachableKindError(t.Kind)
	}
}

// classifyOptional handles §4.5's "pointer-like optional -> byval" rule
// directly; any other optional payload has no reserved null-representation
// shortcut, so it classifies as a synthetic {presence-flag, payload}
// struct instead — the same rule a non-pointer optional would need at the
// call site regardless of which field ends up occupying a register.
func classifyOptional(t Type) (Classification, *Error) {
	if t.Elem != nil && t.Elem.Kind == TypeKindPointer {
		return Classification{Class: Byval}, nil
	}
	if t.Elem == nil {
		return Classification{Class: Byval}, nil
	}
	synthetic := Type{
		Kind:    TypeKindStruct,
		Fields:  []Type{{Kind: TypeKindBool, BitSize: 8}, *t.Elem},
		BitSize: roundUpToByte(8 + t.Elem.BitSize),
	}
	return classifyAggregate(synthetic)
}

func roundUpToByte(bits int) int {
	return (bits + 7) &^ 7
}

// classifyAggregate implements the struct/union branch of §4.5: packed
// aggregates skip the float scan entirely; otherwise a uniform-width float
// member count of 1..4 wins as an HFA/HVA, and everything else falls back
// to total-size classification.
func classifyAggregate(t Type) (Classification, *Error) {
	if t.Packed {
		return Classification{Class: Byval}, nil
	}

	width, count, status := scanFloatUniformity(t)
	if status == floatScanUniform && count > 0 && count <= 4 {
		return Classification{
			Class:      FloatArray,
			FloatCount: count,
			FloatElem:  Type{Kind: TypeKindFloat, BitSize: width},
		}, nil
	}

	// Mixed float widths (e.g. {f32, f64}) and more than four uniform
	// floats are not a homogeneous float aggregate; per spec.md §8's worked
	// example they classify by total bit size, the same as any other
	// non-uniform aggregate.
	return classifyBySize(t.BitSize), nil
}

func classifyBySize(bitSize int) Classification {
	switch {
	case bitSize > 128:
		return Classification{Class: Memory}
	case bitSize > 64:
		return Classification{Class: DoubleInteger}
	default:
		return Classification{Class: Integer}
	}
}

// floatScanStatus is scanFloatUniformity's outcome discriminant.
type floatScanStatus int

const (
	// floatScanUniform means every leaf found so far is a float of one
	// consistent width (count may be zero: an aggregate with no float
	// members at all is trivially uniform).
	floatScanUniform floatScanStatus = iota
	// floatScanNonUniform means at least two float leaves disagreed on
	// width: not a homogeneous float aggregate, so classifyAggregate falls
	// through to the size-based rule, same as floatScanMixedKinds.
	floatScanNonUniform
	// floatScanMixedKinds means a non-float, non-aggregate leaf was found
	// alongside (or instead of) floats, so this is not a homogeneous
	// float aggregate at all; classifyAggregate falls through to the
	// size-based rule without error.
	floatScanMixedKinds
)

// scanFloatUniformity recursively walks t's fields (struct and union are
// treated identically: §4.5 does not distinguish them for this scan),
// counting float leaves of a single width. Non-float, non-aggregate
// fields end the scan as floatScanMixedKinds rather than an error; the
// 4-element HFA/HVA cap is applied to the count by classifyAggregate.
func scanFloatUniformity(t Type) (width int, count int, status floatScanStatus) {
	switch t.Kind {
	case TypeKindFloat:
		return t.BitSize, 1, floatScanUniform

	case TypeKindStruct, TypeKindUnion:
		if t.Packed {
			return 0, 0, floatScanMixedKinds
		}
		for _, field := range t.Fields {
			fw, fc, fstatus := scanFloatUniformity(field)
			if fstatus != floatScanUniform {
				return 0, 0, fstatus
			}
			if fc == 0 {
				continue
			}
			if count == 0 {
				width = fw
			} else if fw != width {
				return 0, 0, floatScanNonUniform
			}
			count += fc
		}
		return width, count, floatScanUniform

	default:
		return 0, 0, floatScanMixedKinds
	}
}

// GetFloatArrayType returns the uniform float element type t would
// classify to if it is an HFA/HVA, or nil otherwise.
func GetFloatArrayType(t Type) *Type {
	cls, err := ClassifyType(t)
	if err != nil || cls.Class != FloatArray {
		return nil
	}
	elem := cls.FloatElem
	return &elem
}
