package bits

// ExtendType is the optional extension applied to a register-offset memory
// operand's index register before the LSL shift.
type ExtendType int

const (
	ExtendNone ExtendType = iota
	ExtendUXTW
	ExtendSXTW
	ExtendSXTX
)

// MemoryKind discriminates the addressing-mode variant carried by Memory.
type MemoryKind int

const (
	MemImmediate  MemoryKind = iota // base + signed 32-bit immediate offset
	MemRegister                     // base + index register, optional shift/extend
	MemPreIndex                     // base + signed imm, writeback before access
	MemPostIndex                    // base + signed imm, writeback after access
	MemPCRelative                   // literal-pool style PC-relative offset
)

// Memory is the ARM64 memory-operand model: a base register plus one of
// the addressing-mode variants in MemoryKind. Only the fields relevant to
// Kind are meaningful; the encoder validates consistency.
type Memory struct {
	Kind MemoryKind
	Base Register

	// MemImmediate / MemPreIndex / MemPostIndex.
	Imm int32

	// MemRegister.
	Index  Register
	Shift  uint8 // LSL shift amount, 0..3
	Extend ExtendType

	// MemPCRelative.
	PCOffset int64
}

// ImmediateMemory constructs a scaled/unscaled immediate-offset operand.
func ImmediateMemory(base Register, imm int32) Memory {
	return Memory{Kind: MemImmediate, Base: base, Imm: imm}
}

// RegisterMemory constructs a register-offset operand.
func RegisterMemory(base, index Register, shift uint8, ext ExtendType) Memory {
	return Memory{Kind: MemRegister, Base: base, Index: index, Shift: shift, Extend: ext}
}

// PreIndexMemory constructs a pre-index writeback operand.
func PreIndexMemory(base Register, imm int32) Memory {
	return Memory{Kind: MemPreIndex, Base: base, Imm: imm}
}

// PostIndexMemory constructs a post-index writeback operand.
func PostIndexMemory(base Register, imm int32) Memory {
	return Memory{Kind: MemPostIndex, Base: base, Imm: imm}
}

// PCRelativeMemory constructs a load-literal operand.
func PCRelativeMemory(offset int64) Memory {
	return Memory{Kind: MemPCRelative, PCOffset: offset}
}
