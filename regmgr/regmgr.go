package regmgr

import (
	"fmt"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// RegClass is the allocation pool a caller draws from. It names a coarser
// grouping than bits.RegClass: the manager only ever hands out registers
// from the AAPCS64 caller-saved scratch lists, never callee-saved or
// special-purpose registers (SP, XZR, WZR, FP, LR are never candidates).
type RegClass int

const (
	GeneralPurpose RegClass = iota
	Vector
)

func (c RegClass) String() string {
	switch c {
	case GeneralPurpose:
		return "general_purpose"
	case Vector:
		return "vector"
	default:
		return "<invalid-reg-class>"
	}
}

// generalPurposeScratch is the fixed, documented scan order for
// allocReg(GeneralPurpose): AAPCS64's caller-saved temporaries X9-X15,
// scanned ascending. X0-X8 are excluded because they double as
// argument/indirect-result/IP0 registers upstream callers may still be
// relying on when a MIR record reaches this package; X16-X18 are excluded
// as platform/IP registers; X19-X28 are callee-saved and never handed out;
// X29/X30 are the FP/LR aliases and SP is never a scratch candidate.
var generalPurposeScratch = []bits.Register{
	bits.X9, bits.X10, bits.X11, bits.X12, bits.X13, bits.X14, bits.X15,
}

// vectorScratch is the fixed, documented scan order for allocReg(Vector):
// the AAPCS64 caller-saved SIMD/FP registers, scanned ascending. V8-V15 are
// excluded because only their low 64 bits are callee-saved, making them
// unsafe scratch candidates for a generic allocator that does not track
// call boundaries.
var vectorScratch = []bits.Register{
	bits.V0, bits.V1, bits.V2, bits.V3, bits.V4, bits.V5, bits.V6, bits.V7,
	bits.V16, bits.V17, bits.V18, bits.V19, bits.V20, bits.V21, bits.V22, bits.V23,
	bits.V24, bits.V25, bits.V26, bits.V27, bits.V28, bits.V29, bits.V30, bits.V31,
}

func defaultCandidatesFor(class RegClass) []bits.Register {
	switch class {
	case Vector:
		return vectorScratch
	default:
		return generalPurposeScratch
	}
}

// candidatesFor returns m's scan order for class, falling back to the
// documented default when m was built with NewOrdered and left class out.
func (m *Manager) candidatesFor(class RegClass) []bits.Register {
	if regs, ok := m.order[class]; ok {
		return regs
	}
	return defaultCandidatesFor(class)
}

// Manager tracks, for each ARM64 register, the MIR instruction currently
// owning it (if any). It enforces no control-flow-wide invariant of its
// own; callers are responsible for freeing what they allocate.
type Manager struct {
	owner    map[bits.Register]mir.InstIndex
	occupied map[bits.Register]bool

	order map[RegClass][]bits.Register
}

// New returns an empty Manager using the default scan order (§4.4): the
// documented AAPCS64 caller-saved lists above. Every register starts
// unowned.
func New() *Manager {
	return NewOrdered(map[RegClass][]bits.Register{
		GeneralPurpose: generalPurposeScratch,
		Vector:         vectorScratch,
	})
}

// NewOrdered returns an empty Manager that scans each class's candidate
// list in the caller-supplied order instead of the default one. A class
// absent from order falls back to its documented default list.
func NewOrdered(order map[RegClass][]bits.Register) *Manager {
	return &Manager{
		owner:    make(map[bits.Register]mir.InstIndex),
		occupied: make(map[bits.Register]bool),
		order:    order,
	}
}

// IsFree reports whether reg currently has no owner.
func (m *Manager) IsFree(reg bits.Register) bool {
	return !m.occupied[reg]
}

// Owner returns the instruction currently owning reg, if any.
func (m *Manager) Owner(reg bits.Register) (mir.InstIndex, bool) {
	if !m.occupied[reg] {
		return 0, false
	}
	return m.owner[reg], true
}

// AllocReg scans class's fixed candidate list in order and assigns the
// first unowned register to inst, or reports OutOfRegisters if the whole
// class is occupied.
func (m *Manager) AllocReg(inst mir.InstIndex, class RegClass) (bits.Register, *Error) {
	for _, reg := range m.candidatesFor(class) {
		if !m.occupied[reg] {
			m.owner[reg] = inst
			m.occupied[reg] = true
			return reg, nil
		}
	}
	return bits.RegNone, newOutOfRegistersError(class)
}

// GetRegAssumeFree assigns reg to inst under the precondition that reg is
// currently unowned. Callers that already know a specific register is
// available (e.g. a fixed ABI slot) use this instead of scanning a class.
// It panics if the precondition is violated: a double-allocation without an
// intervening FreeReg is a programmer error, not a recoverable condition.
func (m *Manager) GetRegAssumeFree(reg bits.Register, inst mir.InstIndex) {
	if m.occupied[reg] {
		panic(fmt.Sprintf("regmgr: GetRegAssumeFree(%s): already owned by mir[%d]", reg, m.owner[reg]))
	}
	m.owner[reg] = inst
	m.occupied[reg] = true
}

// FreeReg unbinds reg's owner. Freeing bits.RegNone, or a register that was
// never occupied, is silently accepted.
func (m *Manager) FreeReg(reg bits.Register) {
	if reg == bits.RegNone {
		return
	}
	delete(m.owner, reg)
	delete(m.occupied, reg)
}

// Handle is a scoped acquisition: calling Release frees the register it
// was issued for. A Handle must be released exactly once.
type Handle struct {
	mgr *Manager
	reg bits.Register
}

// Release frees the register this handle was issued for.
func (h *Handle) Release() {
	h.mgr.FreeReg(h.reg)
}

// Register returns the register this handle guards.
func (h *Handle) Register() bits.Register {
	return h.reg
}

// LockReg assigns reg to inst (via GetRegAssumeFree) and returns a handle
// whose Release call frees it again. Panics under the same precondition as
// GetRegAssumeFree: reg must be unowned at call time.
func (m *Manager) LockReg(reg bits.Register, inst mir.InstIndex) *Handle {
	m.GetRegAssumeFree(reg, inst)
	return &Handle{mgr: m, reg: reg}
}

// LockRegs locks every register in regs for inst, in order, and returns one
// handle per register in the same order. If locking register i panics (it
// was already owned), every handle issued for regs[0:i] is released before
// the panic propagates, so a partially-completed vectorized lock never
// leaks.
func (m *Manager) LockRegs(regs []bits.Register, inst mir.InstIndex) []*Handle {
	handles := make([]*Handle, 0, len(regs))
	defer func() {
		if r := recover(); r != nil {
			for _, h := range handles {
				h.Release()
			}
			panic(r)
		}
	}()
	for _, reg := range regs {
		handles = append(handles, m.LockReg(reg, inst))
	}
	return handles
}
