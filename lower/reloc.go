package lower

import "github.com/lookbusy1344/arm64cg/mir"

// RelocKind names an immediate-field width class for a deferred branch
// patch. The first four are intra-function and active today; the reserved
// three are recognized but hard-error on use until PIC support wires them
// to the linker (spec.md §4.2 point 4).
type RelocKind int

const (
	RelocBranch26 RelocKind = iota
	RelocBranch19
	RelocCbz19
	RelocTbz14

	RelocAdrpPage
	RelocAddPageoff
	RelocLiteral19
)

func (k RelocKind) String() string {
	switch k {
	case RelocBranch26:
		return "branch_26"
	case RelocBranch19:
		return "branch_19"
	case RelocCbz19:
		return "cbz_19"
	case RelocTbz14:
		return "tbz_14"
	case RelocAdrpPage:
		return "adrp_page"
	case RelocAddPageoff:
		return "add_pageoff"
	case RelocLiteral19:
		return "literal_19"
	default:
		return "<invalid-reloc-kind>"
	}
}

// IsReserved reports whether k belongs to the reserved, not-yet-wired
// taxonomy slot (adrp_page, add_pageoff, literal_19).
func (k RelocKind) IsReserved() bool {
	switch k {
	case RelocAdrpPage, RelocAddPageoff, RelocLiteral19:
		return true
	default:
		return false
	}
}

// immWidth returns N, the signed immediate field width in bits, for the
// four active relocation kinds.
func (k RelocKind) immWidth() int {
	switch k {
	case RelocBranch26:
		return 26
	case RelocBranch19, RelocCbz19:
		return 19
	case RelocTbz14:
		return 14
	default:
		return 0
	}
}

// Relocation is a deferred patch of one branch immediate: word index
// source carries an instruction whose immediate targets MIR index Target,
// to be resolved once branch_targets is complete.
type Relocation struct {
	Source int
	Target mir.InstIndex
	Kind   RelocKind
}

// patchWord masks out the immediate field of word and ORs in delta, per
// the exact bit layouts spec.md §4.2 mandates.
func patchWord(word uint32, kind RelocKind, delta int64) uint32 {
	switch kind {
	case RelocBranch26:
		return (word & 0xFC000000) | (uint32(delta) & 0x3FFFFFF)
	case RelocBranch19, RelocCbz19:
		return (word & 0xFF00001F) | ((uint32(delta) & 0x7FFFF) << 5)
	case RelocTbz14:
		return (word & 0xFFF8001F) | ((uint32(delta) & 0x3FFF) << 5)
	default:
		return word
	}
}

// fitsSignedN reports whether delta fits in a signed N-bit field.
func fitsSignedN(delta int64, n int) bool {
	lo := -(int64(1) << uint(n-1))
	hi := int64(1)<<uint(n-1) - 1
	return delta >= lo && delta <= hi
}
