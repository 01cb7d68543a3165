// Package lower implements the three-pass MIR-to-machine-words pipeline:
// position assignment, encoding with placeholder branch immediates, and a
// patch pass that installs the real immediates once every instruction's
// final word position is known. Grounded on parser/symbols.go's
// Relocation/SymbolTable shape (a deferred patch record keyed by a later-
// resolved position) and cross-grounded on faddat-wazero's machine.go
// label-then-patch structure.
package lower

import (
	"github.com/lookbusy1344/arm64cg/encoder"
	"github.com/lookbusy1344/arm64cg/mir"
)

// Options tunes lowering behavior beyond spec-mandated defaults.
type Options struct {
	// AllowReservedRelocPlaceholder permits encode-and-relocate of the
	// reserved taxonomy slot (adrp_page, add_pageoff, literal_19) instead
	// of hard-erroring immediately. The resulting relocation is left
	// unpatched (Kind.IsReserved() stays true) for a downstream linker
	// integration to resolve; Patch refuses to compute a delta for it.
	AllowReservedRelocPlaceholder bool
}

// Result is lowerMir's output: the encoded word stream, the relocation
// list applied against it, and the MIR-index-to-word-index map every
// relocation's target is resolved through.
type Result struct {
	Instructions  []uint32
	Relocations   []Relocation
	BranchTargets map[mir.InstIndex]int
}

// Lower runs the pipeline for one MIR record. It holds no state beyond a
// single call; construct a fresh Lower (or reuse LowerMir) per invocation.
type Lower struct {
	rec  *mir.Record
	opts Options
}

// New constructs a Lower over rec with the given options.
func New(rec *mir.Record, opts Options) *Lower {
	return &Lower{rec: rec, opts: opts}
}

// LowerMir is the convenience entry point: construct a Lower and run it in
// one call, matching spec.md §4.3's "Construct Lower ... Invoke lowerMir()"
// sequencing used by the emit façade.
func LowerMir(rec *mir.Record, opts Options) (*Result, *Error) {
	return New(rec, opts).Run()
}

// Run executes the three passes and returns the final word stream. No
// partial output is returned on error, per spec.md §4.2's failure
// semantics ("aborts the whole lowering with a single diagnostic").
func (l *Lower) Run() (*Result, *Error) {
	branchTargets := l.assignPositions()

	words, relocs, err := l.encodePass(branchTargets)
	if err != nil {
		return nil, err
	}

	if err := l.patchPass(words, relocs, branchTargets); err != nil {
		return nil, err
	}

	return &Result{Instructions: words, Relocations: relocs, BranchTargets: branchTargets}, nil
}

// assignPositions is pass 1: a running word counter that skips pseudo
// instructions, so a pseudo inherits the position of the next real
// instruction (spec.md §4.2 point 1).
func (l *Lower) assignPositions() map[mir.InstIndex]int {
	targets := make(map[mir.InstIndex]int, l.rec.Len())
	counter := 0
	for i := 0; i < l.rec.Len(); i++ {
		idx := mir.InstIndex(i)
		targets[idx] = counter
		if !l.rec.Tags[i].IsPseudo() {
			counter++
		}
	}
	return targets
}

// encodePass is pass 2: walk MIR again, emitting a word per real
// instruction. Branch-carrying instructions additionally push a
// Relocation; raw instructions pass their literal word through unchanged
// (the encoder already does this for TagRaw, so no special case is needed
// here beyond recognizing which tags need a relocation record).
func (l *Lower) encodePass(branchTargets map[mir.InstIndex]int) ([]uint32, []Relocation, *Error) {
	words := make([]uint32, 0, l.rec.Len())
	var relocs []Relocation

	for i := 0; i < l.rec.Len(); i++ {
		idx := mir.InstIndex(i)
		inst := l.rec.At(idx)
		if inst.Tag.IsPseudo() {
			continue
		}

		word, encErr := encoder.Encode(inst)
		if encErr != nil {
			return nil, nil, newEncodeFailedError(idx, encErr)
		}
		source := len(words)
		words = append(words, word)

		if !inst.Tag.IsBranch() {
			continue
		}
		kind, target, ok := relocInfoFor(inst)
		if !ok {
			continue
		}
		relocs = append(relocs, Relocation{Source: source, Target: target, Kind: kind})
	}

	return words, relocs, nil
}

// relocInfoFor extracts the relocation kind and target MIR index a
// branch-carrying instruction needs, per spec.md §4.2's kind taxonomy
// (branch_26 for b/bl, branch_19 for b.cond, cbz_19 for cbz/cbnz, tbz_14
// for tbz/tbnz) plus the reserved PC-relative-address kinds (literal_19
// for adr, adrp_page for adrp) from spec.md §4.2 item 4 and §6's
// relocation taxonomy. The reserved kinds reach patchPass like any other
// relocation; patchPass is what hard-errors on them (see RelocKind.IsReserved),
// so the documented hard-error path is exercised end-to-end from a real
// MIR instruction instead of only being reachable by hand-constructing a
// Relocation directly.
func relocInfoFor(inst mir.Inst) (RelocKind, mir.InstIndex, bool) {
	switch inst.Tag {
	case mir.TagB, mir.TagBl:
		return RelocBranch26, inst.Rel(), true
	case mir.TagBCond:
		_, _, target, hasTarget := inst.RC()
		return RelocBranch19, target, hasTarget
	case mir.TagCbz, mir.TagCbnz:
		_, target := inst.RRel()
		return RelocCbz19, target, true
	case mir.TagTbz, mir.TagTbnz:
		_, target := inst.RRel()
		return RelocTbz14, target, true
	case mir.TagAdr:
		_, target := inst.RRel()
		return RelocLiteral19, target, true
	case mir.TagAdrp:
		_, target := inst.RRel()
		return RelocAdrpPage, target, true
	default:
		return 0, 0, false
	}
}

// patchPass is pass 3: for each relocation, compute the instruction-unit
// delta and fold it into the already-emitted word, per spec.md §4.2 point
// 3. Patching happens in place on words, strictly before any caller writes
// a word to a sink (spec.md §5's ordering guarantee).
func (l *Lower) patchPass(words []uint32, relocs []Relocation, branchTargets map[mir.InstIndex]int) *Error {
	for _, r := range relocs {
		if r.Kind.IsReserved() {
			if l.opts.AllowReservedRelocPlaceholder {
				continue
			}
			return newCodegenFailError(r.Target, "reserved relocation kind %s is not enabled (set Options.AllowReservedRelocPlaceholder to opt in)", r.Kind)
		}

		targetPos, ok := branchTargets[r.Target]
		if !ok || !l.rec.InRange(r.Target) {
			return newCodegenFailError(r.Target, "unresolved branch target")
		}

		delta := int64(targetPos) - int64(r.Source)
		n := r.Kind.immWidth()
		if !fitsSignedN(delta, n) {
			return &Error{Kind: Overflow, Index: r.Target, msg: "branch delta out of range for " + r.Kind.String()}
		}

		words[r.Source] = patchWord(words[r.Source], r.Kind, delta)
	}
	return nil
}
