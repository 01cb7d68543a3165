// Package lint runs static checks over a mir.Record beyond what lowerMir
// itself enforces at lowering time: out-of-range branch targets,
// special-class register misuse, and frame_locs table sanity. Grounded on
// tools/lint.go's Level/Issue/Options/Linter shape, regeneralized from
// parsed ARM32 assembly source to a MIR instruction table.
package lint

import (
	"fmt"
	"sort"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// Level is the severity of a finding.
type Level int

const (
	LevelError   Level = iota // invariant violation lowerMir would also reject
	LevelWarning              // likely mistake, not an invariant violation
	LevelInfo                 // style/structure observation
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Issue is a single finding, anchored to the MIR instruction index it
// concerns.
type Issue struct {
	Level   Level
	Index   mir.InstIndex
	Code    string
	Message string
}

func (i *Issue) String() string {
	return fmt.Sprintf("mir[%d]: %s: %s [%s]", i.Index, i.Level, i.Message, i.Code)
}

// Options controls which passes Lint runs.
type Options struct {
	CheckTargets    bool // branch targets resolve to an in-range MIR index
	CheckRegClasses bool // opcode/register-class compatibility
	CheckFrameLocs  bool // frame_locs size/alignment sanity
}

// DefaultOptions enables every check.
func DefaultOptions() *Options {
	return &Options{CheckTargets: true, CheckRegClasses: true, CheckFrameLocs: true}
}

// Linter walks a mir.Record and collects Issues.
type Linter struct {
	options *Options
	issues  []*Issue
}

// NewLinter creates a Linter. A nil options uses DefaultOptions.
func NewLinter(options *Options) *Linter {
	if options == nil {
		options = DefaultOptions()
	}
	return &Linter{options: options}
}

// Lint analyzes rec and returns every finding, sorted by MIR index.
func (l *Linter) Lint(rec *mir.Record) []*Issue {
	l.issues = nil

	if l.options.CheckTargets {
		l.checkTargets(rec)
	}
	if l.options.CheckRegClasses {
		l.checkRegClasses(rec)
	}
	if l.options.CheckFrameLocs {
		l.checkFrameLocs(rec)
	}

	sort.SliceStable(l.issues, func(i, j int) bool { return l.issues[i].Index < l.issues[j].Index })
	return l.issues
}

func (l *Linter) add(idx mir.InstIndex, level Level, code, format string, args ...any) {
	l.issues = append(l.issues, &Issue{Level: level, Index: idx, Code: code, Message: fmt.Sprintf(format, args...)})
}

// checkTargets verifies every branch-carrying instruction's target names
// an in-range MIR instruction (spec.md §3 invariant: "every target field
// references an in-range instruction index").
func (l *Linter) checkTargets(rec *mir.Record) {
	for i := 0; i < rec.Len(); i++ {
		idx := mir.InstIndex(i)
		inst := rec.At(idx)

		var target mir.InstIndex
		var has bool
		switch inst.Ops {
		case mir.OpsRel:
			target, has = inst.Rel(), true
		case mir.OpsRRel:
			_, target = inst.RRel()
			has = true
		case mir.OpsRC:
			_, _, target, has = inst.RC()
		default:
			continue
		}
		if !has {
			l.add(idx, LevelError, "UNMATERIALIZED_TARGET", "%s has no materialized branch target", inst.Tag)
			continue
		}
		if !rec.InRange(target) {
			l.add(idx, LevelError, "OUT_OF_RANGE_TARGET", "%s targets mir[%d], out of range [0,%d)", inst.Tag, target, rec.Len())
		}
	}
}

// checkRegClasses flags register operands whose class the opcode forbids:
// FP/SIMD scalar tags require ClassVector operands, every other tag with
// register operands requires ClassGeneralPurpose or ClassSpecial (SP/XZR/
// WZR), never a vector register (spec.md §3: "the encoder rejects misuse").
func (l *Linter) checkRegClasses(rec *mir.Record) {
	for i := 0; i < rec.Len(); i++ {
		idx := mir.InstIndex(i)
		inst := rec.At(idx)
		if inst.Tag.IsPseudo() {
			continue
		}
		wantVector := isFPTag(inst.Tag)
		for _, reg := range registerOperands(inst) {
			if reg == bits.RegNone {
				continue
			}
			class := reg.Class()
			switch {
			case wantVector && class != bits.ClassVector:
				l.add(idx, LevelError, "INVALID_REGISTER_CLASS", "%s requires a vector register, got %s", inst.Tag, reg)
			case !wantVector && class == bits.ClassVector:
				l.add(idx, LevelError, "INVALID_REGISTER_CLASS", "%s requires a general-purpose register, got %s", inst.Tag, reg)
			}
		}
	}
}

func isFPTag(tag mir.Tag) bool {
	switch tag {
	case mir.TagFmov, mir.TagFadd, mir.TagFsub, mir.TagFmul, mir.TagFdiv, mir.TagFcmp:
		return true
	default:
		return false
	}
}

// registerOperands extracts every register operand an instruction's Ops
// variant carries, in no particular order.
func registerOperands(inst mir.Inst) []bits.Register {
	switch inst.Ops {
	case mir.OpsR:
		return []bits.Register{inst.R()}
	case mir.OpsRR:
		rd, rn := inst.RR()
		return []bits.Register{rd, rn}
	case mir.OpsRRR:
		rd, rn, rm := inst.RRR()
		return []bits.Register{rd, rn, rm}
	case mir.OpsRRRR:
		rd, rn, rm, ra := inst.RRRR()
		return []bits.Register{rd, rn, rm, ra}
	case mir.OpsRI:
		rd, _ := inst.RI()
		return []bits.Register{rd}
	case mir.OpsRRI:
		rd, rn, _ := inst.RRI()
		return []bits.Register{rd, rn}
	case mir.OpsRRIShift:
		rd, rn, _, _, _ := inst.RRIShift()
		return []bits.Register{rd, rn}
	case mir.OpsRM:
		rd, mem := inst.RM()
		return append([]bits.Register{rd}, memRegs(mem)...)
	case mir.OpsMR:
		mem, rd := inst.MR()
		return append([]bits.Register{rd}, memRegs(mem)...)
	case mir.OpsRRM:
		rd, rn, mem := inst.RRM()
		return append([]bits.Register{rd, rn}, memRegs(mem)...)
	case mir.OpsMRR:
		mem, rt, rt2 := inst.MRR()
		return append([]bits.Register{rt, rt2}, memRegs(mem)...)
	case mir.OpsRRRC:
		rd, rn, rm, _ := inst.RRRC()
		return []bits.Register{rd, rn, rm}
	case mir.OpsRRC:
		rn, rm, _ := inst.RRC()
		return []bits.Register{rn, rm}
	case mir.OpsRC:
		rn, _, _, _ := inst.RC()
		return []bits.Register{rn}
	case mir.OpsRCond:
		rd, _ := inst.RCond()
		return []bits.Register{rd}
	case mir.OpsRRel:
		rn, _ := inst.RRel()
		return []bits.Register{rn}
	case mir.OpsRRBitmask:
		rd, rn, _ := inst.RRBitmask()
		return []bits.Register{rd, rn}
	default:
		return nil
	}
}

func memRegs(mem bits.Memory) []bits.Register {
	switch mem.Kind {
	case bits.MemRegister:
		return []bits.Register{mem.Base, mem.Index}
	case bits.MemPCRelative:
		return nil
	default:
		return []bits.Register{mem.Base}
	}
}

// checkFrameLocs validates that every frame_locs entry has a power-of-two
// alignment and a non-negative size, per spec.md §3's "alignments are
// powers of two" invariant.
func (l *Linter) checkFrameLocs(rec *mir.Record) {
	for fi, loc := range rec.FrameLocs {
		if loc.Align == 0 || loc.Align&(loc.Align-1) != 0 {
			l.add(0, LevelError, "INVALID_FRAME_ALIGN", "frame_locs[%d] alignment %d is not a power of two", fi, loc.Align)
		}
	}
}
