// Package format renders a mir.Record as human-readable listing text,
// grounded on the teacher's tools/format.go: the same
// FormatOptions/FormatStyle/column-padding shape, regeneralized from
// parsed ARM32 assembly source to a MIR instruction table.
package format

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// Style selects an overall formatting density.
type Style int

const (
	StyleDefault  Style = iota // standard column alignment
	StyleCompact               // minimal whitespace, one token run per line
	StyleExpanded              // extra whitespace for readability
)

// Options controls Formatter behavior.
type Options struct {
	Style             Style
	MnemonicColumn    int  // column the mnemonic starts at
	OperandColumn     int  // column operands start at
	CommentColumn     int  // column line/column debug comments start at
	AlignOperands     bool // pad mnemonic out to OperandColumn
	AlignComments     bool // pad out to CommentColumn before a comment
	ShowIndex         bool // prefix each line with its MIR instruction index
}

// DefaultOptions returns the default listing style.
func DefaultOptions() *Options {
	return &Options{
		Style:          StyleDefault,
		MnemonicColumn: 8,
		OperandColumn:  16,
		CommentColumn:  40,
		AlignOperands:  true,
		AlignComments:  true,
		ShowIndex:      true,
	}
}

// CompactOptions returns options for a terse, single-pass-friendly listing.
func CompactOptions() *Options {
	opts := DefaultOptions()
	opts.Style = StyleCompact
	opts.MnemonicColumn = 0
	opts.OperandColumn = 0
	opts.CommentColumn = 0
	opts.AlignOperands = false
	opts.AlignComments = false
	return opts
}

// ExpandedOptions returns options with extra column spacing.
func ExpandedOptions() *Options {
	opts := DefaultOptions()
	opts.Style = StyleExpanded
	opts.MnemonicColumn = 12
	opts.OperandColumn = 28
	opts.CommentColumn = 56
	return opts
}

// Formatter renders MIR records to text.
type Formatter struct {
	options *Options
	output  strings.Builder
}

// NewFormatter creates a Formatter. A nil options uses DefaultOptions.
func NewFormatter(options *Options) *Formatter {
	if options == nil {
		options = DefaultOptions()
	}
	return &Formatter{options: options}
}

// Format renders rec as a listing, one line per MIR instruction. Branch
// targets gathered from the record are printed as "LN:" labels on the line
// they land on.
func (f *Formatter) Format(rec *mir.Record) string {
	f.output.Reset()

	targets := branchTargets(rec)
	for idx := 0; idx < rec.Len(); idx++ {
		if targets[mir.InstIndex(idx)] {
			f.output.WriteString(label(mir.InstIndex(idx)))
			f.output.WriteString(":\n")
		}
		f.formatInst(rec, mir.InstIndex(idx))
	}

	return f.output.String()
}

// label names the synthetic listing label for a branch target.
func label(idx mir.InstIndex) string {
	return fmt.Sprintf("L%d", int(idx))
}

// branchTargets collects every InstIndex named as a target by a
// branch-carrying instruction in rec.
func branchTargets(rec *mir.Record) map[mir.InstIndex]bool {
	targets := make(map[mir.InstIndex]bool)
	for idx := 0; idx < rec.Len(); idx++ {
		inst := rec.At(mir.InstIndex(idx))
		switch inst.Ops {
		case mir.OpsRel:
			targets[inst.Rel()] = true
		case mir.OpsRRel:
			_, target := inst.RRel()
			targets[target] = true
		case mir.OpsRC:
			_, _, target, has := inst.RC()
			if has {
				targets[target] = true
			}
		}
	}
	return targets
}

func (f *Formatter) formatInst(rec *mir.Record, idx mir.InstIndex) {
	inst := rec.At(idx)
	line := strings.Builder{}

	if f.options.ShowIndex && f.options.Style != StyleCompact {
		fmt.Fprintf(&line, "%4d  ", int(idx))
	}

	mnemonic := inst.Tag.String()
	if f.options.Style == StyleCompact {
		line.WriteString(mnemonic)
	} else {
		line.WriteString(mnemonic)
		operands := formatOperands(rec, inst)
		if operands != "" && f.options.AlignOperands {
			padToColumn(&line, f.options.OperandColumn)
		} else if operands != "" {
			line.WriteString("\t")
		}
	}

	operands := formatOperands(rec, inst)
	if operands != "" {
		if f.options.Style == StyleCompact {
			line.WriteString(" ")
		}
		line.WriteString(operands)
	}

	if comment := debugComment(inst); comment != "" {
		if f.options.Style == StyleCompact {
			line.WriteString(" ; ")
			line.WriteString(comment)
		} else if f.options.AlignComments {
			padToColumn(&line, f.options.CommentColumn)
			line.WriteString("; ")
			line.WriteString(comment)
		} else {
			line.WriteString("\t; ")
			line.WriteString(comment)
		}
	}

	f.output.WriteString(line.String())
	f.output.WriteString("\n")
}

// debugComment renders a trailing comment for pseudo instructions that
// carry source-position metadata.
func debugComment(inst mir.Inst) string {
	if inst.Ops == mir.OpsPseudoDbgLine {
		lineNo, col := inst.DbgLine()
		return fmt.Sprintf("line %d, col %d", lineNo, col)
	}
	return ""
}

// formatOperands renders inst's operands in the order the encoder expects
// them, using rec only to resolve the target-index niceties (e.g. printing
// "L3" rather than a bare integer).
func formatOperands(rec *mir.Record, inst mir.Inst) string {
	switch inst.Ops {
	case mir.OpsR:
		return inst.R().String()
	case mir.OpsRR:
		rd, rn := inst.RR()
		return join(rd.String(), rn.String())
	case mir.OpsRRR:
		rd, rn, rm := inst.RRR()
		return join(rd.String(), rn.String(), rm.String())
	case mir.OpsRRRR:
		rd, rn, rm, ra := inst.RRRR()
		return join(rd.String(), rn.String(), rm.String(), ra.String())
	case mir.OpsRI:
		rd, imm := inst.RI()
		return join(rd.String(), formatImm(imm))
	case mir.OpsRRI:
		rd, rn, imm := inst.RRI()
		return join(rd.String(), rn.String(), formatImm(imm))
	case mir.OpsRRIShift:
		rd, rn, imm, shift, amount := inst.RRIShift()
		return join(rd.String(), rn.String(), formatImm(imm), formatShift(shift, amount))
	case mir.OpsRM:
		rd, mem := inst.RM()
		return join(rd.String(), formatMem(mem))
	case mir.OpsMR:
		mem, rd := inst.MR()
		return join(formatMem(mem), rd.String())
	case mir.OpsRRM:
		rd, rn, mem := inst.RRM()
		return join(rd.String(), rn.String(), formatMem(mem))
	case mir.OpsMRR:
		mem, rt, rt2 := inst.MRR()
		return join(formatMem(mem), rt.String(), rt2.String())
	case mir.OpsRRRC:
		rd, rn, rm, cond := inst.RRRC()
		return join(rd.String(), rn.String(), rm.String(), cond.String())
	case mir.OpsRRC:
		rn, rm, cond := inst.RRC()
		return join(rn.String(), rm.String(), cond.String())
	case mir.OpsRC:
		_, cond, target, _ := inst.RC()
		return join(cond.String(), label(target))
	case mir.OpsRCond:
		rd, cond := inst.RCond()
		return join(rd.String(), cond.String())
	case mir.OpsRel:
		return label(inst.Rel())
	case mir.OpsRRel:
		rn, target := inst.RRel()
		return join(rn.String(), label(target))
	case mir.OpsRRBitmask:
		rd, rn, mask := inst.RRBitmask()
		return join(rd.String(), rn.String(), fmt.Sprintf("#0x%x", mask))
	case mir.OpsImm:
		return formatImm(inst.ImmOnly())
	case mir.OpsPseudoDead:
		return inst.Dead().String()
	case mir.OpsPseudoSpill:
		reg, mem := inst.Spill()
		return join(reg.String(), formatMem(mem))
	case mir.OpsPseudoReload:
		mem, reg := inst.Reload()
		return join(formatMem(mem), reg.String())
	default:
		return ""
	}
}

func join(parts ...string) string {
	return strings.Join(parts, ", ")
}

func formatImm(imm bits.Immediate) string {
	if imm.Kind == bits.ImmSigned {
		return fmt.Sprintf("#%d", imm.AsSigned())
	}
	return fmt.Sprintf("#0x%x", imm.AsUnsigned())
}

func formatShift(shift mir.ShiftKind, amount uint8) string {
	names := map[mir.ShiftKind]string{
		mir.ShiftLSL: "lsl", mir.ShiftLSR: "lsr", mir.ShiftASR: "asr", mir.ShiftROR: "ror",
	}
	return fmt.Sprintf("%s #%d", names[shift], amount)
}

func formatMem(mem bits.Memory) string {
	switch mem.Kind {
	case bits.MemImmediate:
		if mem.Imm == 0 {
			return fmt.Sprintf("[%s]", mem.Base)
		}
		return fmt.Sprintf("[%s, #%d]", mem.Base, mem.Imm)
	case bits.MemRegister:
		return fmt.Sprintf("[%s, %s]", mem.Base, mem.Index)
	case bits.MemPreIndex:
		return fmt.Sprintf("[%s, #%d]!", mem.Base, mem.Imm)
	case bits.MemPostIndex:
		return fmt.Sprintf("[%s], #%d", mem.Base, mem.Imm)
	case bits.MemPCRelative:
		return fmt.Sprintf("[pc, #%d]", mem.PCOffset)
	default:
		return "<invalid-mem>"
	}
}

// padToColumn pads sb out to column, or adds a single separating space if
// it has already passed it.
func padToColumn(sb *strings.Builder, column int) {
	current := sb.Len()
	switch {
	case current < column:
		sb.WriteString(strings.Repeat(" ", column-current))
	case current == column:
	default:
		sb.WriteString(" ")
	}
}

// FormatRecord is a convenience function using DefaultOptions.
func FormatRecord(rec *mir.Record) string {
	return NewFormatter(DefaultOptions()).Format(rec)
}
