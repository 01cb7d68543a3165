// Package fixture decodes a JSON demo MIR program into a mir.Record, for
// the cmd/arm64cg CLI and mirview/objdump's standalone (no-upstream-
// compiler) demo mode. Grounded on spec.md §6's "no on-disk format in this
// core" contract: this package lives outside the core, exercising
// encoding/json the way no core package needs to (there is no third-party
// JSON library anywhere in the retrieval pack, so stdlib is the correct
// choice per SPEC_FULL.md §10).
package fixture

import (
	"encoding/json"
	"fmt"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// Program is the on-disk JSON shape: a flat instruction list plus the
// frame_locs table a demo function needs.
type Program struct {
	Instructions []Instruction       `json:"instructions"`
	FrameLocs    []FrameLocEntry     `json:"frame_locs,omitempty"`
}

// FrameLocEntry is one frame_locs row, keyed by a small integer FrameIndex
// (0-4 name the five fixed regions; 5+ are user-defined).
type FrameLocEntry struct {
	Index  int   `json:"index"`
	Offset int64 `json:"offset"`
	Size   uint32 `json:"size"`
	Align  uint32 `json:"align"`
}

// Instruction is one JSON-encoded MIR instruction. Only the fields its Ops
// layout needs are read; the rest are ignored.
type Instruction struct {
	Tag    string `json:"tag"`
	Rd     string `json:"rd,omitempty"`
	Rn     string `json:"rn,omitempty"`
	Rm     string `json:"rm,omitempty"`
	Ra     string `json:"ra,omitempty"`
	Imm    *int64 `json:"imm,omitempty"`
	Signed *bool  `json:"signed,omitempty"`
	// Shift is the move-wide (movz/movn/movk) hw shift amount: one of
	// 0, 16, 32, 48. Omitted means 0.
	Shift  *uint8 `json:"shift,omitempty"`
	Cond   string `json:"cond,omitempty"`
	Target *int   `json:"target,omitempty"`
	MemBase string `json:"mem_base,omitempty"`
	MemImm  *int32 `json:"mem_imm,omitempty"`
	Line    *int   `json:"line,omitempty"`
	Column  *int   `json:"column,omitempty"`
}

// Decode parses JSON bytes into a mir.Record.
func Decode(data []byte) (*mir.Record, error) {
	var prog Program
	if err := json.Unmarshal(data, &prog); err != nil {
		return nil, fmt.Errorf("fixture: invalid JSON: %w", err)
	}
	return Build(prog)
}

// Build constructs a mir.Record from an already-parsed Program.
func Build(prog Program) (*mir.Record, error) {
	rec := mir.NewRecord()
	for _, loc := range prog.FrameLocs {
		rec.SetFrameLoc(bits.FrameIndex(loc.Index), mir.FrameLoc{Offset: loc.Offset, Size: loc.Size, Align: loc.Align})
	}

	for i, ji := range prog.Instructions {
		inst, err := decodeInst(ji)
		if err != nil {
			return nil, fmt.Errorf("fixture: instruction %d: %w", i, err)
		}
		rec.Append(inst)
	}
	return rec, nil
}

func decodeInst(ji Instruction) (mir.Inst, error) {
	tag, ok := tagsByName[ji.Tag]
	if !ok {
		return mir.Inst{}, fmt.Errorf("unknown tag %q", ji.Tag)
	}

	switch {
	case tag.IsPseudo():
		return decodePseudo(tag, ji)
	case tag.IsBranch():
		return decodeBranch(tag, ji)
	default:
		return decodeCore(tag, ji)
	}
}

func decodePseudo(tag mir.Tag, ji Instruction) (mir.Inst, error) {
	if tag == mir.TagDbgLine {
		line, col := 0, 0
		if ji.Line != nil {
			line = *ji.Line
		}
		if ji.Column != nil {
			col = *ji.Column
		}
		return mir.NewDbgLine(line, col), nil
	}
	return mir.NewPseudo(tag), nil
}

func decodeBranch(tag mir.Tag, ji Instruction) (mir.Inst, error) {
	if ji.Target == nil {
		return mir.Inst{}, fmt.Errorf("%s requires a target index", ji.Tag)
	}
	target := mir.InstIndex(*ji.Target)

	switch tag {
	case mir.TagB, mir.TagBl:
		return mir.NewRel(tag, target), nil
	case mir.TagBCond:
		cond, err := condByName(ji.Cond)
		if err != nil {
			return mir.Inst{}, err
		}
		return mir.NewRC(tag, cond, target), nil
	case mir.TagCbz, mir.TagCbnz:
		rn, err := regByName(ji.Rn)
		if err != nil {
			return mir.Inst{}, err
		}
		return mir.NewRRel(tag, rn, target), nil
	case mir.TagTbz, mir.TagTbnz:
		rn, err := regByName(ji.Rn)
		if err != nil {
			return mir.Inst{}, err
		}
		bit := uint8(0)
		if ji.Imm != nil {
			bit = uint8(*ji.Imm)
		}
		return mir.NewRRelBit(tag, rn, bit, target), nil
	case mir.TagAdr, mir.TagAdrp:
		rd, err := regByName(ji.Rd)
		if err != nil {
			return mir.Inst{}, err
		}
		return mir.NewRRel(tag, rd, target), nil
	default:
		return mir.Inst{}, fmt.Errorf("unsupported branch tag %q", ji.Tag)
	}
}

// decodeCore handles the non-branch, non-pseudo tags a demo fixture is
// realistically built from: register-register-register ALU ops, register
// moves/returns, immediate forms, and single-register loads/stores.
func decodeCore(tag mir.Tag, ji Instruction) (mir.Inst, error) {
	switch tag {
	case mir.TagRet, mir.TagNop:
		rd := bits.RegNone
		if ji.Rd != "" {
			var err error
			rd, err = regByName(ji.Rd)
			if err != nil {
				return mir.Inst{}, err
			}
		}
		return mir.NewR(tag, rd), nil

	case mir.TagSvc, mir.TagBrk, mir.TagHint:
		imm, err := immOperand(ji)
		if err != nil {
			return mir.Inst{}, err
		}
		return mir.NewImm(tag, imm), nil

	case mir.TagCmp, mir.TagCmn, mir.TagTst:
		rn, err1 := regByName(ji.Rn)
		rm, err2 := regByName(ji.Rm)
		if err := firstErr(err1, err2); err != nil {
			return mir.Inst{}, err
		}
		return mir.NewRR(tag, rn, rm), nil

	case mir.TagCset, mir.TagCsetm:
		rd, err := regByName(ji.Rd)
		if err != nil {
			return mir.Inst{}, err
		}
		cond, err := condByName(ji.Cond)
		if err != nil {
			return mir.Inst{}, err
		}
		return mir.NewRCond(tag, rd, cond), nil

	case mir.TagMovz, mir.TagMovn, mir.TagMovk:
		rd, err := regByName(ji.Rd)
		if err != nil {
			return mir.Inst{}, err
		}
		imm, err := immOperand(ji)
		if err != nil {
			return mir.Inst{}, err
		}
		var shift uint8
		if ji.Shift != nil {
			shift = *ji.Shift
		}
		return mir.NewRIShift(tag, rd, imm, shift), nil

	case mir.TagLdr, mir.TagLdrb, mir.TagLdrh, mir.TagLdrsb, mir.TagLdrsh, mir.TagLdrsw,
		mir.TagStr, mir.TagStrb, mir.TagStrh:
		rd, err1 := regByName(ji.Rd)
		base, err2 := regByName(ji.MemBase)
		if err := firstErr(err1, err2); err != nil {
			return mir.Inst{}, err
		}
		var off int32
		if ji.MemImm != nil {
			off = *ji.MemImm
		}
		if tag == mir.TagStr || tag == mir.TagStrb || tag == mir.TagStrh {
			return mir.NewMR(tag, bits.ImmediateMemory(base, off), rd), nil
		}
		return mir.NewRM(tag, rd, bits.ImmediateMemory(base, off)), nil
	}

	if ji.Rd != "" && ji.Rn != "" && ji.Rm != "" {
		rd, err1 := regByName(ji.Rd)
		rn, err2 := regByName(ji.Rn)
		rm, err3 := regByName(ji.Rm)
		if err := firstErr(err1, err2, err3); err != nil {
			return mir.Inst{}, err
		}
		return mir.NewRRR(tag, rd, rn, rm), nil
	}

	if ji.Rd != "" && ji.Rn != "" && ji.Imm != nil {
		rd, err1 := regByName(ji.Rd)
		rn, err2 := regByName(ji.Rn)
		if err := firstErr(err1, err2); err != nil {
			return mir.Inst{}, err
		}
		if tag == mir.TagAndImm || tag == mir.TagOrrImm || tag == mir.TagEorImm {
			return mir.NewRRBitmask(tag, rd, rn, uint64(*ji.Imm)), nil
		}
		imm, err := immOperand(ji)
		if err != nil {
			return mir.Inst{}, err
		}
		return mir.NewRRI(tag, rd, rn, imm), nil
	}

	if ji.Rd != "" && ji.Imm != nil {
		rd, err := regByName(ji.Rd)
		if err != nil {
			return mir.Inst{}, err
		}
		imm, err := immOperand(ji)
		if err != nil {
			return mir.Inst{}, err
		}
		return mir.NewRI(tag, rd, imm), nil
	}

	if ji.Rd != "" && ji.Rn != "" {
		rd, err1 := regByName(ji.Rd)
		rn, err2 := regByName(ji.Rn)
		if err := firstErr(err1, err2); err != nil {
			return mir.Inst{}, err
		}
		return mir.NewRR(tag, rd, rn), nil
	}

	return mir.Inst{}, fmt.Errorf("tag %q: no recognized operand pattern in the supplied fields", ji.Tag)
}

func immOperand(ji Instruction) (bits.Immediate, error) {
	if ji.Imm == nil {
		return bits.Immediate{}, fmt.Errorf("missing imm field")
	}
	if ji.Signed != nil && !*ji.Signed {
		return bits.UnsignedImmediate(uint64(*ji.Imm)), nil
	}
	return bits.SignedImmediate(*ji.Imm), nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
