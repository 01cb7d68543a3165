// Package xref generates a cross-reference report over a mir.Record:
// which MIR indices are branch targets, and from where. Grounded on
// tools/xref.go's Symbol/Reference model, regeneralized from named
// assembly labels to MIR instruction indices.
package xref

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lookbusy1344/arm64cg/mir"
)

// RefKind classifies how a source instruction names a target index.
type RefKind int

const (
	RefBranch        RefKind = iota // unconditional b/bl
	RefCondBranch                   // b.cond
	RefCompareBranch                // cbz/cbnz
	RefTestBranch                   // tbz/tbnz
)

func (k RefKind) String() string {
	switch k {
	case RefBranch:
		return "branch"
	case RefCondBranch:
		return "cond_branch"
	case RefCompareBranch:
		return "compare_branch"
	case RefTestBranch:
		return "test_branch"
	default:
		return "unknown"
	}
}

// Ref is one source instruction referencing a target MIR index.
type Ref struct {
	Source mir.InstIndex
	Kind   RefKind
}

// Target collects every Ref pointing at one MIR index.
type Target struct {
	Index mir.InstIndex
	Refs  []Ref
}

// Report is the full cross-reference result: every MIR index named as a
// branch target by at least one instruction, in ascending index order.
type Report struct {
	Targets []Target
}

// Generate walks rec and builds a Report.
func Generate(rec *mir.Record) *Report {
	byTarget := make(map[mir.InstIndex][]Ref)

	for i := 0; i < rec.Len(); i++ {
		idx := mir.InstIndex(i)
		inst := rec.At(idx)

		switch inst.Tag {
		case mir.TagB, mir.TagBl:
			target := inst.Rel()
			byTarget[target] = append(byTarget[target], Ref{Source: idx, Kind: RefBranch})
		case mir.TagBCond:
			_, _, target, has := inst.RC()
			if has {
				byTarget[target] = append(byTarget[target], Ref{Source: idx, Kind: RefCondBranch})
			}
		case mir.TagCbz, mir.TagCbnz:
			_, target := inst.RRel()
			byTarget[target] = append(byTarget[target], Ref{Source: idx, Kind: RefCompareBranch})
		case mir.TagTbz, mir.TagTbnz:
			_, target := inst.RRel()
			byTarget[target] = append(byTarget[target], Ref{Source: idx, Kind: RefTestBranch})
		}
	}

	targets := make([]mir.InstIndex, 0, len(byTarget))
	for t := range byTarget {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

	report := &Report{Targets: make([]Target, 0, len(targets))}
	for _, t := range targets {
		refs := byTarget[t]
		sort.Slice(refs, func(i, j int) bool { return refs[i].Source < refs[j].Source })
		report.Targets = append(report.Targets, Target{Index: t, Refs: refs})
	}
	return report
}

// ReferencedSet returns the set of MIR indices named as a branch target by
// at least one instruction in the report.
func (r *Report) ReferencedSet() map[mir.InstIndex]bool {
	set := make(map[mir.InstIndex]bool, len(r.Targets))
	for _, t := range r.Targets {
		set[t.Index] = true
	}
	return set
}

// String renders the report as one line per target, matching tools/
// xref.go's "label: ref, ref, ..." listing style.
func (r *Report) String() string {
	var b strings.Builder
	for _, t := range r.Targets {
		fmt.Fprintf(&b, "mir[%d]:", t.Index)
		for _, ref := range t.Refs {
			fmt.Fprintf(&b, " mir[%d](%s)", ref.Source, ref.Kind)
		}
		b.WriteString("\n")
	}
	return b.String()
}
