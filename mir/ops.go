package mir

// Ops discriminates the operand layout carried by an instruction's Data.
// Exactly one Ops value is valid per Tag; the encoder rejects any other
// combination with InvalidOperands.
type Ops int

const (
	OpsNone Ops = iota
	OpsR
	OpsRR
	OpsRRR
	OpsRRRR
	OpsRI
	OpsRRI
	OpsRRIShift
	OpsRM
	OpsMR
	OpsRRM
	OpsMRR
	OpsRRRC
	OpsRRC
	OpsRC
	OpsRCond
	OpsRel
	OpsRRel
	OpsRRBitmask
	OpsImm

	// Pseudo operand layouts, one per pseudo tag family.
	OpsPseudoDbgLine
	OpsPseudoDbgBlock
	OpsPseudoFrame
	OpsPseudoDead
	OpsPseudoSpill
	OpsPseudoReload
	OpsPseudoNone
)

var opsNames = map[Ops]string{
	OpsNone: "none", OpsR: "r", OpsRR: "rr", OpsRRR: "rrr", OpsRRRR: "rrrr",
	OpsRI: "ri", OpsRRI: "rri", OpsRRIShift: "rri_shift", OpsRM: "rm", OpsMR: "mr",
	OpsRRM: "rrm", OpsMRR: "mrr", OpsRRRC: "rrrc", OpsRRC: "rrc", OpsRC: "rc",
	OpsRCond: "r_cond",
	OpsRel: "rel", OpsRRel: "r_rel", OpsRRBitmask: "rr_bitmask", OpsImm: "imm",
	OpsPseudoDbgLine: "pseudo_dbg_line", OpsPseudoDbgBlock: "pseudo_dbg_block",
	OpsPseudoFrame: "pseudo_frame", OpsPseudoDead: "pseudo_dead",
	OpsPseudoSpill: "pseudo_spill", OpsPseudoReload: "pseudo_reload",
	OpsPseudoNone: "pseudo_none",
}

// String implements fmt.Stringer.
func (o Ops) String() string {
	if s, ok := opsNames[o]; ok {
		return s
	}
	return "<invalid-ops>"
}
