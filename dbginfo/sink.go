// Package dbginfo defines the debug-output sink contract the emit façade
// writes to (spec.md §6: "start and end byte offsets of the function body,
// plus the original MIR... the core emits no DWARF bytes itself") and
// ships a reference in-memory sink for tests and tools that don't need a
// real DWARF/PDB writer. Grounded on debugger/history.go's bounded,
// mutex-guarded append-only log.
package dbginfo

import "github.com/lookbusy1344/arm64cg/mir"

// Sink receives debug-relevant facts as the emit façade serializes a
// function's words. It never sees machine-word bytes; only offsets and
// the MIR pseudo markers that a real debug-info writer would decode into
// DWARF/CodeView records.
type Sink interface {
	// FunctionBody reports the byte-offset span a function's emitted
	// words occupy in the output stream, alongside the MIR record they
	// were lowered from (so a consumer can re-walk pseudo markers at its
	// own pace instead of during emission).
	FunctionBody(name string, startOffset, endOffset uint64, rec *mir.Record)

	// Marker reports one pseudo instruction encountered during emission,
	// tagged with the byte offset of the next real instruction it
	// precedes (the same position lower.Result.BranchTargets would
	// resolve it to, converted to bytes).
	Marker(byteOffset uint64, inst mir.Inst)
}
