package fixture

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/mir"
)

// registersByName is the fixture format's register-name vocabulary: the
// same mnemonics bits.Register.String() produces, built in reverse since
// bits does not export a name->Register lookup (it has no text format of
// its own per spec.md §6).
var registersByName = buildRegisterNames()

func buildRegisterNames() map[string]bits.Register {
	m := map[string]bits.Register{
		"xzr": bits.XZR, "wzr": bits.WZR, "sp": bits.SP,
	}
	for i := 0; i <= 30; i++ {
		m[fmt.Sprintf("x%d", i)] = bits.X0 + bits.Register(i)
		m[fmt.Sprintf("w%d", i)] = bits.W0 + bits.Register(i)
	}
	for i := 0; i <= 31; i++ {
		m[fmt.Sprintf("v%d", i)] = bits.V0 + bits.Register(i)
		m[fmt.Sprintf("d%d", i)] = bits.D0 + bits.Register(i)
		m[fmt.Sprintf("s%d", i)] = bits.S0 + bits.Register(i)
		m[fmt.Sprintf("h%d", i)] = bits.H0 + bits.Register(i)
		m[fmt.Sprintf("b%d", i)] = bits.B0 + bits.Register(i)
	}
	m["fp"] = bits.FP
	m["lr"] = bits.LR
	return m
}

func regByName(name string) (bits.Register, error) {
	reg, ok := registersByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return bits.RegNone, fmt.Errorf("unknown register %q", name)
	}
	return reg, nil
}

var conditionsByName = map[string]bits.Condition{
	"eq": bits.EQ, "ne": bits.NE, "cs": bits.CS, "hs": bits.HS,
	"cc": bits.CC, "lo": bits.LO, "mi": bits.MI, "pl": bits.PL,
	"vs": bits.VS, "vc": bits.VC, "hi": bits.HI, "ls": bits.LS,
	"ge": bits.GE, "lt": bits.LT, "gt": bits.GT, "le": bits.LE,
	"al": bits.AL, "nv": bits.NV,
}

func condByName(name string) (bits.Condition, error) {
	cond, ok := conditionsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown condition %q", name)
	}
	return cond, nil
}

// tagsByName is the fixture format's opcode vocabulary: every mnemonic
// mir.Tag.String() produces, mapped back to its Tag.
var tagsByName = buildTagNames()

// immTagNames gives the immediate-form ALU tags a distinct fixture
// spelling ("addi" rather than "add") since Tag.String() deliberately
// reuses the register-form mnemonic for both (they disassemble
// identically; only the operand layout differs).
var immTagNames = map[mir.Tag]string{
	mir.TagAddImm: "addi", mir.TagSubImm: "subi", mir.TagAndImm: "andi",
	mir.TagOrrImm: "orri", mir.TagEorImm: "eori",
}

func buildTagNames() map[string]mir.Tag {
	m := make(map[string]mir.Tag)
	for tag := mir.TagAdd; tag <= mir.TagReload; tag++ {
		if name, ok := immTagNames[tag]; ok {
			m[name] = tag
			continue
		}
		// b.cond is spelled "bcond" in fixture JSON to avoid the dot.
		if tag == mir.TagBCond {
			m["bcond"] = tag
			continue
		}
		name := tag.String()
		if name == "<invalid-tag>" {
			continue
		}
		if _, taken := m[name]; taken {
			continue
		}
		m[name] = tag
	}
	return m
}
