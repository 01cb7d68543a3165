package config

import (
	"fmt"
	"strings"

	"github.com/lookbusy1344/arm64cg/bits"
	"github.com/lookbusy1344/arm64cg/regmgr"
)

// registerByName is a reverse lookup built once from bits.Register's own
// String() names, so this package never duplicates the name table.
var registerByName = buildRegisterByName()

func buildRegisterByName() map[string]bits.Register {
	m := make(map[string]bits.Register)
	candidates := append(append([]bits.Register{}, allX()...), allV()...)
	for _, r := range candidates {
		m[r.String()] = r
	}
	return m
}

func allX() []bits.Register {
	regs := make([]bits.Register, 0, 31)
	for r := bits.X0; r <= bits.X30; r++ {
		regs = append(regs, r)
	}
	return regs
}

func allV() []bits.Register {
	regs := make([]bits.Register, 0, 32)
	for r := bits.V0; r <= bits.V31; r++ {
		regs = append(regs, r)
	}
	return regs
}

// ParseRegisterOrder parses a comma-separated register name list (e.g.
// "x9,x10,x11") in the same style as the teacher's Trace.FilterRegs
// convention. An empty string yields a nil slice, meaning "use the
// documented default order".
func ParseRegisterOrder(list string) ([]bits.Register, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, nil
	}

	names := strings.Split(list, ",")
	regs := make([]bits.Register, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		reg, ok := registerByName[name]
		if !ok {
			return nil, fmt.Errorf("config: unknown register name %q in order override", name)
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

// RegisterManagerOrder builds the order map regmgr.NewOrdered expects from
// c's CodeGen section. A class whose override string is empty is left out
// of the map entirely, so regmgr falls back to its documented default for
// that class.
func (c *Config) RegisterManagerOrder() (map[regmgr.RegClass][]bits.Register, error) {
	order := make(map[regmgr.RegClass][]bits.Register)

	gp, err := ParseRegisterOrder(c.CodeGen.GeneralPurposeOrder)
	if err != nil {
		return nil, err
	}
	if gp != nil {
		order[regmgr.GeneralPurpose] = gp
	}

	vec, err := ParseRegisterOrder(c.CodeGen.VectorOrder)
	if err != nil {
		return nil, err
	}
	if vec != nil {
		order[regmgr.Vector] = vec
	}

	return order, nil
}
