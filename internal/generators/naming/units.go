package naming

import "github.com/simonhull/tlgen/internal/registry"

// Unit is the set of declarations emitted into one file.
type Unit struct {
	Section   string // "" for the main unit
	TypeDefs  []*registry.TypeDef
	Functions []*registry.Constructor
}

// Units splits the registry into output units: the main unit, configured
// sections in order, then functions. Without sections everything, functions
// included, lands in the main unit. Empty section units are omitted; the
// main unit is always present.
func (n *Namer) Units(reg *registry.Registry) []Unit {
	sections := n.Sections()
	units := []Unit{{}}
	index := map[string]int{"": 0}
	for _, name := range sections {
		if _, ok := index[name]; !ok {
			index[name] = len(units)
			units = append(units, Unit{Section: name})
		}
	}

	for _, td := range reg.Ordered() {
		i := index[n.SectionOf(td.Name)]
		units[i].TypeDefs = append(units[i].TypeDefs, td)
	}

	if len(reg.Functions) > 0 {
		i := 0
		if len(sections) > 0 {
			var ok bool
			if i, ok = index[FunctionsSection]; !ok {
				i = len(units)
				units = append(units, Unit{Section: FunctionsSection})
			}
		}
		units[i].Functions = reg.Functions
	}

	out := units[:1]
	for _, u := range units[1:] {
		if len(u.TypeDefs) > 0 || len(u.Functions) > 0 {
			out = append(out, u)
		}
	}
	return out
}
