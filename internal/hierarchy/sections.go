package hierarchy

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// Subgroup is every ledger sharing one path below a primary group.
type Subgroup struct {
	Label   string
	Path    []string // relative to the primary group
	Ledgers []Line
	TotalDr decimal.Decimal
	TotalCr decimal.Decimal
}

// Section is one primary group in the two-level presentation.
type Section struct {
	Name      string
	Ledgers   []Line // attached directly to the primary group
	Subgroups []Subgroup
	TotalDr   decimal.Decimal
	TotalCr   decimal.Decimal
}

// Net returns the section total on the given natural side: Dr − Cr for a
// Dr-natured section, Cr − Dr otherwise.
func (s Section) Net(nature model.Side) decimal.Decimal {
	if nature == model.Cr {
		return s.TotalCr.Sub(s.TotalDr)
	}
	return s.TotalDr.Sub(s.TotalCr)
}

// View is the flattened statement hierarchy.
type View struct {
	Sections []Section
	TotalDr  decimal.Decimal
	TotalCr  decimal.Decimal
}

// Difference returns |TotalDr − TotalCr|.
func (v View) Difference() decimal.Decimal {
	return v.TotalDr.Sub(v.TotalCr).Abs()
}

// Sections flattens the tree into primary groups. Groups named in order
// come first (case-insensitive, in that order), the rest alphabetically.
// Subgroups are sorted by label. Primary groups with no ledgers anywhere
// below them are omitted.
func (t *Tree) Sections(order []string) View {
	rank := make(map[string]int, len(order))
	for i, name := range order {
		k := strings.ToLower(name)
		if _, ok := rank[k]; !ok {
			rank[k] = i
		}
	}

	var primaries []int
	for _, n := range t.nodes[Root].Children {
		if t.hasLedgers(n) {
			primaries = append(primaries, n)
		}
	}
	sort.SliceStable(primaries, func(i, j int) bool {
		a, b := t.nodes[primaries[i]].Name, t.nodes[primaries[j]].Name
		ra, oka := rank[strings.ToLower(a)]
		rb, okb := rank[strings.ToLower(b)]
		switch {
		case oka && okb:
			return ra < rb
		case oka != okb:
			return oka
		}
		return a < b
	})

	view := View{Sections: make([]Section, 0, len(primaries))}
	for _, p := range primaries {
		node := t.nodes[p]
		sec := Section{
			Name:    node.Name,
			Ledgers: append([]Line(nil), node.Ledgers...),
			TotalDr: node.TotalDr,
			TotalCr: node.TotalCr,
		}
		t.walk(p, func(n int) {
			if n == p || len(t.nodes[n].Ledgers) == 0 {
				return
			}
			path := t.Path(n)[1:]
			sec.Subgroups = append(sec.Subgroups, Subgroup{
				Label:   JoinPath(path),
				Path:    path,
				Ledgers: append([]Line(nil), t.nodes[n].Ledgers...),
				TotalDr: t.nodes[n].DirectDr,
				TotalCr: t.nodes[n].DirectCr,
			})
		})
		sort.SliceStable(sec.Subgroups, func(i, j int) bool {
			return sec.Subgroups[i].Label < sec.Subgroups[j].Label
		})
		view.Sections = append(view.Sections, sec)
	}
	view.TotalDr, view.TotalCr = t.Totals()
	return view
}

// Section returns the named primary group's section, if present.
func (v View) Section(name string) (Section, bool) {
	for _, s := range v.Sections {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Section{}, false
}

func (t *Tree) walk(n int, fn func(int)) {
	fn(n)
	for _, c := range t.nodes[n].Children {
		t.walk(c, fn)
	}
}

func (t *Tree) hasLedgers(n int) bool {
	found := false
	t.walk(n, func(c int) {
		if len(t.nodes[c].Ledgers) > 0 {
			found = true
		}
	})
	return found
}
