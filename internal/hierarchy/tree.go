// Package hierarchy aggregates ledger balances into the group tree used by
// financial statements. The tree is an arena: nodes are addressed by index,
// carry a parent pointer, and cache Dr/Cr subtotals that are updated
// incrementally as ledgers are added or re-valued.
package hierarchy

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
)

// Root is the index of the synthetic root node; primary groups are its children.
const Root = 0

// UngroupedLabel is the primary group used for ledgers without a group path.
const UngroupedLabel = "(Ungrouped)"

// Line is one ledger balance placed in the tree.
type Line struct {
	LedgerID string
	Name     string
	Path     []string // group names, primary group first
	GroupID  string   // optional; preferred over Path when the group was seeded
	Balance  model.Balance
}

// Node is a group in the arena.
type Node struct {
	ID       int
	Name     string
	GroupID  string
	Parent   int // -1 for Root
	Depth    int // 0 for Root, 1 for primary groups
	Children []int
	Ledgers  []Line

	DirectDr decimal.Decimal // ledgers attached to this node only
	DirectCr decimal.Decimal
	TotalDr  decimal.Decimal // this node and every descendant
	TotalCr  decimal.Decimal
}

type childKey struct {
	parent int
	name   string
}

type ledgerRef struct {
	node  int
	index int
}

// Tree is the arena of group nodes.
type Tree struct {
	nodes   []Node
	byName  map[childKey]int
	byGroup map[string]int
	ledgers map[string]ledgerRef
}

// New returns a tree holding only the root.
func New() *Tree {
	return &Tree{
		nodes:   []Node{{ID: Root, Parent: -1}},
		byName:  make(map[childKey]int),
		byGroup: make(map[string]int),
		ledgers: make(map[string]ledgerRef),
	}
}

// Seed creates a node for every group, following parent IDs, so that lines
// can be attached by GroupID. Groups whose parent is missing hang off the root.
func (t *Tree) Seed(groups []model.AccountGroup) {
	byID := make(map[string]model.AccountGroup, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	var place func(g model.AccountGroup, depth int) int
	place = func(g model.AccountGroup, depth int) int {
		if n, ok := t.byGroup[g.ID]; ok {
			return n
		}
		parent := Root
		if p, ok := byID[g.ParentID]; ok && g.ParentID != "" && depth < len(groups) {
			parent = place(p, depth+1)
		}
		n := t.child(parent, g.Name)
		t.nodes[n].GroupID = g.ID
		t.byGroup[g.ID] = n
		return n
	}
	for _, g := range groups {
		place(g, 0)
	}
}

// FromChart returns a tree seeded with the chart's groups.
func FromChart(groups []model.AccountGroup) *Tree {
	t := New()
	t.Seed(groups)
	return t
}

// child returns the node called name under parent, creating it if needed.
func (t *Tree) child(parent int, name string) int {
	key := childKey{parent: parent, name: name}
	if n, ok := t.byName[key]; ok {
		return n
	}
	n := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		ID:     n,
		Name:   name,
		Parent: parent,
		Depth:  t.nodes[parent].Depth + 1,
	})
	t.nodes[parent].Children = append(t.nodes[parent].Children, n)
	t.byName[key] = n
	return n
}

// Add attaches a ledger line and updates the subtotal caches of its node
// and every ancestor. A ledger ID may only be added once.
func (t *Tree) Add(line Line) error {
	if _, dup := t.ledgers[line.LedgerID]; dup {
		return fmt.Errorf("ledger %q already in tree", line.LedgerID)
	}

	n, ok := t.byGroup[line.GroupID]
	if !ok || line.GroupID == "" {
		n = Root
		path := line.Path
		if len(path) == 0 {
			path = []string{UngroupedLabel}
		}
		for _, name := range path {
			n = t.child(n, name)
		}
	}

	t.nodes[n].Ledgers = append(t.nodes[n].Ledgers, line)
	t.ledgers[line.LedgerID] = ledgerRef{node: n, index: len(t.nodes[n].Ledgers) - 1}
	t.apply(n, line.Balance, 1)
	return nil
}

// Set re-values a ledger already in the tree, adjusting only the caches on
// its path to the root.
func (t *Tree) Set(ledgerID string, balance model.Balance) error {
	ref, ok := t.ledgers[ledgerID]
	if !ok {
		return fmt.Errorf("ledger %q not in tree", ledgerID)
	}
	line := &t.nodes[ref.node].Ledgers[ref.index]
	t.apply(ref.node, line.Balance, -1)
	line.Balance = balance
	t.apply(ref.node, balance, 1)
	return nil
}

func (t *Tree) apply(n int, b model.Balance, sign int64) {
	amt := b.Amount.Mul(decimal.NewFromInt(sign))
	node := &t.nodes[n]
	if b.Side == model.Cr {
		node.DirectCr = node.DirectCr.Add(amt)
	} else {
		node.DirectDr = node.DirectDr.Add(amt)
	}
	for cur := n; cur >= 0; cur = t.nodes[cur].Parent {
		if b.Side == model.Cr {
			t.nodes[cur].TotalCr = t.nodes[cur].TotalCr.Add(amt)
		} else {
			t.nodes[cur].TotalDr = t.nodes[cur].TotalDr.Add(amt)
		}
	}
}

// Node returns a copy of node n.
func (t *Tree) Node(n int) Node {
	return t.nodes[n]
}

// Len returns the number of nodes including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Find returns the node reached by following path names from the root.
func (t *Tree) Find(path ...string) (int, bool) {
	n := Root
	for _, name := range path {
		next, ok := t.byName[childKey{parent: n, name: name}]
		if !ok {
			return 0, false
		}
		n = next
	}
	return n, true
}

// Path returns the names from the primary group down to node n.
func (t *Tree) Path(n int) []string {
	var rev []string
	for cur := n; cur > Root; cur = t.nodes[cur].Parent {
		rev = append(rev, t.nodes[cur].Name)
	}
	path := make([]string, len(rev))
	for i, name := range rev {
		path[len(rev)-1-i] = name
	}
	return path
}

// Totals returns the grand Dr and Cr totals.
func (t *Tree) Totals() (dr, cr decimal.Decimal) {
	return t.nodes[Root].TotalDr, t.nodes[Root].TotalCr
}

// Options controls which ledgers Build admits.
type Options struct {
	ShowZero bool
}

// Build places lines into a fresh tree seeded with groups (which may be
// nil). Lines whose balance is below model.Epsilon are dropped unless
// opts.ShowZero is set.
func Build(groups []model.AccountGroup, lines []Line, opts Options) (*Tree, error) {
	t := FromChart(groups)
	for _, l := range lines {
		if !opts.ShowZero && l.Balance.IsZero() {
			continue
		}
		if err := t.Add(l); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// LinesFrom converts ledgers into tree lines using their current balances.
func LinesFrom(ledgers []model.LedgerAccount) []Line {
	lines := make([]Line, len(ledgers))
	for i, l := range ledgers {
		lines[i] = Line{
			LedgerID: l.ID,
			Name:     l.Name,
			Path:     l.GroupPath,
			GroupID:  l.GroupID,
			Balance:  l.Current(),
		}
	}
	return lines
}

// JoinPath renders a group path for display.
func JoinPath(path []string) string {
	return strings.Join(path, " > ")
}
