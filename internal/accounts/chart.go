package accounts

import (
	"fmt"

	"github.com/cleared-dev/books/internal/model"
)

// Chart is the tree of account groups, keyed by group ID.
type Chart struct {
	groups   []model.AccountGroup
	byID     map[string]model.AccountGroup
	children map[string][]string
}

// NewChart indexes groups and checks that every parent exists and that the
// parent links contain no cycle.
func NewChart(groups []model.AccountGroup) (*Chart, error) {
	c := &Chart{
		groups:   groups,
		byID:     make(map[string]model.AccountGroup, len(groups)),
		children: make(map[string][]string),
	}
	for _, g := range groups {
		if _, dup := c.byID[g.ID]; dup {
			return nil, fmt.Errorf("duplicate group %q", g.ID)
		}
		c.byID[g.ID] = g
	}
	for _, g := range groups {
		if g.ParentID == "" {
			continue
		}
		if _, ok := c.byID[g.ParentID]; !ok {
			return nil, fmt.Errorf("group %q: unknown parent %q", g.ID, g.ParentID)
		}
		c.children[g.ParentID] = append(c.children[g.ParentID], g.ID)
	}
	for _, g := range groups {
		if _, err := c.Path(g.ID); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Groups returns all groups in file order.
func (c *Chart) Groups() []model.AccountGroup {
	return c.groups
}

// Group returns a group by ID.
func (c *Chart) Group(id string) (model.AccountGroup, bool) {
	g, ok := c.byID[id]
	return g, ok
}

// Children returns the IDs of the direct subgroups of id.
func (c *Chart) Children(id string) []string {
	return c.children[id]
}

// Path returns the group names from the primary group down to id.
func (c *Chart) Path(id string) ([]string, error) {
	var rev []string
	seen := make(map[string]bool)
	for cur := id; cur != ""; {
		g, ok := c.byID[cur]
		if !ok {
			return nil, fmt.Errorf("unknown group %q", cur)
		}
		if seen[cur] {
			return nil, fmt.Errorf("group %q: cycle in parent links", id)
		}
		seen[cur] = true
		rev = append(rev, g.Name)
		cur = g.ParentID
	}

	path := make([]string, len(rev))
	for i, name := range rev {
		path[len(rev)-1-i] = name
	}
	return path, nil
}

// Primary returns the root group above id.
func (c *Chart) Primary(id string) (model.AccountGroup, bool) {
	g, ok := c.byID[id]
	for ok && g.ParentID != "" {
		g, ok = c.byID[g.ParentID]
	}
	return g, ok
}
