package ferias

import (
	"fmt"

	"github.com/warp/ferias-engine/generic"
)

// =============================================================================
// ORG TREE - Parent links keyed by unit id
// =============================================================================

// OrgTree answers ancestry questions over the organizational units. The tree
// is user-editable, so every walk guards against parent cycles.
type OrgTree struct {
	parent map[string]string
}

// NewOrgTree indexes parent links by unit id.
func NewOrgTree(units []OrgUnit) *OrgTree {
	t := &OrgTree{parent: make(map[string]string, len(units))}
	for _, u := range units {
		if u.ParentID != nil && *u.ParentID != "" {
			t.parent[u.ID] = *u.ParentID
		}
	}
	return t
}

// Ancestors returns the parent chain of id, nearest first.
func (t *OrgTree) Ancestors(id string) ([]string, error) {
	var out []string
	visited := map[string]bool{id: true}
	cur := id
	for {
		p, ok := t.parent[cur]
		if !ok {
			return out, nil
		}
		if visited[p] {
			return out, fmt.Errorf("%w: unit %s revisited from %s", generic.ErrOrgCycle, p, id)
		}
		visited[p] = true
		out = append(out, p)
		cur = p
	}
}

// IsAncestor reports whether ancestorID is a strict transitive parent of id.
// A chain that runs into a cycle answers false with ErrOrgCycle, even when
// ancestorID was seen before the cycle closed.
func (t *OrgTree) IsAncestor(ancestorID, id string) (bool, error) {
	if ancestorID == "" || id == "" || ancestorID == id {
		return false, nil
	}
	chain, err := t.Ancestors(id)
	if err != nil {
		return false, err
	}
	for _, a := range chain {
		if a == ancestorID {
			return true, nil
		}
	}
	return false, nil
}

// CheckParent reports whether setting parentID as the parent of id would
// create a cycle.
func (t *OrgTree) CheckParent(id, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == id {
		return fmt.Errorf("%w: unit %s cannot be its own parent", generic.ErrOrgCycle, id)
	}
	chain, err := t.Ancestors(parentID)
	if err != nil {
		return err
	}
	for _, a := range chain {
		if a == id {
			return fmt.Errorf("%w: unit %s is an ancestor of %s", generic.ErrOrgCycle, id, parentID)
		}
	}
	return nil
}
