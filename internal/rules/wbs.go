package rules

import (
	"errors"
	"fmt"
	"slices"

	"planline/internal/domain"
)

// WBSDeletePolicy decides what happens to the children of a deleted WBS node.
type WBSDeletePolicy string

const (
	// WBSReparent moves children up to the deleted node's parent, keeping their position.
	WBSReparent WBSDeletePolicy = "reparent"
	// WBSCascade deletes the whole subtree.
	WBSCascade WBSDeletePolicy = "cascade"
)

func (p WBSDeletePolicy) Valid() bool { return p == WBSReparent || p == WBSCascade }

var ErrWBSCycle = errors.New("wbs hierarchy cycle detected")

// Issue is one integrity problem found by an audit.
type Issue struct {
	Entity  domain.EntityKind `json:"entity"`
	ID      string            `json:"id"`
	Problem string            `json:"problem"`
}

func (i Issue) String() string { return fmt.Sprintf("%s %s: %s", i.Entity, i.ID, i.Problem) }

// EnsureNoCycle climbs from parentID to the root and fails if childID is met.
func EnsureNoCycle(nodes []domain.WBSNode, parentID, childID string) error {
	cur := parentID
	for steps := 0; cur != ""; steps++ {
		if cur == childID || steps > len(nodes) {
			return ErrWBSCycle
		}
		i := domain.IndexOf(nodes, cur, domain.WBSNodeID)
		if i < 0 {
			return nil
		}
		cur = nodes[i].ParentID
	}
	return nil
}

// Subtree returns id and all of its descendants, depth first.
func Subtree(nodes []domain.WBSNode, id string) []string {
	if domain.IndexOf(nodes, id, domain.WBSNodeID) < 0 {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	var walk func(id string)
	walk = func(id string) {
		i := domain.IndexOf(nodes, id, domain.WBSNodeID)
		if i < 0 || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
		for _, c := range nodes[i].Children {
			walk(c)
		}
	}
	walk(id)
	return out
}

// Relevel sets level on id and all descendants so each child is one below its parent.
// nodes is modified in place; callers pass a private copy.
func Relevel(nodes []domain.WBSNode, id string, level int) {
	var walk func(id string, level int, depth int)
	walk = func(id string, level int, depth int) {
		i := domain.IndexOf(nodes, id, domain.WBSNodeID)
		if i < 0 || depth > len(nodes) {
			return
		}
		nodes[i].Level = level
		for _, c := range nodes[i].Children {
			walk(c, level+1, depth+1)
		}
	}
	walk(id, level, 0)
}

// CheckWBS reports dangling references, one-sided links, wrong levels and cycles.
func CheckWBS(nodes []domain.WBSNode) []Issue {
	byID := make(map[string]domain.WBSNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	var issues []Issue
	add := func(id, format string, args ...any) {
		issues = append(issues, Issue{Entity: domain.KindWBSNode, ID: id, Problem: fmt.Sprintf(format, args...)})
	}
	for _, n := range nodes {
		if n.ParentID == "" {
			if n.Level != 0 {
				add(n.ID, "root node has level %d", n.Level)
			}
		} else if p, ok := byID[n.ParentID]; !ok {
			add(n.ID, "parent %s does not exist", n.ParentID)
		} else {
			if !slices.Contains(p.Children, n.ID) {
				add(n.ID, "parent %s does not list it as a child", n.ParentID)
			}
			if n.Level != p.Level+1 {
				add(n.ID, "level %d, parent level %d", n.Level, p.Level)
			}
			if err := EnsureNoCycle(nodes, n.ParentID, n.ID); err != nil {
				add(n.ID, "is its own ancestor")
			}
		}
		for _, c := range n.Children {
			child, ok := byID[c]
			switch {
			case !ok:
				add(n.ID, "child %s does not exist", c)
			case child.ParentID != n.ID:
				add(n.ID, "child %s has parent %q", c, child.ParentID)
			}
		}
	}
	return issues
}

// Audit runs every cross-record check over a snapshot.
func Audit(d domain.ProjectData) []Issue {
	var issues []Issue
	if err := CheckPhaseOrder(d.Phases); err != nil {
		issues = append(issues, Issue{Entity: domain.KindPhase, Problem: err.Error()})
	}
	issues = append(issues, CheckWBS(d.WBS)...)
	for _, v := range FindViolations(d.RACI) {
		issues = append(issues, Issue{
			Entity:  v.EntityType,
			ID:      v.EntityID,
			Problem: fmt.Sprintf("multiple Accountable roles %v", v.ConflictingRoles),
		})
	}
	for _, r := range d.Risks {
		if want := domain.RiskScore(r.Probability, r.Impact); r.Score != want {
			issues = append(issues, Issue{Entity: domain.KindRisk, ID: r.ID, Problem: fmt.Sprintf("score %d, expected %d", r.Score, want)})
		}
	}
	return issues
}
