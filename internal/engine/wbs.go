package engine

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"planline/internal/domain"
	"planline/internal/rules"
)

type WBSCreateOptions struct {
	ParentID    string
	Code        string
	Name        string
	Description string
}

type WBSUpdateOptions struct {
	ID          string
	Code        *string
	Name        *string
	Description *string
}

func cloneWBS(nodes []domain.WBSNode) []domain.WBSNode {
	out := make([]domain.WBSNode, len(nodes))
	for i, n := range nodes {
		n.Children = slices.Clone(n.Children)
		out[i] = n
	}
	return out
}

func wbsIndex(nodes []domain.WBSNode, id string) int {
	return domain.IndexOf(nodes, id, domain.WBSNodeID)
}

// AddWBSNode creates a node under ParentID (or a root) one level below its parent.
// A blank code is derived from the parent's code and the node's position.
func (e Engine) AddWBSNode(ctx context.Context, s *Session, opts WBSCreateOptions) (domain.WBSNode, error) {
	n := domain.WBSNode{
		ID:          e.id(),
		Code:        trim(opts.Code),
		Name:        trim(opts.Name),
		Description: opts.Description,
		ParentID:    trim(opts.ParentID),
	}
	if err := n.Check(); err != nil {
		return domain.WBSNode{}, err
	}
	err := e.commit(ctx, s, "wbs.add", func(d *domain.ProjectData) error {
		nodes := cloneWBS(d.WBS)
		if n.ParentID == "" {
			if n.Code == "" {
				n.Code = strconv.Itoa(countRoots(nodes) + 1)
			}
		} else {
			pi := wbsIndex(nodes, n.ParentID)
			if pi < 0 {
				return domain.Missing(domain.KindWBSNode, n.ParentID)
			}
			parent := &nodes[pi]
			n.Level = parent.Level + 1
			if n.Code == "" {
				n.Code = childCode(parent.Code, len(parent.Children)+1)
			}
			parent.Children = append(parent.Children, n.ID)
		}
		d.WBS = append(nodes, n)
		return nil
	})
	return n, err
}

func (e Engine) UpdateWBSNode(ctx context.Context, s *Session, opts WBSUpdateOptions) (domain.WBSNode, error) {
	var out domain.WBSNode
	err := e.commit(ctx, s, "wbs.update", func(d *domain.ProjectData) error {
		i, n, ok := find(d.WBS, opts.ID, domain.WBSNodeID)
		if !ok {
			return domain.Missing(domain.KindWBSNode, opts.ID)
		}
		setTrimmed(&n.Code, opts.Code)
		setTrimmed(&n.Name, opts.Name)
		set(&n.Description, opts.Description)
		if err := n.Check(); err != nil {
			return err
		}
		d.WBS = replaced(d.WBS, i, n)
		out = n
		return nil
	})
	return out, err
}

// MoveWBSNode re-parents a node (blank newParentID makes it a root) at the 1-based
// position among its new siblings; zero appends. Levels of the subtree follow.
func (e Engine) MoveWBSNode(ctx context.Context, s *Session, id, newParentID string, position int) error {
	return e.commit(ctx, s, "wbs.move", func(d *domain.ProjectData) error {
		nodes := cloneWBS(d.WBS)
		i := wbsIndex(nodes, id)
		if i < 0 {
			return domain.Missing(domain.KindWBSNode, id)
		}
		level := 0
		if newParentID != "" {
			pi := wbsIndex(nodes, newParentID)
			if pi < 0 {
				return domain.Missing(domain.KindWBSNode, newParentID)
			}
			if err := rules.EnsureNoCycle(nodes, newParentID, id); err != nil {
				return domain.Invalid(domain.KindWBSNode, "parentId", err.Error())
			}
			level = nodes[pi].Level + 1
		}
		if old := nodes[i].ParentID; old != "" {
			if oi := wbsIndex(nodes, old); oi >= 0 {
				nodes[oi].Children = withoutID(nodes[oi].Children, id)
			}
		}
		nodes[i].ParentID = newParentID
		if newParentID != "" {
			pi := wbsIndex(nodes, newParentID)
			kids := nodes[pi].Children
			pos := len(kids)
			if position > 0 && position <= len(kids) {
				pos = position - 1
			}
			nodes[pi].Children = slices.Insert(kids, pos, id)
		}
		rules.Relevel(nodes, id, level)
		d.WBS = nodes
		return nil
	})
}

// DeleteWBSNode removes a node. With WBSReparent its children take its place under
// its parent (or become roots); with WBSCascade the whole subtree goes. Either way
// RACI entries of every removed node are dropped.
func (e Engine) DeleteWBSNode(ctx context.Context, s *Session, id string, policy rules.WBSDeletePolicy) error {
	if policy == "" {
		policy = e.WBSPolicy
	}
	if !policy.Valid() {
		return domain.Invalid(domain.KindWBSNode, "policy", fmt.Sprintf("unknown delete policy %q", policy))
	}
	return e.commit(ctx, s, "wbs.delete", func(d *domain.ProjectData) error {
		i := wbsIndex(d.WBS, id)
		if i < 0 {
			return errUnchanged
		}
		if policy == rules.WBSCascade {
			for _, sub := range rules.Subtree(d.WBS, id) {
				removeRow(d, domain.KindWBSNode, sub)
			}
			return nil
		}
		nodes := cloneWBS(d.WBS)
		gone := nodes[i]
		level := 0
		if pi := wbsIndex(nodes, gone.ParentID); pi >= 0 {
			kids := nodes[pi].Children
			at := slices.Index(kids, id)
			if at < 0 {
				at = len(kids)
			} else {
				kids = slices.Delete(kids, at, at+1)
			}
			nodes[pi].Children = slices.Insert(kids, at, gone.Children...)
			level = nodes[pi].Level + 1
		} else {
			gone.ParentID = ""
		}
		for _, c := range gone.Children {
			if ci := wbsIndex(nodes, c); ci >= 0 {
				nodes[ci].ParentID = gone.ParentID
				rules.Relevel(nodes, c, level)
			}
		}
		nodes[i].Children = nil
		d.WBS = nodes
		removeRow(d, domain.KindWBSNode, id)
		return nil
	})
}

// RenumberWBS regenerates every code from tree order: roots 1..N in collection
// order, children "<parent>.<k>" following each children list.
func (e Engine) RenumberWBS(ctx context.Context, s *Session) error {
	return e.commit(ctx, s, "wbs.renumber", func(d *domain.ProjectData) error {
		nodes := cloneWBS(d.WBS)
		var walk func(id, code string, depth int)
		walk = func(id, code string, depth int) {
			i := wbsIndex(nodes, id)
			if i < 0 || depth > len(nodes) {
				return
			}
			nodes[i].Code = code
			for k, c := range nodes[i].Children {
				walk(c, childCode(code, k+1), depth+1)
			}
		}
		root := 0
		for _, n := range d.WBS {
			if n.ParentID == "" {
				root++
				walk(n.ID, strconv.Itoa(root), 0)
			}
		}
		d.WBS = nodes
		return nil
	})
}

func countRoots(nodes []domain.WBSNode) int {
	n := 0
	for _, node := range nodes {
		if node.ParentID == "" {
			n++
		}
	}
	return n
}

func childCode(parent string, k int) string {
	if parent == "" {
		return strconv.Itoa(k)
	}
	return parent + "." + strconv.Itoa(k)
}
