package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"planline/internal/domain"
)

func trim(s string) string { return strings.TrimSpace(s) }

// collection gives generic access to one entity collection of a snapshot.
type collection struct {
	ids  func(d *domain.ProjectData) []string
	drop func(d *domain.ProjectData, id string)
}

func rows[T any](get func(d *domain.ProjectData) *[]T, key func(T) string) collection {
	return collection{
		ids: func(d *domain.ProjectData) []string {
			items := *get(d)
			out := make([]string, len(items))
			for i, v := range items {
				out[i] = key(v)
			}
			return out
		},
		drop: func(d *domain.ProjectData, id string) {
			p := get(d)
			*p = without(*p, func(v T) bool { return key(v) == id })
		},
	}
}

var collections = map[domain.EntityKind]collection{
	domain.KindPhase:       rows(func(d *domain.ProjectData) *[]domain.Phase { return &d.Phases }, domain.PhaseID),
	domain.KindTask:        rows(func(d *domain.ProjectData) *[]domain.Task { return &d.Tasks }, domain.TaskID),
	domain.KindBacklogItem: rows(func(d *domain.ProjectData) *[]domain.BacklogItem { return &d.Backlog }, domain.BacklogItemID),
	domain.KindWBSNode:     rows(func(d *domain.ProjectData) *[]domain.WBSNode { return &d.WBS }, domain.WBSNodeID),
	domain.KindRisk:        rows(func(d *domain.ProjectData) *[]domain.Risk { return &d.Risks }, domain.RiskID),
	domain.KindStakeholder: rows(func(d *domain.ProjectData) *[]domain.Stakeholder { return &d.Stakeholders }, domain.StakeholderID),
	domain.KindRequirement: rows(func(d *domain.ProjectData) *[]domain.Requirement { return &d.Requirements }, domain.RequirementID),
	domain.KindRACIEntry:   rows(func(d *domain.ProjectData) *[]domain.RACIEntry { return &d.RACI }, domain.RACIEntryID),
	domain.KindTeamMember:  rows(func(d *domain.ProjectData) *[]domain.TeamMember { return &d.TeamMembers }, domain.TeamMemberID),
	domain.KindSprint:      rows(func(d *domain.ProjectData) *[]domain.Sprint { return &d.Sprints }, domain.SprintID),
	domain.KindRelease:     rows(func(d *domain.ProjectData) *[]domain.Release { return &d.Releases }, domain.ReleaseID),
	domain.KindGanttTask:   rows(func(d *domain.ProjectData) *[]domain.GanttTask { return &d.GanttTasks }, domain.GanttTaskID),
	domain.KindCustomRole:  rows(func(d *domain.ProjectData) *[]string { return &d.CustomRoles }, func(s string) string { return s }),
}

func exists(d *domain.ProjectData, kind domain.EntityKind, id string) bool {
	c, ok := collections[kind]
	return ok && slices.Contains(c.ids(d), id)
}

// reference is one field, somewhere in the snapshot, that points at an entity kind.
type reference struct {
	in    domain.EntityKind
	field string
	apply func(d *domain.ProjectData, id string)
}

// dropRows deletes every record of a collection whose field equals the removed id.
func dropRows[T any](in domain.EntityKind, field string, get func(d *domain.ProjectData) *[]T, ref func(T) string) reference {
	return reference{in: in, field: field, apply: func(d *domain.ProjectData, id string) {
		p := get(d)
		*p = without(*p, func(v T) bool { return ref(v) == id })
	}}
}

// prune removes the id from a list field. Only the affected records are copied.
func prune[T any](in domain.EntityKind, field string, get func(d *domain.ProjectData) *[]T, list func(*T) *[]string) reference {
	return reference{in: in, field: field, apply: func(d *domain.ProjectData, id string) {
		p := get(d)
		var out []T
		for i, v := range *p {
			l := list(&v)
			if !slices.Contains(*l, id) {
				continue
			}
			if out == nil {
				out = slices.Clone(*p)
			}
			*l = withoutID(*l, id)
			out[i] = v
		}
		if out != nil {
			*p = out
		}
	}}
}

// blankRef blanks a scalar reference field.
func blankRef[T any](in domain.EntityKind, field string, get func(d *domain.ProjectData) *[]T, ref func(*T) *string) reference {
	return reference{in: in, field: field, apply: func(d *domain.ProjectData, id string) {
		p := get(d)
		var out []T
		for i, v := range *p {
			r := ref(&v)
			if *r != id {
				continue
			}
			if out == nil {
				out = slices.Clone(*p)
			}
			*r = ""
			out[i] = v
		}
		if out != nil {
			*p = out
		}
	}}
}

// raciRef drops the RACI entries of one entity; entityId is only unique per entityType.
func raciRef(kind domain.EntityKind) reference {
	return reference{in: domain.KindRACIEntry, field: "entityId", apply: func(d *domain.ProjectData, id string) {
		d.RACI = without(d.RACI, func(r domain.RACIEntry) bool { return r.EntityType == kind && r.EntityID == id })
	}}
}

// references maps an entity kind to every field that refers to it. Task.phaseId is
// not listed: it is a weak reference and a missing phase reads as unassigned.
var references = map[domain.EntityKind][]reference{
	domain.KindTask: {
		dropRows(domain.KindTaskHistory, "taskId",
			func(d *domain.ProjectData) *[]domain.TaskHistoryEntry { return &d.TaskHistory },
			func(h domain.TaskHistoryEntry) string { return h.TaskID }),
		prune(domain.KindSprint, "taskIds",
			func(d *domain.ProjectData) *[]domain.Sprint { return &d.Sprints },
			func(s *domain.Sprint) *[]string { return &s.TaskIDs }),
		prune(domain.KindRisk, "linkedTasks",
			func(d *domain.ProjectData) *[]domain.Risk { return &d.Risks },
			func(r *domain.Risk) *[]string { return &r.LinkedTasks }),
		prune(domain.KindRequirement, "linkedTasks",
			func(d *domain.ProjectData) *[]domain.Requirement { return &d.Requirements },
			func(r *domain.Requirement) *[]string { return &r.LinkedTasks }),
		blankRef(domain.KindGanttTask, "taskId",
			func(d *domain.ProjectData) *[]domain.GanttTask { return &d.GanttTasks },
			func(g *domain.GanttTask) *string { return &g.TaskID }),
	},
	domain.KindBacklogItem: {
		prune(domain.KindSprint, "backlogItemIds",
			func(d *domain.ProjectData) *[]domain.Sprint { return &d.Sprints },
			func(s *domain.Sprint) *[]string { return &s.BacklogItemIDs }),
	},
	domain.KindWBSNode: {
		prune(domain.KindWBSNode, "children",
			func(d *domain.ProjectData) *[]domain.WBSNode { return &d.WBS },
			func(n *domain.WBSNode) *[]string { return &n.Children }),
	},
	domain.KindSprint: {
		prune(domain.KindRelease, "sprintIds",
			func(d *domain.ProjectData) *[]domain.Release { return &d.Releases },
			func(r *domain.Release) *[]string { return &r.SprintIDs }),
	},
	domain.KindGanttTask: {
		prune(domain.KindGanttTask, "dependencies",
			func(d *domain.ProjectData) *[]domain.GanttTask { return &d.GanttTasks },
			func(g *domain.GanttTask) *[]string { return &g.Dependencies }),
	},
	domain.KindCustomRole: {
		dropRows(domain.KindRACIEntry, "role",
			func(d *domain.ProjectData) *[]domain.RACIEntry { return &d.RACI },
			func(r domain.RACIEntry) string { return r.Role }),
	},
}

// References lists the "collection.field" pairs cleaned up when an entity of kind is removed.
func References(kind domain.EntityKind) []string {
	var out []string
	if kind.RACITarget() {
		r := raciRef(kind)
		out = append(out, fmt.Sprintf("%s.%s", r.in, r.field))
	}
	for _, r := range references[kind] {
		out = append(out, fmt.Sprintf("%s.%s", r.in, r.field))
	}
	return out
}

// cascade removes every reference to id. RACI entries of RACI targets are always dropped.
func cascade(d *domain.ProjectData, kind domain.EntityKind, id string) {
	if kind.RACITarget() {
		raciRef(kind).apply(d, id)
	}
	for _, r := range references[kind] {
		r.apply(d, id)
	}
}

// removeRow deletes one record and everything referring to it. It reports false
// when the id was already absent.
func removeRow(d *domain.ProjectData, kind domain.EntityKind, id string) bool {
	c, ok := collections[kind]
	if !ok || !slices.Contains(c.ids(d), id) {
		return false
	}
	c.drop(d, id)
	cascade(d, kind, id)
	return true
}

// Remove deletes any entity by kind and id, cascading through the reference map.
// Removing an absent id is a no-op. WBS nodes use the engine's WBSPolicy.
func (e Engine) Remove(ctx context.Context, s *Session, kind domain.EntityKind, id string) error {
	switch kind {
	case domain.KindPhase:
		return e.DeletePhase(ctx, s, id)
	case domain.KindBacklogItem:
		return e.DeleteBacklogItem(ctx, s, id)
	case domain.KindWBSNode:
		return e.DeleteWBSNode(ctx, s, id, e.WBSPolicy)
	case domain.KindTask:
		return e.DeleteTask(ctx, s, id)
	}
	if _, ok := collections[kind]; !ok {
		return domain.Invalid(kind, "", "cannot be removed")
	}
	return e.commit(ctx, s, "remove."+string(kind), func(d *domain.ProjectData) error {
		if !removeRow(d, kind, id) {
			return errUnchanged
		}
		return nil
	})
}

// Reorder reassigns the order field of phases or backlog items to follow ids.
func (e Engine) Reorder(ctx context.Context, s *Session, kind domain.EntityKind, ids []string) error {
	switch kind {
	case domain.KindPhase:
		return e.ReorderPhases(ctx, s, ids)
	case domain.KindBacklogItem:
		return e.ReorderBacklog(ctx, s, ids)
	}
	return domain.Invalid(kind, "order", "collection is not ordered")
}

// arrange returns items permuted to follow ids; ids must already be validated.
func arrange[T any](items []T, ids []string, key func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, id := range ids {
		_, v, _ := find(items, id, key)
		out = append(out, v)
	}
	return out
}
