package domain

import (
	"fmt"
	"strings"
)

// Field-level checks applied to a record after defaults and patches are merged.

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (p Phase) Check() error {
	if blank(p.Name) {
		return Invalid(KindPhase, "name", "is required")
	}
	if !p.Type.Valid() {
		return Invalid(KindPhase, "type", fmt.Sprintf("unknown phase type %q", p.Type))
	}
	return nil
}

func (t Task) Check() error {
	if blank(t.Title) {
		return Invalid(KindTask, "title", "is required")
	}
	if !t.Status.Valid() {
		return Invalid(KindTask, "status", fmt.Sprintf("unknown status %q", t.Status))
	}
	if !t.Priority.Valid() {
		return Invalid(KindTask, "priority", fmt.Sprintf("unknown priority %q", t.Priority))
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{{"storyPoints", t.StoryPoints}, {"estimatedHours", t.EstimatedHours}, {"actualHours", t.ActualHours}} {
		if f.v != nil && *f.v < 0 {
			return Invalid(KindTask, f.name, "must not be negative")
		}
	}
	return nil
}

func (b BacklogItem) Check() error {
	if blank(b.Title) {
		return Invalid(KindBacklogItem, "title", "is required")
	}
	if b.StoryPoints <= 0 {
		return Invalid(KindBacklogItem, "storyPoints", "must be a positive integer")
	}
	if !b.Priority.Valid() {
		return Invalid(KindBacklogItem, "priority", fmt.Sprintf("unknown priority %q", b.Priority))
	}
	if !b.Type.Valid() {
		return Invalid(KindBacklogItem, "type", fmt.Sprintf("unknown type %q", b.Type))
	}
	if !b.Status.Valid() {
		return Invalid(KindBacklogItem, "status", fmt.Sprintf("unknown status %q", b.Status))
	}
	return nil
}

func (n WBSNode) Check() error {
	if blank(n.Name) {
		return Invalid(KindWBSNode, "name", "is required")
	}
	if n.Level < 0 {
		return Invalid(KindWBSNode, "level", "must not be negative")
	}
	return nil
}

func (r Risk) Check() error {
	if blank(r.Title) {
		return Invalid(KindRisk, "title", "is required")
	}
	if !r.Probability.Valid() {
		return Invalid(KindRisk, "probability", fmt.Sprintf("unknown probability %q", r.Probability))
	}
	if !r.Impact.Valid() {
		return Invalid(KindRisk, "impact", fmt.Sprintf("unknown impact %q", r.Impact))
	}
	if !r.Response.Valid() {
		return Invalid(KindRisk, "response", fmt.Sprintf("unknown response %q", r.Response))
	}
	if !r.Status.Valid() {
		return Invalid(KindRisk, "status", fmt.Sprintf("unknown status %q", r.Status))
	}
	return nil
}

func (s Stakeholder) Check() error {
	if blank(s.Name) {
		return Invalid(KindStakeholder, "name", "is required")
	}
	if !s.Influence.Valid() {
		return Invalid(KindStakeholder, "influence", fmt.Sprintf("unknown level %q", s.Influence))
	}
	if !s.Interest.Valid() {
		return Invalid(KindStakeholder, "interest", fmt.Sprintf("unknown level %q", s.Interest))
	}
	return nil
}

func (r Requirement) Check() error {
	if blank(r.Title) {
		return Invalid(KindRequirement, "title", "is required")
	}
	if blank(r.Description) {
		return Invalid(KindRequirement, "description", "is required")
	}
	if !r.Type.Valid() {
		return Invalid(KindRequirement, "type", fmt.Sprintf("unknown type %q", r.Type))
	}
	if !r.Priority.Valid() {
		return Invalid(KindRequirement, "priority", fmt.Sprintf("unknown priority %q", r.Priority))
	}
	if !r.Status.Valid() {
		return Invalid(KindRequirement, "status", fmt.Sprintf("unknown status %q", r.Status))
	}
	return nil
}

func (r RACIEntry) Check() error {
	if !r.EntityType.RACITarget() {
		return Invalid(KindRACIEntry, "entityType", fmt.Sprintf("%q cannot carry RACI assignments", r.EntityType))
	}
	if blank(r.EntityID) {
		return Invalid(KindRACIEntry, "entityId", "is required")
	}
	if blank(r.Role) {
		return Invalid(KindRACIEntry, "role", "is required")
	}
	if !r.Responsibility.Valid() {
		return Invalid(KindRACIEntry, "responsibility", fmt.Sprintf("unknown responsibility %q", r.Responsibility))
	}
	return nil
}

func (m TeamMember) Check() error {
	if blank(m.Name) {
		return Invalid(KindTeamMember, "name", "is required")
	}
	return nil
}

func (s Sprint) Check() error {
	if blank(s.Name) {
		return Invalid(KindSprint, "name", "is required")
	}
	if !s.Status.Valid() {
		return Invalid(KindSprint, "status", fmt.Sprintf("unknown status %q", s.Status))
	}
	if s.StartDate != "" && s.EndDate != "" && s.EndDate < s.StartDate {
		return Invalid(KindSprint, "endDate", "must not precede startDate")
	}
	return nil
}

func (r Release) Check() error {
	if blank(r.Name) {
		return Invalid(KindRelease, "name", "is required")
	}
	if !r.Status.Valid() {
		return Invalid(KindRelease, "status", fmt.Sprintf("unknown status %q", r.Status))
	}
	return nil
}

func (g GanttTask) Check() error {
	if blank(g.Name) {
		return Invalid(KindGanttTask, "name", "is required")
	}
	if g.Progress < 0 || g.Progress > 100 {
		return Invalid(KindGanttTask, "progress", "must be between 0 and 100")
	}
	if g.Start != "" && g.End != "" && g.End < g.Start {
		return Invalid(KindGanttTask, "end", "must not precede start")
	}
	return nil
}
