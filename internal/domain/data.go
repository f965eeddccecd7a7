package domain

import "slices"

// ProjectData is the snapshot of every collection a Project owns.
type ProjectData struct {
	Phases       []Phase            `json:"phases"`
	Tasks        []Task             `json:"tasks"`
	Backlog      []BacklogItem      `json:"backlog"`
	WBS          []WBSNode          `json:"wbs"`
	Risks        []Risk             `json:"risks"`
	Stakeholders []Stakeholder      `json:"stakeholders"`
	Requirements []Requirement      `json:"requirements"`
	RACI         []RACIEntry        `json:"raci"`
	TeamMembers  []TeamMember       `json:"teamMembers"`
	TaskHistory  []TaskHistoryEntry `json:"taskHistory"`
	CustomRoles  []string           `json:"customRoles"`
	CustomPhases []Phase            `json:"customPhases"`
	Sprints      []Sprint           `json:"sprints"`
	Releases     []Release          `json:"releases"`
	GanttTasks   []GanttTask        `json:"ganttTasks"`
}

// Normalize replaces nil top-level collections with empty ones so a persisted
// document always carries every collection key as an array.
func (d *ProjectData) Normalize() {
	d.Phases = orEmpty(d.Phases)
	d.Tasks = orEmpty(d.Tasks)
	d.Backlog = orEmpty(d.Backlog)
	d.WBS = orEmpty(d.WBS)
	d.Risks = orEmpty(d.Risks)
	d.Stakeholders = orEmpty(d.Stakeholders)
	d.Requirements = orEmpty(d.Requirements)
	d.RACI = orEmpty(d.RACI)
	d.TeamMembers = orEmpty(d.TeamMembers)
	d.TaskHistory = orEmpty(d.TaskHistory)
	d.CustomRoles = orEmpty(d.CustomRoles)
	d.CustomPhases = orEmpty(d.CustomPhases)
	d.Sprints = orEmpty(d.Sprints)
	d.Releases = orEmpty(d.Releases)
	d.GanttTasks = orEmpty(d.GanttTasks)
}

// Clone returns a deep copy; no slice in the result aliases d.
func (d ProjectData) Clone() ProjectData {
	out := ProjectData{
		Phases:       cloneEach(d.Phases, Phase.clone),
		Tasks:        cloneEach(d.Tasks, Task.clone),
		Backlog:      slices.Clone(d.Backlog),
		WBS:          cloneEach(d.WBS, WBSNode.clone),
		Risks:        cloneEach(d.Risks, Risk.clone),
		Stakeholders: slices.Clone(d.Stakeholders),
		Requirements: cloneEach(d.Requirements, Requirement.clone),
		RACI:         slices.Clone(d.RACI),
		TeamMembers:  slices.Clone(d.TeamMembers),
		TaskHistory:  slices.Clone(d.TaskHistory),
		CustomRoles:  slices.Clone(d.CustomRoles),
		CustomPhases: cloneEach(d.CustomPhases, Phase.clone),
		Sprints:      cloneEach(d.Sprints, Sprint.clone),
		Releases:     cloneEach(d.Releases, Release.clone),
		GanttTasks:   cloneEach(d.GanttTasks, GanttTask.clone),
	}
	out.Normalize()
	return out
}

func (p Phase) clone() Phase {
	p.Inputs = slices.Clone(p.Inputs)
	p.Outputs = slices.Clone(p.Outputs)
	p.Tools = slices.Clone(p.Tools)
	return p
}

func (t Task) clone() Task {
	t.Tags = slices.Clone(t.Tags)
	t.StoryPoints = clonePtr(t.StoryPoints)
	t.EstimatedHours = clonePtr(t.EstimatedHours)
	t.ActualHours = clonePtr(t.ActualHours)
	return t
}

func (n WBSNode) clone() WBSNode {
	n.Children = slices.Clone(n.Children)
	return n
}

func (r Risk) clone() Risk {
	r.LinkedTasks = slices.Clone(r.LinkedTasks)
	return r
}

func (r Requirement) clone() Requirement {
	r.LinkedTasks = slices.Clone(r.LinkedTasks)
	return r
}

func (s Sprint) clone() Sprint {
	s.BacklogItemIDs = slices.Clone(s.BacklogItemIDs)
	s.TaskIDs = slices.Clone(s.TaskIDs)
	return s
}

func (r Release) clone() Release {
	r.SprintIDs = slices.Clone(r.SprintIDs)
	return r
}

func (g GanttTask) clone() GanttTask {
	g.Dependencies = slices.Clone(g.Dependencies)
	return g
}

func cloneEach[T any](in []T, fn func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// IndexOf returns the position of the element whose id matches, or -1.
func IndexOf[T any](items []T, id string, key func(T) string) int {
	return slices.IndexFunc(items, func(v T) bool { return key(v) == id })
}

func PhaseID(p Phase) string             { return p.ID }
func TaskID(t Task) string               { return t.ID }
func BacklogItemID(b BacklogItem) string { return b.ID }
func WBSNodeID(n WBSNode) string         { return n.ID }
func RiskID(r Risk) string               { return r.ID }
func StakeholderID(s Stakeholder) string { return s.ID }
func RequirementID(r Requirement) string { return r.ID }
func RACIEntryID(r RACIEntry) string     { return r.ID }
func TeamMemberID(m TeamMember) string   { return m.ID }
func SprintID(s Sprint) string           { return s.ID }
func ReleaseID(r Release) string         { return r.ID }
func GanttTaskID(g GanttTask) string     { return g.ID }
