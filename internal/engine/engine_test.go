package engine_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planline/internal/domain"
	"planline/internal/engine"
	"planline/internal/history"
	"planline/internal/rules"
)

type recordingSaver struct {
	saved []domain.Project
	err   error
}

func (r *recordingSaver) SaveProject(_ context.Context, p domain.Project) error {
	r.saved = append(r.saved, p)
	return r.err
}

type testEnv struct {
	Engine  engine.Engine
	Session *engine.Session
	Saver   *recordingSaver
	Ctx     context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	n := 0
	eng := engine.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	eng.Now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	eng.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	saver := &recordingSaver{}
	sess := engine.NewSession(domain.Project{ID: "proj-1", Name: "Test", Mode: domain.ModeHybrid}, "tester", saver)
	return testEnv{Engine: eng, Session: sess, Saver: saver, Ctx: context.Background()}
}

func (env testEnv) task(t *testing.T, title string) domain.Task {
	t.Helper()
	task, err := env.Engine.CreateTask(env.Ctx, env.Session, engine.TaskCreateOptions{Title: title})
	require.NoError(t, err)
	return task
}

func (env testEnv) wbs(t *testing.T, parent, name string) domain.WBSNode {
	t.Helper()
	n, err := env.Engine.AddWBSNode(env.Ctx, env.Session, engine.WBSCreateOptions{ParentID: parent, Name: name})
	require.NoError(t, err)
	return n
}

func ptr[T any](v T) *T { return &v }

func TestTaskStatusChangeRecordsHistory(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.CreateTask(env.Ctx, env.Session, engine.TaskCreateOptions{
		Title:    "X",
		Status:   domain.StatusTodo,
		Priority: domain.PriorityMedium,
	})
	require.NoError(t, err)
	assert.Equal(t, "tester", task.CreatedBy)

	updated, err := env.Engine.UpdateTask(env.Ctx, env.Session, engine.TaskUpdateOptions{ID: task.ID, Status: ptr(domain.StatusDone)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, updated.Status)

	var changes []domain.TaskHistoryEntry
	for _, h := range engine.TaskHistory(env.Session.Data(), task.ID) {
		if h.Action == history.ActionStatusChanged {
			changes = append(changes, h)
		}
	}
	require.Len(t, changes, 1)
	assert.Equal(t, "todo", changes[0].OldValue)
	assert.Equal(t, "done", changes[0].NewValue)
	assert.Equal(t, "tester", changes[0].UserName)
}

func TestCreateTaskDefaultsAndRequiredTitle(t *testing.T) {
	env := newTestEnv(t)
	task := env.task(t, "  Draft plan ")
	assert.Equal(t, "Draft plan", task.Title)
	assert.Equal(t, domain.StatusBacklog, task.Status)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, "2024-01-01T00:00:00Z", task.CreatedAt)

	hist := engine.TaskHistory(env.Session.Data(), task.ID)
	require.Len(t, hist, 1)
	assert.Equal(t, history.ActionCreated, hist[0].Action)

	_, err := env.Engine.CreateTask(env.Ctx, env.Session, engine.TaskCreateOptions{Title: "  "})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, env.Session.Data().Tasks, 1)
}

func TestUpdateTaskTracksTagsAndAssignee(t *testing.T) {
	env := newTestEnv(t)
	task, err := env.Engine.CreateTask(env.Ctx, env.Session, engine.TaskCreateOptions{Title: "Tagged", Tags: []string{"a", "b"}})
	require.NoError(t, err)

	_, err = env.Engine.UpdateTask(env.Ctx, env.Session, engine.TaskUpdateOptions{
		ID:       task.ID,
		Tags:     ptr([]string{"b", "c"}),
		Assignee: ptr("dana"),
		Comment:  "triage",
	})
	require.NoError(t, err)

	var actions []string
	for _, h := range engine.TaskHistory(env.Session.Data(), task.ID) {
		actions = append(actions, h.Action)
		if h.Action != history.ActionCreated {
			assert.Equal(t, "triage", h.Comment)
		}
	}
	assert.Equal(t, []string{
		history.ActionCreated,
		history.ActionAssigned,
		history.ActionTagRemoved,
		history.ActionTagAdded,
	}, actions)
}

func TestUpdateUnknownTaskIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.UpdateTask(env.Ctx, env.Session, engine.TaskUpdateOptions{ID: "missing", Title: ptr("x")})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSecondAccountableRejected(t *testing.T) {
	env := newTestEnv(t)
	task := env.task(t, "t1")
	_, err := env.Engine.AddRACIEntry(env.Ctx, env.Session, engine.RACICreateOptions{
		EntityType: domain.KindTask, EntityID: task.ID, Role: "PM", Responsibility: domain.Accountable,
	})
	require.NoError(t, err)
	saves := len(env.Saver.saved)
	before := env.Session.Data()

	_, err = env.Engine.AddRACIEntry(env.Ctx, env.Session, engine.RACICreateOptions{
		EntityType: domain.KindTask, EntityID: task.ID, Role: "Sponsor", Responsibility: domain.Accountable,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	var verr domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "PM", verr.HeldBy)
	assert.Contains(t, err.Error(), `"PM"`)

	assert.Equal(t, before, env.Session.Data())
	assert.Len(t, env.Saver.saved, saves)
	assert.Empty(t, rules.FindViolations(env.Session.Data().RACI))
}

func TestRACIRoleUniqueAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	task := env.task(t, "t1")
	pm, err := env.Engine.AddRACIEntry(env.Ctx, env.Session, engine.RACICreateOptions{
		EntityType: domain.KindTask, EntityID: task.ID, Role: "PM", Responsibility: "Responsible",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Responsible, pm.Responsibility)

	_, err = env.Engine.AddRACIEntry(env.Ctx, env.Session, engine.RACICreateOptions{
		EntityType: domain.KindTask, EntityID: task.ID, Role: "PM", Responsibility: domain.Informed,
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.Engine.AddRACIEntry(env.Ctx, env.Session, engine.RACICreateOptions{
		EntityType: domain.KindTask, EntityID: "nope", Role: "QA", Responsibility: domain.Informed,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	sponsor, err := env.Engine.AddRACIEntry(env.Ctx, env.Session, engine.RACICreateOptions{
		EntityType: domain.KindTask, EntityID: task.ID, Role: "Sponsor", Responsibility: domain.Accountable,
	})
	require.NoError(t, err)

	_, err = env.Engine.UpdateRACIEntry(env.Ctx, env.Session, engine.RACIUpdateOptions{ID: pm.ID, Responsibility: ptr(domain.Accountable)})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.Engine.UpdateRACIEntry(env.Ctx, env.Session, engine.RACIUpdateOptions{ID: sponsor.ID, Responsibility: ptr(domain.Accountable)})
	require.NoError(t, err, "re-saving the current holder is allowed")
	assert.Len(t, engine.RACIFor(env.Session.Data(), domain.KindTask, task.ID), 2)
}

func TestRiskScoreFollowsWeights(t *testing.T) {
	env := newTestEnv(t)
	risk, err := env.Engine.AddRisk(env.Ctx, env.Session, engine.RiskCreateOptions{
		Title: "Vendor slip", Probability: domain.ProbabilityHigh, Impact: domain.ImpactCritical,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, risk.Score)

	risk, err = env.Engine.UpdateRisk(env.Ctx, env.Session, engine.RiskUpdateOptions{ID: risk.ID, Impact: ptr(domain.ImpactLow)})
	require.NoError(t, err)
	assert.Equal(t, 3, risk.Score)
	assert.Equal(t, 3, env.Session.Data().Risks[0].Score)

	_, err = env.Engine.UpdateRisk(env.Ctx, env.Session, engine.RiskUpdateOptions{ID: risk.ID, Impact: ptr(domain.Impact("extreme"))})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeletePhaseRenumbers(t *testing.T) {
	env := newTestEnv(t)
	var ids []string
	for _, name := range []string{"Initiation", "Planning", "Design", "Build", "Close"} {
		p, err := env.Engine.AddPhase(env.Ctx, env.Session, engine.PhaseCreateOptions{Name: name, Type: domain.PhasePlanning})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	require.Equal(t, 2, env.Session.Data().Phases[1].Order)

	require.NoError(t, env.Engine.DeletePhase(env.Ctx, env.Session, ids[1]))

	phases := engine.PhasesInOrder(env.Session.Data())
	var names []string
	for i, p := range phases {
		assert.Equal(t, i+1, p.Order)
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Initiation", "Design", "Build", "Close"}, names)
	assert.NoError(t, rules.CheckPhaseOrder(env.Session.Data().Phases))
}

func TestSessionKeepsStoredPhaseSequence(t *testing.T) {
	env := newTestEnv(t)
	env.Session = engine.NewSession(domain.Project{ID: "proj-2", Name: "Stored", Mode: domain.ModeWaterfall, Data: domain.ProjectData{
		Phases: []domain.Phase{
			{ID: "a", Name: "A", Type: domain.PhaseDesign, Order: 2},
			{ID: "b", Name: "B", Type: domain.PhasePlanning, Order: 1},
			{ID: "c", Name: "C", Type: domain.PhaseClosure, Order: 3},
		},
	}}, "tester", env.Saver)

	require.NoError(t, env.Engine.DeletePhase(env.Ctx, env.Session, "c"))
	phases := env.Session.Data().Phases
	require.Len(t, phases, 2)
	assert.Equal(t, []string{"b", "a"}, []string{phases[0].ID, phases[1].ID})
	assert.Equal(t, []int{1, 2}, []int{phases[0].Order, phases[1].Order})

	d, err := env.Engine.AddPhase(env.Ctx, env.Session, engine.PhaseCreateOptions{Name: "D", Type: domain.PhaseTesting, Position: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, d.Order)
	ordered := engine.PhasesInOrder(env.Session.Data())
	assert.Equal(t, []string{"b", d.ID, "a"}, []string{ordered[0].ID, ordered[1].ID, ordered[2].ID})
}

func TestDeletedPhaseLeavesTaskUnassigned(t *testing.T) {
	env := newTestEnv(t)
	p, err := env.Engine.AddPhase(env.Ctx, env.Session, engine.PhaseCreateOptions{Name: "Design", Type: domain.PhaseDesign})
	require.NoError(t, err)
	task, err := env.Engine.CreateTask(env.Ctx, env.Session, engine.TaskCreateOptions{Title: "Mockups", PhaseID: p.ID})
	require.NoError(t, err)

	require.NoError(t, env.Engine.DeletePhase(env.Ctx, env.Session, p.ID))
	d := env.Session.Data()
	_, ok := engine.PhaseOf(d, d.Tasks[0])
	assert.False(t, ok)

	_, err = env.Engine.UpdateTask(env.Ctx, env.Session, engine.TaskUpdateOptions{ID: task.ID, Title: ptr("Wireframes")})
	require.NoError(t, err)
	_, err = env.Engine.UpdateTask(env.Ctx, env.Session, engine.TaskUpdateOptions{ID: task.ID, PhaseID: ptr(p.ID)})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestReorderPhases(t *testing.T) {
	env := newTestEnv(t)
	a, _ := env.Engine.AddPhase(env.Ctx, env.Session, engine.PhaseCreateOptions{Name: "A", Type: domain.PhasePlanning})
	b, _ := env.Engine.AddPhase(env.Ctx, env.Session, engine.PhaseCreateOptions{Name: "B", Type: domain.PhasePlanning})
	c, _ := env.Engine.AddPhase(env.Ctx, env.Session, engine.PhaseCreateOptions{Name: "C", Type: domain.PhasePlanning})

	require.ErrorIs(t, env.Engine.Reorder(env.Ctx, env.Session, domain.KindPhase, []string{c.ID, a.ID}), domain.ErrValidation)
	require.NoError(t, env.Engine.Reorder(env.Ctx, env.Session, domain.KindPhase, []string{c.ID, a.ID, b.ID}))

	phases := env.Session.Data().Phases
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, []string{phases[0].ID, phases[1].ID, phases[2].ID})
	assert.Equal(t, []int{1, 2, 3}, []int{phases[0].Order, phases[1].Order, phases[2].Order})
}

func TestBacklogOrder(t *testing.T) {
	env := newTestEnv(t)
	var ids []string
	for _, title := range []string{"one", "two", "three"} {
		b, err := env.Engine.AddBacklogItem(env.Ctx, env.Session, engine.BacklogCreateOptions{Title: title, StoryPoints: 3})
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}
	_, err := env.Engine.AddBacklogItem(env.Ctx, env.Session, engine.BacklogCreateOptions{Title: "zero", StoryPoints: 0})
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, env.Engine.DeleteBacklogItem(env.Ctx, env.Session, ids[0]))
	items := env.Session.Data().Backlog
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Order)
	assert.Equal(t, 2, items[1].Order)

	require.NoError(t, env.Engine.ReorderBacklog(env.Ctx, env.Session, []string{ids[2], ids[1]}))
	assert.Equal(t, ids[2], env.Session.Data().Backlog[0].ID)
	assert.ErrorIs(t, env.Engine.ReorderBacklog(env.Ctx, env.Session, []string{ids[2], ids[2]}), domain.ErrValidation)
}

func TestRemoveIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	task := env.task(t, "gone")
	require.NoError(t, env.Engine.Remove(env.Ctx, env.Session, domain.KindTask, task.ID))
	snapshot := env.Session.Data()
	saves := len(env.Saver.saved)

	require.NoError(t, env.Engine.Remove(env.Ctx, env.Session, domain.KindTask, task.ID))
	require.NoError(t, env.Engine.Remove(env.Ctx, env.Session, domain.KindStakeholder, "never-existed"))
	assert.Equal(t, snapshot, env.Session.Data())
	assert.Len(t, env.Saver.saved, saves)
}

func TestDeleteTaskCascades(t *testing.T) {
	env := newTestEnv(t)
	keep := env.task(t, "keep")
	task := env.task(t, "drop")
	ctx, s := env.Ctx, env.Session

	_, err := env.Engine.AddRACIEntry(ctx, s, engine.RACICreateOptions{EntityType: domain.KindTask, EntityID: task.ID, Role: "Dev", Responsibility: domain.Responsible})
	require.NoError(t, err)
	sprint, err := env.Engine.AddSprint(ctx, s, engine.SprintOptions{Name: "S1", TaskIDs: []string{keep.ID, task.ID}})
	require.NoError(t, err)
	_, err = env.Engine.AddRisk(ctx, s, engine.RiskCreateOptions{Title: "R", LinkedTasks: []string{task.ID}})
	require.NoError(t, err)
	_, err = env.Engine.AddRequirement(ctx, s, engine.RequirementCreateOptions{Title: "Req", Description: "must", LinkedTasks: []string{task.ID, keep.ID}})
	require.NoError(t, err)
	_, err = env.Engine.AddGanttTask(ctx, s, engine.GanttOptions{Name: "bar", TaskID: task.ID})
	require.NoError(t, err)

	require.NoError(t, env.Engine.DeleteTask(ctx, s, task.ID))

	d := s.Data()
	require.Len(t, d.Tasks, 1)
	assert.Empty(t, d.RACI)
	assert.Empty(t, engine.TaskHistory(d, task.ID))
	assert.NotEmpty(t, engine.TaskHistory(d, keep.ID))
	assert.Equal(t, []string{keep.ID}, d.Sprints[0].TaskIDs)
	assert.Equal(t, sprint.ID, d.Sprints[0].ID)
	assert.Empty(t, d.Risks[0].LinkedTasks)
	assert.Equal(t, []string{keep.ID}, d.Requirements[0].LinkedTasks)
	assert.Empty(t, d.GanttTasks[0].TaskID)
}

func TestRejectedLinkLeavesNoPartialState(t *testing.T) {
	env := newTestEnv(t)
	before := env.Session.Data()
	_, err := env.Engine.AddRisk(env.Ctx, env.Session, engine.RiskCreateOptions{Title: "R", LinkedTasks: []string{"ghost"}})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = env.Engine.AddRequirement(env.Ctx, env.Session, engine.RequirementCreateOptions{Title: "Req"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, before, env.Session.Data())
	assert.Empty(t, env.Saver.saved)
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	env := newTestEnv(t)
	env.Saver.err = errors.New("disk full")
	env.task(t, "still here")
	assert.Len(t, env.Session.Data().Tasks, 1)
	assert.Len(t, env.Saver.saved, 1)
	assert.Equal(t, "2024-01-01T00:00:00Z", env.Session.Project.UpdatedAt)
}

func TestMutationWithoutSession(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.CreateTask(env.Ctx, nil, engine.TaskCreateOptions{Title: "x"})
	require.Error(t, err)
	require.Error(t, env.Engine.DeleteTask(env.Ctx, nil, "x"))
}

func TestWBSAddDerivesLevelAndCode(t *testing.T) {
	env := newTestEnv(t)
	root := env.wbs(t, "", "Product")
	child := env.wbs(t, root.ID, "Backend")
	grand := env.wbs(t, child.ID, "API")

	assert.Equal(t, "1", root.Code)
	assert.Equal(t, "1.1", child.Code)
	assert.Equal(t, "1.1.1", grand.Code)
	assert.Equal(t, 2, grand.Level)
	assert.Empty(t, rules.CheckWBS(env.Session.Data().WBS))

	_, err := env.Engine.AddWBSNode(env.Ctx, env.Session, engine.WBSCreateOptions{ParentID: "ghost", Name: "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWBSDeleteReparents(t *testing.T) {
	env := newTestEnv(t)
	root := env.wbs(t, "", "Product")
	first := env.wbs(t, root.ID, "First")
	mid := env.wbs(t, root.ID, "Middle")
	last := env.wbs(t, root.ID, "Last")
	a := env.wbs(t, mid.ID, "A")
	b := env.wbs(t, mid.ID, "B")
	leaf := env.wbs(t, a.ID, "Leaf")
	_, err := env.Engine.AddRACIEntry(env.Ctx, env.Session, engine.RACICreateOptions{EntityType: domain.KindWBSNode, EntityID: mid.ID, Role: "Lead", Responsibility: domain.Accountable})
	require.NoError(t, err)

	require.NoError(t, env.Engine.DeleteWBSNode(env.Ctx, env.Session, mid.ID, rules.WBSReparent))

	d := env.Session.Data()
	assert.Empty(t, rules.CheckWBS(d.WBS))
	assert.Empty(t, d.RACI)
	require.Len(t, d.WBS, 6)
	_, r, _ := find(d.WBS, root.ID)
	assert.Equal(t, []string{first.ID, a.ID, b.ID, last.ID}, r.Children)
	_, na, _ := find(d.WBS, a.ID)
	assert.Equal(t, root.ID, na.ParentID)
	assert.Equal(t, 1, na.Level)
	_, nl, _ := find(d.WBS, leaf.ID)
	assert.Equal(t, 2, nl.Level)
}

func TestWBSDeleteRootReparentsToTop(t *testing.T) {
	env := newTestEnv(t)
	root := env.wbs(t, "", "Product")
	child := env.wbs(t, root.ID, "Child")
	env.wbs(t, child.ID, "Grandchild")

	require.NoError(t, env.Engine.Remove(env.Ctx, env.Session, domain.KindWBSNode, root.ID))

	d := env.Session.Data()
	assert.Empty(t, rules.CheckWBS(d.WBS))
	_, c, ok := find(d.WBS, child.ID)
	require.True(t, ok)
	assert.Empty(t, c.ParentID)
	assert.Equal(t, 0, c.Level)
}

func TestWBSDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	root := env.wbs(t, "", "Product")
	mid := env.wbs(t, root.ID, "Middle")
	sibling := env.wbs(t, root.ID, "Sibling")
	a := env.wbs(t, mid.ID, "A")
	env.wbs(t, a.ID, "Leaf")
	_, err := env.Engine.AddRACIEntry(env.Ctx, env.Session, engine.RACICreateOptions{EntityType: domain.KindWBSNode, EntityID: a.ID, Role: "Dev", Responsibility: domain.Responsible})
	require.NoError(t, err)

	require.NoError(t, env.Engine.DeleteWBSNode(env.Ctx, env.Session, mid.ID, rules.WBSCascade))

	d := env.Session.Data()
	assert.Empty(t, rules.CheckWBS(d.WBS))
	assert.Empty(t, d.RACI)
	require.Len(t, d.WBS, 2)
	_, r, _ := find(d.WBS, root.ID)
	assert.Equal(t, []string{sibling.ID}, r.Children)

	require.ErrorIs(t, env.Engine.DeleteWBSNode(env.Ctx, env.Session, root.ID, "orphan"), domain.ErrValidation)
}

func TestWBSMoveRejectsCycle(t *testing.T) {
	env := newTestEnv(t)
	root := env.wbs(t, "", "Product")
	child := env.wbs(t, root.ID, "Child")
	grand := env.wbs(t, child.ID, "Grandchild")
	other := env.wbs(t, "", "Other")

	err := env.Engine.MoveWBSNode(env.Ctx, env.Session, root.ID, grand.ID, 0)
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, env.Engine.MoveWBSNode(env.Ctx, env.Session, child.ID, other.ID, 1))
	d := env.Session.Data()
	assert.Empty(t, rules.CheckWBS(d.WBS))
	_, g, _ := find(d.WBS, grand.ID)
	assert.Equal(t, 2, g.Level)
	_, r, _ := find(d.WBS, root.ID)
	assert.Empty(t, r.Children)

	require.NoError(t, env.Engine.RenumberWBS(env.Ctx, env.Session))
	_, g, _ = find(env.Session.Data().WBS, grand.ID)
	assert.Equal(t, "2.1.1", g.Code)
}

func TestDeleteCustomRoleDropsAssignments(t *testing.T) {
	env := newTestEnv(t)
	task := env.task(t, "t")
	require.NoError(t, env.Engine.AddCustomRole(env.Ctx, env.Session, "Architect"))
	require.NoError(t, env.Engine.AddCustomRole(env.Ctx, env.Session, "Architect"))
	assert.Equal(t, []string{"Architect"}, env.Session.Data().CustomRoles)

	_, err := env.Engine.AddRACIEntry(env.Ctx, env.Session, engine.RACICreateOptions{EntityType: domain.KindTask, EntityID: task.ID, Role: "Architect", Responsibility: domain.Consulted})
	require.NoError(t, err)
	_, err = env.Engine.AddRACIEntry(env.Ctx, env.Session, engine.RACICreateOptions{EntityType: domain.KindTask, EntityID: task.ID, Role: "PM", Responsibility: domain.Accountable})
	require.NoError(t, err)

	require.NoError(t, env.Engine.DeleteCustomRole(env.Ctx, env.Session, "Architect"))
	d := env.Session.Data()
	assert.Empty(t, d.CustomRoles)
	require.Len(t, d.RACI, 1)
	assert.Equal(t, "PM", d.RACI[0].Role)
}

func TestDeleteSprintPrunesReleases(t *testing.T) {
	env := newTestEnv(t)
	item, err := env.Engine.AddBacklogItem(env.Ctx, env.Session, engine.BacklogCreateOptions{Title: "story", StoryPoints: 5})
	require.NoError(t, err)
	sprint, err := env.Engine.AddSprint(env.Ctx, env.Session, engine.SprintOptions{Name: "S1", BacklogItemIDs: []string{item.ID}})
	require.NoError(t, err)
	rel, err := env.Engine.AddRelease(env.Ctx, env.Session, engine.ReleaseOptions{Name: "R1", SprintIDs: []string{sprint.ID}})
	require.NoError(t, err)

	require.NoError(t, env.Engine.DeleteBacklogItem(env.Ctx, env.Session, item.ID))
	assert.Empty(t, env.Session.Data().Sprints[0].BacklogItemIDs)

	require.NoError(t, env.Engine.DeleteSprint(env.Ctx, env.Session, sprint.ID))
	d := env.Session.Data()
	assert.Empty(t, d.Sprints)
	assert.Equal(t, rel.ID, d.Releases[0].ID)
	assert.Empty(t, d.Releases[0].SprintIDs)
}

func TestGanttDependencies(t *testing.T) {
	env := newTestEnv(t)
	a, err := env.Engine.AddGanttTask(env.Ctx, env.Session, engine.GanttOptions{Name: "a", Start: "2024-01-01", End: "2024-01-05"})
	require.NoError(t, err)
	b, err := env.Engine.AddGanttTask(env.Ctx, env.Session, engine.GanttOptions{Name: "b", Dependencies: []string{a.ID}})
	require.NoError(t, err)

	_, err = env.Engine.AddGanttTask(env.Ctx, env.Session, engine.GanttOptions{Name: "c", Progress: 120})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = env.Engine.UpdateGanttTask(env.Ctx, env.Session, engine.GanttUpdateOptions{ID: b.ID, Dependencies: ptr([]string{b.ID})})
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, env.Engine.DeleteGanttTask(env.Ctx, env.Session, a.ID))
	assert.Empty(t, env.Session.Data().GanttTasks[0].Dependencies)
}

func TestReferencesListsCascadeTargets(t *testing.T) {
	refs := engine.References(domain.KindTask)
	assert.Contains(t, refs, "raci.entityId")
	assert.Contains(t, refs, "taskHistory.taskId")
	assert.Contains(t, refs, "sprint.taskIds")
	assert.NotContains(t, engine.References(domain.KindPhase), "task.phaseId")
}

func find(nodes []domain.WBSNode, id string) (int, domain.WBSNode, bool) {
	for i, n := range nodes {
		if n.ID == id {
			return i, n, true
		}
	}
	return -1, domain.WBSNode{}, false
}
