package engine

import (
	"context"
	"fmt"

	"planline/internal/domain"
	"planline/internal/history"
)

// TaskCreateOptions are parameters for creating a task.
type TaskCreateOptions struct {
	Title          string
	Description    string
	Status         domain.TaskStatus
	Priority       domain.Priority
	PhaseID        string
	Assignee       string
	Tags           []string
	StartDate      string
	DueDate        string
	StoryPoints    *float64
	EstimatedHours *float64
	ActualHours    *float64
}

// TaskUpdateOptions encapsulates allowed updates. Nil fields are left unchanged.
type TaskUpdateOptions struct {
	ID             string
	Title          *string
	Description    *string
	Status         *domain.TaskStatus
	Priority       *domain.Priority
	PhaseID        *string
	Assignee       *string
	Tags           *[]string
	StartDate      *string
	DueDate        *string
	StoryPoints    *float64
	EstimatedHours *float64
	ActualHours    *float64
	Comment        string
}

func (e Engine) CreateTask(ctx context.Context, s *Session, opts TaskCreateOptions) (domain.Task, error) {
	if s == nil {
		return domain.Task{}, errNoSession
	}
	now := e.now()
	t := domain.Task{
		ID:             e.id(),
		Title:          trim(opts.Title),
		Description:    opts.Description,
		Status:         opts.Status,
		Priority:       opts.Priority,
		PhaseID:        trim(opts.PhaseID),
		Assignee:       trim(opts.Assignee),
		Tags:           uniqueStrings(opts.Tags),
		StartDate:      opts.StartDate,
		DueDate:        opts.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      s.actor(),
		UpdatedBy:      s.actor(),
		StoryPoints:    opts.StoryPoints,
		EstimatedHours: opts.EstimatedHours,
		ActualHours:    opts.ActualHours,
	}
	if t.Status == "" {
		t.Status = domain.StatusBacklog
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	if err := t.Check(); err != nil {
		return domain.Task{}, err
	}
	err := e.commit(ctx, s, "task.create", func(d *domain.ProjectData) error {
		if err := checkTaskRefs(d, t); err != nil {
			return err
		}
		d.Tasks = appended(d.Tasks, t)
		d.TaskHistory = history.Record(d.TaskHistory, history.Created(), history.Stamp{
			EntityID: t.ID,
			Actor:    s.actor(),
			At:       now,
		}, e.id)
		return nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	e.log().Debug("task created", "project", s.Project.ID, "task", t.ID)
	return t, nil
}

// UpdateTask merges opts into the task, stamps updatedAt/updatedBy and appends a
// history entry for every tracked field that changed.
func (e Engine) UpdateTask(ctx context.Context, s *Session, opts TaskUpdateOptions) (domain.Task, error) {
	var out domain.Task
	err := e.commit(ctx, s, "task.update", func(d *domain.ProjectData) error {
		i, original, ok := find(d.Tasks, opts.ID, domain.TaskID)
		if !ok {
			return domain.Missing(domain.KindTask, opts.ID)
		}
		t := original
		setTrimmed(&t.Title, opts.Title)
		set(&t.Description, opts.Description)
		set(&t.Status, opts.Status)
		set(&t.Priority, opts.Priority)
		setTrimmed(&t.PhaseID, opts.PhaseID)
		setTrimmed(&t.Assignee, opts.Assignee)
		setList(&t.Tags, opts.Tags)
		set(&t.StartDate, opts.StartDate)
		set(&t.DueDate, opts.DueDate)
		if opts.StoryPoints != nil {
			t.StoryPoints = opts.StoryPoints
		}
		if opts.EstimatedHours != nil {
			t.EstimatedHours = opts.EstimatedHours
		}
		if opts.ActualHours != nil {
			t.ActualHours = opts.ActualHours
		}
		if err := t.Check(); err != nil {
			return err
		}
		// A phaseId left dangling by a phase delete stays valid until it is reassigned.
		if opts.PhaseID != nil {
			if err := checkTaskRefs(d, t); err != nil {
				return err
			}
		}
		now := e.now()
		t.UpdatedAt = now
		t.UpdatedBy = s.actor()
		d.Tasks = replaced(d.Tasks, i, t)
		d.TaskHistory = history.Record(d.TaskHistory, history.TaskTracker.Diff(original, t), history.Stamp{
			EntityID: t.ID,
			Actor:    s.actor(),
			At:       now,
			Comment:  opts.Comment,
		}, e.id)
		out = t
		return nil
	})
	return out, err
}

// DeleteTask removes the task, its history, RACI entries and every list membership.
func (e Engine) DeleteTask(ctx context.Context, s *Session, id string) error {
	return e.commit(ctx, s, "task.delete", func(d *domain.ProjectData) error {
		if !removeRow(d, domain.KindTask, id) {
			return errUnchanged
		}
		return nil
	})
}

// TaskHistory returns the entries of one task in insertion order.
func TaskHistory(d domain.ProjectData, taskID string) []domain.TaskHistoryEntry {
	return history.ForEntity(d.TaskHistory, taskID)
}

func checkTaskRefs(d *domain.ProjectData, t domain.Task) error {
	if t.PhaseID != "" && !exists(d, domain.KindPhase, t.PhaseID) {
		return domain.Invalid(domain.KindTask, "phaseId", fmt.Sprintf("phase %s does not exist", t.PhaseID))
	}
	return nil
}

// checkLinks verifies every id in ids names an existing entity of kind.
func checkLinks(d *domain.ProjectData, owner domain.EntityKind, field string, kind domain.EntityKind, ids []string) error {
	for _, id := range ids {
		if !exists(d, kind, id) {
			return domain.Invalid(owner, field, fmt.Sprintf("%s %s does not exist", kind, id))
		}
	}
	return nil
}
