package engine

import (
	"context"

	"planline/internal/domain"
)

type SprintOptions struct {
	Name           string
	Goal           string
	StartDate      string
	EndDate        string
	Status         domain.SprintStatus
	BacklogItemIDs []string
	TaskIDs        []string
}

type SprintUpdateOptions struct {
	ID             string
	Name           *string
	Goal           *string
	StartDate      *string
	EndDate        *string
	Status         *domain.SprintStatus
	BacklogItemIDs *[]string
	TaskIDs        *[]string
}

func (e Engine) AddSprint(ctx context.Context, s *Session, opts SprintOptions) (domain.Sprint, error) {
	sp := domain.Sprint{
		ID:             e.id(),
		Name:           trim(opts.Name),
		Goal:           opts.Goal,
		StartDate:      opts.StartDate,
		EndDate:        opts.EndDate,
		Status:         opts.Status,
		BacklogItemIDs: uniqueStrings(opts.BacklogItemIDs),
		TaskIDs:        uniqueStrings(opts.TaskIDs),
	}
	if sp.Status == "" {
		sp.Status = domain.SprintPlanned
	}
	if err := sp.Check(); err != nil {
		return domain.Sprint{}, err
	}
	err := e.commit(ctx, s, "sprint.add", func(d *domain.ProjectData) error {
		if err := checkSprintLinks(d, sp); err != nil {
			return err
		}
		d.Sprints = appended(d.Sprints, sp)
		return nil
	})
	return sp, err
}

func (e Engine) UpdateSprint(ctx context.Context, s *Session, opts SprintUpdateOptions) (domain.Sprint, error) {
	var out domain.Sprint
	err := e.commit(ctx, s, "sprint.update", func(d *domain.ProjectData) error {
		i, sp, ok := find(d.Sprints, opts.ID, domain.SprintID)
		if !ok {
			return domain.Missing(domain.KindSprint, opts.ID)
		}
		setTrimmed(&sp.Name, opts.Name)
		set(&sp.Goal, opts.Goal)
		set(&sp.StartDate, opts.StartDate)
		set(&sp.EndDate, opts.EndDate)
		set(&sp.Status, opts.Status)
		setList(&sp.BacklogItemIDs, opts.BacklogItemIDs)
		setList(&sp.TaskIDs, opts.TaskIDs)
		if err := sp.Check(); err != nil {
			return err
		}
		if err := checkSprintLinks(d, sp); err != nil {
			return err
		}
		d.Sprints = replaced(d.Sprints, i, sp)
		out = sp
		return nil
	})
	return out, err
}

func (e Engine) DeleteSprint(ctx context.Context, s *Session, id string) error {
	return e.Remove(ctx, s, domain.KindSprint, id)
}

func checkSprintLinks(d *domain.ProjectData, sp domain.Sprint) error {
	if err := checkLinks(d, domain.KindSprint, "backlogItemIds", domain.KindBacklogItem, sp.BacklogItemIDs); err != nil {
		return err
	}
	return checkLinks(d, domain.KindSprint, "taskIds", domain.KindTask, sp.TaskIDs)
}

type ReleaseOptions struct {
	Name        string
	Version     string
	ReleaseDate string
	Status      domain.ReleaseStatus
	SprintIDs   []string
}

type ReleaseUpdateOptions struct {
	ID          string
	Name        *string
	Version     *string
	ReleaseDate *string
	Status      *domain.ReleaseStatus
	SprintIDs   *[]string
}

func (e Engine) AddRelease(ctx context.Context, s *Session, opts ReleaseOptions) (domain.Release, error) {
	r := domain.Release{
		ID:          e.id(),
		Name:        trim(opts.Name),
		Version:     trim(opts.Version),
		ReleaseDate: opts.ReleaseDate,
		Status:      opts.Status,
		SprintIDs:   uniqueStrings(opts.SprintIDs),
	}
	if r.Status == "" {
		r.Status = domain.ReleasePlanned
	}
	if err := r.Check(); err != nil {
		return domain.Release{}, err
	}
	err := e.commit(ctx, s, "release.add", func(d *domain.ProjectData) error {
		if err := checkLinks(d, domain.KindRelease, "sprintIds", domain.KindSprint, r.SprintIDs); err != nil {
			return err
		}
		d.Releases = appended(d.Releases, r)
		return nil
	})
	return r, err
}

func (e Engine) UpdateRelease(ctx context.Context, s *Session, opts ReleaseUpdateOptions) (domain.Release, error) {
	var out domain.Release
	err := e.commit(ctx, s, "release.update", func(d *domain.ProjectData) error {
		i, r, ok := find(d.Releases, opts.ID, domain.ReleaseID)
		if !ok {
			return domain.Missing(domain.KindRelease, opts.ID)
		}
		setTrimmed(&r.Name, opts.Name)
		setTrimmed(&r.Version, opts.Version)
		set(&r.ReleaseDate, opts.ReleaseDate)
		set(&r.Status, opts.Status)
		setList(&r.SprintIDs, opts.SprintIDs)
		if err := r.Check(); err != nil {
			return err
		}
		if err := checkLinks(d, domain.KindRelease, "sprintIds", domain.KindSprint, r.SprintIDs); err != nil {
			return err
		}
		d.Releases = replaced(d.Releases, i, r)
		out = r
		return nil
	})
	return out, err
}

func (e Engine) DeleteRelease(ctx context.Context, s *Session, id string) error {
	return e.Remove(ctx, s, domain.KindRelease, id)
}

type GanttOptions struct {
	Name         string
	Start        string
	End          string
	Progress     int
	Dependencies []string
	TaskID       string
}

type GanttUpdateOptions struct {
	ID           string
	Name         *string
	Start        *string
	End          *string
	Progress     *int
	Dependencies *[]string
	TaskID       *string
}

func (e Engine) AddGanttTask(ctx context.Context, s *Session, opts GanttOptions) (domain.GanttTask, error) {
	g := domain.GanttTask{
		ID:           e.id(),
		Name:         trim(opts.Name),
		Start:        opts.Start,
		End:          opts.End,
		Progress:     opts.Progress,
		Dependencies: uniqueStrings(opts.Dependencies),
		TaskID:       trim(opts.TaskID),
	}
	if err := g.Check(); err != nil {
		return domain.GanttTask{}, err
	}
	err := e.commit(ctx, s, "gantt.add", func(d *domain.ProjectData) error {
		if err := checkGanttLinks(d, g); err != nil {
			return err
		}
		d.GanttTasks = appended(d.GanttTasks, g)
		return nil
	})
	return g, err
}

func (e Engine) UpdateGanttTask(ctx context.Context, s *Session, opts GanttUpdateOptions) (domain.GanttTask, error) {
	var out domain.GanttTask
	err := e.commit(ctx, s, "gantt.update", func(d *domain.ProjectData) error {
		i, g, ok := find(d.GanttTasks, opts.ID, domain.GanttTaskID)
		if !ok {
			return domain.Missing(domain.KindGanttTask, opts.ID)
		}
		setTrimmed(&g.Name, opts.Name)
		set(&g.Start, opts.Start)
		set(&g.End, opts.End)
		set(&g.Progress, opts.Progress)
		setList(&g.Dependencies, opts.Dependencies)
		setTrimmed(&g.TaskID, opts.TaskID)
		if err := g.Check(); err != nil {
			return err
		}
		if err := checkGanttLinks(d, g); err != nil {
			return err
		}
		d.GanttTasks = replaced(d.GanttTasks, i, g)
		out = g
		return nil
	})
	return out, err
}

func (e Engine) DeleteGanttTask(ctx context.Context, s *Session, id string) error {
	return e.Remove(ctx, s, domain.KindGanttTask, id)
}

func checkGanttLinks(d *domain.ProjectData, g domain.GanttTask) error {
	for _, dep := range g.Dependencies {
		if dep == g.ID {
			return domain.Invalid(domain.KindGanttTask, "dependencies", "cannot depend on itself")
		}
	}
	if err := checkLinks(d, domain.KindGanttTask, "dependencies", domain.KindGanttTask, g.Dependencies); err != nil {
		return err
	}
	if g.TaskID == "" {
		return nil
	}
	return checkLinks(d, domain.KindGanttTask, "taskId", domain.KindTask, []string{g.TaskID})
}
