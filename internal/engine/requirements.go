package engine

import (
	"context"

	"planline/internal/domain"
)

type RequirementCreateOptions struct {
	Title       string
	Description string
	Type        domain.RequirementType
	Priority    domain.RequirementPriority
	Status      domain.RequirementStatus
	Source      string
	LinkedTasks []string
}

type RequirementUpdateOptions struct {
	ID          string
	Title       *string
	Description *string
	Type        *domain.RequirementType
	Priority    *domain.RequirementPriority
	Status      *domain.RequirementStatus
	Source      *string
	LinkedTasks *[]string
}

// AddRequirement requires both a title and a description.
func (e Engine) AddRequirement(ctx context.Context, s *Session, opts RequirementCreateOptions) (domain.Requirement, error) {
	now := e.now()
	r := domain.Requirement{
		ID:          e.id(),
		Title:       trim(opts.Title),
		Description: trim(opts.Description),
		Type:        opts.Type,
		Priority:    opts.Priority,
		Status:      opts.Status,
		Source:      trim(opts.Source),
		LinkedTasks: uniqueStrings(opts.LinkedTasks),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if r.Type == "" {
		r.Type = domain.RequirementFunctional
	}
	if r.Priority == "" {
		r.Priority = domain.RequirementShould
	}
	if r.Status == "" {
		r.Status = domain.RequirementDraft
	}
	if err := r.Check(); err != nil {
		return domain.Requirement{}, err
	}
	err := e.commit(ctx, s, "requirement.add", func(d *domain.ProjectData) error {
		if err := checkLinks(d, domain.KindRequirement, "linkedTasks", domain.KindTask, r.LinkedTasks); err != nil {
			return err
		}
		d.Requirements = appended(d.Requirements, r)
		return nil
	})
	return r, err
}

func (e Engine) UpdateRequirement(ctx context.Context, s *Session, opts RequirementUpdateOptions) (domain.Requirement, error) {
	var out domain.Requirement
	err := e.commit(ctx, s, "requirement.update", func(d *domain.ProjectData) error {
		i, r, ok := find(d.Requirements, opts.ID, domain.RequirementID)
		if !ok {
			return domain.Missing(domain.KindRequirement, opts.ID)
		}
		setTrimmed(&r.Title, opts.Title)
		setTrimmed(&r.Description, opts.Description)
		set(&r.Type, opts.Type)
		set(&r.Priority, opts.Priority)
		set(&r.Status, opts.Status)
		setTrimmed(&r.Source, opts.Source)
		setList(&r.LinkedTasks, opts.LinkedTasks)
		if err := r.Check(); err != nil {
			return err
		}
		if opts.LinkedTasks != nil {
			if err := checkLinks(d, domain.KindRequirement, "linkedTasks", domain.KindTask, r.LinkedTasks); err != nil {
				return err
			}
		}
		r.UpdatedAt = e.now()
		d.Requirements = replaced(d.Requirements, i, r)
		out = r
		return nil
	})
	return out, err
}

func (e Engine) DeleteRequirement(ctx context.Context, s *Session, id string) error {
	return e.Remove(ctx, s, domain.KindRequirement, id)
}
