package engine

import (
	"context"

	"planline/internal/domain"
	"planline/internal/rules"
)

type BacklogCreateOptions struct {
	Title       string
	Description string
	StoryPoints int
	Priority    domain.Priority
	Type        domain.BacklogType
	Status      domain.BacklogStatus
}

type BacklogUpdateOptions struct {
	ID          string
	Title       *string
	Description *string
	StoryPoints *int
	Priority    *domain.Priority
	Type        *domain.BacklogType
	Status      *domain.BacklogStatus
}

func (e Engine) AddBacklogItem(ctx context.Context, s *Session, opts BacklogCreateOptions) (domain.BacklogItem, error) {
	b := domain.BacklogItem{
		ID:          e.id(),
		Title:       trim(opts.Title),
		Description: opts.Description,
		StoryPoints: opts.StoryPoints,
		Priority:    opts.Priority,
		Type:        opts.Type,
		Status:      opts.Status,
		CreatedAt:   e.now(),
	}
	if b.Priority == "" {
		b.Priority = domain.PriorityMedium
	}
	if b.Type == "" {
		b.Type = domain.BacklogFeature
	}
	if b.Status == "" {
		b.Status = domain.BacklogNew
	}
	if err := b.Check(); err != nil {
		return domain.BacklogItem{}, err
	}
	err := e.commit(ctx, s, "backlog.add", func(d *domain.ProjectData) error {
		b.Order = nextOrder(d.Backlog)
		d.Backlog = appended(d.Backlog, b)
		return nil
	})
	return b, err
}

func (e Engine) UpdateBacklogItem(ctx context.Context, s *Session, opts BacklogUpdateOptions) (domain.BacklogItem, error) {
	var out domain.BacklogItem
	err := e.commit(ctx, s, "backlog.update", func(d *domain.ProjectData) error {
		i, b, ok := find(d.Backlog, opts.ID, domain.BacklogItemID)
		if !ok {
			return domain.Missing(domain.KindBacklogItem, opts.ID)
		}
		setTrimmed(&b.Title, opts.Title)
		set(&b.Description, opts.Description)
		set(&b.StoryPoints, opts.StoryPoints)
		set(&b.Priority, opts.Priority)
		set(&b.Type, opts.Type)
		set(&b.Status, opts.Status)
		if err := b.Check(); err != nil {
			return err
		}
		d.Backlog = replaced(d.Backlog, i, b)
		out = b
		return nil
	})
	return out, err
}

// DeleteBacklogItem removes the item from the backlog and every sprint, then
// closes the gap in the order sequence.
func (e Engine) DeleteBacklogItem(ctx context.Context, s *Session, id string) error {
	return e.commit(ctx, s, "backlog.delete", func(d *domain.ProjectData) error {
		if !removeRow(d, domain.KindBacklogItem, id) {
			return errUnchanged
		}
		d.Backlog = renumberBacklog(d.Backlog)
		return nil
	})
}

func (e Engine) ReorderBacklog(ctx context.Context, s *Session, ids []string) error {
	return e.commit(ctx, s, "backlog.reorder", func(d *domain.ProjectData) error {
		existing := collections[domain.KindBacklogItem].ids(d)
		if err := rules.CheckSameIDs(domain.KindBacklogItem, existing, ids); err != nil {
			return err
		}
		d.Backlog = renumberBacklog(arrange(d.Backlog, ids, domain.BacklogItemID))
		return nil
	})
}

func nextOrder(items []domain.BacklogItem) int {
	last := 0
	for _, b := range items {
		if b.Order > last {
			last = b.Order
		}
	}
	return last + 1
}

func renumberBacklog(items []domain.BacklogItem) []domain.BacklogItem {
	out := make([]domain.BacklogItem, len(items))
	for i, b := range items {
		b.Order = i + 1
		out[i] = b
	}
	return out
}
