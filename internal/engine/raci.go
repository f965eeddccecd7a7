package engine

import (
	"context"
	"fmt"
	"slices"

	"planline/internal/domain"
	"planline/internal/rules"
)

type RACICreateOptions struct {
	EntityType     domain.EntityKind
	EntityID       string
	Role           string
	Responsibility domain.Responsibility
}

type RACIUpdateOptions struct {
	ID             string
	Role           *string
	Responsibility *domain.Responsibility
}

// AddRACIEntry adds one role assignment. The target entity must exist, the role may
// appear once per entity and only one role per entity may be Accountable.
func (e Engine) AddRACIEntry(ctx context.Context, s *Session, opts RACICreateOptions) (domain.RACIEntry, error) {
	r := domain.RACIEntry{
		ID:             e.id(),
		EntityType:     opts.EntityType,
		EntityID:       trim(opts.EntityID),
		Role:           trim(opts.Role),
		Responsibility: opts.Responsibility,
	}
	if v, ok := domain.ParseResponsibility(string(r.Responsibility)); ok {
		r.Responsibility = v
	}
	if err := r.Check(); err != nil {
		return domain.RACIEntry{}, err
	}
	err := e.commit(ctx, s, "raci.add", func(d *domain.ProjectData) error {
		if !exists(d, r.EntityType, r.EntityID) {
			return domain.Missing(r.EntityType, r.EntityID)
		}
		if err := checkRACI(d.RACI, r); err != nil {
			return err
		}
		d.RACI = appended(d.RACI, r)
		return nil
	})
	if err != nil {
		return domain.RACIEntry{}, err
	}
	return r, nil
}

func (e Engine) UpdateRACIEntry(ctx context.Context, s *Session, opts RACIUpdateOptions) (domain.RACIEntry, error) {
	var out domain.RACIEntry
	err := e.commit(ctx, s, "raci.update", func(d *domain.ProjectData) error {
		i, r, ok := find(d.RACI, opts.ID, domain.RACIEntryID)
		if !ok {
			return domain.Missing(domain.KindRACIEntry, opts.ID)
		}
		setTrimmed(&r.Role, opts.Role)
		if opts.Responsibility != nil {
			v, ok := domain.ParseResponsibility(string(*opts.Responsibility))
			if !ok {
				return domain.Invalid(domain.KindRACIEntry, "responsibility", fmt.Sprintf("unknown responsibility %q", *opts.Responsibility))
			}
			r.Responsibility = v
		}
		if err := r.Check(); err != nil {
			return err
		}
		if err := checkRACI(d.RACI, r); err != nil {
			return err
		}
		d.RACI = replaced(d.RACI, i, r)
		out = r
		return nil
	})
	return out, err
}

func (e Engine) DeleteRACIEntry(ctx context.Context, s *Session, id string) error {
	return e.Remove(ctx, s, domain.KindRACIEntry, id)
}

func checkRACI(entries []domain.RACIEntry, r domain.RACIEntry) error {
	if err := rules.CheckRoleUnique(entries, r); err != nil {
		return err
	}
	return rules.CheckAccountable(entries, r)
}

// RACIFor lists the assignments of one entity in insertion order.
func RACIFor(d domain.ProjectData, kind domain.EntityKind, id string) []domain.RACIEntry {
	var out []domain.RACIEntry
	for _, r := range d.RACI {
		if r.EntityType == kind && r.EntityID == id {
			out = append(out, r)
		}
	}
	return out
}

// AddCustomRole registers a role name; adding an existing name is a no-op.
func (e Engine) AddCustomRole(ctx context.Context, s *Session, role string) error {
	role = trim(role)
	if role == "" {
		return domain.Invalid(domain.KindCustomRole, "name", "is required")
	}
	return e.commit(ctx, s, "customRole.add", func(d *domain.ProjectData) error {
		if slices.Contains(d.CustomRoles, role) {
			return errUnchanged
		}
		d.CustomRoles = appended(d.CustomRoles, role)
		return nil
	})
}

// DeleteCustomRole drops the role and every RACI entry assigned to it.
func (e Engine) DeleteCustomRole(ctx context.Context, s *Session, role string) error {
	return e.Remove(ctx, s, domain.KindCustomRole, trim(role))
}
