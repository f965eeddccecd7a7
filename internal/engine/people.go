package engine

import (
	"context"

	"planline/internal/domain"
)

type StakeholderOptions struct {
	Name         string
	Role         string
	Organization string
	Email        string
	Influence    domain.Level
	Interest     domain.Level
	Notes        string
}

type StakeholderUpdateOptions struct {
	ID           string
	Name         *string
	Role         *string
	Organization *string
	Email        *string
	Influence    *domain.Level
	Interest     *domain.Level
	Notes        *string
}

func (e Engine) AddStakeholder(ctx context.Context, s *Session, opts StakeholderOptions) (domain.Stakeholder, error) {
	st := domain.Stakeholder{
		ID:           e.id(),
		Name:         trim(opts.Name),
		Role:         trim(opts.Role),
		Organization: trim(opts.Organization),
		Email:        trim(opts.Email),
		Influence:    opts.Influence,
		Interest:     opts.Interest,
		Notes:        opts.Notes,
	}
	if st.Influence == "" {
		st.Influence = domain.LevelMedium
	}
	if st.Interest == "" {
		st.Interest = domain.LevelMedium
	}
	if err := st.Check(); err != nil {
		return domain.Stakeholder{}, err
	}
	err := e.commit(ctx, s, "stakeholder.add", func(d *domain.ProjectData) error {
		d.Stakeholders = appended(d.Stakeholders, st)
		return nil
	})
	return st, err
}

func (e Engine) UpdateStakeholder(ctx context.Context, s *Session, opts StakeholderUpdateOptions) (domain.Stakeholder, error) {
	var out domain.Stakeholder
	err := e.commit(ctx, s, "stakeholder.update", func(d *domain.ProjectData) error {
		i, st, ok := find(d.Stakeholders, opts.ID, domain.StakeholderID)
		if !ok {
			return domain.Missing(domain.KindStakeholder, opts.ID)
		}
		setTrimmed(&st.Name, opts.Name)
		setTrimmed(&st.Role, opts.Role)
		setTrimmed(&st.Organization, opts.Organization)
		setTrimmed(&st.Email, opts.Email)
		set(&st.Influence, opts.Influence)
		set(&st.Interest, opts.Interest)
		set(&st.Notes, opts.Notes)
		if err := st.Check(); err != nil {
			return err
		}
		d.Stakeholders = replaced(d.Stakeholders, i, st)
		out = st
		return nil
	})
	return out, err
}

func (e Engine) DeleteStakeholder(ctx context.Context, s *Session, id string) error {
	return e.Remove(ctx, s, domain.KindStakeholder, id)
}

type TeamMemberOptions struct {
	Name  string
	Email string
	Role  string
}

type TeamMemberUpdateOptions struct {
	ID    string
	Name  *string
	Email *string
	Role  *string
}

func (e Engine) AddTeamMember(ctx context.Context, s *Session, opts TeamMemberOptions) (domain.TeamMember, error) {
	m := domain.TeamMember{
		ID:    e.id(),
		Name:  trim(opts.Name),
		Email: trim(opts.Email),
		Role:  trim(opts.Role),
	}
	if err := m.Check(); err != nil {
		return domain.TeamMember{}, err
	}
	err := e.commit(ctx, s, "teamMember.add", func(d *domain.ProjectData) error {
		d.TeamMembers = appended(d.TeamMembers, m)
		return nil
	})
	return m, err
}

func (e Engine) UpdateTeamMember(ctx context.Context, s *Session, opts TeamMemberUpdateOptions) (domain.TeamMember, error) {
	var out domain.TeamMember
	err := e.commit(ctx, s, "teamMember.update", func(d *domain.ProjectData) error {
		i, m, ok := find(d.TeamMembers, opts.ID, domain.TeamMemberID)
		if !ok {
			return domain.Missing(domain.KindTeamMember, opts.ID)
		}
		setTrimmed(&m.Name, opts.Name)
		setTrimmed(&m.Email, opts.Email)
		setTrimmed(&m.Role, opts.Role)
		if err := m.Check(); err != nil {
			return err
		}
		d.TeamMembers = replaced(d.TeamMembers, i, m)
		out = m
		return nil
	})
	return out, err
}

func (e Engine) DeleteTeamMember(ctx context.Context, s *Session, id string) error {
	return e.Remove(ctx, s, domain.KindTeamMember, id)
}
