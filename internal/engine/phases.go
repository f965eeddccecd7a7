package engine

import (
	"context"
	"fmt"
	"slices"

	"planline/internal/domain"
	"planline/internal/rules"
)

// PhaseCreateOptions describes a new phase. Position is 1-based; zero appends.
type PhaseCreateOptions struct {
	Name        string
	Type        domain.PhaseType
	Description string
	Inputs      []string
	Outputs     []string
	Tools       []string
	IsCustom    bool
	Position    int
}

type PhaseUpdateOptions struct {
	ID          string
	Name        *string
	Type        *domain.PhaseType
	Description *string
	Inputs      *[]string
	Outputs     *[]string
	Tools       *[]string
}

func (e Engine) AddPhase(ctx context.Context, s *Session, opts PhaseCreateOptions) (domain.Phase, error) {
	p := domain.Phase{
		ID:          e.id(),
		Name:        trim(opts.Name),
		Type:        opts.Type,
		Description: opts.Description,
		Inputs:      uniqueStrings(opts.Inputs),
		Outputs:     uniqueStrings(opts.Outputs),
		Tools:       uniqueStrings(opts.Tools),
		IsCustom:    opts.IsCustom || opts.Type == domain.PhaseCustom,
	}
	if p.Type == "" {
		p.Type = domain.PhaseCustom
		p.IsCustom = true
	}
	if err := p.Check(); err != nil {
		return domain.Phase{}, err
	}
	err := e.commit(ctx, s, "phase.add", func(d *domain.ProjectData) error {
		pos := len(d.Phases)
		if opts.Position > 0 && opts.Position <= len(d.Phases) {
			pos = opts.Position - 1
		}
		d.Phases = rules.RenumberPhases(insertedAt(d.Phases, pos, p))
		p = d.Phases[pos]
		if p.IsCustom && !slices.ContainsFunc(d.CustomPhases, func(c domain.Phase) bool { return c.Name == p.Name }) {
			tmpl := p
			tmpl.Order = 0
			d.CustomPhases = appended(d.CustomPhases, tmpl)
		}
		return nil
	})
	return p, err
}

func (e Engine) UpdatePhase(ctx context.Context, s *Session, opts PhaseUpdateOptions) (domain.Phase, error) {
	var out domain.Phase
	err := e.commit(ctx, s, "phase.update", func(d *domain.ProjectData) error {
		i, p, ok := find(d.Phases, opts.ID, domain.PhaseID)
		if !ok {
			return domain.Missing(domain.KindPhase, opts.ID)
		}
		setTrimmed(&p.Name, opts.Name)
		set(&p.Type, opts.Type)
		set(&p.Description, opts.Description)
		setList(&p.Inputs, opts.Inputs)
		setList(&p.Outputs, opts.Outputs)
		setList(&p.Tools, opts.Tools)
		if p.Type == domain.PhaseCustom {
			p.IsCustom = true
		}
		if err := p.Check(); err != nil {
			return err
		}
		d.Phases = replaced(d.Phases, i, p)
		out = p
		return nil
	})
	return out, err
}

// DeletePhase removes a phase and renumbers the rest to 1..N. Tasks keep their
// phaseId and read as unassigned.
func (e Engine) DeletePhase(ctx context.Context, s *Session, id string) error {
	return e.commit(ctx, s, "phase.delete", func(d *domain.ProjectData) error {
		if !removeRow(d, domain.KindPhase, id) {
			return errUnchanged
		}
		d.Phases = rules.RenumberPhases(d.Phases)
		return nil
	})
}

// ReorderPhases sets the phase sequence; ids must be exactly the existing phase ids.
func (e Engine) ReorderPhases(ctx context.Context, s *Session, ids []string) error {
	return e.commit(ctx, s, "phase.reorder", func(d *domain.ProjectData) error {
		existing := collections[domain.KindPhase].ids(d)
		if err := rules.CheckSameIDs(domain.KindPhase, existing, ids); err != nil {
			return err
		}
		d.Phases = rules.RenumberPhases(arrange(d.Phases, ids, domain.PhaseID))
		return nil
	})
}

// PhaseOf resolves a task's phase. A blank or dangling phaseId means unassigned.
func PhaseOf(d domain.ProjectData, t domain.Task) (domain.Phase, bool) {
	if t.PhaseID == "" {
		return domain.Phase{}, false
	}
	_, p, ok := find(d.Phases, t.PhaseID, domain.PhaseID)
	return p, ok
}

// PhasesInOrder returns a copy of the phases sorted by order.
func PhasesInOrder(d domain.ProjectData) []domain.Phase {
	out := slices.Clone(d.Phases)
	slices.SortStableFunc(out, func(a, b domain.Phase) int { return a.Order - b.Order })
	return out
}

func (e Engine) AddCustomPhase(ctx context.Context, s *Session, p domain.Phase) (domain.Phase, error) {
	p.ID = e.id()
	p.Name = trim(p.Name)
	p.Type = domain.PhaseCustom
	p.IsCustom = true
	p.Order = 0
	if err := p.Check(); err != nil {
		return domain.Phase{}, err
	}
	err := e.commit(ctx, s, "customPhase.add", func(d *domain.ProjectData) error {
		if slices.ContainsFunc(d.CustomPhases, func(c domain.Phase) bool { return c.Name == p.Name }) {
			return domain.Invalid(domain.KindPhase, "name", fmt.Sprintf("custom phase %q already exists", p.Name))
		}
		d.CustomPhases = appended(d.CustomPhases, p)
		return nil
	})
	return p, err
}

func (e Engine) DeleteCustomPhase(ctx context.Context, s *Session, id string) error {
	return e.commit(ctx, s, "customPhase.delete", func(d *domain.ProjectData) error {
		if domain.IndexOf(d.CustomPhases, id, domain.PhaseID) < 0 {
			return errUnchanged
		}
		d.CustomPhases = without(d.CustomPhases, func(p domain.Phase) bool { return p.ID == id })
		return nil
	})
}
