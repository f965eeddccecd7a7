package engine

import (
	"context"

	"planline/internal/domain"
)

type RiskCreateOptions struct {
	Title       string
	Description string
	Probability domain.Probability
	Impact      domain.Impact
	Response    domain.RiskResponse
	Owner       string
	Status      domain.RiskStatus
	LinkedTasks []string
}

type RiskUpdateOptions struct {
	ID          string
	Title       *string
	Description *string
	Probability *domain.Probability
	Impact      *domain.Impact
	Response    *domain.RiskResponse
	Owner       *string
	Status      *domain.RiskStatus
	LinkedTasks *[]string
}

// AddRisk stores a risk with its score derived from probability and impact.
func (e Engine) AddRisk(ctx context.Context, s *Session, opts RiskCreateOptions) (domain.Risk, error) {
	now := e.now()
	r := domain.Risk{
		ID:          e.id(),
		Title:       trim(opts.Title),
		Description: opts.Description,
		Probability: opts.Probability,
		Impact:      opts.Impact,
		Response:    opts.Response,
		Owner:       trim(opts.Owner),
		Status:      opts.Status,
		LinkedTasks: uniqueStrings(opts.LinkedTasks),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if r.Probability == "" {
		r.Probability = domain.ProbabilityMedium
	}
	if r.Impact == "" {
		r.Impact = domain.ImpactMedium
	}
	if r.Status == "" {
		r.Status = domain.RiskOpen
	}
	if err := r.Check(); err != nil {
		return domain.Risk{}, err
	}
	r.Score = domain.RiskScore(r.Probability, r.Impact)
	err := e.commit(ctx, s, "risk.add", func(d *domain.ProjectData) error {
		if err := checkLinks(d, domain.KindRisk, "linkedTasks", domain.KindTask, r.LinkedTasks); err != nil {
			return err
		}
		d.Risks = appended(d.Risks, r)
		return nil
	})
	return r, err
}

// UpdateRisk merges opts and re-derives the score.
func (e Engine) UpdateRisk(ctx context.Context, s *Session, opts RiskUpdateOptions) (domain.Risk, error) {
	var out domain.Risk
	err := e.commit(ctx, s, "risk.update", func(d *domain.ProjectData) error {
		i, r, ok := find(d.Risks, opts.ID, domain.RiskID)
		if !ok {
			return domain.Missing(domain.KindRisk, opts.ID)
		}
		setTrimmed(&r.Title, opts.Title)
		set(&r.Description, opts.Description)
		set(&r.Probability, opts.Probability)
		set(&r.Impact, opts.Impact)
		set(&r.Response, opts.Response)
		setTrimmed(&r.Owner, opts.Owner)
		set(&r.Status, opts.Status)
		setList(&r.LinkedTasks, opts.LinkedTasks)
		if err := r.Check(); err != nil {
			return err
		}
		if opts.LinkedTasks != nil {
			if err := checkLinks(d, domain.KindRisk, "linkedTasks", domain.KindTask, r.LinkedTasks); err != nil {
				return err
			}
		}
		r.Score = domain.RiskScore(r.Probability, r.Impact)
		r.UpdatedAt = e.now()
		d.Risks = replaced(d.Risks, i, r)
		out = r
		return nil
	})
	return out, err
}

func (e Engine) DeleteRisk(ctx context.Context, s *Session, id string) error {
	return e.Remove(ctx, s, domain.KindRisk, id)
}
