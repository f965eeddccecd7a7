// Package templates seeds a new project with the phase set of its delivery mode.
package templates

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"planline/internal/domain"
	"planline/internal/rules"
)

//go:embed seed/*.yml
var seedFS embed.FS

type seedPhase struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Inputs      []string `yaml:"inputs"`
	Outputs     []string `yaml:"outputs"`
	Tools       []string `yaml:"tools"`
}

type seed struct {
	Mode   string      `yaml:"mode"`
	Phases []seedPhase `yaml:"phases"`
}

func load(mode domain.ProjectMode) (seed, error) {
	if !mode.Valid() {
		return seed{}, domain.Invalid("project", "mode", fmt.Sprintf("unknown mode %q", mode))
	}
	raw, err := seedFS.ReadFile("seed/" + string(mode) + ".yml")
	if err != nil {
		return seed{}, fmt.Errorf("read seed %s: %w", mode, err)
	}
	var s seed
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return seed{}, fmt.Errorf("invalid seed yaml %s: %w", mode, err)
	}
	if s.Mode != string(mode) {
		return seed{}, fmt.Errorf("seed %s declares mode %q", mode, s.Mode)
	}
	return s, nil
}

// Generate returns a normalized snapshot holding the mode's phases, ordered 1..N.
func Generate(mode domain.ProjectMode, newID func() string) (domain.ProjectData, error) {
	s, err := load(mode)
	if err != nil {
		return domain.ProjectData{}, err
	}
	var d domain.ProjectData
	for _, sp := range s.Phases {
		p := domain.Phase{
			ID:          newID(),
			Name:        sp.Name,
			Type:        domain.PhaseType(sp.Type),
			Description: sp.Description,
			Inputs:      sp.Inputs,
			Outputs:     sp.Outputs,
			Tools:       sp.Tools,
		}
		if err := p.Check(); err != nil {
			return domain.ProjectData{}, fmt.Errorf("seed %s: %w", mode, err)
		}
		d.Phases = append(d.Phases, p)
	}
	d.Phases = rules.RenumberPhases(d.Phases)
	d.Normalize()
	return d, nil
}

// PhaseNames lists the seeded phase names of a mode in order.
func PhaseNames(mode domain.ProjectMode) ([]string, error) {
	s, err := load(mode)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(s.Phases))
	for i, p := range s.Phases {
		names[i] = p.Name
	}
	return names, nil
}
